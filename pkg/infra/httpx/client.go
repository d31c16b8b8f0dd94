package httpx

import "net/http"

// Client abstracts the HTTP client used by remote classifiers so tests can
// substitute a mock.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
