package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Fingerprint identifies a content submission for result-cache lookups: the
// normalized text, the declared content type and the enabled classifier set.
// Two submissions with the same fingerprint would produce the same analysis.
type Fingerprint struct {
	Content     string
	ContentType string
	Classifiers []string
}

// ID returns a stable hex digest. Text is case-folded and whitespace-collapsed
// so trivially reformatted resubmissions still hit the cache.
func (f Fingerprint) ID() string {
	normalized := strings.ToLower(strings.Join(strings.Fields(f.Content), " "))

	classifiers := append([]string(nil), f.Classifiers...)
	sort.Strings(classifiers)

	h := sha256.New()
	h.Write([]byte(normalized))
	h.Write([]byte{'|'})
	h.Write([]byte(f.ContentType))
	h.Write([]byte{'|'})
	h.Write([]byte(strings.Join(classifiers, ",")))
	return hex.EncodeToString(h.Sum(nil))
}
