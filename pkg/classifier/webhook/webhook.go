package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/modsentry/modsentry/pkg/domain"
	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/modsentry/modsentry/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const (
	ClassifierName = "webhook"

	breakerTimeout     = 30 * time.Second
	breakerMaxFailures = 5
)

type Config struct {
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

// Request is the wire contract a remote classification service implements.
type Request struct {
	Content     string                 `json:"content"`
	ContentType string                 `json:"content_type"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Response mirrors Request: category scores in [0,1] plus a confidence.
// Unknown category keys are ignored.
type Response struct {
	Scores     map[string]float64 `json:"scores"`
	Confidence float64            `json:"confidence"`
}

// Classifier delegates scoring to an arbitrary external service. Repeated
// failures trip the circuit breaker so a dead backend fails fast as
// adapter_unavailable instead of burning the per-call timeout.
type Classifier struct {
	client  httpx.Client
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
	config  Config
}

func NewClassifier(logger *logrus.Logger, client httpx.Client, settings map[string]interface{}) (*Classifier, error) {
	var cfg Config
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode webhook classifier config: %w", err)
	}
	if cfg.URL == "" {
		return nil, domain.NewInvalidConfigurationError("webhook URL must be specified")
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Classifier{
		client:  client,
		breaker: httpx.NewCircuitBreaker(logger, ClassifierName, breakerTimeout, breakerMaxFailures),
		logger:  logger,
		config:  cfg,
	}, nil
}

func (c *Classifier) Name() string {
	return ClassifierName
}

func (c *Classifier) Classify(ctx context.Context, item *moderation.ContentItem) (*moderation.ScoreVector, error) {
	if strings.TrimSpace(item.Content) == "" {
		return nil, fmt.Errorf("%w: empty content", domain.ErrInvalidInput)
	}

	var remote Response
	err := c.breaker.Execute(func() error {
		return c.call(ctx, item, &remote)
	})
	if err != nil {
		if errors.Is(err, httpx.ErrOpen) {
			return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrClassifierTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}

	scores := moderation.NewScoreVector()
	for name, score := range remote.Scores {
		category := moderation.Category(name)
		if _, ok := scores.Categories[category]; !ok {
			continue
		}
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		scores.Categories[category] = score
	}
	scores.Confidence = remote.Confidence
	return &scores, nil
}

func (c *Classifier) call(ctx context.Context, item *moderation.ContentItem, out *Response) error {
	payload, err := json.Marshal(Request{
		Content:     item.Content,
		ContentType: item.Type,
		Metadata:    item.Metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range c.config.Headers {
		httpReq.Header.Set(key, value)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d: %s", httpResp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal webhook response: %w", err)
	}
	return nil
}
