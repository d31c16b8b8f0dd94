package openaimod

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/modsentry/modsentry/pkg/domain"
	"github.com/modsentry/modsentry/pkg/domain/moderation"
	"github.com/modsentry/modsentry/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const (
	ClassifierName      = "openai_moderation"
	OpenAIModerationURL = "https://api.openai.com/v1/moderations"
	DefaultModel        = "omni-moderation-latest"

	// modelConfidence is reported for every successful call; the moderation
	// endpoint does not expose a confidence of its own.
	modelConfidence = 0.90
)

type Config struct {
	OpenAIKey string `mapstructure:"openai_key"`
	URL       string `mapstructure:"url"`
	Model     string `mapstructure:"model"`
}

type ModerationRequest struct {
	Input []ModerationInput `json:"input"`
	Model string            `json:"model,omitempty"`
}

type ModerationInput struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type ModerationResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Results []ModerationResult `json:"results"`
}

type ModerationResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// Classifier scores content against OpenAI's moderation endpoint and maps its
// native categories onto the canonical set.
type Classifier struct {
	client httpx.Client
	logger *logrus.Logger
	config Config
}

func NewClassifier(logger *logrus.Logger, client httpx.Client, settings map[string]interface{}) (*Classifier, error) {
	var cfg Config
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode openai moderation config: %w", err)
	}
	if cfg.OpenAIKey == "" {
		return nil, domain.NewInvalidConfigurationError("OpenAI API key must be specified")
	}
	if cfg.URL == "" {
		cfg.URL = OpenAIModerationURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Classifier{client: client, logger: logger, config: cfg}, nil
}

func (c *Classifier) Name() string {
	return ClassifierName
}

func (c *Classifier) Classify(ctx context.Context, item *moderation.ContentItem) (*moderation.ScoreVector, error) {
	if strings.TrimSpace(item.Content) == "" {
		return nil, fmt.Errorf("%w: empty content", domain.ErrInvalidInput)
	}

	payload, err := json.Marshal(ModerationRequest{
		Input: []ModerationInput{{Type: "text", Text: item.Content}},
		Model: c.config.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal moderation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.OpenAIKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrClassifierTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", domain.ErrClassifierUnavailable, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: OpenAI API returned status %d: %s", domain.ErrClassifierUnavailable, httpResp.StatusCode, string(body))
	}

	var moderationResp ModerationResponse
	if err := json.Unmarshal(body, &moderationResp); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal moderation response: %v", domain.ErrClassifierUnavailable, err)
	}
	if len(moderationResp.Results) == 0 {
		return nil, fmt.Errorf("%w: no moderation results returned", domain.ErrClassifierUnavailable)
	}

	scores := mapCategoryScores(moderationResp.Results[0].CategoryScores)
	return &scores, nil
}

// categoryMapping routes OpenAI's native category names onto the canonical
// set. Multiple native categories can feed one canonical category; the
// maximum wins.
var categoryMapping = map[string]moderation.Category{
	"hate":                   moderation.CategoryHateSpeech,
	"hate/threatening":       moderation.CategoryThreat,
	"harassment":             moderation.CategoryHarassment,
	"harassment/threatening": moderation.CategoryThreat,
	"violence":               moderation.CategoryViolence,
	"violence/graphic":       moderation.CategoryViolence,
	"sexual":                 moderation.CategoryAdultContent,
	"sexual/minors":          moderation.CategoryAdultContent,
	"illicit":                moderation.CategoryToxicity,
	"illicit/violent":        moderation.CategoryViolence,
	"self-harm":              moderation.CategoryToxicity,
	"self-harm/intent":       moderation.CategoryToxicity,
	"self-harm/instructions": moderation.CategoryToxicity,
}

func mapCategoryScores(native map[string]float64) moderation.ScoreVector {
	scores := moderation.NewScoreVector()

	var maxNative float64
	for name, score := range native {
		if score > maxNative {
			maxNative = score
		}
		category, ok := categoryMapping[name]
		if !ok {
			continue
		}
		if score > scores.Categories[category] {
			scores.Categories[category] = score
		}
	}

	// The endpoint has no dedicated toxicity signal; treat the strongest native
	// score as the toxicity floor.
	if maxNative > scores.Categories[moderation.CategoryToxicity] {
		scores.Categories[moderation.CategoryToxicity] = maxNative
	}

	scores.Confidence = modelConfidence
	return scores
}
