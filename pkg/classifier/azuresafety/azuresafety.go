package azuresafety

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
	ClassifierName = "azure_content_safety"

	// Azure reports severities 0-7 in EightSeverityLevels mode.
	maxSeverity = 7.0

	modelConfidence = 0.85
)

type Config struct {
	APIKey     string   `mapstructure:"api_key"`
	Endpoint   string   `mapstructure:"endpoint"`
	OutputType string   `mapstructure:"output_type"`
	Categories []string `mapstructure:"categories"`
}

type AzureRequest struct {
	Text       string   `json:"text"`
	Categories []string `json:"categories"`
	OutputType string   `json:"outputType"`
}

type AzureResponse struct {
	BlocklistsMatch    []string `json:"blocklistsMatch"`
	CategoriesAnalysis []struct {
		Category string `json:"category"`
		Severity int    `json:"severity"`
	} `json:"categoriesAnalysis"`
}

// Classifier scores content against the Azure Content Safety text API.
type Classifier struct {
	client httpx.Client
	logger *logrus.Logger
	config Config
}

func NewClassifier(logger *logrus.Logger, client httpx.Client, settings map[string]interface{}) (*Classifier, error) {
	var cfg Config
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode azure content safety config: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, domain.NewInvalidConfigurationError("Azure API key must be specified")
	}
	if cfg.Endpoint == "" {
		return nil, domain.NewInvalidConfigurationError("Azure endpoint must be specified")
	}
	if cfg.OutputType == "" {
		cfg.OutputType = "EightSeverityLevels"
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = []string{"Hate", "SelfHarm", "Sexual", "Violence"}
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

	payload, err := json.Marshal(AzureRequest{
		Text:       item.Content,
		Categories: c.config.Categories,
		OutputType: c.config.OutputType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal azure request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", c.config.APIKey)

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
		return nil, fmt.Errorf("%w: Azure API returned status %d: %s", domain.ErrClassifierUnavailable, httpResp.StatusCode, string(body))
	}

	var azureResp AzureResponse
	if err := json.Unmarshal(body, &azureResp); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal azure response: %v", domain.ErrClassifierUnavailable, err)
	}

	scores := moderation.NewScoreVector()
	for _, analysis := range azureResp.CategoriesAnalysis {
		score := float64(analysis.Severity) / maxSeverity
		for _, category := range mapAzureCategory(analysis.Category) {
			if score > scores.Categories[category] {
				scores.Categories[category] = score
			}
		}
	}
	scores.Confidence = modelConfidence
	return &scores, nil
}

// mapAzureCategory fans one Azure category into the canonical categories it
// evidences.
func mapAzureCategory(name string) []moderation.Category {
	switch name {
	case "Hate":
		return []moderation.Category{moderation.CategoryHateSpeech, moderation.CategoryToxicity}
	case "Sexual":
		return []moderation.Category{moderation.CategoryAdultContent}
	case "Violence":
		return []moderation.Category{moderation.CategoryViolence}
	case "SelfHarm":
		return []moderation.Category{moderation.CategoryToxicity}
	default:
		return nil
	}
}
