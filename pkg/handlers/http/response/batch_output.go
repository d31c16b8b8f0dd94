package response

import "github.com/modsentry/modsentry/pkg/domain/moderation"

type BatchItemResult struct {
	Success  bool                       `json:"success"`
	Analysis *moderation.AnalysisRecord `json:"analysis,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

type BatchItemOutput struct {
	ContentID string          `json:"content_id"`
	Result    BatchItemResult `json:"result"`
}
