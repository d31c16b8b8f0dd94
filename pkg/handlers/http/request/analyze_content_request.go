package request

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modsentry/modsentry/pkg/domain/moderation"
)

type ContentData struct {
	ContentID string                 `json:"content_id"`
	Content   string                 `json:"content"`
	Type      string                 `json:"type"`
	Metadata  map[string]interface{} `json:"metadata"`
}

func (d *ContentData) Validate() error {
	if d.Content == "" {
		return fmt.Errorf("content is required")
	}
	// The type list is open-ended. Types are opaque to the pipeline; they only
	// tag the item and feed the cache fingerprint.
	return nil
}

// ToItem normalizes the payload into a content item, assigning an ID when
// the caller did not supply one.
func (d *ContentData) ToItem() *moderation.ContentItem {
	id := d.ContentID
	if id == "" {
		id = uuid.New().String()
	}
	contentType := d.Type
	if contentType == "" {
		contentType = moderation.ContentTypeText
	}
	return &moderation.ContentItem{
		ID:          id,
		Content:     d.Content,
		Type:        contentType,
		Metadata:    d.Metadata,
		SubmittedAt: time.Now(),
	}
}

type AnalyzeContentRequest struct {
	ContentData ContentData `json:"content_data"`
}

func (r *AnalyzeContentRequest) Validate() error {
	return r.ContentData.Validate()
}
