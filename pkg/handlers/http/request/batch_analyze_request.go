package request

import (
	"fmt"

	"github.com/modsentry/modsentry/pkg/domain/moderation"
)

const maxBatchSize = 100

type BatchAnalyzeRequest struct {
	ContentItems []ContentData `json:"content_items"`
}

func (r *BatchAnalyzeRequest) Validate() error {
	if len(r.ContentItems) == 0 {
		return fmt.Errorf("content_items is required")
	}
	if len(r.ContentItems) > maxBatchSize {
		return fmt.Errorf("content_items exceeds the maximum batch size of %d", maxBatchSize)
	}
	for i := range r.ContentItems {
		if err := r.ContentItems[i].Validate(); err != nil {
			return fmt.Errorf("content item at index %d: %w", i, err)
		}
	}
	return nil
}

func (r *BatchAnalyzeRequest) ToItems() []*moderation.ContentItem {
	items := make([]*moderation.ContentItem, 0, len(r.ContentItems))
	for i := range r.ContentItems {
		items = append(items, r.ContentItems[i].ToItem())
	}
	return items
}
