package classifier

import (
	"context"

	"github.com/modsentry/modsentry/pkg/domain/moderation"
)

// Classifier scores one unit of content against the canonical categories.
// Implementations are stateless and safe to call concurrently; a failure from
// one classifier must never abort its siblings. Failures are reported as
// domain.ErrClassifierTimeout, domain.ErrClassifierUnavailable or
// domain.ErrInvalidInput (possibly wrapped).
type Classifier interface {
	Name() string
	Classify(ctx context.Context, item *moderation.ContentItem) (*moderation.ScoreVector, error)
}
