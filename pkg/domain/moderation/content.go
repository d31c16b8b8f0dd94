package moderation

import "time"

// Category is one of the canonical risk categories every score vector reports.
type Category string

const (
	CategoryToxicity     Category = "toxicity"
	CategoryProfanity    Category = "profanity"
	CategoryHateSpeech   Category = "hate_speech"
	CategoryHarassment   Category = "harassment"
	CategoryThreat       Category = "threat"
	CategorySpam         Category = "spam"
	CategoryAdultContent Category = "adult_content"
	CategoryViolence     Category = "violence"
)

// Categories returns the canonical category set in a fixed evaluation order.
func Categories() []Category {
	return []Category{
		CategoryToxicity,
		CategoryProfanity,
		CategoryHateSpeech,
		CategoryHarassment,
		CategoryThreat,
		CategorySpam,
		CategoryAdultContent,
		CategoryViolence,
	}
}

// SevereCategories drive the weighted part of overall risk.
func SevereCategories() []Category {
	return []Category{CategoryToxicity, CategoryHateSpeech, CategoryThreat, CategoryViolence}
}

// SecondaryCategories contribute the averaged part of overall risk.
func SecondaryCategories() []Category {
	return []Category{CategoryProfanity, CategoryHarassment, CategorySpam, CategoryAdultContent}
}

const (
	ContentTypeText            = "text"
	ContentTypeChat            = "chat"
	ContentTypeComment         = "comment"
	ContentTypeVideoTranscript = "video_transcript"
)

// ContentItem is a single unit of submitted content. Immutable once submitted.
type ContentItem struct {
	ID          string                 `json:"content_id"`
	Content     string                 `json:"content"`
	Type        string                 `json:"type"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	SubmittedAt time.Time              `json:"submitted_at"`
}

// ScoreVector maps every canonical category to a score in [0,1] plus the
// derived overall risk and the mean classifier confidence.
type ScoreVector struct {
	Categories  map[Category]float64 `json:"categories"`
	OverallRisk float64              `json:"overall_risk"`
	Confidence  float64              `json:"confidence"`
}

// NewScoreVector returns a vector with every canonical category zeroed, so a
// missing classifier contribution reads as 0 rather than as an absent key.
func NewScoreVector() ScoreVector {
	categories := make(map[Category]float64, len(Categories()))
	for _, c := range Categories() {
		categories[c] = 0
	}
	return ScoreVector{Categories: categories}
}

func (v ScoreVector) Get(c Category) float64 {
	return v.Categories[c]
}
