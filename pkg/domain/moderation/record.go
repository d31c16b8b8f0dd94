package moderation

import "time"

// AnalysisRecord is the unit returned to callers and folded into session
// statistics: the submitted item, every classifier's raw output, the merged
// scores and the final action. Never mutated after creation.
type AnalysisRecord struct {
	Item             ContentItem            `json:"content"`
	ModelResults     map[string]ModelResult `json:"ai_analysis"`
	Scores           ScoreVector            `json:"scores"`
	Action           Action                 `json:"final_action"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
	Degraded         bool                   `json:"degraded"`
	Cached           bool                   `json:"cached"`
	CompletedAt      time.Time              `json:"completed_at"`
}
