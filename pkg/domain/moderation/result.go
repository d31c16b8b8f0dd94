package moderation

// FailureKind classifies why a single classifier call produced no scores.
type FailureKind string

const (
	FailureTimeout      FailureKind = "timeout"
	FailureUnavailable  FailureKind = "adapter_unavailable"
	FailureInvalidInput FailureKind = "invalid_input"
)

// ModelResult is the raw output of one classifier for one content item.
// Never mutated after creation.
type ModelResult struct {
	Classifier string       `json:"classifier"`
	Success    bool         `json:"success"`
	Scores     *ScoreVector `json:"scores,omitempty"`
	Failure    FailureKind  `json:"failure,omitempty"`
	Error      string       `json:"error,omitempty"`
	LatencyMs  int64        `json:"latency_ms"`
}
