package moderation

// ActionType is the final disposition for a content item.
type ActionType string

const (
	ActionAllow      ActionType = "allow"
	ActionWarn       ActionType = "warn"
	ActionFilter     ActionType = "filter"
	ActionBlock      ActionType = "block"
	ActionQuarantine ActionType = "quarantine"
	ActionEscalate   ActionType = "escalate"
)

// IsViolation reports whether the action counts toward violation statistics.
func (a ActionType) IsViolation() bool {
	return a != ActionAllow
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Action carries the disposition plus how it was derived. Enforced is false
// when the session runs with auto_action disabled; the decision is still
// computed, the caller just must not enforce it.
type Action struct {
	Action     ActionType `json:"action"`
	Reason     string     `json:"reason"`
	Severity   Severity   `json:"severity"`
	Confidence float64    `json:"confidence"`
	Enforced   bool       `json:"enforced"`
}
