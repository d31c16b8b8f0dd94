package session

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusStopped Status = "stopped"
)

type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Settings holds the per-session feature toggles the client exposes.
type Settings struct {
	MultiModelAnalysis bool `json:"multi_model_analysis" mapstructure:"multi_model_analysis"`
	CacheResults       bool `json:"cache_results" mapstructure:"cache_results"`
	UserNotifications  bool `json:"user_notifications" mapstructure:"user_notifications"`
}

// Options is the session configuration supplied at start time and fixed for
// the session's lifetime.
type Options struct {
	Mode        string      `json:"mode" mapstructure:"mode"`
	Sensitivity Sensitivity `json:"sensitivity" mapstructure:"sensitivity"`
	AutoAction  bool        `json:"auto_action" mapstructure:"auto_action"`
	RealTime    bool        `json:"real_time" mapstructure:"real_time"`
	AIModels    []string    `json:"ai_models" mapstructure:"ai_models"`
	Settings    Settings    `json:"settings" mapstructure:"settings"`
}

type Session struct {
	ID          string     `json:"session_id"`
	InterviewID string     `json:"interview_id"`
	UserID      string     `json:"user_id"`
	Options     Options    `json:"options"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StoppedAt   *time.Time `json:"stopped_at,omitempty"`
}

func New(interviewID, userID string, options Options) *Session {
	if options.Sensitivity == "" {
		options.Sensitivity = SensitivityMedium
	}
	return &Session{
		ID:          uuid.New().String(),
		InterviewID: interviewID,
		UserID:      userID,
		Options:     options,
		Status:      StatusActive,
		CreatedAt:   time.Now(),
	}
}
