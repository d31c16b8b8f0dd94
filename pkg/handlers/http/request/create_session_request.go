package request

import (
	"fmt"

	"github.com/modsentry/modsentry/pkg/domain/session"
)

type CreateSessionRequest struct {
	InterviewID string          `json:"interview_id"`
	UserID      string          `json:"user_id"`
	Options     session.Options `json:"options"`
}

func (r *CreateSessionRequest) Validate() error {
	if r.InterviewID == "" {
		return fmt.Errorf("interview_id is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if len(r.Options.AIModels) == 0 {
		return fmt.Errorf("options.ai_models is required")
	}
	switch r.Options.Sensitivity {
	case "", session.SensitivityLow, session.SensitivityMedium, session.SensitivityHigh:
	default:
		return fmt.Errorf("options.sensitivity must be one of 'low', 'medium' or 'high'")
	}
	return nil
}
