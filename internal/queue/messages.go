package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/acme/call-screening/internal/domain"
)

// VerdictMessage is the event emitted for every screened call. The audit
// worker consumes it to persist history and counters.
type VerdictMessage struct {
	VerdictID   uuid.UUID     `json:"verdict_id"`
	Number      string        `json:"number"`
	Normalized  string        `json:"normalized"`
	IsSpam      bool          `json:"is_spam"`
	Reason      domain.Reason `json:"reason"`
	Action      domain.Action `json:"action"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
}
