// Package notify renders verdicts as human-readable notifications.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/acme/call-screening/internal/domain"
	"github.com/acme/call-screening/pkg/logger"
)

// LogSink reports screening outcomes through the structured log. It stands
// in for the device-side notification surface.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink builds a logging notification sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.Named("notify")}
}

// Notify reports one verdict.
func (s *LogSink) Notify(_ context.Context, verdict domain.Verdict) {
	s.log.Info("call screened",
		zap.String("number", verdict.Normalized),
		zap.Bool("spam", verdict.IsSpam),
		zap.String("reason", string(verdict.Reason)),
		zap.String("action", string(verdict.Action)),
		zap.String("message", Message(verdict)),
	)
}

// Disabled reports that screening is switched off.
func (s *LogSink) Disabled(context.Context) {
	s.log.Info("call blocking is disabled, incoming call allowed")
}

// Message renders the user-facing explanation for a verdict.
func Message(verdict domain.Verdict) string {
	if !verdict.IsSpam {
		return "incoming call allowed"
	}

	switch verdict.Reason {
	case domain.ReasonHiddenNumber:
		return "blocked: caller hides their number"
	case domain.ReasonNonContactPolicy:
		return "blocked: caller is not in your contacts"
	case domain.ReasonAlreadyBlocked:
		return "blocked: number is on your blocklist"
	case domain.ReasonPatternMatch:
		return "blocked: number matches one of your patterns"
	case domain.ReasonCarrierRiskSignal:
		return "blocked: carrier could not verify this call"
	case domain.ReasonInternational:
		return "blocked: international caller"
	case domain.ReasonProviderMatch:
		return "blocked: number reported as spam"
	default:
		return fmt.Sprintf("blocked: %s", verdict.Reason)
	}
}
