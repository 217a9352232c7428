package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reason explains why a verdict was reached. It is always set when a call is
// classified as spam.
type Reason string

const (
	ReasonNone              Reason = "none"
	ReasonHiddenNumber      Reason = "hidden_number"
	ReasonNonContactPolicy  Reason = "non_contact_policy"
	ReasonAlreadyBlocked    Reason = "already_blocked"
	ReasonPatternMatch      Reason = "pattern_match"
	ReasonCarrierRiskSignal Reason = "carrier_risk_signal"
	ReasonInternational     Reason = "international_policy"
	ReasonProviderMatch     Reason = "provider_match"
)

// Action is the disposition reported back to the call interceptor.
type Action string

const (
	ActionAllow  Action = "allow"
	ActionMute   Action = "mute"
	ActionReject Action = "reject"
)

// CallDetails is the raw call-detail record handed over by the interception
// layer. The number may be present in any of several optional fields.
type CallDetails struct {
	Handle             string `json:"handle"`
	GatewayAddress     string `json:"gateway_address"`
	IntentAddress      string `json:"intent_address"`
	DirectNumber       string `json:"direct_number"`
	VerificationFailed bool   `json:"verification_failed"`
}

// ResolveNumber walks the extraction chain and returns the first number
// present: direct input, telecom handle, gateway original address, intent
// extra. An empty result means a hidden caller.
func (c CallDetails) ResolveNumber() string {
	for _, candidate := range []string{c.DirectNumber, c.Handle, c.GatewayAddress, c.IntentAddress} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// Normalize strips every non-digit rune from a number. The raw form is kept
// alongside for pattern matching and provider lookups.
func Normalize(number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Verdict is the immutable outcome of one call evaluation.
type Verdict struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"number"`
	Normalized  string    `json:"normalized"`
	IsSpam      bool      `json:"is_spam"`
	Reason      Reason    `json:"reason"`
	Action      Action    `json:"action"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Effects lists the storage side effects the decision implies. The pipeline
// computes them; the service layer executes them after the verdict is sealed.
type Effects struct {
	SaveBlocked bool
	Unblock     bool
	// Audit is false only when blocking is globally disabled, where the
	// contract demands no side effects at all.
	Audit bool
}

// VerdictRecord is the audit-trail representation of a verdict.
type VerdictRecord struct {
	ID          uuid.UUID
	Number      string
	IsSpam      bool
	Reason      Reason
	Action      Action
	EvaluatedAt time.Time
}

// ScreeningStats aggregates screening counters.
type ScreeningStats struct {
	TotalScreened int64 `db:"total_screened" json:"total_screened"`
	Blocked       int64 `db:"blocked" json:"blocked"`
	Allowed       int64 `db:"allowed" json:"allowed"`
	HiddenNumber  int64 `db:"hidden_number" json:"hidden_number"`
	NonContact    int64 `db:"non_contact" json:"non_contact"`
	Blocklisted   int64 `db:"blocklisted" json:"blocklisted"`
	PatternMatch  int64 `db:"pattern_match" json:"pattern_match"`
	CarrierRisk   int64 `db:"carrier_risk" json:"carrier_risk"`
	International int64 `db:"international" json:"international"`
	ProviderMatch int64 `db:"provider_match" json:"provider_match"`
}
