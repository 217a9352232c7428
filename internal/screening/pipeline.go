// Package screening contains the decision pipeline: an ordered cascade of
// cheap local checks followed by a concurrent race among external
// reputation providers.
package screening

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/acme/call-screening/internal/carrier"
	"github.com/acme/call-screening/internal/config"
	"github.com/acme/call-screening/internal/domain"
	"github.com/acme/call-screening/internal/repository"
	"github.com/acme/call-screening/internal/reputation"
	"github.com/acme/call-screening/internal/screening/pattern"
	"github.com/acme/call-screening/pkg/logger"
)

// ReputationSource resolves a number's spam reputation, typically by racing
// the configured providers behind a result cache.
type ReputationSource interface {
	IsSpam(ctx context.Context, normalized string, checkers []reputation.Checker, timeout time.Duration) bool
}

// NotificationSink receives the human-readable outcome of every evaluation.
type NotificationSink interface {
	Notify(ctx context.Context, verdict domain.Verdict)
	Disabled(ctx context.Context)
}

// Pipeline evaluates one call at a time. The cascade is strictly
// sequential; the provider race is its only point of concurrency. The
// pipeline itself only reads: implied writes come back as domain.Effects
// for the service layer to execute.
type Pipeline struct {
	lists    repository.NumberListStore
	contacts repository.ContactsDirectory
	carrier  carrier.Info
	source   ReputationSource
	sink     NotificationSink
	log      *logger.Logger
}

// NewPipeline wires the decision pipeline.
func NewPipeline(
	lists repository.NumberListStore,
	contacts repository.ContactsDirectory,
	carrierInfo carrier.Info,
	source ReputationSource,
	sink NotificationSink,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		lists:    lists,
		contacts: contacts,
		carrier:  carrierInfo,
		source:   source,
		sink:     sink,
		log:      log.Named("pipeline"),
	}
}

// Evaluate runs the cascade for one call and produces exactly one verdict.
// Storage read failures and provider faults degrade toward "not spam"; only
// stored data itself (whitelist, blocklist, patterns) can block.
func (p *Pipeline) Evaluate(ctx context.Context, policy config.PolicyConfig, details domain.CallDetails, checkers []reputation.Checker) (domain.Verdict, domain.Effects) {
	tracer := otel.Tracer("screening.pipeline")
	ctx, span := tracer.Start(ctx, "screening.evaluate")
	defer span.End()

	// 1. Global off-switch.
	if !policy.BlockingEnabled {
		p.sink.Disabled(ctx)
		return p.seal(ctx, span, policy, "", "", false, domain.ReasonNone, domain.Effects{})
	}

	raw := details.ResolveNumber()
	norm := domain.Normalize(raw)
	effects := domain.Effects{Audit: true}
	span.SetAttributes(attribute.String("call.number", norm))

	// 3. Hidden caller.
	if raw == "" {
		if policy.BlockHiddenNumbers {
			effects.SaveBlocked = true
			return p.seal(ctx, span, policy, raw, norm, true, domain.ReasonHiddenNumber, effects)
		}
		return p.seal(ctx, span, policy, raw, norm, false, domain.ReasonNone, effects)
	}

	// 4. Whitelist overrides everything below it.
	if ok, err := p.lists.IsWhitelisted(ctx, norm); err != nil {
		p.log.Warn("whitelist check failed", zap.Error(err))
	} else if ok {
		return p.seal(ctx, span, policy, raw, norm, false, domain.ReasonNone, effects)
	}

	// 5-6. Contact agenda. A directory failure disables both steps so a
	// storage outage can never block the whole agenda.
	if policy.ContactsPermission {
		isContact, err := p.contacts.IsContact(ctx, norm)
		switch {
		case err != nil:
			p.log.Warn("contacts lookup failed", zap.Error(err))
		case isContact:
			return p.seal(ctx, span, policy, raw, norm, false, domain.ReasonNone, effects)
		case policy.BlockNonContacts:
			effects.SaveBlocked = true
			return p.seal(ctx, span, policy, raw, norm, true, domain.ReasonNonContactPolicy, effects)
		}
	}

	// 7. Already on the blocklist. No re-persist.
	if blocked := p.isBlocked(ctx, norm, raw); blocked {
		return p.seal(ctx, span, policy, raw, norm, true, domain.ReasonAlreadyBlocked, effects)
	}

	// 8. User patterns, matched against the raw number.
	if policy.PatternBlocking {
		patterns, err := p.lists.Patterns(ctx)
		if err != nil {
			p.log.Warn("pattern load failed", zap.Error(err))
		} else if pattern.MatchesAny(raw, patterns) {
			effects.SaveBlocked = true
			return p.seal(ctx, span, policy, raw, norm, true, domain.ReasonPatternMatch, effects)
		}
	}

	// 9. Carrier verification signal.
	if policy.CarrierRiskFilter && details.VerificationFailed {
		effects.SaveBlocked = true
		return p.seal(ctx, span, policy, raw, norm, true, domain.ReasonCarrierRiskSignal, effects)
	}

	// 10. International-call policy. Parse failures count as domestic.
	if policy.BlockInternational && policy.PhoneStatePermission {
		home, err := p.carrier.HomeCountry(ctx)
		if err != nil {
			p.log.Warn("home country lookup failed", zap.Error(err))
		} else if isInternational(raw, home) {
			effects.SaveBlocked = true
			return p.seal(ctx, span, policy, raw, norm, true, domain.ReasonInternational, effects)
		}
	}

	// 11. Provider race.
	if p.source.IsSpam(ctx, norm, checkers, policy.RaceTimeout) {
		effects.SaveBlocked = true
		return p.seal(ctx, span, policy, raw, norm, true, domain.ReasonProviderMatch, effects)
	}

	// A clean race can rehabilitate a previously blocked number.
	if policy.RehabilitateOnClean {
		effects.Unblock = true
	}
	return p.seal(ctx, span, policy, raw, norm, false, domain.ReasonNone, effects)
}

func (p *Pipeline) isBlocked(ctx context.Context, norm, raw string) bool {
	blocked, err := p.lists.IsBlocked(ctx, norm)
	if err != nil {
		p.log.Warn("blocklist check failed", zap.Error(err))
		return false
	}
	if blocked {
		return true
	}
	if raw == norm {
		return false
	}
	blocked, err = p.lists.IsBlocked(ctx, raw)
	if err != nil {
		p.log.Warn("blocklist check failed", zap.Error(err))
		return false
	}
	return blocked
}

func (p *Pipeline) seal(ctx context.Context, span trace.Span, policy config.PolicyConfig, raw, norm string, isSpam bool, reason domain.Reason, effects domain.Effects) (domain.Verdict, domain.Effects) {
	action := domain.ActionAllow
	if isSpam {
		action = domain.ActionReject
		if policy.MuteInsteadOfBlock {
			action = domain.ActionMute
		}
	}

	verdict := domain.Verdict{
		ID:          uuid.New(),
		Number:      raw,
		Normalized:  norm,
		IsSpam:      isSpam,
		Reason:      reason,
		Action:      action,
		EvaluatedAt: time.Now().UTC(),
	}

	span.SetAttributes(
		attribute.Bool("verdict.spam", isSpam),
		attribute.String("verdict.reason", string(reason)),
	)

	p.sink.Notify(ctx, verdict)
	return verdict, effects
}
