// Package screening orchestrates one call evaluation: policy snapshot,
// pipeline run, then the side effects the verdict implies.
package screening

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/acme/call-screening/internal/config"
	"github.com/acme/call-screening/internal/domain"
	"github.com/acme/call-screening/internal/queue"
	"github.com/acme/call-screening/internal/repository"
	"github.com/acme/call-screening/internal/reputation"
	corescreening "github.com/acme/call-screening/internal/screening"
	"github.com/acme/call-screening/internal/screening/race"
	"github.com/acme/call-screening/pkg/logger"
)

// CheckerSource supplies the active checker set for one evaluation.
type CheckerSource interface {
	ActiveSet() []reputation.Checker
}

// Publisher emits verdict events for downstream consumers.
type Publisher interface {
	PublishVerdict(ctx context.Context, msg queue.VerdictMessage) error
}

// Service runs the pipeline and applies its effects. Side-effect failures
// are logged and never alter the verdict.
type Service struct {
	pipeline  *corescreening.Pipeline
	lists     repository.NumberListStore
	registry  CheckerSource
	publisher Publisher
	policy    config.PolicyConfig
	log       *logger.Logger
}

// NewService builds the screening service.
func NewService(
	pipeline *corescreening.Pipeline,
	lists repository.NumberListStore,
	registry CheckerSource,
	publisher Publisher,
	policy config.PolicyConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		pipeline:  pipeline,
		lists:     lists,
		registry:  registry,
		publisher: publisher,
		policy:    policy,
		log:       log.Named("screening"),
	}
}

// Screen evaluates one incoming call and returns the verdict. The checker
// set is rebuilt per call so provider configuration changes take effect
// immediately.
func (s *Service) Screen(ctx context.Context, details domain.CallDetails) (*domain.Verdict, error) {
	checkers := s.registry.ActiveSet()
	verdict, effects := s.pipeline.Evaluate(ctx, s.policy, details, checkers)

	if effects.SaveBlocked {
		if err := s.lists.AddBlocked(ctx, verdict.Normalized); err != nil {
			s.log.Error("persist blocked number", zap.String("number", verdict.Normalized), zap.Error(err))
		}
	}
	if effects.Unblock {
		if err := s.lists.RemoveBlocked(ctx, verdict.Normalized); err != nil {
			s.log.Error("rehabilitate number", zap.String("number", verdict.Normalized), zap.Error(err))
		}
	}

	if effects.Audit && s.publisher != nil {
		msg := queue.VerdictMessage{
			VerdictID:   verdict.ID,
			Number:      verdict.Number,
			Normalized:  verdict.Normalized,
			IsSpam:      verdict.IsSpam,
			Reason:      verdict.Reason,
			Action:      verdict.Action,
			EvaluatedAt: verdict.EvaluatedAt,
		}
		if err := s.publisher.PublishVerdict(ctx, msg); err != nil {
			s.log.Error("publish verdict", zap.Error(err))
		}
	}

	return &verdict, nil
}

// RaceSource adapts the race evaluator into the pipeline's reputation
// source, with an optional result cache in front of the external lookups.
type RaceSource struct {
	evaluator *race.Evaluator
	cache     *reputation.Cache
	enabled   bool
	log       *logger.Logger
}

// NewRaceSource builds the source. Pass a nil cache or enabled=false to
// always hit the providers.
func NewRaceSource(evaluator *race.Evaluator, cache *reputation.Cache, enabled bool, log *logger.Logger) *RaceSource {
	return &RaceSource{
		evaluator: evaluator,
		cache:     cache,
		enabled:   enabled && cache != nil,
		log:       log.Named("repsource"),
	}
}

// IsSpam resolves the number's reputation. Cache errors fall through to the
// live race; timed-out races are not cached so a provider outage cannot
// pin a stale negative.
func (r *RaceSource) IsSpam(ctx context.Context, normalized string, checkers []reputation.Checker, timeout time.Duration) bool {
	if len(checkers) == 0 {
		return false
	}

	if r.enabled {
		spam, ok, err := r.cache.Get(ctx, normalized)
		if err != nil {
			r.log.Warn("reputation cache read", zap.Error(err))
		} else if ok {
			return spam
		}
	}

	outcome := r.evaluator.Run(ctx, checkers, normalized, timeout)

	if r.enabled && !outcome.TimedOut {
		if err := r.cache.Put(ctx, normalized, outcome.Spam); err != nil {
			r.log.Warn("reputation cache write", zap.Error(err))
		}
	}

	return outcome.Spam
}
