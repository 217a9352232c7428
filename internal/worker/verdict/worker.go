// Package verdict implements the audit worker: it consumes verdict events
// and persists the audit trail and the screening counters.
package verdict

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/acme/call-screening/internal/app"
	"github.com/acme/call-screening/internal/domain"
	"github.com/acme/call-screening/internal/queue"
)

// Worker consumes verdict events and persists them.
type Worker struct {
	container *app.Container
}

// New creates a new audit worker.
func New(container *app.Container) *Worker {
	return &Worker{container: container}
}

// Run processes verdict events until the context is cancelled. Poison
// messages are committed and logged so the consumer never wedges.
func (w *Worker) Run(ctx context.Context) error {
	cfg := w.container.Config
	groupID := cfg.Kafka.ConsumerGroupID + "-audit"
	reader := w.container.Kafka.NewReader(cfg.Kafka.VerdictTopic, groupID)
	defer reader.Close()

	repos := w.container.Repositories()
	verdicts := repos.Verdicts
	stats := repos.Stats
	log := w.container.Logger

	if err := stats.Ensure(ctx); err != nil {
		log.Warn("audit worker: ensure stats row", zap.Error(err))
	}

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("audit worker: fetch", zap.Error(err))
			continue
		}

		var event queue.VerdictMessage
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("audit worker: unmarshal", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		tracer := otel.Tracer("screening.auditworker")
		sctx, span := tracer.Start(ctx, "verdict.audit", trace.WithAttributes(
			attribute.String("verdict.id", event.VerdictID.String()),
			attribute.String("verdict.reason", string(event.Reason)),
			attribute.Bool("verdict.spam", event.IsSpam),
		))

		record := domain.VerdictRecord{
			ID:          event.VerdictID,
			Number:      event.Normalized,
			IsSpam:      event.IsSpam,
			Reason:      event.Reason,
			Action:      event.Action,
			EvaluatedAt: event.EvaluatedAt,
		}
		if err := verdicts.Append(sctx, record); err != nil {
			span.RecordError(err)
			log.Error("audit worker: append verdict", zap.Error(err))
		}

		if err := stats.ApplyVerdict(sctx, event.Reason, event.IsSpam); err != nil {
			span.RecordError(err)
			log.Error("audit worker: apply stats", zap.Error(err))
		}

		if err := reader.CommitMessages(sctx, msg); err != nil {
			span.RecordError(err)
			log.Error("audit worker: commit", zap.Error(err))
		}
		span.End()
	}
}
