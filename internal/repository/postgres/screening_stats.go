package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acme/call-screening/internal/domain"
	"github.com/acme/call-screening/internal/repository"
)

// ScreeningStatsRepository implements repository.ScreeningStatsRepository.
// Counters live in a single row updated with atomic increments.
type ScreeningStatsRepository struct {
	db *sqlx.DB
}

// NewScreeningStatsRepository builds the repository.
func NewScreeningStatsRepository(db *sqlx.DB) *ScreeningStatsRepository {
	return &ScreeningStatsRepository{db: db}
}

// Ensure ensures the counter row exists.
func (r *ScreeningStatsRepository) Ensure(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO screening_statistics (id)
		VALUES (1) ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("screening stats: ensure: %w", err)
	}
	return nil
}

// Get retrieves the counters.
func (r *ScreeningStatsRepository) Get(ctx context.Context) (*domain.ScreeningStats, error) {
	row := r.db.QueryRowxContext(ctx, `SELECT total_screened, blocked, allowed,
		hidden_number, non_contact, blocklisted, pattern_match, carrier_risk, international, provider_match
		FROM screening_statistics WHERE id = 1`)

	var stats domain.ScreeningStats
	if err := row.StructScan(&stats); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("screening stats: get: %w", err)
	}
	return &stats, nil
}

// ApplyVerdict bumps the counters for one verdict.
func (r *ScreeningStatsRepository) ApplyVerdict(ctx context.Context, reason domain.Reason, isSpam bool) error {
	column := ""
	switch reason {
	case domain.ReasonHiddenNumber:
		column = "hidden_number"
	case domain.ReasonNonContactPolicy:
		column = "non_contact"
	case domain.ReasonAlreadyBlocked:
		column = "blocklisted"
	case domain.ReasonPatternMatch:
		column = "pattern_match"
	case domain.ReasonCarrierRiskSignal:
		column = "carrier_risk"
	case domain.ReasonInternational:
		column = "international"
	case domain.ReasonProviderMatch:
		column = "provider_match"
	}

	blockedDelta := 0
	allowedDelta := 1
	if isSpam {
		blockedDelta = 1
		allowedDelta = 0
	}

	q := `UPDATE screening_statistics SET
		total_screened = total_screened + 1,
		blocked = blocked + $1,
		allowed = allowed + $2,
		updated_at = NOW()
	WHERE id = 1`
	if column != "" {
		q = fmt.Sprintf(`UPDATE screening_statistics SET
			total_screened = total_screened + 1,
			blocked = blocked + $1,
			allowed = allowed + $2,
			%s = %s + 1,
			updated_at = NOW()
		WHERE id = 1`, column, column)
	}

	if _, err := r.db.ExecContext(ctx, q, blockedDelta, allowedDelta); err != nil {
		return fmt.Errorf("screening stats: apply verdict: %w", err)
	}
	return nil
}
