package repository

import (
	"context"

	"github.com/acme/call-screening/internal/domain"
	apperrors "github.com/acme/call-screening/pkg/errors"
)

var (
	// ErrNotFound indicates the entity was not located.
	ErrNotFound = apperrors.ErrNotFound
	// ErrConflict indicates a unique constraint violation.
	ErrConflict = apperrors.ErrConflict
)

// NumberListStore manages the whitelist, the blocklist and the block
// patterns the cascade consults. Membership is keyed on normalized numbers.
type NumberListStore interface {
	IsWhitelisted(ctx context.Context, number string) (bool, error)
	AddWhitelisted(ctx context.Context, number string) error
	RemoveWhitelisted(ctx context.Context, number string) error
	Whitelist(ctx context.Context) ([]string, error)

	IsBlocked(ctx context.Context, number string) (bool, error)
	AddBlocked(ctx context.Context, number string) error
	RemoveBlocked(ctx context.Context, number string) error
	Blocklist(ctx context.Context) ([]string, error)

	Patterns(ctx context.Context) ([]string, error)
	AddPattern(ctx context.Context, pattern string) error
	RemovePattern(ctx context.Context, pattern string) error
}

// ContactsDirectory answers agenda membership for incoming numbers and
// accepts bulk synchronizations from the device.
type ContactsDirectory interface {
	IsContact(ctx context.Context, normalized string) (bool, error)
	ReplaceAll(ctx context.Context, contacts []ContactRecord) error
	Count(ctx context.Context) (int64, error)
}

// VerdictStore keeps the audit trail of produced verdicts.
type VerdictStore interface {
	Append(ctx context.Context, record domain.VerdictRecord) error
	ListRecent(ctx context.Context, limit int, pagingState []byte) ([]domain.VerdictRecord, []byte, error)
}

// ScreeningStatsRepository keeps aggregate screening counters.
type ScreeningStatsRepository interface {
	Ensure(ctx context.Context) error
	Get(ctx context.Context) (*domain.ScreeningStats, error)
	ApplyVerdict(ctx context.Context, reason domain.Reason, isSpam bool) error
}

// ContactRecord is the storage representation of one synced contact.
type ContactRecord struct {
	Normalized  string
	DisplayName string
}
