package scylla

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/acme/call-screening/internal/domain"
)

// VerdictStore persists the verdict audit trail in Scylla, partitioned by
// day bucket so recent history stays cheap to read.
type VerdictStore struct {
	session *gocql.Session
}

// NewVerdictStore creates a new verdict store.
func NewVerdictStore(session *gocql.Session) *VerdictStore {
	return &VerdictStore{session: session}
}

// Append inserts one verdict record.
func (s *VerdictStore) Append(ctx context.Context, record domain.VerdictRecord) error {
	bucket := bucketDate(record.EvaluatedAt)
	if err := s.session.Query(`INSERT INTO verdicts_by_day (bucket, evaluated_at, verdict_id, phone_number, is_spam, reason, action)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bucket, record.EvaluatedAt, record.ID.String(), record.Number, record.IsSpam, string(record.Reason), string(record.Action),
	).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("verdict store: insert: %w", err)
	}
	return nil
}

// ListRecent returns today's verdicts newest first, with an opaque paging
// state for continuation.
func (s *VerdictStore) ListRecent(ctx context.Context, limit int, pagingState []byte) ([]domain.VerdictRecord, []byte, error) {
	if limit <= 0 {
		limit = 50
	}

	bucket := bucketDate(time.Now().UTC())
	query := s.session.Query(`SELECT bucket, evaluated_at, verdict_id, phone_number, is_spam, reason, action
		FROM verdicts_by_day WHERE bucket = ?`, bucket).
		WithContext(ctx).
		PageSize(limit).
		PageState(pagingState)

	iter := query.Iter()

	var (
		records     []domain.VerdictRecord
		bucketOut   time.Time
		evaluatedAt time.Time
		idStr       string
		phone       string
		isSpam      bool
		reason      string
		action      string
	)

	for iter.Scan(&bucketOut, &evaluatedAt, &idStr, &phone, &isSpam, &reason, &action) {
		id, err := uuid.Parse(idStr)
		if err != nil {
			iter.Close()
			return nil, nil, fmt.Errorf("verdict store: parse verdict_id: %w", err)
		}
		records = append(records, domain.VerdictRecord{
			ID:          id,
			Number:      phone,
			IsSpam:      isSpam,
			Reason:      domain.Reason(reason),
			Action:      domain.Action(action),
			EvaluatedAt: evaluatedAt,
		})
		if len(records) >= limit {
			break
		}
	}

	nextState := iter.PageState()
	if err := iter.Close(); err != nil {
		return nil, nil, fmt.Errorf("verdict store: list: %w", err)
	}

	return records, nextState, nil
}

func bucketDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
