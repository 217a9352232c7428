package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/acme/call-screening/internal/repository"
)

// ContactsDirectory implements repository.ContactsDirectory on PostgreSQL.
// The table holds the device's synced contact agenda keyed by normalized
// number.
type ContactsDirectory struct {
	db *sqlx.DB
}

// NewContactsDirectory constructs the directory.
func NewContactsDirectory(db *sqlx.DB) *ContactsDirectory {
	return &ContactsDirectory{db: db}
}

// IsContact reports whether the normalized number belongs to a known
// contact.
func (d *ContactsDirectory) IsContact(ctx context.Context, normalized string) (bool, error) {
	var exists bool
	err := d.db.QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM contacts WHERE phone_number = $1)`, normalized,
	).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("contacts: lookup: %w", err)
	}
	return exists, nil
}

// ReplaceAll swaps the whole agenda in one transaction, as delivered by a
// device sync.
func (d *ContactsDirectory) ReplaceAll(ctx context.Context, contacts []repository.ContactRecord) error {
	return withTx(ctx, d.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
			return fmt.Errorf("contacts: clear: %w", err)
		}

		if len(contacts) == 0 {
			return nil
		}

		q := `INSERT INTO contacts (phone_number, display_name, synced_at)
			VALUES (:phone_number, :display_name, :synced_at)
			ON CONFLICT (phone_number) DO UPDATE SET display_name = EXCLUDED.display_name, synced_at = EXCLUDED.synced_at`

		now := time.Now().UTC()
		rows := make([]map[string]any, 0, len(contacts))
		for _, c := range contacts {
			if c.Normalized == "" {
				continue
			}
			rows = append(rows, map[string]any{
				"phone_number": c.Normalized,
				"display_name": c.DisplayName,
				"synced_at":    now,
			})
		}

		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NamedExecContext(ctx, q, rows); err != nil {
			return fmt.Errorf("contacts: bulk insert: %w", err)
		}
		return nil
	})
}

// Count returns the agenda size.
func (d *ContactsDirectory) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := d.db.QueryRowxContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("contacts: count: %w", err)
	}
	return count, nil
}
