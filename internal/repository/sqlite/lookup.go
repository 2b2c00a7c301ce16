package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/discord-lookup/internal/model"
	"github.com/sakif/discord-lookup/internal/repository"
)

var _ repository.LookupRepository = (*DB)(nil)

// Record inserts one history row.
//
// xid ids start with a timestamp, so they sort by creation time; ListRecent
// uses that as the tie-breaker for rows recorded within the same instant.
func (db *DB) Record(ctx context.Context, lookup *model.Lookup) error {
	lookup.ID = xid.New().String()
	if lookup.SearchedAt.IsZero() {
		lookup.SearchedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO lookups (id, user_id, outcome, searched_at) VALUES (?, ?, ?, ?)`,
		lookup.ID,
		lookup.UserID,
		string(lookup.Outcome),
		lookup.SearchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: recording lookup: %w", err)
	}
	return nil
}

// ListRecent returns history rows newest first. opts is normalized, so a zero
// ListOptions yields the default page.
func (db *DB) ListRecent(ctx context.Context, opts repository.ListOptions) ([]model.Lookup, error) {
	opts = opts.Normalize()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, outcome, searched_at
		 FROM lookups
		 ORDER BY searched_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing lookups: %w", err)
	}
	defer rows.Close()

	// Empty slice, not nil: the handler encodes it as [] rather than null.
	lookups := []model.Lookup{}
	for rows.Next() {
		var (
			l       model.Lookup
			outcome string
		)
		if err := rows.Scan(&l.ID, &l.UserID, &outcome, &l.SearchedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning lookup: %w", err)
		}
		l.Outcome = model.Outcome(outcome)
		lookups = append(lookups, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating lookups: %w", err)
	}

	return lookups, nil
}
