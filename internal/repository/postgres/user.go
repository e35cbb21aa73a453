package postgres

import (
	"context"
	"fmt"
	"time"

	"starsbot/internal/domain"
)

// UpsertUser creates user if not exists. Existing rows are never modified.
func (r *LedgerRepo) UpsertUser(ctx context.Context, user domain.User) (err error) {
	defer func(start time.Time) { observe("upsert_user", start, err) }(time.Now())

	query := `
		INSERT INTO users (user_id, username, first_name, last_name, first_seen)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err = r.db.ExecContext(ctx, query,
		user.UserID, user.Username, user.FirstName, user.LastName, user.FirstSeen,
	)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", user.UserID, err)
	}
	return nil
}
