package postgres

import (
	"context"
	"fmt"
	"time"

	"starsbot/internal/domain"
)

// AppendDonation inserts a donation and returns its id
func (r *LedgerRepo) AppendDonation(ctx context.Context, d domain.Donation) (id int64, err error) {
	defer func(start time.Time) { observe("append_donation", start, err) }(time.Now())

	query := `
		INSERT INTO donations (user_id, amount, payload, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query, d.UserID, d.Amount, d.Payload, d.Timestamp).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("append donation for user %d: %w", d.UserID, err)
	}
	return id, nil
}

// GetTotals returns user count, Stars sum and donation count
func (r *LedgerRepo) GetTotals(ctx context.Context) (totals domain.Totals, err error) {
	defer func(start time.Time) { observe("get_totals", start, err) }(time.Now())

	query := `
		SELECT (SELECT COUNT(*) FROM users), COUNT(*), COALESCE(SUM(amount), 0)
		FROM donations
	`
	err = r.db.QueryRowContext(ctx, query).Scan(&totals.Users, &totals.Donations, &totals.Stars)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("get totals: %w", err)
	}
	return totals, nil
}

// GetRecentDonations returns the latest donations joined with donor names
func (r *LedgerRepo) GetRecentDonations(ctx context.Context, limit int) (views []domain.DonationView, err error) {
	defer func(start time.Time) { observe("get_recent_donations", start, err) }(time.Now())

	query := `
		SELECT d.id, d.user_id, d.amount, d.payload, d.timestamp,
			COALESCE(u.username, ''), COALESCE(u.first_name, '')
		FROM donations d
		LEFT JOIN users u ON u.user_id = d.user_id
		ORDER BY d.id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent donations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.DonationView
		if err = rows.Scan(&v.ID, &v.UserID, &v.Amount, &v.Payload, &v.Timestamp, &v.Username, &v.FirstName); err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		views = append(views, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donations: %w", err)
	}
	return views, nil
}
