package repository

import (
	"context"

	"starsbot/internal/domain"
)

// LedgerRepository defines user and donation ledger operations.
// Every call commits on its own.
type LedgerRepository interface {
	// UpsertUser inserts the user unless a row with the same id exists
	UpsertUser(ctx context.Context, user domain.User) error
	// AppendDonation inserts a donation and returns its store-assigned id
	AppendDonation(ctx context.Context, donation domain.Donation) (int64, error)
	GetTotals(ctx context.Context) (domain.Totals, error)
	// GetRecentDonations returns up to limit donations, most recent first
	GetRecentDonations(ctx context.Context, limit int) ([]domain.DonationView, error)
}

// StateRepository stores ephemeral per-user conversation state
type StateRepository interface {
	Get(ctx context.Context, userID int64) (domain.UserState, error)
	Set(ctx context.Context, userID int64, state domain.UserState) error
	Reset(ctx context.Context, userID int64) error
}
