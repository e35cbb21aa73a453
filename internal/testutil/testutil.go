package testutil

import (
	"time"

	"starsbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestSender creates a test sender
func NewTestSender(id int64) domain.Sender {
	return domain.Sender{
		ID:        id,
		Username:  "user",
		FirstName: "Test",
		LastName:  "User",
	}
}

// NewTestDonation creates a donation view as returned by the ledger
func NewTestDonation(id int64, userID int64, amount int, firstName, username string) domain.DonationView {
	return domain.DonationView{
		Donation: domain.Donation{
			ID:        id,
			UserID:    userID,
			Amount:    amount,
			Payload:   domain.FormatPayload(amount, userID),
			Timestamp: time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		Username:  username,
		FirstName: firstName,
	}
}
