package domain

import (
	"errors"
	"time"
)

// ErrAccessDenied is returned when a non-admin requests ledger reports
var ErrAccessDenied = errors.New("access denied")

// Donation is an immutable ledger entry
type Donation struct {
	ID        int64
	UserID    int64
	Amount    int
	Payload   string
	Timestamp time.Time
}

// DonationView is a donation joined with the donor's names.
// Names are empty when the user row is missing.
type DonationView struct {
	Donation
	Username  string
	FirstName string
}

// DonorName returns a printable donor name
func (d DonationView) DonorName() string {
	return displayName(d.FirstName, d.Username)
}

// Totals holds ledger aggregates
type Totals struct {
	Users     int
	Stars     int64
	Donations int
}
