package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInvoice(t *testing.T) {
	inv := NewInvoice(50, 123)

	assert.Equal(t, "Donate 50 Stars", inv.Title)
	assert.Equal(t, "donation_50_123", inv.Payload)
	assert.Equal(t, "XTR", inv.Currency)
	assert.Equal(t, 5000, inv.Price)
	assert.NotEmpty(t, inv.Description)
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		amount  int
		userID  int64
		ok      bool
	}{
		{name: "valid", payload: "donation_10_42", amount: 10, userID: 42, ok: true},
		{name: "round trip", payload: FormatPayload(7, 99), amount: 7, userID: 99, ok: true},
		{name: "wrong prefix", payload: "tip_10_42", ok: false},
		{name: "missing user", payload: "donation_10", ok: false},
		{name: "bad amount", payload: "donation_x_42", ok: false},
		{name: "bad user", payload: "donation_10_y", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, userID, ok := ParsePayload(tt.payload)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.amount, amount)
			assert.Equal(t, tt.userID, userID)
		})
	}
}

func TestStarsFromMinor(t *testing.T) {
	assert.Equal(t, 50, StarsFromMinor(5000))
	assert.Equal(t, 0, StarsFromMinor(0))
}

func TestDonorName(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		username  string
		expected  string
	}{
		{name: "both", firstName: "Ann", username: "ann", expected: "Ann @ann"},
		{name: "first name only", firstName: "Ann", expected: "Ann"},
		{name: "username only", username: "ann", expected: "@ann"},
		{name: "missing user row", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DonationView{FirstName: tt.firstName, Username: tt.username}
			assert.Equal(t, tt.expected, d.DonorName())
		})
	}
}
