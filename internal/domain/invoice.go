package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Currency is the Telegram Stars currency code
	Currency = "XTR"
	// MinorUnits is the number of minor units per Star sent to the payment API
	MinorUnits = 100

	invoiceDescription = "Thank you for supporting with Stars! This helps keep things going. ❤️"
	invoiceStart       = "donation-bot"
	priceLabel         = "Donation"
)

// Invoice is a payment request sent to a user
type Invoice struct {
	Title       string
	Description string
	Payload     string
	Currency    string
	PriceLabel  string
	Price       int // minor units
	Start       string
}

// NewInvoice builds a donation invoice for amount Stars requested by userID
func NewInvoice(amount int, userID int64) Invoice {
	return Invoice{
		Title:       fmt.Sprintf("Donate %d Stars", amount),
		Description: invoiceDescription,
		Payload:     FormatPayload(amount, userID),
		Currency:    Currency,
		PriceLabel:  priceLabel,
		Price:       amount * MinorUnits,
		Start:       invoiceStart,
	}
}

// FormatPayload encodes amount and user into an invoice payload
func FormatPayload(amount int, userID int64) string {
	return fmt.Sprintf("donation_%d_%d", amount, userID)
}

// ParsePayload decodes an invoice payload. It is informational only.
func ParsePayload(payload string) (amount int, userID int64, ok bool) {
	parts := strings.Split(payload, "_")
	if len(parts) != 3 || parts[0] != "donation" {
		return 0, 0, false
	}
	amount, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	userID, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return amount, userID, true
}

// StarsFromMinor converts a confirmed payment total into Stars
func StarsFromMinor(total int) int {
	return total / MinorUnits
}
