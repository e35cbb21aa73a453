package domain

import (
	"errors"
	"strconv"
	"strings"
)

// MaxAmount caps a single donation so that minor units never overflow
const MaxAmount = 1_000_000

// AmountStatus describes the outcome of parsing a free-text amount
type AmountStatus int

const (
	AmountOK AmountStatus = iota
	AmountInvalid
	AmountTooSmall
	AmountTooLarge
)

// AmountResult is the result of ParseAmount. Amount is set only when Status is AmountOK.
type AmountResult struct {
	Amount int
	Status AmountStatus
}

// OK reports whether the amount parsed successfully
func (r AmountResult) OK() bool {
	return r.Status == AmountOK
}

// ParseAmount parses a user reply into a donation amount
func ParseAmount(text string) AmountResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return AmountResult{Status: AmountInvalid}
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Out of range values are still numbers
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(text, "-") {
				return AmountResult{Status: AmountTooSmall}
			}
			return AmountResult{Status: AmountTooLarge}
		}
		return AmountResult{Status: AmountInvalid}
	}

	switch {
	case n < 1:
		return AmountResult{Status: AmountTooSmall}
	case n > MaxAmount:
		return AmountResult{Status: AmountTooLarge}
	}
	return AmountResult{Amount: int(n), Status: AmountOK}
}

// MenuChoice is a parsed donation menu button
type MenuChoice struct {
	Amount int
	Custom bool
}

const (
	donatePrefix = "donate_"
	customData   = "custom"
)

// PresetAmounts are the fixed menu choices
var PresetAmounts = []int{1, 10, 100}

// DonateData returns callback data for a preset amount button
func DonateData(amount int) string {
	return donatePrefix + strconv.Itoa(amount)
}

// CustomData returns callback data for the custom amount button
func CustomData() string {
	return customData
}

// ParseMenuChoice parses callback data from the donation menu
func ParseMenuChoice(data string) (MenuChoice, bool) {
	if data == customData {
		return MenuChoice{Custom: true}, true
	}
	if !strings.HasPrefix(data, donatePrefix) {
		return MenuChoice{}, false
	}
	res := ParseAmount(strings.TrimPrefix(data, donatePrefix))
	if !res.OK() {
		return MenuChoice{}, false
	}
	return MenuChoice{Amount: res.Amount}, true
}
