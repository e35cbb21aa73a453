package handler

import (
	"testing"

	"starsbot/internal/domain"
	"starsbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func newTestHandler(t *testing.T) (*tele.Bot, *testutil.MockFlow) {
	t.Helper()

	bot, err := tele.NewBot(tele.Settings{Offline: true, Synchronous: true})
	require.NoError(t, err)

	flow := new(testutil.MockFlow)
	NewHandler(bot, flow, testutil.NewTestLogger()).RegisterHandlers()
	return bot, flow
}

var testUser = &tele.User{ID: 42, Username: "ann", FirstName: "Ann", LastName: "Lee"}

func expectEvent(flow *testutil.MockFlow, match func(ev domain.Event) bool) {
	flow.On("Handle", mock.Anything, mock.MatchedBy(match)).Return(nil).Once()
}

func TestHandler_Start(t *testing.T) {
	bot, flow := newTestHandler(t)

	expectEvent(flow, func(ev domain.Event) bool {
		return ev.Kind == domain.EventStart &&
			ev.From == domain.Sender{ID: 42, Username: "ann", FirstName: "Ann", LastName: "Lee"} &&
			ev.ChatID == 42 &&
			ev.MessageID == 5
	})

	bot.ProcessUpdate(tele.Update{ID: 1, Message: &tele.Message{
		ID:     5,
		Text:   "/start",
		Sender: testUser,
		Chat:   &tele.Chat{ID: 42},
	}})

	flow.AssertExpectations(t)
}

func TestHandler_AdminCommands(t *testing.T) {
	tests := []struct {
		text string
		kind domain.EventKind
	}{
		{text: "/stats", kind: domain.EventStats},
		{text: "/donations", kind: domain.EventDonations},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			bot, flow := newTestHandler(t)

			expectEvent(flow, func(ev domain.Event) bool { return ev.Kind == tt.kind })

			bot.ProcessUpdate(tele.Update{ID: 1, Message: &tele.Message{
				Text:   tt.text,
				Sender: testUser,
				Chat:   &tele.Chat{ID: 42},
			}})

			flow.AssertExpectations(t)
		})
	}
}

func TestHandler_Text(t *testing.T) {
	bot, flow := newTestHandler(t)

	expectEvent(flow, func(ev domain.Event) bool {
		return ev.Kind == domain.EventText && ev.Text == "50" && ev.ChatID == 42
	})

	bot.ProcessUpdate(tele.Update{ID: 1, Message: &tele.Message{
		Text:   "50",
		Sender: testUser,
		Chat:   &tele.Chat{ID: 42},
	}})

	flow.AssertExpectations(t)
}

func TestHandler_Callback(t *testing.T) {
	bot, flow := newTestHandler(t)

	expectEvent(flow, func(ev domain.Event) bool {
		return ev.Kind == domain.EventMenuChoice &&
			ev.Text == "donate_10" &&
			ev.CallbackID == "cb-1" &&
			ev.MessageID == 9 &&
			ev.ChatID == 42
	})

	bot.ProcessUpdate(tele.Update{ID: 1, Callback: &tele.Callback{
		ID:      "cb-1",
		Data:    "\fdonate_10",
		Sender:  testUser,
		Message: &tele.Message{ID: 9, Chat: &tele.Chat{ID: 42}},
	}})

	flow.AssertExpectations(t)
}

func TestHandler_PreCheckout(t *testing.T) {
	bot, flow := newTestHandler(t)

	expectEvent(flow, func(ev domain.Event) bool {
		return ev.Kind == domain.EventPreCheckout &&
			ev.ChatID == 42 &&
			ev.Checkout != nil &&
			*ev.Checkout == domain.Checkout{ID: "q-1", Payload: "donation_5_42", Currency: "XTR", Total: 500}
	})

	bot.ProcessUpdate(tele.Update{ID: 1, PreCheckoutQuery: &tele.PreCheckoutQuery{
		ID:       "q-1",
		Sender:   testUser,
		Payload:  "donation_5_42",
		Currency: "XTR",
		Total:    500,
	}})

	flow.AssertExpectations(t)
}

func TestHandler_Payment(t *testing.T) {
	bot, flow := newTestHandler(t)

	expectEvent(flow, func(ev domain.Event) bool {
		return ev.Kind == domain.EventPayment &&
			ev.Payment != nil &&
			*ev.Payment == domain.Payment{Payload: "donation_5_42", Currency: "XTR", Total: 500, ChargeID: "ch-1"}
	})

	bot.ProcessUpdate(tele.Update{ID: 1, Message: &tele.Message{
		Sender: testUser,
		Chat:   &tele.Chat{ID: 42},
		Payment: &tele.Payment{
			Currency:         "XTR",
			Total:            500,
			Payload:          "donation_5_42",
			TelegramChargeID: "ch-1",
		},
	}})

	flow.AssertExpectations(t)
}

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal string",
			input:    "donate_1",
			expected: "donate_1",
		},
		{
			name:     "telebot unique prefix",
			input:    "\fcustom",
			expected: "custom",
		},
		{
			name:     "string with whitespace",
			input:    "  donate_10  ",
			expected: "donate_10",
		},
		{
			name:     "string with newline",
			input:    "donate\n_10",
			expected: "donate_10",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "string with unprintable characters",
			input:    "donate\x00_100\x01",
			expected: "donate_100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanCallbackData(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDonationMenu(t *testing.T) {
	menu := donationMenu(domain.PresetAmounts)

	require.Len(t, menu.InlineKeyboard, 4)
	assert.Equal(t, "1 Star", menu.InlineKeyboard[0][0].Text)
	assert.Equal(t, "10 Stars", menu.InlineKeyboard[1][0].Text)
	assert.Equal(t, "100 Stars", menu.InlineKeyboard[2][0].Text)
	assert.Equal(t, "Custom Amount", menu.InlineKeyboard[3][0].Text)

	for i, amount := range domain.PresetAmounts {
		choice, ok := domain.ParseMenuChoice(menu.InlineKeyboard[i][0].Unique)
		require.True(t, ok)
		assert.Equal(t, amount, choice.Amount)
	}
	choice, ok := domain.ParseMenuChoice(menu.InlineKeyboard[3][0].Unique)
	require.True(t, ok)
	assert.True(t, choice.Custom)
}

func TestToTeleInvoice(t *testing.T) {
	inv := toTeleInvoice(domain.NewInvoice(25, 42))

	assert.Equal(t, "Donate 25 Stars", inv.Title)
	assert.Equal(t, "XTR", inv.Currency)
	assert.Equal(t, "donation_25_42", inv.Payload)
	assert.Empty(t, inv.Token)
	require.Len(t, inv.Prices, 1)
	assert.Equal(t, 2500, inv.Prices[0].Amount)
}
