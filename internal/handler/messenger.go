package handler

import (
	"context"
	"strconv"

	"starsbot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// Messenger sends flow output through the Telegram Bot API
type Messenger struct {
	bot *tele.Bot
}

// NewMessenger creates a messenger bound to bot
func NewMessenger(bot *tele.Bot) *Messenger {
	return &Messenger{bot: bot}
}

// SendMenu sends text with the donation amount keyboard
func (m *Messenger) SendMenu(ctx context.Context, chatID int64, text string, amounts []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.bot.Send(tele.ChatID(chatID), text, donationMenu(amounts))
	return err
}

// SendText sends plain text
func (m *Messenger) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.bot.Send(tele.ChatID(chatID), text)
	return err
}

// SendMarkdown sends text rendered as Markdown
func (m *Messenger) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.bot.Send(tele.ChatID(chatID), text, tele.ModeMarkdown)
	return err
}

// EditText replaces the text of an earlier message
func (m *Messenger) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	_, err := m.bot.Edit(msg, text)
	return err
}

// SendInvoice sends a Stars invoice
func (m *Messenger) SendInvoice(ctx context.Context, chatID int64, invoice domain.Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.bot.Send(tele.ChatID(chatID), toTeleInvoice(invoice))
	return err
}

// AnswerCallback acknowledges a button press
func (m *Messenger) AnswerCallback(ctx context.Context, callbackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.bot.Respond(&tele.Callback{ID: callbackID})
}

// ApproveCheckout answers a pre-checkout query positively
func (m *Messenger) ApproveCheckout(ctx context.Context, queryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.bot.Accept(&tele.PreCheckoutQuery{ID: queryID})
}

// toTeleInvoice maps a donation invoice to the Bot API shape.
// Stars invoices use an empty provider token.
func toTeleInvoice(invoice domain.Invoice) *tele.Invoice {
	return &tele.Invoice{
		Title:       invoice.Title,
		Description: invoice.Description,
		Payload:     invoice.Payload,
		Currency:    invoice.Currency,
		Prices:      []tele.Price{{Label: invoice.PriceLabel, Amount: invoice.Price}},
		Token:       "",
		Start:       invoice.Start,
	}
}
