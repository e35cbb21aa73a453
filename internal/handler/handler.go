package handler

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode"

	"starsbot/internal/domain"
	"starsbot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// defaultTimeout bounds a single update including outbound calls
const defaultTimeout = 30 * time.Second

// Flow consumes decoded bot events
type Flow interface {
	Handle(ctx context.Context, ev domain.Event) error
}

// Handler adapts telebot updates to the donation flow
type Handler struct {
	bot     *tele.Bot
	flow    Flow
	logger  *zap.Logger
	timeout time.Duration
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, flow Flow, logger *zap.Logger) *Handler {
	return &Handler{
		bot:     bot,
		flow:    flow,
		logger:  logger,
		timeout: defaultTimeout,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(middleware.Logging(h.logger))

	// Commands
	h.bot.Handle("/start", h.on(domain.EventStart))
	h.bot.Handle("/stats", h.on(domain.EventStats))
	h.bot.Handle("/donations", h.on(domain.EventDonations))

	// Menu buttons
	h.bot.Handle(tele.OnCallback, h.on(domain.EventMenuChoice))

	// Free text replies
	h.bot.Handle(tele.OnText, h.on(domain.EventText))

	// Payments
	h.bot.Handle(tele.OnCheckout, h.on(domain.EventPreCheckout))
	h.bot.Handle(tele.OnPayment, h.on(domain.EventPayment))
}

func (h *Handler) on(kind domain.EventKind) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		return h.flow.Handle(ctx, NewEvent(kind, c))
	}
}

// NewEvent converts a telebot context into a flow event
func NewEvent(kind domain.EventKind, c tele.Context) domain.Event {
	ev := domain.Event{Kind: kind}

	if sender := c.Sender(); sender != nil {
		ev.From = domain.Sender{
			ID:        sender.ID,
			Username:  sender.Username,
			FirstName: sender.FirstName,
			LastName:  sender.LastName,
		}
	}

	// Pre-checkout queries carry no chat, replies go to the private chat
	ev.ChatID = ev.From.ID
	if chat := c.Chat(); chat != nil {
		ev.ChatID = chat.ID
	}

	msg := c.Message()
	if msg != nil {
		ev.MessageID = msg.ID
	}

	switch kind {
	case domain.EventMenuChoice:
		if cb := c.Callback(); cb != nil {
			ev.CallbackID = cb.ID
			ev.Text = cleanCallbackData(cb.Data)
		}
	case domain.EventPreCheckout:
		if q := c.PreCheckoutQuery(); q != nil {
			ev.Checkout = &domain.Checkout{
				ID:       q.ID,
				Payload:  q.Payload,
				Currency: q.Currency,
				Total:    q.Total,
			}
		}
	case domain.EventPayment:
		if msg != nil && msg.Payment != nil {
			ev.Payment = &domain.Payment{
				Payload:  msg.Payment.Payload,
				Currency: msg.Payment.Currency,
				Total:    msg.Payment.Total,
				ChargeID: msg.Payment.TelegramChargeID,
			}
		}
	default:
		ev.Text = c.Text()
	}

	return ev
}

// cleanCallbackData removes all non-printable characters from callback data.
// Inline buttons built with ReplyMarkup.Data carry a leading \f.
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// donationMenu returns the amount selection keyboard
func donationMenu(amounts []int) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(amounts)+1)
	for _, amount := range amounts {
		rows = append(rows, menu.Row(menu.Data(starsLabel(amount), domain.DonateData(amount))))
	}
	rows = append(rows, menu.Row(menu.Data("Custom Amount", domain.CustomData())))
	menu.Inline(rows...)
	return menu
}

func starsLabel(amount int) string {
	if amount == 1 {
		return "1 Star"
	}
	return strconv.Itoa(amount) + " Stars"
}
