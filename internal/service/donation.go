package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"starsbot/internal/domain"
	"starsbot/internal/metrics"
	"starsbot/internal/repository"

	"go.uber.org/zap"
)

// User facing replies
const (
	MenuText          = "Choose a donation amount in Stars:"
	CustomPromptText  = "Please reply with the custom amount (e.g., 50 for 50 Stars):"
	InvalidAmountText = "Please enter a valid number (e.g., 25). Tap Custom Amount in /start to try again."
	TooSmallText      = "Amount must be at least 1 Star. Tap Custom Amount in /start to try again."
	AccessDeniedText  = "Admin only."
	GenericErrorText  = "Something went wrong. Please try again later."
)

// Messenger delivers outbound messages to the messaging platform
type Messenger interface {
	SendMenu(ctx context.Context, chatID int64, text string, amounts []int) error
	SendText(ctx context.Context, chatID int64, text string) error
	SendMarkdown(ctx context.Context, chatID int64, text string) error
	EditText(ctx context.Context, chatID int64, messageID int, text string) error
	SendInvoice(ctx context.Context, chatID int64, invoice domain.Invoice) error
	AnswerCallback(ctx context.Context, callbackID string) error
	ApproveCheckout(ctx context.Context, queryID string) error
}

// DonationService drives the per-user donation conversation
type DonationService struct {
	ledger    repository.LedgerRepository
	states    repository.StateRepository
	reports   *ReportService
	messenger Messenger
	logger    *zap.Logger
	now       func() time.Time
}

// NewDonationService creates a new donation flow controller
func NewDonationService(
	ledger repository.LedgerRepository,
	states repository.StateRepository,
	reports *ReportService,
	messenger Messenger,
	logger *zap.Logger,
) *DonationService {
	return &DonationService{
		ledger:    ledger,
		states:    states,
		reports:   reports,
		messenger: messenger,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Handle applies one inbound event to the conversation
func (s *DonationService) Handle(ctx context.Context, ev domain.Event) error {
	switch ev.Kind {
	case domain.EventStart:
		return s.handleStart(ctx, ev)
	case domain.EventMenuChoice:
		return s.handleMenuChoice(ctx, ev)
	case domain.EventText:
		return s.handleText(ctx, ev)
	case domain.EventPreCheckout:
		return s.handlePreCheckout(ctx, ev)
	case domain.EventPayment:
		return s.handlePayment(ctx, ev)
	case domain.EventStats:
		return s.handleReport(ctx, ev, func() (string, error) {
			return s.reports.Summary(ctx, ev.From.ID)
		})
	case domain.EventDonations:
		return s.handleReport(ctx, ev, func() (string, error) {
			return s.reports.RecentDonations(ctx, ev.From.ID, RecentLimit)
		})
	}

	s.logger.Debug("Ignoring unsupported event", zap.Stringer("event", ev.Kind))
	return nil
}

func (s *DonationService) handleStart(ctx context.Context, ev domain.Event) error {
	user := domain.User{
		UserID:    ev.From.ID,
		Username:  ev.From.Username,
		FirstName: ev.From.FirstName,
		LastName:  ev.From.LastName,
		FirstSeen: s.now(),
	}

	s.logger.Info("User started bot",
		zap.Int64("user_id", user.UserID),
		zap.String("name", user.DisplayName()),
	)

	if err := s.ledger.UpsertUser(ctx, user); err != nil {
		return s.fail(ctx, ev.ChatID, fmt.Errorf("record user: %w", err))
	}

	if err := s.states.Reset(ctx, ev.From.ID); err != nil {
		return s.fail(ctx, ev.ChatID, fmt.Errorf("reset state: %w", err))
	}

	return s.messenger.SendMenu(ctx, ev.ChatID, MenuText, domain.PresetAmounts)
}

func (s *DonationService) handleMenuChoice(ctx context.Context, ev domain.Event) error {
	if ev.CallbackID != "" {
		if err := s.messenger.AnswerCallback(ctx, ev.CallbackID); err != nil {
			s.logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}
	}

	choice, ok := domain.ParseMenuChoice(ev.Text)
	if !ok {
		s.logger.Warn("Unhandled menu choice",
			zap.String("data", ev.Text),
			zap.Int64("user_id", ev.From.ID),
		)
		return nil
	}

	if choice.Custom {
		if err := s.states.Set(ctx, ev.From.ID, domain.StateAwaitingAmount); err != nil {
			return s.fail(ctx, ev.ChatID, fmt.Errorf("set state: %w", err))
		}
		if ev.MessageID != 0 {
			err := s.messenger.EditText(ctx, ev.ChatID, ev.MessageID, CustomPromptText)
			if err == nil {
				return nil
			}
			s.logger.Warn("Failed to edit message, sending new", zap.Error(err))
		}
		return s.messenger.SendText(ctx, ev.ChatID, CustomPromptText)
	}

	if err := s.states.Reset(ctx, ev.From.ID); err != nil {
		return s.fail(ctx, ev.ChatID, fmt.Errorf("reset state: %w", err))
	}
	return s.sendInvoice(ctx, ev.ChatID, choice.Amount, ev.From.ID)
}

func (s *DonationService) handleText(ctx context.Context, ev domain.Event) error {
	// Commands are never amount replies
	if strings.HasPrefix(strings.TrimSpace(ev.Text), "/") {
		return nil
	}

	state, err := s.states.Get(ctx, ev.From.ID)
	if err != nil {
		return s.fail(ctx, ev.ChatID, fmt.Errorf("get state: %w", err))
	}
	if state != domain.StateAwaitingAmount {
		return nil
	}

	// One reply attempt per prompt, whatever the outcome
	if err := s.states.Reset(ctx, ev.From.ID); err != nil {
		return s.fail(ctx, ev.ChatID, fmt.Errorf("reset state: %w", err))
	}

	res := domain.ParseAmount(ev.Text)
	switch res.Status {
	case domain.AmountOK:
		return s.sendInvoice(ctx, ev.ChatID, res.Amount, ev.From.ID)
	case domain.AmountTooSmall:
		return s.messenger.SendText(ctx, ev.ChatID, TooSmallText)
	case domain.AmountTooLarge:
		return s.messenger.SendText(ctx, ev.ChatID, tooLargeText())
	default:
		return s.messenger.SendText(ctx, ev.ChatID, InvalidAmountText)
	}
}

func tooLargeText() string {
	return fmt.Sprintf("Amount must be at most %d Stars. Tap Custom Amount in /start to try again.", domain.MaxAmount)
}

func (s *DonationService) sendInvoice(ctx context.Context, chatID int64, amount int, userID int64) error {
	invoice := domain.NewInvoice(amount, userID)

	s.logger.Info("Sending invoice",
		zap.Int64("user_id", userID),
		zap.Int("amount", amount),
		zap.String("payload", invoice.Payload),
	)

	if err := s.messenger.SendInvoice(ctx, chatID, invoice); err != nil {
		return fmt.Errorf("send invoice: %w", err)
	}
	return nil
}

func (s *DonationService) handlePreCheckout(ctx context.Context, ev domain.Event) error {
	if ev.Checkout == nil {
		return nil
	}
	if err := s.messenger.ApproveCheckout(ctx, ev.Checkout.ID); err != nil {
		return fmt.Errorf("approve checkout %s: %w", ev.Checkout.ID, err)
	}
	return nil
}

func (s *DonationService) handlePayment(ctx context.Context, ev domain.Event) error {
	if ev.Payment == nil {
		return nil
	}

	amount := domain.StarsFromMinor(ev.Payment.Total)
	s.checkPayload(ev.From.ID, amount, ev.Payment.Payload)

	id, err := s.ledger.AppendDonation(ctx, domain.Donation{
		UserID:    ev.From.ID,
		Amount:    amount,
		Payload:   ev.Payment.Payload,
		Timestamp: s.now(),
	})
	if err != nil {
		// The charge went through, so the user is still thanked
		s.logger.Error("Failed to record confirmed payment",
			zap.Int64("user_id", ev.From.ID),
			zap.Int("amount", amount),
			zap.String("payload", ev.Payment.Payload),
			zap.String("charge_id", ev.Payment.ChargeID),
			zap.Error(err),
		)
	} else {
		metrics.RecordDonation(amount)
		s.logger.Info("Donation recorded",
			zap.Int64("donation_id", id),
			zap.Int64("user_id", ev.From.ID),
			zap.Int("amount", amount),
		)
	}

	text := fmt.Sprintf(
		"Thank you for your *%d Stars* donation! Your support means the world!\nWant to donate again? Just /start",
		amount,
	)
	if sendErr := s.messenger.SendMarkdown(ctx, ev.ChatID, text); sendErr != nil {
		return errors.Join(err, fmt.Errorf("send thanks: %w", sendErr))
	}
	if err != nil {
		return fmt.Errorf("append donation: %w", err)
	}
	return nil
}

// checkPayload logs payments whose payload disagrees with the charge.
// Payments are never rejected on this basis.
func (s *DonationService) checkPayload(userID int64, amount int, payload string) {
	invAmount, invUser, ok := domain.ParsePayload(payload)
	if !ok || (invAmount == amount && invUser == userID) {
		return
	}
	s.logger.Warn("Payment does not match invoice payload",
		zap.Int64("user_id", userID),
		zap.Int("amount", amount),
		zap.String("payload", payload),
	)
}

func (s *DonationService) handleReport(ctx context.Context, ev domain.Event, render func() (string, error)) error {
	text, err := render()
	if errors.Is(err, domain.ErrAccessDenied) {
		return s.messenger.SendText(ctx, ev.ChatID, AccessDeniedText)
	}
	if err != nil {
		return s.fail(ctx, ev.ChatID, err)
	}
	return s.messenger.SendMarkdown(ctx, ev.ChatID, text)
}

// fail sends the generic error reply and returns cause for logging upstream
func (s *DonationService) fail(ctx context.Context, chatID int64, cause error) error {
	if err := s.messenger.SendText(ctx, chatID, GenericErrorText); err != nil {
		return errors.Join(cause, fmt.Errorf("send error reply: %w", err))
	}
	return cause
}
