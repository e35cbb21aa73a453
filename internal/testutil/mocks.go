package testutil

import (
	"context"

	"starsbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockLedgerRepository is a mock for LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) UpsertUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockLedgerRepository) AppendDonation(ctx context.Context, donation domain.Donation) (int64, error) {
	args := m.Called(ctx, donation)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) GetTotals(ctx context.Context) (domain.Totals, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Totals), args.Error(1)
}

func (m *MockLedgerRepository) GetRecentDonations(ctx context.Context, limit int) ([]domain.DonationView, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonationView), args.Error(1)
}

// MockStateRepository is a mock for StateRepository
type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) Get(ctx context.Context, userID int64) (domain.UserState, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.UserState), args.Error(1)
}

func (m *MockStateRepository) Set(ctx context.Context, userID int64, state domain.UserState) error {
	args := m.Called(ctx, userID, state)
	return args.Error(0)
}

func (m *MockStateRepository) Reset(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockMessenger is a mock for the outbound messenger
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendMenu(ctx context.Context, chatID int64, text string, amounts []int) error {
	args := m.Called(ctx, chatID, text, amounts)
	return args.Error(0)
}

func (m *MockMessenger) SendText(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

func (m *MockMessenger) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

func (m *MockMessenger) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	args := m.Called(ctx, chatID, messageID, text)
	return args.Error(0)
}

func (m *MockMessenger) SendInvoice(ctx context.Context, chatID int64, invoice domain.Invoice) error {
	args := m.Called(ctx, chatID, invoice)
	return args.Error(0)
}

func (m *MockMessenger) AnswerCallback(ctx context.Context, callbackID string) error {
	args := m.Called(ctx, callbackID)
	return args.Error(0)
}

func (m *MockMessenger) ApproveCheckout(ctx context.Context, queryID string) error {
	args := m.Called(ctx, queryID)
	return args.Error(0)
}

// MockFlow is a mock for the handler's event sink
type MockFlow struct {
	mock.Mock
}

func (m *MockFlow) Handle(ctx context.Context, ev domain.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
