package service

import (
	"context"
	"errors"
	"testing"

	"starsbot/internal/domain"
	"starsbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const adminID = int64(1000)

func TestReportService_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		adminID  int64
		userID   int64
		expected bool
	}{
		{name: "admin", adminID: adminID, userID: adminID, expected: true},
		{name: "other user", adminID: adminID, userID: 5, expected: false},
		{name: "admin not configured", adminID: 0, userID: 0, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewReportService(new(testutil.MockLedgerRepository), tt.adminID, testutil.NewTestLogger())
			assert.Equal(t, tt.expected, service.IsAdmin(tt.userID))
		})
	}
}

func TestReportService_Summary(t *testing.T) {
	mockRepo := new(testutil.MockLedgerRepository)
	mockRepo.On("GetTotals", mock.Anything).Return(domain.Totals{Users: 4, Stars: 111, Donations: 3}, nil)

	service := NewReportService(mockRepo, adminID, testutil.NewTestLogger())

	text, err := service.Summary(context.Background(), adminID)

	require.NoError(t, err)
	assert.Contains(t, text, "Users: `4`")
	assert.Contains(t, text, "Total Stars: `111`")
	assert.Contains(t, text, "Donations: `3`")
	mockRepo.AssertExpectations(t)
}

func TestReportService_Summary_EmptyLedger(t *testing.T) {
	mockRepo := new(testutil.MockLedgerRepository)
	mockRepo.On("GetTotals", mock.Anything).Return(domain.Totals{}, nil)

	service := NewReportService(mockRepo, adminID, testutil.NewTestLogger())

	text, err := service.Summary(context.Background(), adminID)

	require.NoError(t, err)
	assert.Contains(t, text, "Total Stars: `0`")
}

func TestReportService_DeniesNonAdmin(t *testing.T) {
	mockRepo := new(testutil.MockLedgerRepository)
	service := NewReportService(mockRepo, adminID, testutil.NewTestLogger())

	text, err := service.Summary(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Empty(t, text)

	text, err = service.RecentDonations(context.Background(), 5, RecentLimit)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Empty(t, text)

	mockRepo.AssertNotCalled(t, "GetTotals", mock.Anything)
	mockRepo.AssertNotCalled(t, "GetRecentDonations", mock.Anything, mock.Anything)
}

func TestReportService_Summary_StorageError(t *testing.T) {
	mockRepo := new(testutil.MockLedgerRepository)
	mockRepo.On("GetTotals", mock.Anything).Return(domain.Totals{}, errors.New("db down"))

	service := NewReportService(mockRepo, adminID, testutil.NewTestLogger())

	_, err := service.Summary(context.Background(), adminID)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAccessDenied)
}

func TestReportService_RecentDonations(t *testing.T) {
	mockRepo := new(testutil.MockLedgerRepository)
	mockRepo.On("GetRecentDonations", mock.Anything, RecentLimit).Return([]domain.DonationView{
		testutil.NewTestDonation(3, 1, 9, "Ann", "ann_b"),
		testutil.NewTestDonation(2, 2, 7, "", ""),
	}, nil)

	service := NewReportService(mockRepo, adminID, testutil.NewTestLogger())

	text, err := service.RecentDonations(context.Background(), adminID, RecentLimit)

	require.NoError(t, err)
	assert.Equal(t,
		"*Last 10 Donations*\n"+
			"`9` Stars – Ann @ann\\_b – 2024-06-15 10:30:00\n"+
			"`7` Stars –  – 2024-06-15 10:30:00",
		text,
	)
	mockRepo.AssertExpectations(t)
}

func TestReportService_RecentDonations_Empty(t *testing.T) {
	mockRepo := new(testutil.MockLedgerRepository)
	mockRepo.On("GetRecentDonations", mock.Anything, RecentLimit).Return([]domain.DonationView{}, nil)

	service := NewReportService(mockRepo, adminID, testutil.NewTestLogger())

	text, err := service.RecentDonations(context.Background(), adminID, 0)

	require.NoError(t, err)
	assert.Equal(t, "No donations yet.", text)
}
