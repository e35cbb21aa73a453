package service

import (
	"context"
	"fmt"
	"strings"

	"starsbot/internal/domain"
	"starsbot/internal/repository"

	"go.uber.org/zap"
)

// RecentLimit is the number of donations listed by the admin report
const RecentLimit = 10

// ReportService renders ledger aggregates for the administrator
type ReportService struct {
	ledger  repository.LedgerRepository
	adminID int64
	logger  *zap.Logger
}

// NewReportService creates a new report service.
// An adminID of zero disables reporting for everyone.
func NewReportService(ledger repository.LedgerRepository, adminID int64, logger *zap.Logger) *ReportService {
	return &ReportService{
		ledger:  ledger,
		adminID: adminID,
		logger:  logger,
	}
}

// AdminID returns the configured administrator id
func (s *ReportService) AdminID() int64 {
	return s.adminID
}

// IsAdmin checks requester against the configured administrator
func (s *ReportService) IsAdmin(userID int64) bool {
	return s.adminID != 0 && userID == s.adminID
}

// Summary returns formatted ledger totals
func (s *ReportService) Summary(ctx context.Context, requesterID int64) (string, error) {
	if !s.IsAdmin(requesterID) {
		s.logger.Info("Admin report denied", zap.Int64("user_id", requesterID))
		return "", domain.ErrAccessDenied
	}

	totals, err := s.ledger.GetTotals(ctx)
	if err != nil {
		return "", fmt.Errorf("load totals: %w", err)
	}

	return fmt.Sprintf(
		"*Bot Statistics*\n• Users: `%d`\n• Total Stars: `%d`\n• Donations: `%d`",
		totals.Users, totals.Stars, totals.Donations,
	), nil
}

// RecentDonations returns the latest donations, most recent first
func (s *ReportService) RecentDonations(ctx context.Context, requesterID int64, limit int) (string, error) {
	if !s.IsAdmin(requesterID) {
		s.logger.Info("Admin report denied", zap.Int64("user_id", requesterID))
		return "", domain.ErrAccessDenied
	}
	if limit < 1 {
		limit = RecentLimit
	}

	views, err := s.ledger.GetRecentDonations(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("load recent donations: %w", err)
	}

	if len(views) == 0 {
		return "No donations yet.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Last %d Donations*", limit)
	for _, v := range views {
		fmt.Fprintf(&b, "\n`%d` Stars – %s – %s",
			v.Amount,
			escapeMarkdown(v.DonorName()),
			v.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		)
	}
	return b.String(), nil
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escapeMarkdown escapes user supplied text for legacy Markdown
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
