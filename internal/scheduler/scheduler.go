package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrNoAdmin is returned when a report is scheduled without an admin to receive it
var ErrNoAdmin = errors.New("admin user id is not configured")

// Reporter renders the admin summary
type Reporter interface {
	AdminID() int64
	Summary(ctx context.Context, requesterID int64) (string, error)
}

// Sender delivers the rendered report
type Sender interface {
	SendMarkdown(ctx context.Context, chatID int64, text string) error
}

// Scheduler sends the statistics summary to the admin on a cron schedule
type Scheduler struct {
	cron     *cron.Cron
	reporter Reporter
	sender   Sender
	logger   *zap.Logger
	timeout  time.Duration
}

// New creates a scheduler. Specs use the standard five-field cron format or descriptors like @daily.
func New(reporter Reporter, sender Sender, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		reporter: reporter,
		sender:   sender,
		logger:   logger,
		timeout:  30 * time.Second,
	}
}

// ScheduleSummary registers the admin summary job
func (s *Scheduler) ScheduleSummary(spec string) error {
	if s.reporter.AdminID() == 0 {
		return ErrNoAdmin
	}

	id, err := s.cron.AddFunc(spec, s.runSummary)
	if err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", spec, err)
	}

	s.logger.Info("Admin report scheduled",
		zap.String("spec", spec),
		zap.Time("next_run", s.cron.Entry(id).Schedule.Next(time.Now())),
	)
	return nil
}

// SendSummary renders and delivers one summary to the admin
func (s *Scheduler) SendSummary(ctx context.Context) error {
	adminID := s.reporter.AdminID()

	text, err := s.reporter.Summary(ctx, adminID)
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	if err := s.sender.SendMarkdown(ctx, adminID, text); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	return nil
}

func (s *Scheduler) runSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.SendSummary(ctx); err != nil {
		s.logger.Error("Failed to send scheduled report", zap.Error(err))
		return
	}
	s.logger.Info("Scheduled report sent")
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
