package sqlite

import (
	"context"
	"fmt"
	"time"

	"starsbot/internal/domain"
	"starsbot/internal/metrics"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRow struct {
	UserID    int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Username  string
	FirstName string
	LastName  string
	FirstSeen time.Time
}

func (userRow) TableName() string { return "users" }

type donationRow struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	UserID    int64 `gorm:"index"`
	Amount    int
	Payload   string
	Timestamp time.Time `gorm:"column:timestamp"`
}

func (donationRow) TableName() string { return "donations" }

type donationViewRow struct {
	ID        int64
	UserID    int64
	Amount    int
	Payload   string
	Timestamp time.Time `gorm:"column:timestamp"`
	Username  string
	FirstName string
}

// LedgerRepo implements repository.LedgerRepository on SQLite via gorm
type LedgerRepo struct {
	db *gorm.DB
}

// NewLedgerRepo creates a new ledger repository
func NewLedgerRepo(db *gorm.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

func observe(operation string, start time.Time, err error) {
	metrics.RecordLedgerOperation(operation, time.Since(start), err)
}

// UpsertUser inserts the user, keeping the first row on conflict
func (r *LedgerRepo) UpsertUser(ctx context.Context, user domain.User) (err error) {
	defer func(start time.Time) { observe("upsert_user", start, err) }(time.Now())

	row := userRow{
		UserID:    user.UserID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FirstSeen: user.FirstSeen,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", user.UserID, err)
	}
	return nil
}

// AppendDonation inserts a donation and returns its id
func (r *LedgerRepo) AppendDonation(ctx context.Context, d domain.Donation) (id int64, err error) {
	defer func(start time.Time) { observe("append_donation", start, err) }(time.Now())

	row := donationRow{
		UserID:    d.UserID,
		Amount:    d.Amount,
		Payload:   d.Payload,
		Timestamp: d.Timestamp,
	}
	if err = r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("append donation for user %d: %w", d.UserID, err)
	}
	return row.ID, nil
}

// GetTotals returns user count, Stars sum and donation count
func (r *LedgerRepo) GetTotals(ctx context.Context) (totals domain.Totals, err error) {
	defer func(start time.Time) { observe("get_totals", start, err) }(time.Now())

	var users int64
	if err = r.db.WithContext(ctx).Model(&userRow{}).Count(&users).Error; err != nil {
		return domain.Totals{}, fmt.Errorf("count users: %w", err)
	}

	var agg struct {
		Count int64
		Total int64
	}
	err = r.db.WithContext(ctx).Model(&donationRow{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Scan(&agg).Error
	if err != nil {
		return domain.Totals{}, fmt.Errorf("sum donations: %w", err)
	}

	return domain.Totals{
		Users:     int(users),
		Stars:     agg.Total,
		Donations: int(agg.Count),
	}, nil
}

// GetRecentDonations returns the latest donations joined with donor names
func (r *LedgerRepo) GetRecentDonations(ctx context.Context, limit int) (views []domain.DonationView, err error) {
	defer func(start time.Time) { observe("get_recent_donations", start, err) }(time.Now())

	var rows []donationViewRow
	err = r.db.WithContext(ctx).
		Table("donations AS d").
		Select("d.id, d.user_id, d.amount, d.payload, d.timestamp, " +
			"COALESCE(u.username, '') AS username, COALESCE(u.first_name, '') AS first_name").
		Joins("LEFT JOIN users AS u ON u.user_id = d.user_id").
		Order("d.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get recent donations: %w", err)
	}

	views = make([]domain.DonationView, 0, len(rows))
	for _, row := range rows {
		views = append(views, domain.DonationView{
			Donation: domain.Donation{
				ID:        row.ID,
				UserID:    row.UserID,
				Amount:    row.Amount,
				Payload:   row.Payload,
				Timestamp: row.Timestamp,
			},
			Username:  row.Username,
			FirstName: row.FirstName,
		})
	}
	return views, nil
}
