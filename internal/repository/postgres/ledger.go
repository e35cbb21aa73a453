package postgres

import (
	"database/sql"
	"time"

	"starsbot/internal/metrics"
)

// LedgerRepo implements repository.LedgerRepository on PostgreSQL
type LedgerRepo struct {
	db *sql.DB
}

// NewLedgerRepo creates a new ledger repository
func NewLedgerRepo(db *sql.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

func observe(operation string, start time.Time, err error) {
	metrics.RecordLedgerOperation(operation, time.Since(start), err)
}
