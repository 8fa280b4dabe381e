package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountValueSnapshot is a single timestamped value recorded for an account.
// Snapshots are append-only in normal use; they change only through explicit edit/delete.
type AccountValueSnapshot struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Value     decimal.Decimal
	Timestamp int64   // epoch millis
	Note      *string // optional free text
}

// Time returns the snapshot timestamp as a time.Time
func (s *AccountValueSnapshot) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Validate ensures the snapshot adheres to domain rules at creation time
func (s *AccountValueSnapshot) Validate() error {
	if s.AccountID == uuid.Nil {
		return errors.New("snapshot must reference an account")
	}

	if s.Value.IsNegative() {
		return errors.New("snapshot value must be non-negative")
	}

	if s.Timestamp <= 0 {
		return errors.New("snapshot timestamp must be positive")
	}

	return nil
}
