package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequence is a monthly counter backing the document number streams
// (invoices, purchases, customer returns, supplier returns). One row per
// prefix and month, incremented under a row lock.
type NumberSequence struct {
	Key   string `gorm:"primaryKey;type:varchar(32)"`
	Value int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (NumberSequence) TableName() string {
	return "number_sequences"
}

// nextSequenceNumber allocates the next document number for the month
// containing at, formatted as PREFIX-YYYY-MM-NNNN. The counter row is
// read FOR UPDATE so two callers can never draw the same number; when
// the caller already runs inside a transaction this joins it via a
// savepoint, otherwise it opens its own.
func nextSequenceNumber(ctx context.Context, db *gorm.DB, prefix string, at time.Time) (string, error) {
	key := fmt.Sprintf("%s-%04d-%02d", prefix, at.Year(), int(at.Month()))

	var value int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq NumberSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("key = ?", key).
			First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = NumberSequence{Key: key, Value: 1}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
			value = seq.Value
			return nil
		}
		if err != nil {
			return err
		}

		seq.Value++
		if err := tx.Model(&NumberSequence{}).Where("key = ?", key).
			Update("value", seq.Value).Error; err != nil {
			return err
		}
		value = seq.Value
		return nil
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%04d", key, value), nil
}
