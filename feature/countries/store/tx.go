package store

import (
	"errors"
	"fmt"
	"sync"

	"country-cache/feature/countries/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TxState is the lifecycle of a transaction handle.
type TxState int

const (
	TxOpen TxState = iota
	TxCommitted
	TxRolledBack
)

func (s TxState) String() string {
	switch s {
	case TxOpen:
		return "open"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("TxState(%d)", int(s))
	}
}

// ErrTxFinished is returned when a finished transaction is used again.
var ErrTxFinished = errors.New("transaction already finished")

// Tx is a database transaction whose state is the single source of truth for
// whether it may still be committed or rolled back.
type Tx struct {
	mu        sync.Mutex
	db        *gorm.DB
	state     TxState
	batchSize int
}

// State returns the current transaction state.
func (t *Tx) State() TxState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// UpsertBatch inserts rows or, when name_key already exists, rewrites every
// mutable column. Rows are sent in chunks of the store's batch size, all inside
// this transaction.
func (t *Tx) UpsertBatch(rows []models.Country) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TxOpen {
		return 0, ErrTxFinished
	}
	if len(rows) == 0 {
		return 0, nil
	}

	result := t.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_key"}},
			DoUpdates: clause.AssignmentColumns(models.MutableColumns),
		}).
		CreateInBatches(&rows, t.batchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to upsert %d countries: %w", len(rows), result.Error)
	}
	return len(rows), nil
}

// Commit makes the transaction's writes visible.
func (t *Tx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TxOpen {
		return ErrTxFinished
	}
	if err := t.db.Commit().Error; err != nil {
		// A failed commit leaves nothing to roll back; the driver has already
		// discarded the transaction.
		t.state = TxRolledBack
		return fmt.Errorf("failed to commit: %w", err)
	}
	t.state = TxCommitted
	return nil
}

// Rollback discards the transaction. It is a no-op once the transaction is no
// longer open, so callers can always defer it.
func (t *Tx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TxOpen {
		return nil
	}
	t.state = TxRolledBack
	if err := t.db.Rollback().Error; err != nil {
		return fmt.Errorf("failed to roll back: %w", err)
	}
	return nil
}
