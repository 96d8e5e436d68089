// Package txmanager runs functions inside database transactions carried
// through context.Context.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/HouseRent-BookingService/pkg/dbmetrics"
)

const (
	DefaultMaxAttempts = 3
	defaultBackoff     = 20 * time.Millisecond
)

var (
	// ErrBeginTx is returned when a transaction could not be started
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx is returned when a commit fails for a reason other than a serialization conflict
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrSerialization is returned when every attempt hit a serialization conflict
	ErrSerialization = errors.New("txmanager: serialization conflict, retries exhausted")
)

// TxBeginner starts transactions. Implemented by *dbmetrics.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

type serializationTracker interface {
	SerializationFailed() bool
}

// Manager runs callbacks in transactions
type Manager struct {
	db          TxBeginner
	maxAttempts int
	backoff     time.Duration
}

// Option configures the manager
type Option func(*Manager)

// WithMaxAttempts bounds how many times a serializable unit is tried
func WithMaxAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithBackoff sets the base delay between serializable retries
func WithBackoff(d time.Duration) Option {
	return func(m *Manager) {
		m.backoff = d
	}
}

// NewTransactionManager creates a manager on top of db
func NewTransactionManager(db TxBeginner, opts ...Option) *Manager {
	m := &Manager{
		db:          db,
		maxAttempts: DefaultMaxAttempts,
		backoff:     defaultBackoff,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do runs fn in a READ COMMITTED transaction
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoReadOnly runs fn in a read-only REPEATABLE READ transaction
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

// DoSerializable runs fn in a SERIALIZABLE transaction. When Postgres aborts
// the transaction with a serialization failure, fn is run again from the
// start in a fresh transaction, up to the configured number of attempts.
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var lastErr error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		retry, err := m.attempt(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err

		if attempt < m.maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.backoff * time.Duration(attempt)):
			}
		}
	}

	return fmt.Errorf("%w: %d attempts: %v", ErrSerialization, m.maxAttempts, lastErr)
}

func (m *Manager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	_, err := m.attempt(ctx, opts, fn)
	return err
}

// attempt runs fn once. retry is true when the failure was a serialization conflict.
func (m *Manager) attempt(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (retry bool, err error) {
	// join the outer transaction
	if dbmetrics.IsInTransaction(ctx) {
		return false, fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return conflicted(tx, err), err
	}

	if err := tx.Commit(); err != nil {
		if dbmetrics.IsSerializationFailure(err) {
			return true, err
		}
		return false, fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return false, nil
}

func conflicted(tx dbmetrics.TxExecutor, err error) bool {
	if dbmetrics.IsSerializationFailure(err) {
		return true
	}
	if t, ok := tx.(serializationTracker); ok {
		return t.SerializationFailed()
	}
	return false
}
