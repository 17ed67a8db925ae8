package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WashBookingService/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr  error
	committed  int
	rolledBack int
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) Commit() error {
	t.committed++
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack++
	return nil
}

type fakeBeginner struct {
	// Ошибки коммита по порядку попыток; после исчерпания коммит успешен
	commitErrs []error
	begun      int
}

func (b *fakeBeginner) BeginTx(_ context.Context, _ *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &fakeTx{}
	if b.begun < len(b.commitErrs) {
		tx.commitErr = b.commitErrs[b.begun]
	}
	b.begun++
	return tx, nil
}

func serializationFailure() error {
	return &pq.Error{Code: "40001"}
}

// Ошибка драйвера, завернутая так, как это делают репозиторий и usecase
func wrappedAsUsecaseChain(cause error) error {
	errScan := errors.New("failed to scan row")
	errInternal := errors.New("internal error")

	repoErr := fmt.Errorf("%w: GetByID - scan slot: %w", errScan, cause)
	return fmt.Errorf("%w: failed to get slot: %w", errInternal, repoErr)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"serialization failure", &pq.Error{Code: "40001"}, true},
		{"deadlock detected", &pq.Error{Code: "40P01"}, true},
		{"wrapped through repo and usecase", wrappedAsUsecaseChain(serializationFailure()), true},
		{"commit failure wrap", fmt.Errorf("%w: %w", ErrCommitTx, serializationFailure()), true},
		{"other pq code", &pq.Error{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryable(tt.err))
		})
	}
}

func TestDoSerializable_RetriesWrappedSerializationFailure(t *testing.T) {
	manager := NewTransactionManager(&fakeBeginner{})

	calls := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return wrappedAsUsecaseChain(serializationFailure())
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoSerializable_RetriesCommitFailure(t *testing.T) {
	beginner := &fakeBeginner{commitErrs: []error{serializationFailure()}}
	manager := NewTransactionManager(beginner)

	calls := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoSerializable_GivesUpAfterMaxRetries(t *testing.T) {
	manager := NewTransactionManager(&fakeBeginner{})

	calls := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return wrappedAsUsecaseChain(serializationFailure())
	})

	require.Error(t, err)
	assert.Equal(t, maxSerializableRetries, calls)

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))
}

func TestDoSerializable_NoRetryOnDomainError(t *testing.T) {
	manager := NewTransactionManager(&fakeBeginner{})
	domainErr := errors.New("slot is full")

	calls := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return domainErr
	})

	assert.ErrorIs(t, err, domainErr)
	assert.Equal(t, 1, calls)
}
