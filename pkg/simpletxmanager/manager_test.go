package simpletxmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	cause := &pq.Error{Code: "40001"}

	// Цепочка оберток репозитория и usecase не должна скрывать код ошибки
	repoErr := fmt.Errorf("%w: GetByID - scan slot: %w", errors.New("failed to scan row"), cause)
	chained := fmt.Errorf("%w: failed to get slot: %w", errors.New("internal error"), repoErr)

	assert.True(t, isRetryable(cause))
	assert.True(t, isRetryable(chained))
	assert.True(t, isRetryable(&pq.Error{Code: "40P01"}))
	assert.True(t, isRetryable(fmt.Errorf("%w: %w", ErrCommitTx, cause)))

	assert.False(t, isRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, isRetryable(errors.New("boom")))
	assert.False(t, isRetryable(nil))
}
