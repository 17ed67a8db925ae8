// Package audit журнал действий над сущностями ядра бронирования
//
// Запись аудита - fire-and-forget: ошибка записи логируется вызывающей
// стороной и никогда не роняет основную операцию
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WashBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WashBookingService/pkg/psqlbuilder"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("audit.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("audit.repository: failed to execute query")
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Entry одна запись журнала аудита
type Entry struct {
	ActorID    int64
	TenantID   *int64
	Action     string // например "booking.create", "slot.block"
	EntityType string // "booking" | "time_slot" | "operating_hours"
	EntityID   string
	OldValues  interface{}
	NewValues  interface{}
}

// Repository репозиторий журнала аудита
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аудита
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Record пишет запись аудита
// Намеренно выполняется вне транзакции основной операции: откат бронирования
// не должен стирать след попытки, а ошибка аудита - откатывать бронирование
func (r *Repository) Record(ctx context.Context, entry Entry) error {
	oldValues, err := marshalValues(entry.OldValues)
	if err != nil {
		return fmt.Errorf("%w: Record - marshal old values: %w", ErrExecQuery, err)
	}
	newValues, err := marshalValues(entry.NewValues)
	if err != nil {
		return fmt.Errorf("%w: Record - marshal new values: %w", ErrExecQuery, err)
	}

	query, args, err := psqlbuilder.Insert("audit_logs").
		Columns("actor_id", "tenant_id", "action", "entity_type", "entity_id", "old_values", "new_values").
		Values(entry.ActorID, entry.TenantID, entry.Action, entry.EntityType, entry.EntityID, oldValues, newValues).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Record - build insert query: %w", ErrBuildQuery, err)
	}

	// Аудит пишется напрямую в r.db, минуя транзакцию из context
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Record - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

func marshalValues(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
