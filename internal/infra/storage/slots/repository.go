package slots

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WashBookingService/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"tenant_id",
	"slot_date",
	"start_time",
	"end_time",
	"max_capacity",
	"booked_count",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// BulkCreate создает слоты пачкой, молча пропуская дубликаты
// Уникальность (tenant_id, slot_date, start_time) обеспечивается constraint'ом,
// коллизии гасятся через ON CONFLICT DO NOTHING - повторная генерация безопасна
// Возвращает количество реально вставленных слотов
func (r *Repository) BulkCreate(ctx context.Context, slots []*domain.TimeSlot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("time_slots").
		Columns(
			"id",
			"tenant_id",
			"slot_date",
			"start_time",
			"end_time",
			"max_capacity",
			"booked_count",
			"status",
		)

	for _, slot := range slots {
		if slot.ID == uuid.Nil {
			slot.ID = uuid.New()
		}
		insertBuilder = insertBuilder.Values(
			slot.ID,
			slot.TenantID,
			slot.SlotDate,
			slot.StartTime,
			slot.EndTime,
			slot.MaxCapacity,
			0,
			domain.SlotAvailable,
		)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (tenant_id, slot_date, start_time) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: BulkCreate - build insert query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: BulkCreate - execute insert: %w", ErrExecQuery, err)
	}

	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: BulkCreate - get rows affected: %w", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID получает слот по ID
// Внутри транзакции добавляет FOR UPDATE - блокировка строки слота на время
// проверки вместимости и создания бронирования сериализует конкурентные попытки
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	slot, err := r.scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// ListByTenantAndRange получает слоты мойки за период, отсортированные по дате и времени
// Опционально фильтрует по статусу
func (r *Repository) ListByTenantAndRange(
	ctx context.Context,
	tenantID int64,
	startDate, endDate time.Time,
	status *domain.SlotStatus,
) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"slot_date": startDate}).
		Where(squirrel.LtOrEq{"slot_date": endDate}).
		OrderBy("slot_date ASC, start_time ASC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTenantAndRange - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTenantAndRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// Update обновляет вместимость и/или статус слота (менеджерское переопределение)
// Снижение max_capacity ниже booked_count допускается - слот остается занятым,
// пока бронирования не отменят
func (r *Repository) Update(ctx context.Context, id uuid.UUID, maxCapacity *int, status *domain.SlotStatus) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("time_slots").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if maxCapacity != nil {
		updateBuilder = updateBuilder.Set("max_capacity", *maxCapacity)
	}
	if status != nil {
		updateBuilder = updateBuilder.Set("status", *status)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + joinColumns(slotColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	slot, err := r.scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// Block помечает слот заблокированным - новые бронирования запрещены,
// существующие не затрагиваются
func (r *Repository) Block(ctx context.Context, id uuid.UUID) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("status", domain.SlotBlocked).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(slotColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Block - build update query: %w", ErrBuildQuery, err)
	}

	slot, err := r.scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Block - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// Unblock снимает блокировку и пересчитывает статус по занятости
func (r *Repository) Unblock(ctx context.Context, id uuid.UUID) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("status", squirrel.Expr("CASE WHEN booked_count >= max_capacity THEN 'full' ELSE 'available' END")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(slotColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Unblock - build update query: %w", ErrBuildQuery, err)
	}

	slot, err := r.scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Unblock - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// IncrementBooked увеличивает занятость слота на единицу
// Вызывается только внутри транзакции создания бронирования, после FOR UPDATE
// чтения и проверки вместимости. При достижении вместимости слот помечается full,
// блокировка (blocked) при этом не перетирается
func (r *Repository) IncrementBooked(ctx context.Context, id uuid.UUID) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("booked_count", squirrel.Expr("booked_count + 1")).
		Set("status", squirrel.Expr(
			"CASE WHEN status = 'blocked' THEN 'blocked' "+
				"WHEN booked_count + 1 >= max_capacity THEN 'full' "+
				"ELSE 'available' END")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(slotColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: IncrementBooked - build update query: %w", ErrBuildQuery, err)
	}

	slot, err := r.scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: IncrementBooked - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// DecrementBooked уменьшает занятость слота на единицу (не ниже нуля)
// и пересчитывает статус; блокировка сохраняется
func (r *Repository) DecrementBooked(ctx context.Context, id uuid.UUID) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("booked_count", squirrel.Expr("GREATEST(booked_count - 1, 0)")).
		Set("status", squirrel.Expr(
			"CASE WHEN status = 'blocked' THEN 'blocked' "+
				"WHEN GREATEST(booked_count - 1, 0) >= max_capacity THEN 'full' "+
				"ELSE 'available' END")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(slotColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DecrementBooked - build update query: %w", ErrBuildQuery, err)
	}

	slot, err := r.scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: DecrementBooked - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// DeleteUnbookedByRange удаляет слоты мойки за период, не имеющие бронирований
// Слоты с booked_count > 0 никогда не удаляются
func (r *Repository) DeleteUnbookedByRange(ctx context.Context, tenantID int64, startDate, endDate time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"slot_date": startDate}).
		Where(squirrel.LtOrEq{"slot_date": endDate}).
		Where(squirrel.Eq{"booked_count": 0}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbookedByRange - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbookedByRange - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbookedByRange - get rows affected: %w", ErrExecQuery, err)
	}

	return deleted, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSlot сканирует одну строку слота
func (r *Repository) scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.TenantID,
		&slot.SlotDate,
		&slot.StartTime,
		&slot.EndTime,
		&slot.MaxCapacity,
		&slot.BookedCount,
		&slot.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.TimeSlot, error) {
	slots := make([]*domain.TimeSlot, 0)

	for rows.Next() {
		slot, err := r.scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %w", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}

// joinColumns склеивает список колонок для RETURNING
func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
