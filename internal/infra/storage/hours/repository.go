package hours

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-WashBookingService/internal/domain"
	"github.com/m04kA/SMC-WashBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WashBookingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с рабочими часами моек
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочих часов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTenant получает рабочие часы мойки, отсортированные по дню недели
// Пустой результат не является ошибкой - отсутствие конфигурации
// интерпретирует вызывающая сторона
func (r *Repository) GetByTenant(ctx context.Context, tenantID int64) ([]*domain.OperatingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"tenant_id",
		"day_of_week",
		"open_time",
		"close_time",
		"is_closed",
	).
		From("operating_hours").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanHours(rows)
}

// ReplaceAll полностью заменяет рабочие часы мойки (delete-all-then-insert)
// Должен вызываться внутри транзакции, чтобы чужие чтения не увидели пустое расписание
func (r *Repository) ReplaceAll(ctx context.Context, tenantID int64, hours []*domain.OperatingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("operating_hours").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceAll - build delete query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceAll - execute delete: %w", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("operating_hours").
		Columns("tenant_id", "day_of_week", "open_time", "close_time", "is_closed")

	for _, h := range hours {
		insertBuilder = insertBuilder.Values(tenantID, h.DayOfWeek, h.OpenTime, h.CloseTime, h.IsClosed)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceAll - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceAll - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// scanHours сканирует результаты запроса в слайс рабочих часов
func (r *Repository) scanHours(rows *sql.Rows) ([]*domain.OperatingHours, error) {
	hours := make([]*domain.OperatingHours, 0)

	for rows.Next() {
		var h domain.OperatingHours

		// types.TimeString реализует sql.Scanner, NULL дает пустое значение
		err := rows.Scan(
			&h.TenantID,
			&h.DayOfWeek,
			&h.OpenTime,
			&h.CloseTime,
			&h.IsClosed,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanHours - scan row: %w", ErrScanRow, err)
		}

		hours = append(hours, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanHours - rows error: %w", ErrScanRow, err)
	}

	return hours, nil
}
