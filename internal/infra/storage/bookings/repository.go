package bookings

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

var bookingColumns = []string{
	"id",
	"tenant_id",
	"customer_id",
	"service_id",
	"time_slot_id",
	"booking_date",
	"start_time",
	"end_time",
	"total_amount",
	"status",
	"payment_status",
	"cancellation_reason",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается только внутри транзакции создания бронирования - вставка и
// инкремент занятости слота должны зафиксироваться как одно целое
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"tenant_id",
			"customer_id",
			"service_id",
			"time_slot_id",
			"booking_date",
			"start_time",
			"end_time",
			"total_amount",
			"status",
			"payment_status",
			"notes",
		).
		Values(
			booking.ID,
			booking.TenantID,
			booking.CustomerID,
			booking.ServiceID,
			booking.TimeSlotID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.TotalAmount,
			booking.Status,
			booking.PaymentStatus,
			booking.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции добавляет FOR UPDATE - отмена читает бронирование под
// блокировкой, чтобы две конкурентные отмены не списали место дважды
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetDetailsByID получает бронирование с присоединенными данными услуги и клиента
func (r *Repository) GetDetailsByID(ctx context.Context, id uuid.UUID) (*domain.BookingDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := detailsSelect().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetailsByID - build select query: %w", ErrBuildQuery, err)
	}

	details, err := r.scanDetails(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetailsByID - scan booking: %w", ErrScanRow, err)
	}

	return details, nil
}

// ListByCustomer получает историю бронирований клиента с пагинацией
// Возвращает страницу и общее количество
func (r *Repository) ListByCustomer(
	ctx context.Context,
	customerID int64,
	status *domain.BookingStatus,
	limit, offset int,
) ([]*domain.BookingDetails, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := detailsSelect().
		Where(squirrel.Eq{"b.customer_id": customerID}).
		OrderBy("b.booking_date DESC, b.start_time DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	countBuilder := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID})

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *status})
		countBuilder = countBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListByCustomer - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListByCustomer - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	details, err := r.scanDetailsList(rows)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, executor, countBuilder, "ListByCustomer")
	if err != nil {
		return nil, 0, err
	}

	return details, total, nil
}

// ListByTenant получает бронирования мойки с фильтрацией по статусу и периоду
// Возвращает страницу и общее количество под тем же фильтром
func (r *Repository) ListByTenant(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.BookingDetails, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := detailsSelect().
		Where(squirrel.Eq{"b.tenant_id": filter.TenantID})

	countBuilder := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"tenant_id": filter.TenantID})

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
		countBuilder = countBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.booking_date": *filter.StartDate})
		countBuilder = countBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"b.booking_date": *filter.EndDate})
		countBuilder = countBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	// Для конкретной даты сортируем по времени начала, для периода - сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("b.start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("b.booking_date DESC, b.start_time DESC")
	}

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListByTenant - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListByTenant - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	details, err := r.scanDetailsList(rows)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, executor, countBuilder, "ListByTenant")
	if err != nil {
		return nil, 0, err
	}

	return details, total, nil
}

// UpdateStatus обновляет статус бронирования (и опционально статус оплаты)
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.BookingStatus,
	paymentStatus *domain.PaymentStatus,
) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if paymentStatus != nil {
		updateBuilder = updateBuilder.Set("payment_status", *paymentStatus)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// Cancel отменяет бронирование с указанием причины
// Физическое удаление не выполняется - история сохраняется
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, reason string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %w", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetTenantStats собирает агрегаты дашборда одним запросом
// Выручка считается только по оплаченным бронированиям
func (r *Repository) GetTenantStats(ctx context.Context, tenantID int64, today, monthStart time.Time) (*domain.DashboardStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE booking_date = $2)                                                  AS today_count,
			COUNT(*) FILTER (WHERE booking_date >= $2 AND status IN ('reserved', 'confirmed'))         AS upcoming_count,
			COUNT(*) FILTER (WHERE status = 'confirmed')                                               AS confirmed_count,
			COUNT(*) FILTER (WHERE status = 'in_progress')                                             AS in_progress_count,
			COUNT(*) FILTER (WHERE status = 'completed')                                               AS completed_count,
			COALESCE(SUM(total_amount) FILTER (WHERE booking_date = $2 AND payment_status = 'paid'), 0)  AS today_revenue,
			COALESCE(SUM(total_amount) FILTER (WHERE booking_date >= $3 AND payment_status = 'paid'), 0) AS monthly_revenue,
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'completed' AND payment_status = 'paid'), 0) AS total_revenue
		FROM bookings
		WHERE tenant_id = $1`

	var stats domain.DashboardStats
	err := executor.QueryRowContext(ctx, query, tenantID, today, monthStart).Scan(
		&stats.TodayCount,
		&stats.UpcomingCount,
		&stats.ConfirmedCount,
		&stats.InProgressCount,
		&stats.CompletedCount,
		&stats.TodayRevenue,
		&stats.MonthlyRevenue,
		&stats.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: GetTenantStats - scan stats: %w", ErrScanRow, err)
	}

	return &stats, nil
}

// GetTodaySchedule получает расписание мойки на день, без отмененных,
// отсортированное по времени начала
func (r *Repository) GetTodaySchedule(ctx context.Context, tenantID int64, day time.Time) ([]*domain.ScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"b.id",
		"b.start_time",
		"b.end_time",
		"u.full_name",
		"s.name",
		"b.status",
	).
		From("bookings b").
		Join("services s ON s.id = b.service_id").
		Join("users u ON u.id = b.customer_id").
		Where(squirrel.Eq{"b.tenant_id": tenantID}).
		Where(squirrel.Eq{"b.booking_date": day}).
		Where(squirrel.NotEq{"b.status": domain.StatusCancelled}).
		OrderBy("b.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTodaySchedule - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetTodaySchedule - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.ScheduleEntry, 0)
	for rows.Next() {
		var entry domain.ScheduleEntry
		err := rows.Scan(
			&entry.BookingID,
			&entry.StartTime,
			&entry.EndTime,
			&entry.CustomerName,
			&entry.ServiceName,
			&entry.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetTodaySchedule - scan row: %w", ErrScanRow, err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetTodaySchedule - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}

// detailsSelect общий SELECT бронирования с данными услуги и клиента
func detailsSelect() squirrel.SelectBuilder {
	columns := make([]string, 0, len(bookingColumns)+4)
	for _, c := range bookingColumns {
		columns = append(columns, "b."+c)
	}
	columns = append(columns,
		"s.name AS service_name",
		"s.price AS service_price",
		"u.full_name AS customer_name",
		"u.email AS customer_email",
	)

	return psqlbuilder.Select(columns...).
		From("bookings b").
		Join("services s ON s.id = b.service_id").
		Join("users u ON u.id = b.customer_id")
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку бронирования
func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.CustomerID,
		&booking.ServiceID,
		&booking.TimeSlotID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.TotalAmount,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CancellationReason,
		&booking.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanDetails сканирует бронирование с присоединенными данными
func (r *Repository) scanDetails(row rowScanner) (*domain.BookingDetails, error) {
	var details domain.BookingDetails
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&details.ID,
		&details.TenantID,
		&details.CustomerID,
		&details.ServiceID,
		&details.TimeSlotID,
		&details.BookingDate,
		&details.StartTime,
		&details.EndTime,
		&details.TotalAmount,
		&details.Status,
		&details.PaymentStatus,
		&details.CancellationReason,
		&details.Notes,
		&createdAt,
		&updatedAt,
		&details.ServiceName,
		&details.ServicePrice,
		&details.CustomerName,
		&details.CustomerEmail,
	)
	if err != nil {
		return nil, err
	}

	details.CreatedAt = createdAt.Time
	details.UpdatedAt = updatedAt.Time

	return &details, nil
}

// scanDetailsList сканирует результаты запроса в слайс бронирований с деталями
func (r *Repository) scanDetailsList(rows *sql.Rows) ([]*domain.BookingDetails, error) {
	details := make([]*domain.BookingDetails, 0)

	for rows.Next() {
		d, err := r.scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanDetailsList - scan row: %w", ErrScanRow, err)
		}
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanDetailsList - rows error: %w", ErrScanRow, err)
	}

	return details, nil
}

// count выполняет COUNT(*) запрос построителя
func (r *Repository) count(ctx context.Context, executor DBExecutor, builder squirrel.SelectBuilder, method string) (int, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build count query: %w", ErrBuildQuery, method, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: %s - scan count: %w", ErrScanRow, method, err)
	}

	return total, nil
}
