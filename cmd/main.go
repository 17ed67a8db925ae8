package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	blockSlotHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/block_slot"
	cancelBookingHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/create_booking"
	deleteSlotsHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/delete_slots"
	generateSlotsHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/generate_slots"
	getAvailableSlotsHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/get_customer_bookings"
	getDashboardHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/get_dashboard"
	getManagerSlotsHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/get_manager_slots"
	getOperatingHoursHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/get_operating_hours"
	getTenantBookingsHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/get_tenant_bookings"
	setOperatingHoursHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/set_operating_hours"
	unblockSlotHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/unblock_slot"
	updateBookingStatusHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/update_booking_status"
	updateSlotHandler "github.com/m04kA/SMC-WashBookingService/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-WashBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-WashBookingService/internal/config"
	auditRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/audit"
	bookingsRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/bookings"
	catalogRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/catalog"
	hoursRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/hours"
	slotsRepo "github.com/m04kA/SMC-WashBookingService/internal/infra/storage/slots"
	bookingsService "github.com/m04kA/SMC-WashBookingService/internal/service/bookings"
	slotsService "github.com/m04kA/SMC-WashBookingService/internal/service/slots"
	cancelBookingUC "github.com/m04kA/SMC-WashBookingService/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/SMC-WashBookingService/internal/usecase/create_booking"
	generateSlotsUC "github.com/m04kA/SMC-WashBookingService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-WashBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WashBookingService/pkg/logger"
	"github.com/m04kA/SMC-WashBookingService/pkg/metrics"
	"github.com/m04kA/SMC-WashBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-WashBookingService/pkg/txmanager"
)

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-WashBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		slotRepository    *slotsRepo.Repository
		hoursRepository   *hoursRepo.Repository
		bookingRepository *bookingsRepo.Repository
		catalogRepository *catalogRepo.Repository
		auditRepository   *auditRepo.Repository
	)

	type txManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr txManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotsRepo.NewRepository(wrappedDB)
		hoursRepository = hoursRepo.NewRepository(wrappedDB)
		bookingRepository = bookingsRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		auditRepository = auditRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotsRepo.NewRepository(db)
		hoursRepository = hoursRepo.NewRepository(db)
		bookingRepository = bookingsRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		auditRepository = auditRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(
		slotRepository,
		hoursRepository,
		auditRepository,
		txMgr,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		auditRepository,
		realClock{},
		log,
	)

	// Инициализируем use cases
	generateSlotsUseCase := generateSlotsUC.NewUseCase(
		slotRepository,
		hoursRepository,
		auditRepository,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		catalogRepository,
		auditRepository,
		txMgr,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		auditRepository,
		txMgr,
		cfg.Booking.CancellationNoticeMinutes,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(slotSvc, log)
	getManagerSlots := getManagerSlotsHandler.NewHandler(slotSvc, log)
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	updateSlot := updateSlotHandler.NewHandler(slotSvc, log)
	blockSlot := blockSlotHandler.NewHandler(slotSvc, log)
	unblockSlot := unblockSlotHandler.NewHandler(slotSvc, log)
	deleteSlots := deleteSlotsHandler.NewHandler(slotSvc, log)
	getOperatingHours := getOperatingHoursHandler.NewHandler(slotSvc, log)
	setOperatingHours := setOperatingHoursHandler.NewHandler(slotSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getTenantBookings := getTenantBookingsHandler.NewHandler(bookingSvc, log)
	getDashboard := getDashboardHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты мойки
	api.HandleFunc("/tenants/{tenantId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/users/{userId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Управление мойкой (для менеджеров) ---
	// Инвентарь слотов
	protected.HandleFunc("/tenants/{tenantId}/slots", getManagerSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId}/slots", deleteSlots.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/tenants/{tenantId}/slots/generate", generateSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/{tenantId}/slots/{slotId}", updateSlot.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/tenants/{tenantId}/slots/{slotId}/block", blockSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/{tenantId}/slots/{slotId}/unblock", unblockSlot.Handle).Methods(http.MethodPost)

	// Расписание работы
	protected.HandleFunc("/tenants/{tenantId}/operating-hours", getOperatingHours.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId}/operating-hours", setOperatingHours.Handle).Methods(http.MethodPut)

	// Бронирования мойки
	protected.HandleFunc("/tenants/{tenantId}/bookings", getTenantBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId}/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Панель менеджера
	protected.HandleFunc("/tenants/{tenantId}/dashboard", getDashboard.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
