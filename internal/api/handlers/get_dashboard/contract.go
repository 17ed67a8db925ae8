package get_dashboard

import (
	"context"

	"github.com/m04kA/SMC-WashBookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetDashboard(ctx context.Context, tenantID int64) (*models.DashboardResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
