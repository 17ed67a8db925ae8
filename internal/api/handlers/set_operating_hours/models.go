package set_operating_hours

import (
	"github.com/m04kA/SMC-WashBookingService/internal/service/slots/models"
)

// SetOperatingHoursRequest HTTP request model
type SetOperatingHoursRequest struct {
	Entries []models.OperatingHoursEntry `json:"entries"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SetOperatingHoursRequest) ToServiceRequest(tenantID int64) *models.SetOperatingHoursRequest {
	return &models.SetOperatingHoursRequest{
		TenantID: tenantID,
		Entries:  r.Entries,
	}
}
