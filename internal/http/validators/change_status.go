package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-tracker.com/task-tracker/internal/data_models"
)

func ValidateChangeStatusRequest(r *dto.ChangeStatusRequest) error {
	if r.Status == nil || (*r.Status != 1 && *r.Status != 2) {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be 1 or 2")
	}
	return nil
}
