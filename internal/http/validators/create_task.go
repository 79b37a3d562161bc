package validators

import (
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	dto "task-tracker.com/task-tracker/internal/data_models"
)

const maxTaskNameLength = 10

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if r.Code == nil || *r.Code < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "code must be a non-negative number")
	}
	if utf8.RuneCountInString(r.Name) > maxTaskNameLength {
		return echo.NewHTTPError(http.StatusBadRequest, "name must be 10 characters or fewer")
	}
	if r.RepUserCode == nil || *r.RepUserCode < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "rep_user_code must be a non-negative number")
	}
	return nil
}
