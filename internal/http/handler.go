package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"task-tracker.com/task-tracker/internal/constants"
	dto "task-tracker.com/task-tracker/internal/data_models"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
	"task-tracker.com/task-tracker/internal/http/validators"
	model "task-tracker.com/task-tracker/internal/models"
	"task-tracker.com/task-tracker/internal/services"
)

type Handler struct {
	taskService *services.TaskService
}

func NewHandler(taskService *services.TaskService) *Handler {
	return &Handler{
		taskService: taskService,
	}
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	loginUser, err := mustLoginUser(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Save(c.Request().Context(), *req.Code, req.Name, *req.RepUserCode, loginUser)
	if err != nil {
		return toHTTPError(err, "failed to create task")
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	loginUser, err := mustLoginUser(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ShowAll(c.Request().Context(), loginUser)
	if err != nil {
		return toHTTPError(err, "failed to list tasks")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) ChangeStatus(c echo.Context) error {
	code, err := taskCode(c)
	if err != nil {
		return err
	}

	var req dto.ChangeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateChangeStatusRequest(&req); err != nil {
		return err
	}

	loginUser, err := mustLoginUser(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.ChangeStatus(c.Request().Context(), code, constants.TaskStatus(*req.Status), loginUser)
	if err != nil {
		return toHTTPError(err, "failed to change task status")
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	code, err := taskCode(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), code); err != nil {
		return toHTTPError(err, "failed to delete task")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) TaskHistory(c echo.Context) error {
	code, err := taskCode(c)
	if err != nil {
		return err
	}

	entries, err := h.taskService.History(c.Request().Context(), code)
	if err != nil {
		return toHTTPError(err, "failed to load task history")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(entries),
		"logs":  entries,
	})
}

func taskCode(c echo.Context) (int, error) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "task code must be a non-negative number")
	}
	return code, nil
}

func mustLoginUser(c echo.Context) (model.User, error) {
	user, ok := middleware.LoginUser(c)
	if !ok {
		return model.User{}, echo.ErrUnauthorized
	}
	return user, nil
}

func toHTTPError(err error, fallback string) error {
	if apperrors.IsDomain(err) {
		return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
	}

	log.Printf("%s: %v", fallback, err)
	return echo.NewHTTPError(http.StatusInternalServerError, fallback)
}
