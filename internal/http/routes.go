package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
	"task-tracker.com/task-tracker/internal/services"
)

func Register(e *echo.Echo, h *Handler, users *services.UserService, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute, middleware.KeyByIP))
	e.Use(middleware.BasicAuth(users))
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute, middleware.KeyByLoginUser))

	e.GET("/tasks", h.ListTasks)
	e.POST("/tasks", h.CreateTask)
	e.PATCH("/tasks/:code/status", h.ChangeStatus)
	e.DELETE("/tasks/:code", h.DeleteTask)
	e.GET("/tasks/:code/logs", h.TaskHistory)
}
