package services

import (
	"context"
	"log"
	"time"

	"task-tracker.com/task-tracker/internal/constants"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	"task-tracker.com/task-tracker/internal/lock"
	model "task-tracker.com/task-tracker/internal/models"
	repository "task-tracker.com/task-tracker/internal/repositories"
)

const assignedToYou = "You are assigned"

type TaskService struct {
	tasks  repository.TaskRepository
	logs   repository.LogRepository
	users  repository.UserRepository
	locker lock.Locker
	now    func() time.Time
}

type Option func(*TaskService)

func WithLocker(locker lock.Locker) Option {
	return func(s *TaskService) {
		s.locker = locker
	}
}

// WithClock sets the source of the date written to log entries.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

func NewTaskService(
	tasks repository.TaskRepository,
	logs repository.LogRepository,
	users repository.UserRepository,
	opts ...Option,
) *TaskService {
	s := &TaskService{
		tasks:  tasks,
		logs:   logs,
		users:  users,
		locker: lock.NewMutexLocker(nil),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShowAll lists every task whose assignee resolves, numbered from 1.
func (s *TaskService) ShowAll(ctx context.Context, loginUser model.User) ([]model.TaskListing, error) {
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]model.TaskListing, 0, len(tasks))
	for i, task := range tasks {
		assignee := task.RepUser.Name
		if task.RepUser.Code == loginUser.Code {
			assignee = assignedToYou
		}
		listings = append(listings, model.TaskListing{
			Index:       i + 1,
			Code:        task.Code,
			Name:        task.Name,
			Assignee:    assignee,
			StatusLabel: task.Status.Label(),
		})
	}
	return listings, nil
}

// Save creates a not started task assigned to repUserCode and records the
// creation in the change log under loginUser.
func (s *TaskService) Save(ctx context.Context, code int, name string, repUserCode int, loginUser model.User) (*model.Task, error) {
	var task *model.Task
	err := s.withLock(ctx, func() error {
		repUser, err := s.users.FindByCode(ctx, repUserCode)
		if err != nil {
			return err
		}
		if repUser == nil {
			return apperrors.ErrUserNotFound
		}

		taken, err := s.codeTaken(ctx, code)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrTaskCodeTaken
		}

		task = &model.Task{
			Code:    code,
			Name:    name,
			Status:  constants.StatusNotStarted,
			RepUser: *repUser,
		}
		if err := s.tasks.Save(ctx, *task); err != nil {
			return err
		}

		return s.logs.Save(ctx, s.logEntry(code, loginUser, constants.StatusNotStarted))
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ChangeStatus moves a task one step forward and records the change.
func (s *TaskService) ChangeStatus(ctx context.Context, code int, status constants.TaskStatus, loginUser model.User) (*model.Task, error) {
	var task *model.Task
	err := s.withLock(ctx, func() error {
		var err error
		task, err = s.tasks.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if task == nil {
			return apperrors.ErrTaskNotFound
		}

		if !constants.CanTransition(task.Status, status) {
			return apperrors.ErrInvalidTransition
		}

		task.Status = status
		if err := s.tasks.Update(ctx, *task); err != nil {
			return err
		}

		return s.logs.Save(ctx, s.logEntry(task.Code, loginUser, status))
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a done task together with its change history.
func (s *TaskService) Delete(ctx context.Context, code int) error {
	return s.withLock(ctx, func() error {
		task, err := s.tasks.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if task == nil {
			return apperrors.ErrTaskNotFound
		}
		if task.Status != constants.StatusDone {
			return apperrors.ErrTaskNotCompleted
		}

		if err := s.tasks.Delete(ctx, code); err != nil {
			return err
		}
		return s.logs.DeleteByTaskCode(ctx, code)
	})
}

// History returns the change log of one task, oldest first.
func (s *TaskService) History(ctx context.Context, code int) ([]model.LogEntry, error) {
	task, err := s.tasks.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperrors.ErrTaskNotFound
	}
	return s.logs.FindByTaskCode(ctx, code)
}

// Integrity returns every stored task row with its assignee resolution, so
// rows hidden from ShowAll can be inspected.
func (s *TaskService) Integrity(ctx context.Context) ([]model.TaskRecord, error) {
	return s.tasks.FindAllResolved(ctx)
}

func (s *TaskService) codeTaken(ctx context.Context, code int) (bool, error) {
	records, err := s.tasks.FindAllResolved(ctx)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.Task.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *TaskService) logEntry(taskCode int, loginUser model.User, status constants.TaskStatus) model.LogEntry {
	return model.LogEntry{
		TaskCode:       taskCode,
		ChangeUserCode: loginUser.Code,
		Status:         status,
		ChangeDate:     s.today(),
	}
}

func (s *TaskService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *TaskService) withLock(ctx context.Context, fn func() error) error {
	if err := s.locker.Acquire(ctx); err != nil {
		return err
	}
	defer s.releaseLock(context.WithoutCancel(ctx))

	return fn()
}

// releaseLock runs on a context that outlives the caller's cancellation, so
// a request dropped mid-write still hands the lock back.
func (s *TaskService) releaseLock(ctx context.Context) {
	if err := s.locker.Release(ctx); err != nil {
		log.Printf("failed to release store lock: %v", err)
	}
}
