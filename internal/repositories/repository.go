package repository

import (
	"context"

	model "task-tracker.com/task-tracker/internal/models"
)

// Lookups that find nothing return a nil record and a nil error.

type UserRepository interface {
	FindAll(ctx context.Context) ([]model.User, error)
	FindByCode(ctx context.Context, code int) (*model.User, error)
	FindByEmailAndPassword(ctx context.Context, email, password string) (*model.User, error)
	Save(ctx context.Context, user model.User) error
}

type TaskRepository interface {
	FindAll(ctx context.Context) ([]model.Task, error)
	FindAllResolved(ctx context.Context) ([]model.TaskRecord, error)
	FindByCode(ctx context.Context, code int) (*model.Task, error)
	Save(ctx context.Context, task model.Task) error
	Update(ctx context.Context, task model.Task) error
	Delete(ctx context.Context, code int) error
}

type LogRepository interface {
	FindAll(ctx context.Context) ([]model.LogEntry, error)
	FindByTaskCode(ctx context.Context, taskCode int) ([]model.LogEntry, error)
	Save(ctx context.Context, entry model.LogEntry) error
	DeleteByTaskCode(ctx context.Context, taskCode int) error
}

// Initializer creates the backing file or table when it does not exist yet.
type Initializer interface {
	Init(ctx context.Context) error
}

func resolveTasks(rows []taskRow, users []model.User) []model.TaskRecord {
	byCode := make(map[int]model.User, len(users))
	for _, u := range users {
		if _, ok := byCode[u.Code]; !ok {
			byCode[u.Code] = u
		}
	}

	records := make([]model.TaskRecord, 0, len(rows))
	for _, row := range rows {
		rec := model.TaskRecord{
			Task: model.Task{
				Code:   row.Code,
				Name:   row.Name,
				Status: row.Status,
			},
			AssigneeCode: row.RepUserCode,
			Resolution:   model.DanglingAssignee,
		}
		if u, ok := byCode[row.RepUserCode]; ok {
			rec.Task.RepUser = u
			rec.Resolution = model.Loaded
		}
		records = append(records, rec)
	}
	return records
}

func loadedTasks(records []model.TaskRecord) []model.Task {
	tasks := make([]model.Task, 0, len(records))
	for _, rec := range records {
		if rec.Resolution == model.Loaded {
			tasks = append(tasks, rec.Task)
		}
	}
	return tasks
}
