package repository

import (
	"context"
	"strconv"

	"task-tracker.com/task-tracker/internal/constants"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
)

var taskHeader = []string{"Code", "Name", "Status", "Rep_User_Code"}

// taskRow is a task as stored, with the assignee kept as a bare code.
type taskRow struct {
	Code        int                  `gorm:"primaryKey;autoIncrement:false"`
	Name        string               `gorm:"not null"`
	Status      constants.TaskStatus `gorm:"not null;default:0"`
	RepUserCode int                  `gorm:"not null;index"`
}

func (taskRow) TableName() string {
	return "tasks"
}

func newTaskRow(task model.Task) taskRow {
	return taskRow{
		Code:        task.Code,
		Name:        task.Name,
		Status:      task.Status,
		RepUserCode: task.RepUser.Code,
	}
}

func (t taskRow) fields() []string {
	return []string{
		strconv.Itoa(t.Code),
		t.Name,
		strconv.Itoa(int(t.Status)),
		strconv.Itoa(t.RepUserCode),
	}
}

type CSVTaskRepository struct {
	file  csvFile
	users UserRepository
}

func NewCSVTaskRepository(path string, users UserRepository) *CSVTaskRepository {
	return &CSVTaskRepository{
		file:  csvFile{path: path, header: taskHeader},
		users: users,
	}
}

func (r *CSVTaskRepository) Init(ctx context.Context) error {
	return r.file.init(ctx)
}

func (r *CSVTaskRepository) parse(row []string) (taskRow, error) {
	code, err := parseInt(r.file.path, "task code", row[0])
	if err != nil {
		return taskRow{}, err
	}
	status, err := parseInt(r.file.path, "status", row[2])
	if err != nil {
		return taskRow{}, err
	}
	userCode, err := parseInt(r.file.path, "user code", row[3])
	if err != nil {
		return taskRow{}, err
	}
	return taskRow{
		Code:        code,
		Name:        row[1],
		Status:      constants.TaskStatus(status),
		RepUserCode: userCode,
	}, nil
}

func (r *CSVTaskRepository) readTaskRows(ctx context.Context) ([]taskRow, error) {
	raw, err := r.file.readRows(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]taskRow, 0, len(raw))
	for _, fields := range raw {
		if len(fields) != fieldsPerRow {
			continue
		}
		row, err := r.parse(fields)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FindAllResolved returns every well formed task row, each tagged with
// whether its assignee could be resolved.
func (r *CSVTaskRepository) FindAllResolved(ctx context.Context) ([]model.TaskRecord, error) {
	rows, err := r.readTaskRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []model.TaskRecord{}, nil
	}

	users, err := r.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return resolveTasks(rows, users), nil
}

// FindAll returns the tasks whose assignee exists.
func (r *CSVTaskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	records, err := r.FindAllResolved(ctx)
	if err != nil {
		return nil, err
	}
	return loadedTasks(records), nil
}

func (r *CSVTaskRepository) FindByCode(ctx context.Context, code int) (*model.Task, error) {
	tasks, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].Code == code {
			return &tasks[i], nil
		}
	}
	return nil, nil
}

func (r *CSVTaskRepository) Save(ctx context.Context, task model.Task) error {
	return r.file.appendRow(ctx, newTaskRow(task).fields())
}

// Update replaces the row with the task's code and rewrites the file. Every
// other row, including ones that would not load, is written back unchanged.
func (r *CSVTaskRepository) Update(ctx context.Context, task model.Task) error {
	raw, err := r.file.readRows(ctx)
	if err != nil {
		return err
	}

	found := false
	for i, fields := range raw {
		if len(fields) != fieldsPerRow {
			continue
		}
		code, err := parseInt(r.file.path, "task code", fields[0])
		if err != nil {
			return err
		}
		if code == task.Code {
			raw[i] = newTaskRow(task).fields()
			found = true
			break
		}
	}
	if !found {
		return apperrors.ErrTaskNotFound
	}

	return r.file.rewrite(ctx, raw)
}

func (r *CSVTaskRepository) Delete(ctx context.Context, code int) error {
	raw, err := r.file.readRows(ctx)
	if err != nil {
		return err
	}

	kept := make([][]string, 0, len(raw))
	for _, fields := range raw {
		if len(fields) == fieldsPerRow {
			rowCode, err := parseInt(r.file.path, "task code", fields[0])
			if err != nil {
				return err
			}
			if rowCode == code {
				continue
			}
		}
		kept = append(kept, fields)
	}
	if len(kept) == len(raw) {
		return apperrors.ErrTaskNotFound
	}

	return r.file.rewrite(ctx, kept)
}
