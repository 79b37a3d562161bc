package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"task-tracker.com/task-tracker/internal/constants"
	model "task-tracker.com/task-tracker/internal/models"
)

var logHeader = []string{"Task_Code", "Change_User_Code", "Status", "Change_Date"}

type CSVLogRepository struct {
	file csvFile
}

func NewCSVLogRepository(path string) *CSVLogRepository {
	return &CSVLogRepository{file: csvFile{path: path, header: logHeader}}
}

func (r *CSVLogRepository) Init(ctx context.Context) error {
	return r.file.init(ctx)
}

func (r *CSVLogRepository) parse(row []string) (model.LogEntry, error) {
	taskCode, err := parseInt(r.file.path, "task code", row[0])
	if err != nil {
		return model.LogEntry{}, err
	}
	userCode, err := parseInt(r.file.path, "user code", row[1])
	if err != nil {
		return model.LogEntry{}, err
	}
	status, err := parseInt(r.file.path, "status", row[2])
	if err != nil {
		return model.LogEntry{}, err
	}
	date, err := time.Parse(constants.DateLayout, row[3])
	if err != nil {
		return model.LogEntry{}, fmt.Errorf("error parsing change date %q in file %s: %w", row[3], r.file.path, err)
	}
	return model.LogEntry{
		TaskCode:       taskCode,
		ChangeUserCode: userCode,
		Status:         constants.TaskStatus(status),
		ChangeDate:     date,
	}, nil
}

func (r *CSVLogRepository) FindAll(ctx context.Context) ([]model.LogEntry, error) {
	rows, err := r.file.readRows(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LogEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) != fieldsPerRow {
			continue
		}
		entry, err := r.parse(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *CSVLogRepository) FindByTaskCode(ctx context.Context, taskCode int) ([]model.LogEntry, error) {
	entries, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]model.LogEntry, 0)
	for _, e := range entries {
		if e.TaskCode == taskCode {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (r *CSVLogRepository) Save(ctx context.Context, entry model.LogEntry) error {
	return r.file.appendRow(ctx, logFields(entry))
}

// DeleteByTaskCode rewrites the file without the task's entries. Nothing is
// written when the task has no entries.
func (r *CSVLogRepository) DeleteByTaskCode(ctx context.Context, taskCode int) error {
	raw, err := r.file.readRows(ctx)
	if err != nil {
		return err
	}

	kept := make([][]string, 0, len(raw))
	for _, fields := range raw {
		if len(fields) == fieldsPerRow {
			code, err := parseInt(r.file.path, "task code", fields[0])
			if err != nil {
				return err
			}
			if code == taskCode {
				continue
			}
		}
		kept = append(kept, fields)
	}
	if len(kept) == len(raw) {
		return nil
	}

	return r.file.rewrite(ctx, kept)
}

func logFields(entry model.LogEntry) []string {
	return []string{
		strconv.Itoa(entry.TaskCode),
		strconv.Itoa(entry.ChangeUserCode),
		strconv.Itoa(int(entry.Status)),
		entry.ChangeDateString(),
	}
}
