package model

import (
	"time"

	"task-tracker.com/task-tracker/internal/constants"
)

type LogEntry struct {
	TaskCode       int                  `json:"task_code"`
	ChangeUserCode int                  `json:"change_user_code"`
	Status         constants.TaskStatus `json:"status"`
	ChangeDate     time.Time            `json:"change_date"`
}

func (l LogEntry) ChangeDateString() string {
	return l.ChangeDate.Format(constants.DateLayout)
}
