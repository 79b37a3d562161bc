package model

import (
	"task-tracker.com/task-tracker/internal/constants"
)

type Task struct {
	Code    int                  `json:"code"`
	Name    string               `json:"name"`
	Status  constants.TaskStatus `json:"status"`
	RepUser User                 `json:"rep_user"`
}

// Resolution tags how a task row was loaded.
type Resolution int

const (
	Loaded Resolution = iota
	// DanglingAssignee marks a row whose assignee code matches no user.
	DanglingAssignee
)

func (r Resolution) String() string {
	if r == DanglingAssignee {
		return "dangling assignee"
	}
	return "loaded"
}

// TaskRecord is one stored task row together with how its assignee resolved.
// RepUser on Task is only populated when Resolution is Loaded.
type TaskRecord struct {
	Task         Task
	AssigneeCode int
	Resolution   Resolution
}

// TaskListing is a task rendered for display to a logged in user.
type TaskListing struct {
	Index       int    `json:"index"`
	Code        int    `json:"code"`
	Name        string `json:"name"`
	Assignee    string `json:"assignee"`
	StatusLabel string `json:"status"`
}
