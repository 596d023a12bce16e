package models

import "time"

// DefaultProjectColor is applied to projects created without a color
const DefaultProjectColor = "#3b82f6"

// Status is the workflow state of a task
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists every status in board order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Label returns the human readable form, e.g. "IN PROGRESS"
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "TODO"
	case StatusInProgress:
		return "IN PROGRESS"
	case StatusDone:
		return "DONE"
	}
	return string(s)
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority is the importance of a task
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Project groups tasks under a name and a color
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Task represents a single task
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	ProjectID   *string    `json:"projectId"`
	DueDate     *time.Time `json:"dueDate"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	AllDay      bool       `json:"allDay"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TaskWithProject is a task joined with the project it references.
// Project is nil when the task has no project.
type TaskWithProject struct {
	Task
	Project *Project `json:"project"`
}

// ProjectColor returns the color of the task's project, or the default color
func (t TaskWithProject) ProjectColor() string {
	if t.Project != nil && t.Project.Color != "" {
		return t.Project.Color
	}
	return DefaultProjectColor
}
