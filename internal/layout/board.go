package layout

import (
	"time"

	"github.com/yousefammmar/zenith-flow/internal/models"
)

// Column is one status lane of the board
type Column struct {
	Status models.Status
	Title  string
	Tasks  []models.TaskWithProject
}

var columnTitles = map[models.Status]string{
	models.StatusTodo:       "To Do",
	models.StatusInProgress: "In Progress",
	models.StatusDone:       "Done",
}

// ColumnTitle returns the board heading for a status
func ColumnTitle(s models.Status) string {
	if title, ok := columnTitles[s]; ok {
		return title
	}
	return string(s)
}

// Board partitions tasks into the TODO, IN_PROGRESS and DONE columns by
// exact status match, keeping the input order within each column.
func Board(tasks []models.TaskWithProject) []Column {
	cols := make([]Column, len(models.Statuses))
	index := make(map[models.Status]int, len(models.Statuses))
	for i, s := range models.Statuses {
		cols[i] = Column{Status: s, Title: ColumnTitle(s), Tasks: []models.TaskWithProject{}}
		index[s] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}

// CardDate formats a board card's due date, e.g. "Mar 4"
func CardDate(t models.TaskWithProject, loc *time.Location) string {
	if t.DueDate == nil {
		return "No date"
	}
	return t.DueDate.In(loc).Format("Jan 2")
}
