package layout

import (
	"time"

	"github.com/yousefammmar/zenith-flow/internal/models"
)

// Row is one line of the list table
type Row struct {
	Title        string
	Project      string
	ProjectColor string
	Status       string
	Priority     string
	Due          string
	Task         models.TaskWithProject
}

// Rows turns tasks into table rows in the order given
func Rows(tasks []models.TaskWithProject, loc *time.Location) []Row {
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		r := Row{
			Title:    t.Title,
			Project:  "-",
			Status:   t.Status.Label(),
			Priority: string(t.Priority),
			Due:      "No date",
			Task:     t,
		}
		if t.Project != nil {
			r.Project = t.Project.Name
			r.ProjectColor = t.Project.Color
		}
		if t.DueDate != nil {
			r.Due = t.DueDate.In(loc).Format("Jan 02, 2006")
		}
		rows = append(rows, r)
	}
	return rows
}
