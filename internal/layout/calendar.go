// Package layout buckets an already loaded task list into the shapes the
// calendar, board and list views draw. Nothing here reorders tasks within a
// bucket.
package layout

import (
	"time"

	"github.com/yousefammmar/zenith-flow/internal/models"
)

// Weekdays are the calendar column headers, Sunday first
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Cell is one day of the calendar grid
type Cell struct {
	Date    time.Time
	InMonth bool
	IsToday bool
	Tasks   []models.TaskWithProject
}

// Grid is a month laid out in full weeks
type Grid struct {
	Month time.Time // first day of the displayed month
	Cells []Cell    // len(Cells) is a multiple of 7
}

// Weeks returns the cells split into rows of seven
func (g Grid) Weeks() [][]Cell {
	weeks := make([][]Cell, 0, len(g.Cells)/7)
	for i := 0; i+7 <= len(g.Cells); i += 7 {
		weeks = append(weeks, g.Cells[i:i+7])
	}
	return weeks
}

// IndexOf returns the index of the cell for day, or -1
func (g Grid) IndexOf(day time.Time) int {
	for i, c := range g.Cells {
		if SameDay(c.Date, day) {
			return i
		}
	}
	return -1
}

// MonthStart returns midnight on the first day of t's month, in t's location
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AddMonths moves month by n months and returns the first day of the result
func AddMonths(month time.Time, n int) time.Time {
	start := MonthStart(month)
	return time.Date(start.Year(), start.Month()+time.Month(n), 1, 0, 0, 0, 0, start.Location())
}

// SameDay reports whether b falls on a's calendar day, judged in a's location
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MonthGrid lays out the month containing month from the Sunday on or before
// the 1st to the Saturday on or after the last day. A task lands in the cell
// of its due date and in the cell of its start time; a task with neither
// lands nowhere.
func MonthGrid(month, today time.Time, tasks []models.TaskWithProject) Grid {
	first := MonthStart(month)
	last := AddMonths(first, 1).AddDate(0, 0, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	g := Grid{Month: first}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		g.Cells = append(g.Cells, Cell{
			Date:    day,
			InMonth: day.Month() == first.Month() && day.Year() == first.Year(),
			IsToday: SameDay(day, today),
			Tasks:   TasksOn(day, tasks),
		})
	}
	return g
}

// TasksOn selects, in input order, the tasks due or starting on day
func TasksOn(day time.Time, tasks []models.TaskWithProject) []models.TaskWithProject {
	var out []models.TaskWithProject
	for _, t := range tasks {
		if (t.DueDate != nil && SameDay(day, *t.DueDate)) ||
			(t.StartTime != nil && SameDay(day, *t.StartTime)) {
			out = append(out, t)
		}
	}
	return out
}
