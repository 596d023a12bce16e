// Package views renders the calendar, board and list presentations of the
// task collection.
package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yousefammmar/zenith-flow/internal/models"
)

// EditTask asks the composer to open the edit dialog for a task
type EditTask struct {
	Task models.TaskWithProject
}

func editTask(t models.TaskWithProject) tea.Cmd {
	return func() tea.Msg { return EditTask{Task: t} }
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
