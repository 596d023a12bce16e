// Package dialogs holds the create-project, create-task and edit-task forms.
// Each form validates locally, runs its action as a tea.Cmd and stays pending
// until the result arrives.
package dialogs

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/yousefammmar/zenith-flow/internal/actions"
	"github.com/yousefammmar/zenith-flow/internal/schema"
	"github.com/yousefammmar/zenith-flow/internal/ui/styles"
)

// Saved is sent once a dialog's action succeeded
type Saved struct {
	Message string
}

// Date formats accepted by the date fields
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

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

// formErrors turns a validation error into per-field messages. Errors that
// are not field errors land under the empty key.
func formErrors(err error) map[string]string {
	if fe, ok := schema.AsFieldErrors(err); ok {
		return fe.Map()
	}
	return map[string]string{"": err.Error()}
}

// resultErrors returns the field messages carried by a failed result
func resultErrors[T any](res actions.Result[T]) map[string]string {
	if res.Failure != nil && len(res.Failure.Fields) > 0 {
		return res.Failure.Fields
	}
	return nil
}

// parseDate reads an optional YYYY-MM-DD value as local midnight
func parseDate(s string, loc *time.Location) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// parseDateTime reads an optional "YYYY-MM-DD HH:MM" value. A bare date
// means midnight.
func parseDateTime(s string, loc *time.Location) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	if t, err := time.ParseInLocation(DateTimeLayout, s, loc); err == nil {
		return &t, true
	}
	return parseDate(s, loc)
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(DateLayout)
}

func formatDateTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(DateTimeLayout)
}

// field renders a labelled input with its error below it
func field(s *styles.Styles, label, input string, focused bool, width int, errMsg string) string {
	style := s.Input
	if focused {
		style = s.InputFocused
	}
	parts := []string{label + ":", style.Width(width).Render(input)}
	if errMsg != "" {
		parts = append(parts, s.FieldError.Render("  "+errMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// choice renders a left/right selector
func choice(s *styles.Styles, label, value string, focused bool, width int, errMsg string) string {
	return field(s, label, "‹ "+value+" ›", focused, width, errMsg)
}
