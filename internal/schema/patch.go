package schema

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/yousefammmar/zenith-flow/internal/models"
)

// Nullable is a patch field that tells apart a missing key from an explicit
// null. Set is false when the field was absent; Value is nil for null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Set returns a present, non-null field
func Set[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a present field cleared to null
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// TaskPatch is a partial task update. Nil pointers and unset Nullable fields
// leave the stored value untouched.
type TaskPatch struct {
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	Status      *models.Status      `json:"status,omitempty"`
	Priority    *models.Priority    `json:"priority,omitempty"`
	ProjectID   Nullable[string]    `json:"projectId"`
	DueDate     Nullable[time.Time] `json:"dueDate"`
	StartTime   Nullable[time.Time] `json:"startTime"`
	EndTime     Nullable[time.Time] `json:"endTime"`
	AllDay      *bool               `json:"allDay,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil &&
		!p.ProjectID.Set && !p.DueDate.Set && !p.StartTime.Set && !p.EndTime.Set && p.AllDay == nil
}

// ValidatePatch checks every present field with the rules TaskInput uses.
// An empty project id is treated as a request to clear the project.
func ValidatePatch(p TaskPatch) (TaskPatch, error) {
	var errs FieldErrors

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
		if err := validate.Var(title, "required"); err != nil {
			errs = append(errs, FieldError{Field: "title", Message: message("title", "required", "")})
		}
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		p.Description = &desc
	}
	if p.Status != nil {
		if err := validate.Var(string(*p.Status), "oneof=TODO IN_PROGRESS DONE"); err != nil {
			errs = append(errs, FieldError{Field: "status", Message: message("status", "oneof", "TODO IN_PROGRESS DONE")})
		}
	}
	if p.Priority != nil {
		if err := validate.Var(string(*p.Priority), "oneof=LOW MEDIUM HIGH"); err != nil {
			errs = append(errs, FieldError{Field: "priority", Message: message("priority", "oneof", "LOW MEDIUM HIGH")})
		}
	}
	if p.ProjectID.Value != nil {
		id := strings.TrimSpace(*p.ProjectID.Value)
		if id == "" {
			p.ProjectID = Null[string]()
		} else {
			p.ProjectID = Set(id)
		}
	}
	if p.StartTime.Value != nil && p.EndTime.Value != nil && p.EndTime.Value.Before(*p.StartTime.Value) {
		errs = append(errs, FieldError{Field: "endTime", Message: "End time must not be before start time"})
	}

	if len(errs) > 0 {
		return TaskPatch{}, errs
	}
	return p, nil
}

// TouchesTimes reports whether the patch sets the start or end time
func (p TaskPatch) TouchesTimes() bool {
	return p.StartTime.Set || p.EndTime.Set
}

// ValidateTimes checks a merged task: when both start and end are set the
// end must not precede the start.
func ValidateTimes(t models.Task) error {
	if t.StartTime != nil && t.EndTime != nil && t.EndTime.Before(*t.StartTime) {
		return FieldErrors{{Field: "endTime", Message: "End time must not be before start time"}}
	}
	return nil
}

// Apply copies every present patch field onto t
func (p TaskPatch) Apply(t *models.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ProjectID.Set {
		t.ProjectID = p.ProjectID.Value
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Value
	}
	if p.StartTime.Set {
		t.StartTime = p.StartTime.Value
	}
	if p.EndTime.Set {
		t.EndTime = p.EndTime.Value
	}
	if p.AllDay != nil {
		t.AllDay = *p.AllDay
	}
}
