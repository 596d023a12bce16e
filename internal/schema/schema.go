// Package schema holds the validation rules for project and task payloads.
// The same rules gate the dialogs before submit and the actions before any
// storage call.
package schema

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yousefammmar/zenith-flow/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ProjectInput is the raw payload for creating a project
type ProjectInput struct {
	Name        string `json:"name" validate:"required"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Description string `json:"description,omitempty"`
}

// TaskInput is the raw payload for creating a task
type TaskInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description,omitempty"`
	Status      models.Status   `json:"status,omitempty" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority    models.Priority `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	ProjectID   string          `json:"projectId,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	StartTime   *time.Time      `json:"startTime,omitempty"`
	EndTime     *time.Time      `json:"endTime,omitempty"`
	AllDay      bool            `json:"allDay,omitempty"`
}

// ValidateProject trims and checks a project payload, filling in the default color.
func ValidateProject(in ProjectInput) (ProjectInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.TrimSpace(in.Color)
	in.Description = strings.TrimSpace(in.Description)

	if err := validate.Struct(in); err != nil {
		return ProjectInput{}, fieldErrors(err)
	}
	if in.Color == "" {
		in.Color = models.DefaultProjectColor
	}
	return in, nil
}

// ValidateTask trims and checks a task payload, filling in the default
// status and priority.
func ValidateTask(in TaskInput) (TaskInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ProjectID = strings.TrimSpace(in.ProjectID)

	var errs FieldErrors
	if err := validate.Struct(in); err != nil {
		errs = fieldErrors(err)
	}
	if in.StartTime != nil && in.EndTime != nil && in.EndTime.Before(*in.StartTime) {
		errs = append(errs, FieldError{Field: "endTime", Message: "End time must not be before start time"})
	}
	if len(errs) > 0 {
		return TaskInput{}, errs
	}

	if in.Status == "" {
		in.Status = models.StatusTodo
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	return in, nil
}

// FieldError is a single rule violation on a named field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects every violation found in one payload
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Map returns the violations keyed by field name
func (e FieldErrors) Map() map[string]string {
	m := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := m[fe.Field]; !ok {
			m[fe.Field] = fe.Message
		}
	}
	return m
}

// AsFieldErrors extracts FieldErrors from err, if any
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func fieldErrors(err error) FieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{{Field: "", Message: err.Error()}}
	}
	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe.Field(), fe.Tag(), fe.Param())})
	}
	return out
}

var fieldLabels = map[string]string{
	"name":      "Name",
	"color":     "Color",
	"title":     "Title",
	"status":    "Status",
	"priority":  "Priority",
	"projectId": "Project",
	"dueDate":   "Due date",
	"startTime": "Start time",
	"endTime":   "End time",
}

func message(field, tag, param string) string {
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}
	switch tag {
	case "required":
		return label + " is required"
	case "hexcolor":
		return label + " must be a hex color"
	case "oneof":
		return label + " must be one of " + strings.ReplaceAll(param, " ", ", ")
	}
	return label + " is invalid"
}
