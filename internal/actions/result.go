package actions

import (
	"encoding/json"
	"errors"

	"github.com/yousefammmar/zenith-flow/internal/db"
)

// FailureKind tells validation faults apart from persistence faults
type FailureKind string

const (
	ValidationFailed  FailureKind = "validation"
	PersistenceFailed FailureKind = "persistence"
)

// Failure describes why an action did not succeed. Cause is kept for
// logging and callers, and is never serialized.
type Failure struct {
	Kind   FailureKind       `json:"kind"`
	Fields map[string]string `json:"fields,omitempty"`
	Cause  error             `json:"-"`
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return string(f.Kind) + ": " + f.Cause.Error()
	}
	return string(f.Kind)
}

func (f *Failure) Unwrap() error { return f.Cause }

// NotFound reports whether the failure was caused by a missing row
func (f *Failure) NotFound() bool {
	return f != nil && errors.Is(f.Cause, db.ErrNotFound)
}

// Result is the uniform envelope every action returns
type Result[T any] struct {
	Success bool
	Data    T
	Error   string
	Failure *Failure
}

// None is the payload of actions that return no data
type None struct{}

type envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	env := envelope{Success: r.Success, Error: r.Error, Failure: r.Failure}
	if r.Success {
		if _, none := any(r.Data).(None); !none {
			env.Data = r.Data
		}
	}
	return json.Marshal(env)
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func invalid[T any](msg string, fields map[string]string, cause error) Result[T] {
	return Result[T]{
		Error:   msg,
		Failure: &Failure{Kind: ValidationFailed, Fields: fields, Cause: cause},
	}
}

func failed[T any](msg string, cause error) Result[T] {
	return Result[T]{
		Error:   msg,
		Failure: &Failure{Kind: PersistenceFailed, Cause: cause},
	}
}
