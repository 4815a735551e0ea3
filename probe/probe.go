package probe

import (
	"context"
	"errors"
)

// Func is a single check. A nil return means the component is available.
type Func func(ctx context.Context) error

// Error reports which component failed a check.
type Error struct {
	Component string
	Err       error
}

func (e *Error) Error() string {
	return e.Component + " probe: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

var errNilCheck = errors.New("check is nil")

func fail(component string, err error) error {
	return &Error{Component: component, Err: err}
}

// Ping adapts a bare ping callback.
func Ping(component string, ping func(ctx context.Context) error) Func {
	return func(ctx context.Context) error {
		if ping == nil {
			return fail(component, errNilCheck)
		}
		if err := ping(orBackground(ctx)); err != nil {
			return fail(component, err)
		}
		return nil
	}
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
