package storage

import (
	"context"
	"errors"
	"fmt"
)

// Accessor reads named resources from the configured backend.
type Accessor interface {
	// Access returns the content of name. When onChange is non-nil and the
	// backend supports it, onChange is invoked on later modifications of
	// the resource.
	Access(ctx context.Context, name string, onChange func()) ([]byte, error)
	Close() error
}

// ErrEmpty marks a resource that exists but has no content.
var ErrEmpty = errors.New("resource is empty")

// AccessError reports a resource that could not be read.
type AccessError struct {
	Name string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access %s: %v", e.Name, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// ParseLocalMode interprets the LOCAL_MODE toggle. Only "0" and "false"
// select remote mode.
func ParseLocalMode(value string) bool {
	return value != "0" && value != "false"
}
