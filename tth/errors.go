package tth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("file not found")
	ErrIO       = errors.New("i/o failure")
	ErrWorker   = errors.New("worker failure")
)

// PathError is returned when the file is missing or cannot be opened.
// It matches ErrNotFound.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("tth: cannot open %q: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func (e *PathError) Is(err error) bool { return err == ErrNotFound }

// IOError is returned when the file read fails in the middle of the computation.
// It matches ErrIO.
type IOError struct {
	Path   string
	Offset int64
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("tth: read %q at offset %d: %v", e.Path, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(err error) bool { return err == ErrIO }

// WorkerError is a failure of a single worker of the Parallel engine.
type WorkerError struct {
	Worker int
	Part   Part
	Err    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d [%d, %d): %v", e.Worker, e.Part.Start, e.Part.End, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// WorkersError aggregates failures of all workers of the Parallel engine.
// It matches ErrWorker, as well as any error returned by the workers.
type WorkersError struct {
	Errs []*WorkerError
}

func (e *WorkersError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tth: %d worker(s) failed", len(e.Errs))
	for _, err := range e.Errs {
		sb.WriteString("; ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (e *WorkersError) Unwrap() []error {
	errs := make([]error, 0, len(e.Errs))
	for _, err := range e.Errs {
		errs = append(errs, err)
	}
	return errs
}

func (e *WorkersError) Is(err error) bool { return err == ErrWorker }

// Attempt is a single failed attempt of the Fallback engine.
type Attempt struct {
	Engine string
	Err    error
}

// FallbackError is returned by the Fallback engine when all engines failed.
type FallbackError struct {
	Attempts []Attempt
}

func (e *FallbackError) Error() string {
	var sb strings.Builder
	sb.WriteString("tth: all engines failed")
	for _, a := range e.Attempts {
		fmt.Fprintf(&sb, "; %s: %v", a.Engine, a.Err)
	}
	return sb.String()
}

func (e *FallbackError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
