package core

import (
	"context"

	"github.com/palantir/palantir-compute-module-pipeline-clean/pkg/pipeline/table"
)

// Source loads a whole raw table for pipeline processing.
type Source interface {
	Load(ctx context.Context) (*table.Table, error)
}

// Sink persists a clean table. A failed Store must leave no partial output.
type Sink interface {
	Store(ctx context.Context, t *table.Table) error
}

// TransientError marks an error as retryable by worker implementations.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	if e == nil || e.Err == nil {
		return "transient error"
	}
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LimitedTransientError is a transient error that caps how many extra
// attempts the worker may spend on it.
type LimitedTransientError struct {
	Err          error
	ExtraRetries int
}

func (e *LimitedTransientError) Error() string {
	if e == nil || e.Err == nil {
		return "transient error"
	}
	return e.Err.Error()
}

func (e *LimitedTransientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *LimitedTransientError) MaxExtraRetries() int {
	if e == nil {
		return 0
	}
	return e.ExtraRetries
}
