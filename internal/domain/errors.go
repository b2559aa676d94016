package domain

import "errors"

var (
	// ErrNoPeriod is returned when a reconciliation is requested without a period label.
	ErrNoPeriod = errors.New("reconciliation period is required")
	// ErrSourceNotConfigured is returned when neither a directory nor a remote source is set for a side.
	ErrSourceNotConfigured = errors.New("billing source is not configured")
	// ErrRunNotFound is returned by the run history when an id or period has no archived run.
	ErrRunNotFound = errors.New("reconciliation run not found")
)
