package types

import "errors"

var (
	// Backend collaborator
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrUnexpectedStatus   = errors.New("unexpected backend status")
	ErrDriverNotFound     = errors.New("driver not found")
	ErrInvalidResponse    = errors.New("invalid backend response")

	// Payments
	ErrReconcileInProgress = errors.New("reconciliation already in progress for driver")
	ErrReconcileFailed     = errors.New("reconciliation failed")
	ErrStaleLoad           = errors.New("payment load superseded by a newer one")
	ErrNoSnapshot          = errors.New("payments have not been loaded yet")
	ErrEmptyDriverID       = errors.New("driver id is empty")

	// Reports
	ErrInvalidReportFormat = errors.New("invalid report format")
	ErrInvalidFilter       = errors.New("invalid report filter")

	ErrNotFound = errors.New("requested item not found")
)
