// Package services defines the business logic for the analytics snapshot and
// the data refresh lifecycle. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

var (
	// ErrNoData indicates that no snapshot has been loaded yet: the local
	// database is empty and no refresh has completed.
	ErrNoData = errors.New("no data loaded")

	// ErrRefreshInProgress is returned when a refresh is requested while a
	// previous one is still running.
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrSourceNotConfigured is returned when a refresh is requested but the
	// remote source has no URL or key configured.
	ErrSourceNotConfigured = errors.New("remote source not configured")

	// ErrInvalidTier is returned when a tier path parameter is outside 1..3.
	ErrInvalidTier = errors.New("tier must be 1, 2 or 3")

	// ErrInvalidSegment is returned when a segment name is not one of the
	// four behavioral classes.
	ErrInvalidSegment = errors.New("unknown segment")

	// ErrInvalidGender is returned when a gender filter value is not male or
	// female.
	ErrInvalidGender = errors.New("gender must be male or female")

	// ErrInvalidDate is returned when a date filter value is not a
	// YYYY-MM-DD day key.
	ErrInvalidDate = errors.New("dates must be YYYY-MM-DD")
)
