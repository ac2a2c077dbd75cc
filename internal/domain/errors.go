package domain

import "errors"

var (
	// ErrNoQuestionsAvailable is returned when a subject has no questions in the requested language.
	ErrNoQuestionsAvailable = errors.New("no questions available")
	// ErrSessionExpired is returned when a user answers without an active quiz session.
	ErrSessionExpired = errors.New("quiz session expired")
	// ErrInvalidChoice indicates an answer outside A-D.
	ErrInvalidChoice = errors.New("invalid answer choice")
	// ErrUnauthorized is returned when a non-admin calls an admin operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoWizard is returned when an admin sends wizard input with no wizard in progress.
	ErrNoWizard = errors.New("no schedule wizard in progress")
	// ErrUnexpectedInput indicates input the current wizard stage does not accept.
	ErrUnexpectedInput = errors.New("unexpected input for wizard stage")
	// ErrRequiredField indicates an attempt to skip a required schedule field.
	ErrRequiredField = errors.New("field is required")
	// ErrStoreUnavailable wraps failures of external stores.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUserNotFound indicates the user has not registered with /start.
	ErrUserNotFound = errors.New("user not found")
	// ErrScheduleNotFound indicates a schedule entry id that does not exist.
	ErrScheduleNotFound = errors.New("schedule entry not found")
)
