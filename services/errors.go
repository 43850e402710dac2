package services

import "errors"

// Errors shared across services and the HTTP error mapping.
var (
	// Not-found errors
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrParticipantNotFound = errors.New("participant registration not found")

	// Validation and business-rule errors
	ErrValidationFailed            = errors.New("validation failed")
	ErrTournamentNameRequired      = errors.New("tournament name is required")
	ErrTournamentInvalidKind       = errors.New("invalid tournament kind")
	ErrTournamentInvalidMode       = errors.New("invalid schedule mode")
	ErrTournamentInvalidSchema     = errors.New("invalid match schema")
	ErrTournamentNegativePoints    = errors.New("point values must be non-negative")
	ErrTournamentInvalidStatus     = errors.New("invalid tournament status provided")
	ErrTournamentInvalidTransition = errors.New("invalid tournament status transition")
	ErrInvalidPlayers              = errors.New("a match needs two distinct, non-empty participants")
	ErrInvalidMatchday             = errors.New("matchday must be a positive number")

	// Scheduling errors
	ErrInsufficientParticipants = errors.New("at least two participants are required to generate a schedule")
	ErrScheduleModeManual       = errors.New("tournament uses manual scheduling, generation is disabled")

	// Result submission errors
	ErrMatchLocked    = errors.New("match is locked against result changes")
	ErrMatchdayClosed = errors.New("matchday is closed against result changes")

	// Conflict errors
	ErrTournamentInUse = errors.New("tournament still has matches or participants")
)
