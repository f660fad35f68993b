package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Pick submission preconditions.
	ErrNotAlive        = errors.New("participant is not alive")
	ErrRoundLocked     = errors.New("round is locked")
	ErrClubAlreadyUsed = errors.New("club already used this season")
	ErrClubInactive    = errors.New("club is not active")
	ErrNoActiveRound   = errors.New("no active round")

	// Sweep/resolve preconditions.
	ErrRoundNotDue = errors.New("round deadline has not passed")

	// Revival preconditions.
	ErrNotEligible  = errors.New("not eligible for revival")
	ErrWindowClosed = errors.New("revival window is closed")
)
