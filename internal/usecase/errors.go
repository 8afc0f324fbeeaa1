package usecase

import "errors"

var (
	// ErrInvalidInput covers malformed or out-of-range request data; the
	// caller should re-prompt with the prior input preserved.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized means no authenticated actor.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the actor lacks rights for the target entity.
	ErrForbidden = errors.New("forbidden")

	ErrNotFound = errors.New("not found")

	// ErrConflict covers stale-state transition attempts.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyApplied is kept distinct from ErrConflict so the boundary
	// can show "You have already applied for this job." instead of a
	// generic failure.
	ErrAlreadyApplied = errors.New("you have already applied for this job")

	// ErrInternal hides collaborator failures behind a generic message;
	// detail goes to the log.
	ErrInternal = errors.New("internal error")
)
