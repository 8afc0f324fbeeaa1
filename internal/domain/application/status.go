package application

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending       Status = "pending"
	StatusHired         Status = "hired"
	StatusRejected      Status = "rejected"
	StatusAccepted      Status = "accepted"
	StatusOfferDeclined Status = "offer_declined"
)

type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	ApplicantID uuid.UUID
	Title       string
	Description string
	Status      Status
	CreatedAt   time.Time
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusHired, StatusRejected, StatusAccepted, StatusOfferDeclined:
		return true
	}
	return false
}

// Terminal reports whether no further transition can leave s.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusAccepted, StatusOfferDeclined:
		return true
	}
	return false
}

// OwnerCanSet reports whether a job owner may move a pending application to
// target. Owners decide offers and rejections only; accepted is reserved for
// the applicant's accept path and pending can never be restored.
func OwnerCanSet(target Status) bool {
	return target == StatusHired || target == StatusRejected
}

// ApplicantCanSet reports whether an applicant may move a hired application
// to target.
func ApplicantCanSet(target Status) bool {
	return target == StatusAccepted || target == StatusOfferDeclined
}

// CanTransition is the full one-directional transition table.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusHired || to == StatusRejected
	case StatusHired:
		return to == StatusAccepted || to == StatusOfferDeclined
	}
	return false
}
