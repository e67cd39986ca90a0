// Package actors maintains the registries of privileged actors: doctors
// (service providers) and admins. Both registries share one contract shape:
// add/remove gated by authority plus admission, and an enumeration list kept
// consistent with the profile map.
package actors

import (
	"medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
)

// Doctor is a service-provider profile. Presence is exactly the non-zero
// Account field; removal clears profile and enumeration entry atomically.
type Doctor struct {
	Account         domain.Account `json:"account"`
	Specialty       string         `json:"specialty"`
	PricePerSession int64          `json:"price_per_session"`
	Availability    string         `json:"availability"`
	RatingLabel     string         `json:"rating_label"`
}

// Admin is an administrator profile.
type Admin struct {
	Account domain.Account `json:"account"`
}

// Registry failures. Callers correct their input and retry; nothing is
// committed on these paths.
var (
	ErrAlreadyExists = dErrors.New(dErrors.CodeConflict, "actor already registered")
	ErrNotFound      = dErrors.New(dErrors.CodeNotFound, "actor not registered")
	ErrZeroAmount    = dErrors.New(dErrors.CodeValidation, "price per session must be positive")
)
