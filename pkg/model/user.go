package model

import "slices"

// UserAccount is one record from the static credential dataset.
// Accounts are loaded read-only at runtime and never mutated.
type UserAccount struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the account carries the given role flag.
func (u *UserAccount) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// FailureReason classifies why a request failed authorization.
type FailureReason string

const (
	// ReasonUnauthenticated means no valid session was presented.
	ReasonUnauthenticated FailureReason = "unauthenticated"
	// ReasonForbidden means the session lacks a required role.
	ReasonForbidden FailureReason = "forbidden"
)

// AuthFailure describes a failed authorization decision for one request.
// It is computed per request and never persisted.
type AuthFailure struct {
	Reason       FailureReason `json:"reason"`
	RequiredRole string        `json:"required_role,omitempty"`
}
