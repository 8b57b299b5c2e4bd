package auth

import (
	"log/slog"

	"github.com/me/spq/pkg/model"
)

// Resolver turns session tokens back into user accounts.
type Resolver struct {
	creds  *CredentialStore
	logger *slog.Logger
}

// NewResolver creates a resolver backed by the given credential store.
func NewResolver(creds *CredentialStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		creds:  creds,
		logger: logger.With("component", "resolver"),
	}
}

// Resolve returns the account the token encodes, or nil when the token is
// undecodable or no longer matches an account. The full credential lookup
// runs on every call rather than trusting the token's claims, so a cookie
// stops working as soon as the matching account is removed or its
// password changes. A non-nil error means the credential dataset itself
// could not be read.
func (r *Resolver) Resolve(token string) (*model.UserAccount, error) {
	username, password, ok := DecodeToken(token)
	if !ok {
		r.logger.Warn("failed to decode auth token")
		return nil, nil
	}

	return r.creds.FindByCredentials(username, password)
}
