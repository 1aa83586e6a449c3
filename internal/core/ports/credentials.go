package ports

import "context"

// Credentials is the acting session: who acts and the tokens they act with.
// Handlers never keep credentials between calls; a refreshed pair is handed
// back to the caller, which replaces the one it holds.
type Credentials struct {
	// Identity is the user's email, recorded as modifiedBy on changes.
	Identity     string
	AccessToken  string
	RefreshToken string
}

// TokenRefresher exchanges a refresh token for a new token pair.
type TokenRefresher interface {
	// Refresh returns new credentials for the same identity. A rejected
	// refresh token yields an error wrapping ErrUnauthorized.
	Refresh(ctx context.Context, current Credentials) (Credentials, error)
}
