// Package session runs calls against collaborators that check credentials,
// refreshing the token pair once when the first call is rejected.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// Attempt carries one operation's credentials across its collaborator calls.
// It allows a single refresh for the whole operation: the first
// ErrUnauthorized triggers a refresh and one retry, any later one ends the
// session with ErrAuthExpired.
//
// An Attempt is not safe for concurrent use.
type Attempt struct {
	refresher ports.TokenRefresher
	creds     ports.Credentials
	refreshed bool
}

// NewAttempt starts an operation with the caller's credentials.
func NewAttempt(refresher ports.TokenRefresher, creds ports.Credentials) *Attempt {
	return &Attempt{refresher: refresher, creds: creds}
}

// Credentials returns the credentials currently in use, refreshed or not.
func (a *Attempt) Credentials() ports.Credentials {
	return a.creds
}

// Refreshed reports whether the refresh budget has been spent.
func (a *Attempt) Refreshed() bool {
	return a.refreshed
}

// Do runs call with the current credentials.
//
// Errors other than ErrUnauthorized are returned unchanged. When call is
// rejected and no refresh happened yet, the credentials are refreshed and call
// runs once more. A failed refresh, or a rejection after the refresh, yields
// an error wrapping ports.ErrAuthExpired.
func (a *Attempt) Do(ctx context.Context, op string, call func(ctx context.Context, creds ports.Credentials) error) error {
	err := call(ctx, a.creds)
	if !errors.Is(err, ports.ErrUnauthorized) {
		return err
	}
	if a.refreshed {
		return expired(op, err)
	}

	a.refreshed = true
	fresh, refreshErr := a.refresher.Refresh(ctx, a.creds)
	if refreshErr != nil {
		return expired(op, refreshErr)
	}
	a.creds = fresh

	err = call(ctx, a.creds)
	if errors.Is(err, ports.ErrUnauthorized) {
		return expired(op, err)
	}
	return err
}

func expired(op string, cause error) error {
	return fmt.Errorf("%s: %w (cause: %v)", op, ports.ErrAuthExpired, cause)
}

// Service holds the long-lived credentials of a background worker (the
// notification subscriber, the board resync job). Refreshed tokens replace
// the held ones so later calls start from them.
//
// Service is safe for concurrent use.
type Service struct {
	mu        sync.Mutex
	refresher ports.TokenRefresher
	creds     ports.Credentials
}

// NewService creates a Service starting from creds.
func NewService(refresher ports.TokenRefresher, creds ports.Credentials) *Service {
	return &Service{refresher: refresher, creds: creds}
}

// Credentials returns the held credentials.
func (s *Service) Credentials() ports.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

// Do runs call in a fresh Attempt and keeps the credentials if they were
// refreshed successfully.
func (s *Service) Do(ctx context.Context, op string, call func(ctx context.Context, creds ports.Credentials) error) error {
	attempt := NewAttempt(s.refresher, s.Credentials())
	err := attempt.Do(ctx, op, call)
	if attempt.Refreshed() && !errors.Is(err, ports.ErrAuthExpired) {
		s.mu.Lock()
		s.creds = attempt.Credentials()
		s.mu.Unlock()
	}
	return err
}

// StoreError classifies a failed store call made through an Attempt or a
// Service: missing orders become order.ErrOrderNotFound, expired sessions and
// status conflicts pass through, everything else is a RemoteError.
func StoreError(op string, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return fmt.Errorf("%w: %w", order.ErrOrderNotFound, err)
	case errors.Is(err, ports.ErrAuthExpired), errors.Is(err, ports.ErrStatusConflict):
		return err
	default:
		return ports.NewRemoteError(op, err)
	}
}
