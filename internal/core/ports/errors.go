package ports

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

var (
	// ErrUnauthorized is returned by a store or refresher that rejected the
	// presented credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAuthExpired is returned once a refresh has been tried and the
	// session is still rejected. The user has to sign in again.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrRemote classifies every other failure of a collaborator.
	ErrRemote = errors.New("remote failure")

	// ErrStatusConflict is returned by a store whose order left the status a
	// transition was validated against before the write landed.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// StatusConflictError is a conditional status write that found the order no
// longer in Expected.
type StatusConflictError struct {
	OrderID  kernel.OrderID
	Expected order.Status
}

func NewStatusConflictError(id kernel.OrderID, expected order.Status) *StatusConflictError {
	return &StatusConflictError{OrderID: id, Expected: expected}
}

func (e *StatusConflictError) Error() string {
	return fmt.Sprintf("%s: order %d is no longer %s", ErrStatusConflict, e.OrderID.Int64(), e.Expected)
}

func (e *StatusConflictError) Unwrap() error {
	return ErrStatusConflict
}

// RemoteError describes a failed call to a collaborator.
//
// StatusCode is the HTTP status when the collaborator speaks HTTP, 0 otherwise.
// errors.Is(err, ErrRemote) holds for every RemoteError; errors.Is(err,
// ErrUnauthorized) additionally holds when Err wraps it.
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s: status %d: %v", ErrRemote, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrRemote, e.Op, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemote, e.Err}
}

// NewRemoteError wraps err unless it already is a RemoteError.
func NewRemoteError(op string, err error) error {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return err
	}
	return &RemoteError{Op: op, Err: err}
}
