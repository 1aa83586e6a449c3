package restapi

import (
	"context"
	"errors"
	"net/http"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// TokenRefresher exchanges refresh tokens at POST /api/auth/refresh.
type TokenRefresher struct {
	client *Client
}

func NewTokenRefresher(client *Client) *TokenRefresher {
	return &TokenRefresher{client: client}
}

// Refresh returns the new token pair for the same identity. A rejected
// refresh token yields an error wrapping ports.ErrUnauthorized.
func (r *TokenRefresher) Refresh(ctx context.Context, current ports.Credentials) (ports.Credentials, error) {
	if current.Identity == "" || current.RefreshToken == "" {
		return ports.Credentials{}, errors.Join(
			ports.ErrUnauthorized,
			errs.NewValueIsRequiredError("refreshToken"),
		)
	}

	var body refreshResponse
	if _, err := r.client.do(ctx, "refresh token", http.MethodPost, "/api/auth/refresh", "",
		refreshRequest{Email: current.Identity, RefreshToken: current.RefreshToken}, &body); err != nil {
		return ports.Credentials{}, err
	}

	if body.AccessToken == "" {
		return ports.Credentials{}, &ports.RemoteError{
			Op:         "refresh token",
			StatusCode: http.StatusOK,
			Err:        errs.NewValueIsRequiredError("accessToken"),
		}
	}

	refresh := body.RefreshToken
	if refresh == "" {
		refresh = current.RefreshToken
	}
	return ports.Credentials{
		Identity:     current.Identity,
		AccessToken:  body.AccessToken,
		RefreshToken: refresh,
	}, nil
}
