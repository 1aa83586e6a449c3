package http

import (
	"errors"
	"net/http"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/servers"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// errorKind classifies err for dashboards. Store outcomes are checked before
// validation sentinels because a RemoteError may wrap a decoding failure.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, errs.ErrObjectNotFound):
		return servers.KindOrderNotFound

	case errors.Is(err, ports.ErrAuthExpired):
		return servers.KindAuthExpired

	case errors.Is(err, ports.ErrUnauthorized):
		return servers.KindUnauthorized

	case errors.Is(err, ports.ErrRemote):
		return servers.KindRemote

	case errors.Is(err, order.ErrUnknownStatus):
		return servers.KindUnknownStatus

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, ports.ErrStatusConflict):
		return servers.KindInvalidTransition

	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return servers.KindValidation

	default:
		return servers.KindInternal
	}
}

func kindStatus(kind string) int {
	switch kind {
	case "":
		return http.StatusOK
	case servers.KindValidation, servers.KindUnknownStatus:
		return http.StatusBadRequest
	case servers.KindOrderNotFound:
		return http.StatusNotFound
	case servers.KindInvalidTransition:
		return http.StatusConflict
	case servers.KindUnauthorized, servers.KindAuthExpired:
		return http.StatusUnauthorized
	case servers.KindRemote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an Error body. Internal failures keep their details in
// the log only.
func (s *Server) fail(ctx echo.Context, err error) error {
	kind := errorKind(err)
	code := kindStatus(kind)

	message := err.Error()
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", ctx.Path()),
			zap.String("kind", kind),
			zap.Error(err),
		)
		if kind == servers.KindInternal {
			message = http.StatusText(code)
		}
	}

	return ctx.JSON(code, servers.Error{Code: code, Kind: kind, Message: message})
}

// httpErrorHandler renders echo's own errors (routing, binding, validation)
// in the same body shape as use-case errors.
func httpErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}

		kind := servers.KindInternal
		switch {
		case code == http.StatusUnauthorized:
			kind = servers.KindUnauthorized
		case code < http.StatusInternalServerError:
			kind = servers.KindValidation
		default:
			logger.Error("unhandled error", zap.String("path", ctx.Path()), zap.Error(err))
		}

		if writeErr := ctx.JSON(code, servers.Error{Code: code, Kind: kind, Message: message}); writeErr != nil {
			logger.Warn("error response not written", zap.Error(writeErr))
		}
	}
}
