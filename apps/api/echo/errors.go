package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/academy"
	"github.com/Arun270647/tma-demo-repo/core/attendance"
	"github.com/Arun270647/tma-demo-repo/core/coach"
	"github.com/Arun270647/tma-demo-repo/core/demo"
	"github.com/Arun270647/tma-demo-repo/core/fee"
	"github.com/Arun270647/tma-demo-repo/core/identity"
	"github.com/Arun270647/tma-demo-repo/core/player"
)

var (
	errUnauthorized    = echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	errHttpForbidden   = echo.NewHTTPError(http.StatusForbidden, "No role associated with this identity")
	errAmbiguousRole   = echo.NewHTTPError(http.StatusConflict, "Identity is bound to more than one role")
	errTooManyRequests = echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests. Please try again later.")
	errHttpNotFound    = echo.NewHTTPError(http.StatusNotFound, "not found")

	// sentinel errors of the domain packages and their responses
	sentinelErrors = map[error]*echo.HTTPError{
		identity.ErrUnauthenticated: errUnauthorized,
		identity.ErrForbidden:       errHttpForbidden,
		identity.ErrAmbiguousRole:   errAmbiguousRole,
		identity.ErrNotFound:        echo.NewHTTPError(http.StatusNotFound, "Role binding not found"),
		academy.ErrNotFound:         echo.NewHTTPError(http.StatusNotFound, "Academy not found"),
		player.ErrNotFound:          echo.NewHTTPError(http.StatusNotFound, "Player not found"),
		coach.ErrNotFound:           echo.NewHTTPError(http.StatusNotFound, "Coach not found"),
		attendance.ErrNotFound:      echo.NewHTTPError(http.StatusNotFound, "Attendance record not found"),
		fee.ErrNotFound:             echo.NewHTTPError(http.StatusNotFound, "Fee record not found"),
		fee.ErrNoUnpaidFee:          echo.NewHTTPError(http.StatusNotFound, "No unpaid fee found for this player"),
		demo.ErrNotFound:            echo.NewHTTPError(http.StatusNotFound, "Demo request not found"),
	}
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if herr, ok := sentinelErrors[cause]; ok {
			cause = herr
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *core.LimitError:
			code = http.StatusBadRequest
			message = origErr.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			if b, ok := ctx.Get(contextBindingKey).(identity.Binding); ok {
				logger.Error(msg, errors.Wrap(err, msg), b)
			} else {
				logger.Error(msg, errors.Wrap(err, msg))
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
