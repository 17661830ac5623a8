package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Arun270647/tma-demo-repo/core/identity"
)

const (
	authScheme        = "Bearer"
	contextBindingKey = "binding"
)

type authenticator struct {
	resolver *identity.Resolver
	metrics  *metrics
}

func newAuthenticator(resolver *identity.Resolver, m *metrics) *authenticator {
	return &authenticator{resolver: resolver, metrics: m}
}

// bearerToken extracts the credential of the `Authorization: Bearer <token>` header.
func bearerToken(ctx echo.Context) string {
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	l := len(authScheme)
	if len(auth) > l+1 && strings.EqualFold(auth[:l], authScheme) && auth[l] == ' ' {
		return strings.TrimSpace(auth[l+1:])
	}
	return ""
}

// require resolves the caller on every request and rejects it unless it holds `role`.
// The resolved identity.Binding is stored in the context.
func (a *authenticator) require(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			b, err := a.resolver.Require(ctx.Request().Context(), bearerToken(ctx), role)
			a.metrics.observeResolution(role, err)
			if err != nil {
				return err
			}
			ctx.Set(contextBindingKey, b)
			return next(ctx)
		}
	}
}

// optionalIdentity returns the caller identity when a valid credential was sent.
func (a *authenticator) optionalIdentity(ctx echo.Context) *identity.Identity {
	return a.resolver.ResolveAnyAuthenticated(ctx.Request().Context(), bearerToken(ctx))
}

func getContextBinding(ctx echo.Context) (identity.Binding, error) {
	if b, ok := ctx.Get(contextBindingKey).(identity.Binding); ok {
		return b, nil
	}
	return identity.Binding{}, errUnauthorized
}
