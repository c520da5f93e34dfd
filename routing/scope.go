package routing

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/trusskit/truss/container"
)

type contextKey int

const scopeKey contextKey = 0

// RequestInfo identifies the current HTTP request. The ContainerScope
// middleware registers it as a Scoped service and seeds one per request, so
// request-scoped services can depend on it like any other registration.
type RequestInfo struct {
	ID     string
	Method string
	Path   string
}

// RegisterRequestInfo installs the Scoped registration that ContainerScope
// seeds. Resolving *RequestInfo outside a request-bound scope fails.
func RegisterRequestInfo(c *container.Container) error {
	return container.RegisterFactory[*RequestInfo](c,
		func(*container.Container) (*RequestInfo, error) {
			return nil, errors.New("no active request")
		},
		container.WithLifetime(container.Scoped))
}

// ContainerScope opens a fresh container scope for each request, seeds it with
// a *RequestInfo carrying a uuid request ID, and stores the scope in the
// request context. Handlers retrieve it with [ScopeFrom].
func ContainerScope(c *container.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := c.BeginScope()
			info := &RequestInfo{
				ID:     uuid.NewString(),
				Method: r.Method,
				Path:   r.URL.Path,
			}
			if err := container.SetScoped(scope, info); err != nil {
				log.Printf("request scope: binding %s %s: %v", r.Method, r.URL.Path, err)
			} else {
				w.Header().Set("X-Request-ID", info.ID)
			}

			ctx := context.WithValue(r.Context(), scopeKey, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ScopeFrom returns the container scope bound to the request, or nil when the
// ContainerScope middleware is not installed.
func ScopeFrom(r *http.Request) *container.Scope {
	scope, _ := r.Context().Value(scopeKey).(*container.Scope)
	return scope
}
