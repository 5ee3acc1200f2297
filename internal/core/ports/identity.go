// internal/core/ports/identity.go
package ports

import (
	"context"

	"github.com/ammerola/stockcart-be/internal/core/domain"
)

// IdentityProvider is the external credential authority: it issues and
// verifies bearer credentials. The application consumes it; it does not
// implement authentication policy of its own.
type IdentityProvider interface {
	// SignUp creates a new identity and returns it.
	SignUp(ctx context.Context, email, password, name string) (domain.Identity, error)

	// SignInWithPassword verifies the credentials and returns a session
	// with a bearer access token.
	SignInWithPassword(ctx context.Context, email, password string) (domain.Session, error)

	// GetUser resolves a bearer token to the identity it was issued for.
	GetUser(ctx context.Context, token string) (domain.Identity, error)
}

// IdentityResolver maps an opaque bearer credential to a verified caller
// identity. It is a boolean-valued trust boundary: every provider failure
// (expired token, malformed token, transport error) collapses to nil, and
// nothing provider-internal surfaces to callers.
type IdentityResolver interface {
	// Resolve returns the caller identity, or nil for an empty or
	// unverifiable credential. An empty credential never reaches the
	// provider.
	Resolve(ctx context.Context, credential string) *domain.Identity
}

// LoginLimiter throttles credential guessing on the login endpoint,
// keyed by (email, client IP).
type LoginLimiter interface {
	// Allow reports whether a login attempt may proceed.
	Allow(ctx context.Context, email, ip string) (bool, error)

	// Failure records a failed attempt and reports whether the key is now
	// locked out.
	Failure(ctx context.Context, email, ip string) (bool, error)

	// Success clears the failure counter after a successful login.
	Success(ctx context.Context, email, ip string) error
}
