// internal/core/services/identity.go
package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
)

// Argon2id parameters for credential hashing.
const (
	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
)

// IdentityProviderService implements the identity-provider port with
// credential records in the store and HS256 access tokens. The rest of
// the application only sees the port; swapping in a hosted provider
// means replacing this one constructor call.
type IdentityProviderService struct {
	gateway  ports.RecordGateway
	signKey  []byte
	tokenTTL time.Duration
	logger   *slog.Logger
}

// Statically assert that *IdentityProviderService implements the port.
var _ ports.IdentityProvider = (*IdentityProviderService)(nil)

// NewIdentityProvider creates the provider with the given signing key and
// access-token lifetime.
func NewIdentityProvider(gateway ports.RecordGateway, signKey []byte, tokenTTL time.Duration, logger *slog.Logger) *IdentityProviderService {
	return &IdentityProviderService{
		gateway:  gateway,
		signKey:  signKey,
		tokenTTL: tokenTTL,
		logger:   logger.With(slog.String("service", "identity_provider")),
	}
}

// SignUp creates a new identity with a fresh credential record.
func (p *IdentityProviderService) SignUp(ctx context.Context, email, password, name string) (domain.Identity, error) {
	if email == "" || password == "" {
		return domain.Identity{}, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	existing, err := p.gateway.Find(ctx, domain.CollectionCredentials, domain.Filters{"email": email})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to check existing credentials: %w", err)
	}
	if len(existing) > 0 {
		return domain.Identity{}, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return domain.Identity{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	authID := uuid.NewString()
	_, err = p.gateway.Insert(ctx, domain.CollectionCredentials, map[string]any{
		"auth_id":       authID,
		"email":         email,
		"password_hash": hashPassword([]byte(password), salt),
		"salt":          salt,
		"name":          name,
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to store credentials: %w", err)
	}

	p.logger.InfoContext(ctx, "identity created", slog.String("auth_id", authID))
	return domain.Identity{ID: authID, Email: email, Name: name}, nil
}

// SignInWithPassword verifies the credentials and issues a session.
// Wrong password and unknown email are indistinguishable to the caller.
func (p *IdentityProviderService) SignInWithPassword(ctx context.Context, email, password string) (domain.Session, error) {
	if email == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	records, err := p.gateway.Find(ctx, domain.CollectionCredentials, domain.Filters{"email": email})
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to look up credentials: %w", err)
	}
	if len(records) == 0 {
		return domain.Session{}, domain.ErrUnauthorized
	}

	cred := records[0]
	if !verifyPassword([]byte(password), cred.Bytes("salt"), cred.Bytes("password_hash")) {
		return domain.Session{}, domain.ErrUnauthorized
	}

	now := time.Now()
	exp := now.Add(p.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   cred.String("auth_id"),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signKey)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return domain.Session{AccessToken: signed, ExpiresAt: exp}, nil
}

// GetUser resolves a bearer token to the identity it was issued for.
func (p *IdentityProviderService) GetUser(ctx context.Context, token string) (domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.signKey, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	records, err := p.gateway.Find(ctx, domain.CollectionCredentials, domain.Filters{"auth_id": claims.Subject})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to look up identity: %w", err)
	}
	if len(records) == 0 {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	cred := records[0]
	return domain.Identity{
		ID:    cred.String("auth_id"),
		Email: cred.String("email"),
		Name:  cred.String("name"),
	}, nil
}

func hashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

func verifyPassword(password, salt, expected []byte) bool {
	got := hashPassword(password, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}

// IdentityResolverService maps bearer credentials to identities. It is a
// trust boundary: any provider failure collapses to "unauthenticated"
// and no provider-internal error ever reaches a caller. No retries, since
// a transient provider failure is indistinguishable from an invalid token.
type IdentityResolverService struct {
	provider ports.IdentityProvider
	logger   *slog.Logger
}

// Statically assert that *IdentityResolverService implements the port.
var _ ports.IdentityResolver = (*IdentityResolverService)(nil)

// NewIdentityResolver creates a resolver over the given provider.
func NewIdentityResolver(provider ports.IdentityProvider, logger *slog.Logger) *IdentityResolverService {
	return &IdentityResolverService{
		provider: provider,
		logger:   logger.With(slog.String("service", "identity_resolver")),
	}
}

// Resolve returns the caller identity, or nil when the credential is
// empty or unverifiable. An empty credential never reaches the provider.
func (r *IdentityResolverService) Resolve(ctx context.Context, credential string) *domain.Identity {
	if credential == "" {
		return nil
	}

	identity, err := r.provider.GetUser(ctx, credential)
	if err != nil {
		r.logger.DebugContext(ctx, "credential rejected",
			slog.String("error", err.Error()))
		return nil
	}
	return &identity
}
