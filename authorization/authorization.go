package authorization

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cristalhq/jwt/v4"

	"profile_service/domain"
	"profile_service/errors"
)

// Claims is the bearer token payload issued by the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// revokeFallback bounds denylist entries for tokens without an expiry.
const revokeFallback = 24 * time.Hour

type TokenVerifier struct {
	verifier *jwt.HSAlg
	denylist domain.TokenDenylist
	now      func() time.Time
}

func NewTokenVerifier(secret []byte, denylist domain.TokenDenylist) (*TokenVerifier, error) {
	verifier, err := jwt.NewVerifierHS(jwt.HS256, secret)
	if err != nil {
		return nil, err
	}
	return &TokenVerifier{
		verifier: verifier,
		denylist: denylist,
		now:      time.Now,
	}, nil
}

// Verify checks signature, validity window and sign-out state and returns
// the caller's identity.
func (v *TokenVerifier) Verify(ctx context.Context, raw string) (domain.Identity, error) {
	token, err := jwt.Parse([]byte(raw), v.verifier)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrUnauthenticated, err)
	}

	var claims Claims
	if err := token.DecodeClaims(&claims); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrUnauthenticated, err)
	}
	if claims.Subject == "" || !claims.IsValidAt(v.now()) {
		return domain.Identity{}, fmt.Errorf("%w: token expired or without subject", errors.ErrUnauthenticated)
	}

	tokenID := claims.ID
	if tokenID == "" {
		sum := sha256.Sum256([]byte(raw))
		tokenID = hex.EncodeToString(sum[:])
	}
	revoked, err := v.denylist.IsRevoked(ctx, tokenID)
	if err != nil {
		return domain.Identity{}, err
	}
	if revoked {
		return domain.Identity{}, errors.ErrTokenRevoked
	}

	identity := domain.Identity{
		ID:      claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
		TokenID: tokenID,
	}
	if identity.Role == "" {
		identity.Role = domain.RoleUser
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// SignOut denylists the identity's token until it would have expired.
func (v *TokenVerifier) SignOut(ctx context.Context, identity domain.Identity) error {
	until := identity.ExpiresAt
	if until.IsZero() {
		until = v.now().Add(revokeFallback)
	}
	return v.denylist.Revoke(ctx, identity.TokenID, until)
}

// ExtractBearerToken returns the token from the Authorization header. ok is
// false when the header is absent.
func ExtractBearerToken(r *http.Request) (token string, ok bool, err error) {
	bearer := r.Header.Get("Authorization")
	if bearer == "" {
		return "", false, nil
	}

	bearerToken := strings.Split(bearer, "Bearer ")
	if len(bearerToken) != 2 || strings.TrimSpace(bearerToken[1]) == "" {
		return "", true, fmt.Errorf("%w: invalid token format", errors.ErrUnauthenticated)
	}
	return strings.TrimSpace(bearerToken[1]), true, nil
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domain.Identity)
	return identity, ok
}
