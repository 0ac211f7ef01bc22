package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tendant/membership-slim/pkg/domain"
)

// DefaultTokenTTL is the lifetime of tokens minted by IssueToken.
const DefaultTokenTTL = 15 * time.Minute

// TokenConfig holds access token verification settings.
// Tokens are issued by the external identity provider and signed with a shared HMAC secret.
type TokenConfig struct {
	Secret []byte
	Issuer string
	// AdminRole is the role claim value that grants moderation rights.
	AdminRole string
	// Leeway tolerates clock skew between the identity provider and this service.
	Leeway time.Duration
}

// AccessTokenClaims represents the claims in an access token.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone_number,omitempty"`
	Role  string `json:"role,omitempty"`
}

// TokenVerifier validates access tokens and maps them to principals.
type TokenVerifier struct {
	config TokenConfig
}

// NewTokenVerifier creates a new token verifier.
func NewTokenVerifier(config TokenConfig) *TokenVerifier {
	if config.AdminRole == "" {
		config.AdminRole = domain.RoleAdmin
	}
	return &TokenVerifier{config: config}
}

// ValidateAccessToken validates an access token and returns the claims.
func (v *TokenVerifier) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.config.Leeway),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.config.Secret, nil
	}, opts...)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// Principal converts verified claims into the caller identity.
// The configured admin role is normalized to domain.RoleAdmin.
func (v *TokenVerifier) Principal(claims *AccessTokenClaims) *domain.Principal {
	role := claims.Role
	if role == v.config.AdminRole {
		role = domain.RoleAdmin
	} else if role == domain.RoleAdmin {
		role = ""
	}
	return &domain.Principal{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Phone:   claims.Phone,
		Role:    role,
	}
}

// Authenticate validates a token and returns its principal.
func (v *TokenVerifier) Authenticate(tokenString string) (*domain.Principal, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := v.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	return v.Principal(claims), nil
}

// IssueToken signs a token for p. Used by tests and local tooling; production
// tokens come from the identity provider.
func (v *TokenVerifier) IssueToken(p *domain.Principal, ttl time.Duration) (string, error) {
	if !p.IsAuthenticated() {
		return "", errors.New("principal subject is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	role := p.Role
	if role == domain.RoleAdmin {
		role = v.config.AdminRole
	}

	now := time.Now()
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    v.config.Issuer,
		},
		Email: p.Email,
		Name:  p.Name,
		Phone: p.Phone,
		Role:  role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.config.Secret)
}
