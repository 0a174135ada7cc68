package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"parishcms/internal/models"
)

const (
	// AccessTokenTTL is the lifetime of an access token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the lifetime of a refresh token and its session row.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// InviteTokenTTL is how long an invite token stays redeemable.
	InviteTokenTTL = 48 * time.Hour

	// inviteTokenBytes is the entropy of an invite token (256 bits).
	inviteTokenBytes = 32

	kindAccess  = "access"
	kindRefresh = "refresh"
)

var (
	// ErrInvalidToken covers signature mismatch, malformed tokens, and
	// wrong-kind tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a validly signed token is past its
	// expiry. It wraps ErrInvalidToken so callers can treat both uniformly.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// Identity is the authenticated principal decoded from an access token.
type Identity struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
}

// claims is the JWT payload for both token kinds. The Kind discriminator
// prevents a refresh token being replayed where an access token is expected
// and vice versa, even though both carry a valid signature.
type claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	Kind  string `json:"typ"`
	jwt.RegisteredClaims
}

// Issuer mints and validates HS256-signed tokens with a single shared secret.
type Issuer struct {
	secret []byte
}

// NewIssuer creates a token issuer signing with the given secret.
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// AccessToken signs a short-lived token carrying the user's identity.
func (i *Issuer) AccessToken(userID int64, email, name string, role models.Role) (string, error) {
	now := time.Now()
	c := claims{
		Email: email,
		Name:  name,
		Role:  string(role),
		Kind:  kindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}

// RefreshToken signs a long-lived token carrying only the subject id.
func (i *Issuer) RefreshToken(userID int64) (string, error) {
	now := time.Now()
	c := claims{
		Kind: kindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}

// VerifyAccess validates an access token and returns the decoded identity.
func (i *Issuer) VerifyAccess(token string) (*Identity, error) {
	c, err := i.parse(token, kindAccess)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return &Identity{
		ID:    id,
		Email: c.Email,
		Name:  c.Name,
		Role:  models.Role(c.Role),
	}, nil
}

// VerifyRefresh validates a refresh token and returns the subject user id.
func (i *Issuer) VerifyRefresh(token string) (int64, error) {
	c, err := i.parse(token, kindRefresh)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}

// parse validates signature, expiry, and the kind discriminator.
func (i *Issuer) parse(token, wantKind string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if c.Kind != wantKind {
		return nil, fmt.Errorf("%w: wrong token kind", ErrInvalidToken)
	}
	return c, nil
}

// NewInviteToken returns a high-entropy opaque token. Invite tokens are not
// signed; they are stored on the user row and compared by exact match.
func NewInviteToken() (string, error) {
	buf := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
