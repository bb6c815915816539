package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
)

// AccessTokenTTL is the fixed lifetime of every issued token.  There is no
// refresh flow; clients log in again once a token expires.
const AccessTokenTTL = time.Hour

var (
	ErrMissingSecret = errors.New("jwt secret must be provided")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the JWT payload.  Subject carries the decimal user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Subject is the verified content of a token.
type Subject struct {
	UserID    uint64
	Role      model.Role
	ExpiresAt time.Time
}

// TokenManager issues and verifies HS256 access tokens with a secret that
// is supplied once at construction.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a TokenManager for the given secret.  An empty
// secret is a configuration error.
func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    AccessTokenTTL,
		now:    time.Now,
	}, nil
}

// Issue builds and signs a token for a user.  The token includes the
// standard claims sub, iat and exp plus the user's role.
func (m *TokenManager) Issue(userID uint64, role model.Role) (AccessToken, error) {
	if userID == 0 || !role.Valid() {
		return AccessToken{}, ErrInvalidToken
	}
	now := m.now().UTC()
	exp := now.Add(m.ttl)
	claims := Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify checks signature, algorithm and expiry and decodes the subject
// and role.  Expired tokens yield ErrExpiredToken; every other failure
// yields ErrInvalidToken.
func (m *TokenManager) Verify(raw string) (Subject, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Subject{}, ErrExpiredToken
		}
		return Subject{}, ErrInvalidToken
	}
	if !tok.Valid {
		return Subject{}, ErrInvalidToken
	}

	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return Subject{}, ErrInvalidToken
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return Subject{}, ErrInvalidToken
	}
	return Subject{UserID: uid, Role: role, ExpiresAt: claims.ExpiresAt.Time}, nil
}
