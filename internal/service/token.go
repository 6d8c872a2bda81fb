package service

import (
	"errors"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a session token. Subject carries the account id.
type SessionClaims struct {
	Role constants.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies stateless HS256 session tokens
type TokenIssuer struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

func NewTokenIssuer(secretKey, issuer string) *TokenIssuer {
	return &TokenIssuer{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		now:       time.Now,
	}
}

// Sign mints a token for subject valid for ttl
func (s *TokenIssuer) Sign(subject string, role constants.Role, ttl time.Duration) (string, error) {
	now := s.now()
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

// Verify checks signature, algorithm, issuer and expiry. Expired tokens yield
// ErrTokenExpired, every other failure ErrInvalidToken.
func (s *TokenIssuer) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" || !claims.Role.IsValid() {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
