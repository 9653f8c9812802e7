package auth

import (
	"errors"
	"fmt"
	"time"

	"mepapp/calltrack/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "calltrack"

// TokenClaims is the JWT payload. Subject carries the staff id.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for a staff member.
func IssueToken(secret []byte, staffID string, role constants.Role, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := TokenClaims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies signature, issuer and expiry and returns the caller claims.
func ParseToken(secret []byte, raw string) (*JWTClaims, error) {
	var claims TokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid token: missing subject")
	}

	role := constants.Role(claims.Role)
	if role != constants.RoleAdmin && role != constants.RoleStaff {
		return nil, fmt.Errorf("invalid token: unknown role %q", claims.Role)
	}
	return &JWTClaims{StaffUUID: claims.Subject, RoleValue: role}, nil
}
