package auth

import "mepapp/calltrack/internal/constants"

// UserClaims is the authenticated caller as seen by handlers and services.
type UserClaims interface {
	UserID() string
	Role() string
	Source() string
	IsAdmin() bool
}

// JWTClaims are built from a verified bearer token.
type JWTClaims struct {
	StaffUUID string
	RoleValue constants.Role
}

func (c *JWTClaims) UserID() string { return c.StaffUUID }
func (c *JWTClaims) Role() string   { return c.RoleValue.String() }
func (c *JWTClaims) Source() string { return "JWT" }
func (c *JWTClaims) IsAdmin() bool  { return c.RoleValue == constants.RoleAdmin }
