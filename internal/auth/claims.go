package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"tyrehub/catalog/internal/constants"
)

// AdminClaims is the payload of an admin bearer token.
type AdminClaims struct {
	RoleValue constants.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *AdminClaims) Role() string    { return c.RoleValue.String() }
func (c *AdminClaims) IsAdmin() bool   { return c.RoleValue == constants.RoleAdmin }
