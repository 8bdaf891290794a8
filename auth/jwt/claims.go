package jwt

import (
	gojwt "github.com/golang-jwt/jwt/v5"
)

// Identity is the account data a token is issued for.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Claims is the decoded payload of a valid token. It is only produced by
// Service.Verify after the signature and time claims have been checked.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	gojwt.RegisteredClaims
}

// Complete reports whether all identity fields are present.
func (c *Claims) Complete() bool {
	return c != nil && c.UserID != "" && c.Email != "" && c.Name != ""
}

// Identity returns the identity the token was issued for.
func (c *Claims) Identity() Identity {
	return Identity{ID: c.UserID, Email: c.Email, Name: c.Name}
}
