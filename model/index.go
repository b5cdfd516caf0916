package model

import "github.com/golang-jwt/jwt/v5"

// TokenClaim mirrors the payload the backend signs into a login token.
type TokenClaim struct {
	UserId    uint   `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Initials  string `json:"initials"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func (c TokenClaim) IsAdmin() bool {
	return c.Role == "admin"
}

// Profile is what the storefront shows about the signed-in user.
type Profile struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	FirstName  string `json:"userFirstName"`
	LastName   string `json:"userLastName"`
	Initials   string `json:"initials"`
	IsAdmin    bool   `json:"isAdmin"`
}

type SessionInput struct {
	Token string `json:"token"`
}
