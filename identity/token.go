package identity

import (
	"time"

	"cinema_storefront/model"
	"cinema_storefront/utils"

	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser(jwt.WithoutClaimsValidation())

// Claims reads the token payload without verifying the signature; the
// storefront does not hold the signing key, the backend verifies on every call.
func Claims(token string) (*model.TokenClaim, bool) {
	if token == "" {
		return nil, false
	}
	claims := &model.TokenClaim{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// TokenValid reports whether token is well formed and not expired at now.
func TokenValid(token string, now time.Time) bool {
	claims, ok := Claims(token)
	if !ok {
		return false
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return now.Before(claims.ExpiresAt.Time)
}

func ProfileOf(token string, now time.Time) model.Profile {
	claims, ok := Claims(token)
	if !ok || !TokenValid(token, now) {
		return model.Profile{}
	}
	initials := claims.Initials
	if initials == "" {
		initials = utils.Initials(claims.FirstName, claims.LastName)
	}
	return model.Profile{
		IsLoggedIn: true,
		FirstName:  claims.FirstName,
		LastName:   claims.LastName,
		Initials:   initials,
		IsAdmin:    claims.IsAdmin(),
	}
}
