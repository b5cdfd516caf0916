package model

type IdentityKind string

const (
	IdentityUser  IdentityKind = "user"
	IdentityGuest IdentityKind = "guest"
)

// Identity selects which cart endpoint family is called.
type Identity struct {
	Kind    IdentityKind `json:"kind"`
	Token   string       `json:"-"`
	GuestId string       `json:"guestId,omitempty"`
}

func (i Identity) IsUser() bool {
	return i.Kind == IdentityUser
}

// Same reports whether both identities own the same server-side cart.
func (i Identity) Same(other Identity) bool {
	return i.Kind == other.Kind && i.Token == other.Token && i.GuestId == other.GuestId
}
