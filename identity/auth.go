package identity

import (
	"sync"
)

// AuthState holds the bearer token managed by the login flow and tells
// observers when it changes.
type AuthState struct {
	mu        sync.RWMutex
	token     string
	nextID    int
	observers []observer
}

type observer struct {
	id int
	fn func()
}

func NewAuthState(token string) *AuthState {
	return &AuthState{token: token}
}

func (a *AuthState) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *AuthState) Login(token string) {
	a.set(token)
}

func (a *AuthState) Logout() {
	a.set("")
}

// Expire drops token if it is still the current one. Observers run as on Logout.
func (a *AuthState) Expire(token string) {
	a.replace(func(current string) string {
		if current == token {
			return ""
		}
		return current
	})
}

func (a *AuthState) set(token string) {
	a.replace(func(string) string { return token })
}

func (a *AuthState) replace(next func(current string) string) {
	a.mu.Lock()
	token := next(a.token)
	if a.token == token {
		a.mu.Unlock()
		return
	}
	a.token = token
	fns := make([]func(), 0, len(a.observers))
	for _, o := range a.observers {
		fns = append(fns, o.fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Subscribe registers fn to run after every token change, in registration order.
func (a *AuthState) Subscribe(fn func()) (unsubscribe func()) {
	a.mu.Lock()
	a.nextID++
	id := a.nextID
	a.observers = append(a.observers, observer{id: id, fn: fn})
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, o := range a.observers {
			if o.id == id {
				a.observers = append(a.observers[:i], a.observers[i+1:]...)
				return
			}
		}
	}
}
