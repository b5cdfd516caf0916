package identity

import (
	"context"
	"errors"
	"fmt"

	"cinema_storefront/constants"
	"cinema_storefront/model"
	"cinema_storefront/storage"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrStorageUnavailable = errors.New("identity: client storage unavailable")

// Resolver decides whether the current actor is a signed-in user or a guest.
type Resolver struct {
	auth   *AuthState
	store  storage.Store
	clock  clockwork.Clock
	logger *zap.Logger
	group  singleflight.Group
}

type Option func(*Resolver)

func WithClock(c clockwork.Clock) Option {
	return func(r *Resolver) { r.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

func NewResolver(auth *AuthState, store storage.Store, opts ...Option) *Resolver {
	r := &Resolver{
		auth:   auth,
		store:  store,
		clock:  clockwork.NewRealClock(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Auth() *AuthState {
	return r.auth
}

// Current returns the user identity while a valid bearer token is present,
// otherwise the device's guest identity. A token found expired is dropped
// from the auth state, which notifies its observers.
func (r *Resolver) Current(ctx context.Context) (model.Identity, error) {
	token := r.auth.Token()
	if token != "" {
		if TokenValid(token, r.clock.Now()) {
			return model.Identity{Kind: model.IdentityUser, Token: token}, nil
		}
		r.logger.Info("bearer token expired, continuing as guest")
		r.auth.Expire(token)
	}

	guestID, err := r.GuestID(ctx)
	if err != nil {
		return model.Identity{}, err
	}
	return model.Identity{Kind: model.IdentityGuest, GuestId: guestID}, nil
}

// GuestID reads the persisted guest id and creates it on first use.
// Concurrent first calls share one write.
func (r *Resolver) GuestID(ctx context.Context) (string, error) {
	v, err, _ := r.group.Do(constants.GuestIDKey, func() (interface{}, error) {
		id, err := r.store.Get(ctx, constants.GuestIDKey)
		if err == nil && id != "" {
			return id, nil
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}

		id = uuid.NewString()
		if err := r.store.Set(ctx, constants.GuestIDKey, id); err != nil {
			return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		r.logger.Info("guest identity created", zap.String("guest_id", id))
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// OnChange runs fn whenever the signed-in state changes.
func (r *Resolver) OnChange(fn func()) (unsubscribe func()) {
	return r.auth.Subscribe(fn)
}

func (r *Resolver) Profile() model.Profile {
	return ProfileOf(r.auth.Token(), r.clock.Now())
}
