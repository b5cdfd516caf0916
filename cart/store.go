// Package cart keeps the shopper's cart as a series of complete snapshots
// fetched from the backend and enriched with catalog details.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cinema_storefront/constants"
	"cinema_storefront/enrich"
	"cinema_storefront/gateway"
	"cinema_storefront/model"

	"go.uber.org/zap"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateErrored State = "errored"
)

// ErrSuperseded is returned by a reload that a newer reload replaced before
// it could publish.
var ErrSuperseded = errors.New("cart reload superseded")

type Gateway interface {
	FetchCart(ctx context.Context, id model.Identity) (model.CartResponse, error)
	AddItem(ctx context.Context, id model.Identity, seatID int, price float64, showtimeID int) (model.Ack, error)
	RemoveItem(ctx context.Context, id model.Identity, showtimeID, seatID int) (model.Ack, error)
	ClearCart(ctx context.Context, id model.Identity) (model.Ack, error)
	UpdateDiscount(ctx context.Context, id model.Identity, seatID, showtimeID int, seatTypeDiscountID *int) (model.Ack, error)
}

type Enricher interface {
	EnrichAll(ctx context.Context, raws []model.CartLineItem) ([]model.EnrichedCartItem, []enrich.Warning, error)
}

type IdentitySource interface {
	Current(ctx context.Context) (model.Identity, error)
	OnChange(fn func()) (unsubscribe func())
}

type Store struct {
	gateway  Gateway
	enricher Enricher
	identity IdentitySource
	logger   *zap.Logger

	mu         sync.Mutex
	state      State
	snapshot   model.CartSnapshot
	generation uint64
	cancel     context.CancelFunc

	// held while a snapshot is installed and delivered
	publishMu sync.Mutex

	subsMu    sync.Mutex
	nextSubID int
	subs      []subscriber
	notifiers []notifier

	unwatch func()
}

type subscriber struct {
	id int
	fn func(model.CartSnapshot)
}

type notifier struct {
	id int
	fn func(model.Notification)
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func NewStore(gw Gateway, enricher Enricher, identity IdentitySource, opts ...Option) *Store {
	s := &Store{
		gateway:  gw,
		enricher: enricher,
		identity: identity,
		logger:   zap.NewNop(),
		state:    StateIdle,
		snapshot: model.CartSnapshot{Items: []model.EnrichedCartItem{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Watch reloads the cart every time the identity changes.
func (s *Store) Watch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unwatch != nil {
		return
	}
	s.unwatch = s.identity.OnChange(func() {
		if _, err := s.Reload(context.Background()); err != nil && !errors.Is(err, ErrSuperseded) {
			s.logger.Warn("reload after identity change failed", zap.Error(err))
		}
	})
}

// Close stops watching the identity and cancels a running reload.
func (s *Store) Close() {
	s.mu.Lock()
	unwatch := s.unwatch
	s.unwatch = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	if unwatch != nil {
		unwatch()
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Snapshot() model.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

func (s *Store) Subscribe(fn func(model.CartSnapshot)) (unsubscribe func()) {
	s.subsMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) OnNotify(fn func(model.Notification)) (unsubscribe func()) {
	s.subsMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.notifiers = append(s.notifiers, notifier{id: id, fn: fn})
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		for i, n := range s.notifiers {
			if n.id == id {
				s.notifiers = append(s.notifiers[:i], s.notifiers[i+1:]...)
				return
			}
		}
	}
}

// Reload fetches and enriches the cart and publishes the result. Starting a
// reload cancels any older one; a reload that loses the race returns
// ErrSuperseded and publishes nothing.
func (s *Store) Reload(ctx context.Context) (model.CartSnapshot, error) {
	id, err := s.identity.Current(ctx)
	if err != nil {
		s.fail(err, constants.CART_LOAD_FAILED, true)
		return s.Snapshot(), err
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	rctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	previous := s.state
	s.state = StateLoading
	s.mu.Unlock()
	defer cancel()

	resp, err := s.gateway.FetchCart(rctx, id)
	if err != nil {
		if s.stale(gen) {
			return s.Snapshot(), ErrSuperseded
		}
		if ctx.Err() != nil {
			s.restore(gen, previous)
			return s.Snapshot(), ctx.Err()
		}
		s.logger.Warn("cart load failed", zap.String("identity", string(id.Kind)), zap.Error(err))
		return s.publishFailure(gen, gateway.Message(err, constants.CART_LOAD_FAILED)), err
	}

	items, warnings, err := s.enricher.EnrichAll(rctx, resp.CartItems)
	if err != nil {
		if s.stale(gen) {
			return s.Snapshot(), ErrSuperseded
		}
		s.restore(gen, previous)
		return s.Snapshot(), err
	}
	if items == nil {
		items = []model.EnrichedCartItem{}
	}

	snap := model.CartSnapshot{Items: items, Generation: gen}
	if len(items) > 0 {
		snap.ValidUntil = resp.ValidUntil.Ptr()
	}
	for _, w := range warnings {
		snap.Warnings = append(snap.Warnings, fmt.Sprintf(constants.CART_ITEM_DEGRADED, w.SeatID))
	}

	if !s.publish(gen, snap, StateReady) {
		return s.Snapshot(), ErrSuperseded
	}
	for _, msg := range snap.Warnings {
		s.notify(model.Notification{Kind: constants.NOTIFY_WARNING, Message: msg})
	}
	return snap.Clone(), nil
}

func (s *Store) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.generation
}

func (s *Store) restore(gen uint64, previous State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		s.state = previous
	}
}

// publish installs snap if gen is still the newest reload and delivers it.
func (s *Store) publish(gen uint64, snap model.CartSnapshot, state State) bool {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false
	}
	s.snapshot = snap
	s.state = state
	s.mu.Unlock()

	s.deliver(snap)
	return true
}

func (s *Store) publishFailure(gen uint64, message string) model.CartSnapshot {
	s.mu.Lock()
	snap := s.snapshot.Clone()
	s.mu.Unlock()

	snap.ValidUntil = nil
	snap.Error = &message
	snap.Generation = gen
	if s.publish(gen, snap, StateErrored) {
		s.notify(model.Notification{Kind: constants.NOTIFY_ERROR, Message: message})
	}
	return snap.Clone()
}

// fail records err in the error slot of the current snapshot.
func (s *Store) fail(err error, fallback string, fatal bool) {
	message := gateway.Message(err, fallback)

	s.publishMu.Lock()
	s.mu.Lock()
	snap := s.snapshot.Clone()
	snap.Error = &message
	if fatal {
		snap.ValidUntil = nil
		s.state = StateErrored
	}
	s.snapshot = snap
	s.mu.Unlock()
	s.deliver(snap)
	s.publishMu.Unlock()

	if gateway.IsConflict(err) {
		s.notify(model.Notification{Kind: constants.NOTIFY_CONFLICT, Title: constants.SEAT_TAKEN_TITLE, Message: constants.SEAT_TAKEN_HINT})
		return
	}
	s.notify(model.Notification{Kind: constants.NOTIFY_ERROR, Message: message})
}

func (s *Store) deliver(snap model.CartSnapshot) {
	s.subsMu.Lock()
	fns := make([]func(model.CartSnapshot), 0, len(s.subs))
	for _, sub := range s.subs {
		fns = append(fns, sub.fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap.Clone())
	}
}

func (s *Store) notify(n model.Notification) {
	s.subsMu.Lock()
	fns := make([]func(model.Notification), 0, len(s.notifiers))
	for _, nt := range s.notifiers {
		fns = append(fns, nt.fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
}
