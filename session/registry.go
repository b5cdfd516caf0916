// Package session keeps one cart session per browser device.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"cinema_storefront/cart"
	"cinema_storefront/identity"
	"cinema_storefront/model"
	"cinema_storefront/storage"
	"cinema_storefront/timer"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Session bundles the identity, cart and countdown of one device.
type Session struct {
	DeviceID string
	Auth     *identity.AuthState
	Identity *identity.Resolver
	Cart     *cart.Store
	Timer    *timer.Timer

	lastSeen atomic.Int64
	conns    atomic.Int32
	cleanup  []func()
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Connect marks a live websocket; idle sweeps skip sessions with one.
func (s *Session) Connect() (disconnect func()) {
	s.conns.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { s.conns.Add(-1) })
	}
}

func (s *Session) close() {
	for _, fn := range s.cleanup {
		fn()
	}
	s.Timer.Stop()
	s.Cart.Close()
}

type Registry struct {
	gateway     cart.Gateway
	enricher    cart.Enricher
	store       storage.Store
	broadcaster Broadcaster
	clock       clockwork.Clock
	idle        time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

type Option func(*Registry)

func WithBroadcaster(b Broadcaster) Option {
	return func(r *Registry) { r.broadcaster = b }
}

func WithClock(c clockwork.Clock) Option {
	return func(r *Registry) { r.clock = c }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(r *Registry) { r.idle = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

func NewRegistry(gw cart.Gateway, enricher cart.Enricher, store storage.Store, opts ...Option) *Registry {
	r := &Registry{
		gateway:  gw,
		enricher: enricher,
		store:    store,
		clock:    clockwork.NewRealClock(),
		idle:     30 * time.Minute,
		logger:   zap.NewNop(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.broadcaster == nil {
		r.broadcaster = NewLocalBroadcaster()
	}
	return r
}

// Clock is the time source of every session in the registry.
func (r *Registry) Clock() clockwork.Clock {
	return r.clock
}

func (r *Registry) Broadcaster() Broadcaster {
	return r.broadcaster
}

// Session returns the device's session, creating it on first use.
func (r *Registry) Session(deviceID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[deviceID]; ok {
		s.touch(r.clock.Now())
		return s
	}

	s := r.open(deviceID)
	s.touch(r.clock.Now())
	r.sessions[deviceID] = s
	r.logger.Debug("session opened", zap.String("device_id", deviceID))
	return s
}

func (r *Registry) open(deviceID string) *Session {
	log := r.logger.With(zap.String("device_id", deviceID))

	auth := identity.NewAuthState("")
	resolver := identity.NewResolver(auth, storage.Namespaced(r.store, "device:"+deviceID),
		identity.WithClock(r.clock),
		identity.WithLogger(log))
	store := cart.NewStore(r.gateway, r.enricher, resolver, cart.WithLogger(log))
	store.Watch()
	tm := timer.New(timer.WithClock(r.clock), timer.WithLogger(log))

	s := &Session{
		DeviceID: deviceID,
		Auth:     auth,
		Identity: resolver,
		Cart:     store,
		Timer:    tm,
	}

	publish := func(ev Event) {
		if err := r.broadcaster.Publish(context.Background(), deviceID, ev); err != nil {
			log.Warn("publish cart event failed", zap.String("type", ev.Type), zap.Error(err))
		}
	}
	s.cleanup = append(s.cleanup,
		store.Subscribe(func(snap model.CartSnapshot) {
			publish(Event{Type: EventCart, Cart: &snap})
		}),
		store.OnNotify(func(n model.Notification) {
			publish(Event{Type: EventNotification, Notification: &n})
		}),
		tm.Subscribe(func(state model.TimerState) {
			publish(Event{Type: EventTimer, Timer: &state})
		}),
	)
	tm.Attach(store)
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the idle timeout and without
// a live websocket. It returns how many were closed.
func (r *Registry) Sweep() int {
	cutoff := r.clock.Now().Add(-r.idle)

	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.conns.Load() > 0 || s.LastSeen().After(cutoff) {
			continue
		}
		stale = append(stale, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.close()
		r.logger.Debug("session closed", zap.String("device_id", s.DeviceID))
	}
	return len(stale)
}

func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
