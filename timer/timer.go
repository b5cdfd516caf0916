// Package timer counts down to the cart's valid_until instant.
package timer

import (
	"sync"
	"time"

	"cinema_storefront/model"
	"cinema_storefront/utils"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// WarningAt is the number of seconds left at which the warning is raised.
const WarningAt = 60

type Source interface {
	Subscribe(fn func(model.CartSnapshot)) (unsubscribe func())
	Snapshot() model.CartSnapshot
}

type Timer struct {
	clock  clockwork.Clock
	logger *zap.Logger

	// serializes state changes with their delivery
	deliverMu sync.Mutex

	mu          sync.Mutex
	secondsLeft int
	warning     bool
	stop        chan struct{}
	until       time.Time // instant of the running countdown

	subsMu sync.Mutex
	nextID int
	subs   []subscriber

	detach func()
}

type subscriber struct {
	id int
	fn func(model.TimerState)
}

type Option func(*Timer)

func WithClock(c clockwork.Clock) Option {
	return func(t *Timer) { t.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Timer) { t.logger = l }
}

func New(opts ...Option) *Timer {
	t := &Timer{
		clock:  clockwork.NewRealClock(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Attach follows the valid_until of every snapshot src publishes, starting
// with the current one.
func (t *Timer) Attach(src Source) {
	unsubscribe := src.Subscribe(func(snap model.CartSnapshot) {
		t.SetValidUntil(snap.ValidUntil)
	})
	t.mu.Lock()
	prev := t.detach
	t.detach = unsubscribe
	t.mu.Unlock()
	if prev != nil {
		prev()
	}
	t.SetValidUntil(src.Snapshot().ValidUntil)
}

// SetValidUntil restarts the countdown. A nil or past instant stops it;
// the instant already counted down to leaves the countdown untouched.
func (t *Timer) SetValidUntil(until *time.Time) {
	t.deliverMu.Lock()
	defer t.deliverMu.Unlock()

	t.mu.Lock()
	if until != nil && t.stop != nil && until.Equal(t.until) {
		t.mu.Unlock()
		return
	}
	t.halt()
	t.warning = false
	t.secondsLeft = 0
	if until != nil {
		if left := int(until.Sub(t.clock.Now()) / time.Second); left > 0 {
			t.secondsLeft = left
			t.until = *until
			stop := make(chan struct{})
			t.stop = stop
			go t.run(stop, t.clock.NewTicker(time.Second))
		}
	}
	state := t.stateLocked()
	t.mu.Unlock()

	t.logger.Debug("cart timer reset", zap.Int("seconds_left", state.SecondsLeft))
	t.deliver(state)
}

func (t *Timer) run(stop chan struct{}, ticker clockwork.Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if !t.tick(stop) {
				return
			}
		}
	}
}

// tick reports whether the countdown that owns stop keeps running.
func (t *Timer) tick(stop chan struct{}) bool {
	t.deliverMu.Lock()
	defer t.deliverMu.Unlock()

	t.mu.Lock()
	if t.stop != stop {
		t.mu.Unlock()
		return false
	}
	if t.secondsLeft > 0 {
		t.secondsLeft--
	}
	if t.secondsLeft == WarningAt {
		t.warning = true
	}
	running := t.secondsLeft > 0
	if !running {
		t.halt()
	}
	state := t.stateLocked()
	t.mu.Unlock()

	t.deliver(state)
	return running
}

// halt must be called with mu held.
func (t *Timer) halt() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.until = time.Time{}
}

func (t *Timer) stateLocked() model.TimerState {
	return model.TimerState{
		SecondsLeft: t.secondsLeft,
		Warning:     t.warning,
		Running:     t.stop != nil,
		Display:     utils.FormatCountdown(t.secondsLeft),
	}
}

func (t *Timer) State() model.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *Timer) Subscribe(fn func(model.TimerState)) (unsubscribe func()) {
	t.subsMu.Lock()
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscriber{id: id, fn: fn})
	t.subsMu.Unlock()

	return func() {
		t.subsMu.Lock()
		defer t.subsMu.Unlock()
		for i, s := range t.subs {
			if s.id == id {
				t.subs = append(t.subs[:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

func (t *Timer) deliver(state model.TimerState) {
	t.subsMu.Lock()
	fns := make([]func(model.TimerState), 0, len(t.subs))
	for _, s := range t.subs {
		fns = append(fns, s.fn)
	}
	t.subsMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// Stop ends the countdown and detaches from the cart.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.halt()
	t.secondsLeft = 0
	t.warning = false
	detach := t.detach
	t.detach = nil
	t.mu.Unlock()
	if detach != nil {
		detach()
	}
}
