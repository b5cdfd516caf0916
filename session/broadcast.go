package session

import (
	"context"
	"encoding/json"
	"sync"

	"cinema_storefront/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	EventCart         = "cart"
	EventTimer        = "timer"
	EventNotification = "notification"
)

// Event is one message pushed to a device's websocket connections.
type Event struct {
	Type         string              `json:"type"`
	Cart         *model.CartSnapshot `json:"cart,omitempty"`
	Timer        *model.TimerState   `json:"timer,omitempty"`
	Notification *model.Notification `json:"notification,omitempty"`
}

type Broadcaster interface {
	Publish(ctx context.Context, deviceID string, ev Event) error
	// Subscribe delivers events for deviceID until cancel is called.
	Subscribe(ctx context.Context, deviceID string) (events <-chan Event, cancel func())
}

func channelName(deviceID string) string {
	return "cart:" + deviceID
}

// LocalBroadcaster fans events out inside this process.
type LocalBroadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event
}

func NewLocalBroadcaster() *LocalBroadcaster {
	return &LocalBroadcaster{subs: make(map[string]map[int]chan Event)}
}

func (b *LocalBroadcaster) Publish(_ context.Context, deviceID string, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[deviceID] {
		select {
		case ch <- ev:
		default:
			// slow reader; the next cart event carries the full state anyway
		}
	}
	return nil
}

func (b *LocalBroadcaster) Subscribe(_ context.Context, deviceID string) (<-chan Event, func()) {
	ch := make(chan Event, 32)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[deviceID] == nil {
		b.subs[deviceID] = make(map[int]chan Event)
	}
	b.subs[deviceID][id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[deviceID], id)
			if len(b.subs[deviceID]) == 0 {
				delete(b.subs, deviceID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

// RedisBroadcaster publishes events on a redis channel per device so every
// instance behind the load balancer can serve the device's websocket.
type RedisBroadcaster struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisBroadcaster(client *redis.Client, logger *zap.Logger) *RedisBroadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBroadcaster{client: client, logger: logger}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, deviceID string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelName(deviceID), payload).Err()
}

func (b *RedisBroadcaster) Subscribe(ctx context.Context, deviceID string) (<-chan Event, func()) {
	pubsub := b.client.Subscribe(ctx, channelName(deviceID))
	out := make(chan Event, 32)
	done := make(chan struct{})

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("dropping malformed cart event", zap.String("device_id", deviceID), zap.Error(err))
				continue
			}
			select {
			case out <- ev:
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}
}
