package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cinema_storefront/constants"
	"cinema_storefront/enrich"
	"cinema_storefront/gateway"
	"cinema_storefront/model"
	"cinema_storefront/timer"
	"cinema_storefront/utils"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	mu       sync.Mutex
	id       model.Identity
	err      error
	onChange []func()
}

func (f *fakeIdentity) Current(context.Context) (model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id, f.err
}

func (f *fakeIdentity) OnChange(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = append(f.onChange, fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.onChange = nil
	}
}

func (f *fakeIdentity) switchTo(id model.Identity) {
	f.mu.Lock()
	f.id = id
	fns := append([]func(){}, f.onChange...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type fakeGateway struct {
	mu        sync.Mutex
	carts     map[string]model.CartResponse
	fetchErr  error
	addErr    error
	fetches   int
	adds      int
	lastFetch model.Identity
	// when set, the next fetch waits for release before answering
	hold    chan struct{}
	release chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{carts: map[string]model.CartResponse{}}
}

func key(id model.Identity) string {
	if id.IsUser() {
		return "user:" + id.Token
	}
	return "guest:" + id.GuestId
}

func (f *fakeGateway) FetchCart(ctx context.Context, id model.Identity) (model.CartResponse, error) {
	f.mu.Lock()
	f.fetches++
	f.lastFetch = id
	resp, err := f.carts[key(id)], f.fetchErr
	hold, release := f.hold, f.release
	f.hold, f.release = nil, nil
	f.mu.Unlock()

	if hold != nil {
		close(hold)
		<-release
	}
	return resp, err
}

func (f *fakeGateway) AddItem(_ context.Context, id model.Identity, seatID int, price float64, showtimeID int) (model.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds++
	if f.addErr != nil {
		return model.Ack{}, f.addErr
	}
	cart := f.carts[key(id)]
	cart.CartItems = append(cart.CartItems, model.CartLineItem{SeatId: seatID, ShowtimeId: showtimeID, Price: price})
	cart.ValidUntil = utils.Timestamp{Time: time.Now().Add(15 * time.Minute)}
	f.carts[key(id)] = cart
	return model.Ack{Message: "ok"}, nil
}

func (f *fakeGateway) RemoveItem(_ context.Context, id model.Identity, showtimeID, seatID int) (model.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart := f.carts[key(id)]
	kept := cart.CartItems[:0]
	for _, item := range cart.CartItems {
		if item.SeatId != seatID || item.ShowtimeId != showtimeID {
			kept = append(kept, item)
		}
	}
	cart.CartItems = kept
	f.carts[key(id)] = cart
	return model.Ack{}, nil
}

func (f *fakeGateway) ClearCart(_ context.Context, id model.Identity) (model.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart := f.carts[key(id)]
	cart.CartItems = nil
	f.carts[key(id)] = cart
	return model.Ack{}, nil
}

func (f *fakeGateway) UpdateDiscount(_ context.Context, id model.Identity, seatID, showtimeID int, discountID *int) (model.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart := f.carts[key(id)]
	for i := range cart.CartItems {
		if cart.CartItems[i].SeatId == seatID && cart.CartItems[i].ShowtimeId == showtimeID {
			cart.CartItems[i].SeatTypeDiscountId = discountID
		}
	}
	return model.Ack{}, nil
}

func (f *fakeGateway) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

// passthrough copies the raw fields without catalog lookups.
type passthrough struct{}

func (passthrough) EnrichAll(ctx context.Context, raws []model.CartLineItem) ([]model.EnrichedCartItem, []enrich.Warning, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	out := make([]model.EnrichedCartItem, len(raws))
	for i, raw := range raws {
		out[i] = model.EnrichedCartItem{SeatId: raw.SeatId, ShowtimeId: raw.ShowtimeId, Price: raw.Price, SeatTypeDiscountId: raw.SeatTypeDiscountId, Discounts: []model.DiscountOption{}}
	}
	return out, nil, nil
}

var guest = model.Identity{Kind: model.IdentityGuest, GuestId: "g-1"}

func newTestStore() (*Store, *fakeGateway, *fakeIdentity) {
	gw := newFakeGateway()
	id := &fakeIdentity{id: guest}
	return NewStore(gw, passthrough{}, id), gw, id
}

func seatIDs(snap model.CartSnapshot) []int {
	ids := make([]int, 0, len(snap.Items))
	for _, item := range snap.Items {
		ids = append(ids, item.SeatId)
	}
	return ids
}

func TestReloadPublishesSnapshot(t *testing.T) {
	store, gw, _ := newTestStore()
	until := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	gw.carts[key(guest)] = model.CartResponse{
		CartItems:  []model.CartLineItem{{SeatId: 1, ShowtimeId: 3, Price: 10}},
		ValidUntil: utils.Timestamp{Time: until},
	}
	assert.Equal(t, StateIdle, store.State())

	var got []model.CartSnapshot
	store.Subscribe(func(s model.CartSnapshot) { got = append(got, s) })

	snap, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateReady, store.State())
	require.NotNil(t, snap.ValidUntil)
	assert.True(t, until.Equal(*snap.ValidUntil))
	assert.Equal(t, []int{1}, seatIDs(snap))
	require.Len(t, got, 1)
	assert.Equal(t, snap.Generation, got[0].Generation)
}

func TestEmptyCartHasNoValidUntil(t *testing.T) {
	store, gw, _ := newTestStore()
	gw.carts[key(guest)] = model.CartResponse{
		CartItems:  []model.CartLineItem{},
		ValidUntil: utils.Timestamp{Time: time.Now().Add(time.Hour)},
	}

	snap, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Nil(t, snap.ValidUntil)
}

func TestReloadFailureErrorsAndClearsValidUntil(t *testing.T) {
	store, gw, _ := newTestStore()
	gw.carts[key(guest)] = model.CartResponse{
		CartItems:  []model.CartLineItem{{SeatId: 1, ShowtimeId: 3}},
		ValidUntil: utils.Timestamp{Time: time.Now().Add(time.Hour)},
	}
	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	gw.fetchErr = &gateway.RemoteError{Status: 500, Message: "kaputt"}
	snap, err := store.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateErrored, store.State())
	assert.Nil(t, snap.ValidUntil)
	require.NotNil(t, snap.Error)
	assert.Equal(t, "kaputt", *snap.Error)

	gw.fetchErr = nil
	snap, err = store.Reload(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap.Error)
	assert.Equal(t, StateReady, store.State())
}

func TestAddReloadsOnSuccess(t *testing.T) {
	store, gw, _ := newTestStore()
	var notes []model.Notification
	store.OnNotify(func(n model.Notification) { notes = append(notes, n) })

	snap, err := store.Add(context.Background(), model.SeatSelection{SeatId: 7, Price: 9, Row: "B", Number: 4}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, seatIDs(snap))
	assert.NotNil(t, snap.ValidUntil)
	assert.Equal(t, 1, gw.fetchCount())
	require.Len(t, notes, 1)
	assert.Equal(t, constants.NOTIFY_SUCCESS, notes[0].Kind)
	assert.Equal(t, "Sitzplatz B4 wurde zum Warenkorb hinzugefügt.", notes[0].Message)
}

func TestAddConflictDoesNotReload(t *testing.T) {
	store, gw, _ := newTestStore()
	gw.addErr = &gateway.ConflictError{RemoteError: &gateway.RemoteError{Status: 409, Message: constants.SEAT_ALREADY_RESERVED}}
	var notes []model.Notification
	store.OnNotify(func(n model.Notification) { notes = append(notes, n) })

	snap, err := store.Add(context.Background(), model.SeatSelection{SeatId: 7}, 3)
	require.Error(t, err)
	assert.True(t, gateway.IsConflict(err))
	assert.Equal(t, 0, gw.fetchCount())
	require.NotNil(t, snap.Error)
	assert.Equal(t, constants.SEAT_ALREADY_RESERVED, *snap.Error)
	require.Len(t, notes, 1)
	assert.Equal(t, constants.NOTIFY_CONFLICT, notes[0].Kind)
}

func TestAddGenericFailureIsNotConflict(t *testing.T) {
	store, gw, _ := newTestStore()
	gw.addErr = &gateway.RemoteError{Status: 400, Message: "Ungültige Anfrage"}
	var notes []model.Notification
	store.OnNotify(func(n model.Notification) { notes = append(notes, n) })

	_, err := store.Add(context.Background(), model.SeatSelection{SeatId: 7}, 3)
	require.Error(t, err)
	assert.False(t, gateway.IsConflict(err))
	assert.Equal(t, 0, gw.fetchCount())
	require.Len(t, notes, 1)
	assert.Equal(t, constants.NOTIFY_ERROR, notes[0].Kind)
	assert.Equal(t, "Ungültige Anfrage", notes[0].Message)
}

func TestRemoveAndClear(t *testing.T) {
	store, gw, _ := newTestStore()
	gw.carts[key(guest)] = model.CartResponse{
		CartItems:  []model.CartLineItem{{SeatId: 1, ShowtimeId: 3}, {SeatId: 2, ShowtimeId: 3}},
		ValidUntil: utils.Timestamp{Time: time.Now().Add(time.Hour)},
	}

	snap, err := store.Remove(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, seatIDs(snap))

	snap, err = store.Clear(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Nil(t, snap.ValidUntil)
}

func TestUpdateDiscount(t *testing.T) {
	store, gw, _ := newTestStore()
	gw.carts[key(guest)] = model.CartResponse{
		CartItems:  []model.CartLineItem{{SeatId: 1, ShowtimeId: 3}},
		ValidUntil: utils.Timestamp{Time: time.Now().Add(time.Hour)},
	}
	discount := 50

	snap, err := store.UpdateDiscount(context.Background(), 1, 3, &discount)
	require.NoError(t, err)
	require.NotNil(t, snap.Items[0].SeatTypeDiscountId)
	assert.Equal(t, 50, *snap.Items[0].SeatTypeDiscountId)
}

func TestIdentityFailureAbortsOperation(t *testing.T) {
	gw := newFakeGateway()
	store := NewStore(gw, passthrough{}, &fakeIdentity{err: errors.New("storage down")})

	_, err := store.Add(context.Background(), model.SeatSelection{SeatId: 1}, 1)
	require.Error(t, err)
	assert.Equal(t, 0, gw.adds)
	assert.Equal(t, StateErrored, store.State())
}

func TestIdentityChangeReloads(t *testing.T) {
	store, gw, id := newTestStore()
	user := model.Identity{Kind: model.IdentityUser, Token: "tok"}
	gw.carts[key(user)] = model.CartResponse{
		CartItems:  []model.CartLineItem{{SeatId: 9, ShowtimeId: 1}},
		ValidUntil: utils.Timestamp{Time: time.Now().Add(time.Hour)},
	}
	store.Watch()
	defer store.Close()

	id.switchTo(user)

	assert.Equal(t, 1, gw.fetchCount())
	assert.Equal(t, user, gw.lastFetch)
	assert.Equal(t, []int{9}, seatIDs(store.Snapshot()))
}

func TestOverlappingReloadsLastWriteWins(t *testing.T) {
	store, gw, _ := newTestStore()
	gw.carts[key(guest)] = model.CartResponse{
		CartItems:  []model.CartLineItem{{SeatId: 1, ShowtimeId: 3}, {SeatId: 2, ShowtimeId: 3}},
		ValidUntil: utils.Timestamp{Time: time.Now().Add(time.Hour)},
	}
	hold, release := make(chan struct{}), make(chan struct{})
	gw.hold, gw.release = hold, release

	type result struct {
		snap model.CartSnapshot
		err  error
	}
	first := make(chan result, 1)
	go func() {
		snap, err := store.Reload(context.Background())
		first <- result{snap, err}
	}()
	<-hold

	gw.mu.Lock()
	gw.carts[key(guest)] = model.CartResponse{
		CartItems:  []model.CartLineItem{{SeatId: 5, ShowtimeId: 4}},
		ValidUntil: utils.Timestamp{Time: time.Now().Add(time.Hour)},
	}
	gw.mu.Unlock()

	second, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{5}, seatIDs(second))

	close(release)
	res := <-first
	assert.ErrorIs(t, res.err, ErrSuperseded)

	final := store.Snapshot()
	assert.Equal(t, []int{5}, seatIDs(final))
	assert.Equal(t, second.Generation, final.Generation)
}

func TestSnapshotIsACopy(t *testing.T) {
	store, gw, _ := newTestStore()
	gw.carts[key(guest)] = model.CartResponse{
		CartItems:  []model.CartLineItem{{SeatId: 1, ShowtimeId: 3}},
		ValidUntil: utils.Timestamp{Time: time.Now().Add(time.Hour)},
	}
	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	snap := store.Snapshot()
	snap.Items[0].SeatId = 99
	assert.Equal(t, 1, store.Snapshot().Items[0].SeatId)
}

func TestErrorSlotClearedByPublishedReload(t *testing.T) {
	store, gw, _ := newTestStore()
	gw.addErr = &gateway.RemoteError{Status: 400, Message: "Ungültige Anfrage"}
	_, err := store.Add(context.Background(), model.SeatSelection{SeatId: 7}, 3)
	require.Error(t, err)

	var delivered []model.CartSnapshot
	store.Subscribe(func(s model.CartSnapshot) { delivered = append(delivered, s) })

	gw.mu.Lock()
	gw.addErr = nil
	hold, release := make(chan struct{}), make(chan struct{})
	gw.hold, gw.release = hold, release
	gw.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := store.Add(context.Background(), model.SeatSelection{SeatId: 7}, 3)
		done <- err
	}()
	<-hold

	// subscribers have not seen a cleared slot yet, so neither does Snapshot
	inFlight := store.Snapshot()
	require.NotNil(t, inFlight.Error)
	assert.Equal(t, "Ungültige Anfrage", *inFlight.Error)

	close(release)
	require.NoError(t, <-done)
	require.Len(t, delivered, 1)
	assert.Nil(t, delivered[0].Error)
	assert.Nil(t, store.Snapshot().Error)
}

func TestFailedMutationKeepsTimerWarning(t *testing.T) {
	store, gw, _ := newTestStore()
	clock := clockwork.NewFakeClock()
	gw.carts[key(guest)] = model.CartResponse{
		CartItems:  []model.CartLineItem{{SeatId: 1, ShowtimeId: 3}},
		ValidUntil: utils.Timestamp{Time: clock.Now().Add(65 * time.Second)},
	}
	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	tm := timer.New(timer.WithClock(clock))
	t.Cleanup(tm.Stop)
	states := make(chan model.TimerState, 16)
	tm.Subscribe(func(s model.TimerState) { states <- s })
	tm.Attach(store)
	<-states

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		select {
		case <-states:
		case <-time.After(2 * time.Second):
			t.Fatalf("no tick after %d seconds", i+1)
		}
	}
	require.True(t, tm.State().Warning)

	for _, failing := range []func() error{
		func() error {
			gw.addErr = &gateway.RemoteError{Status: 400, Message: "Ungültige Anfrage"}
			_, err := store.Add(context.Background(), model.SeatSelection{SeatId: 2}, 3)
			return err
		},
		func() error {
			gw.addErr = &gateway.ConflictError{RemoteError: &gateway.RemoteError{Status: 409, Message: constants.SEAT_ALREADY_RESERVED}}
			_, err := store.Add(context.Background(), model.SeatSelection{SeatId: 2}, 3)
			return err
		},
	} {
		require.Error(t, failing())
		state := tm.State()
		assert.True(t, state.Warning)
		assert.True(t, state.Running)
		assert.Equal(t, 60, state.SecondsLeft)
	}
}
