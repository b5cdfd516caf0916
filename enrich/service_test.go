package enrich

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cinema_storefront/model"
	"cinema_storefront/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu            sync.Mutex
	seats         map[int]*model.Seat
	showtimes     map[int]*model.Showtime
	movies        map[int]*model.Movie
	discounts     map[int][]model.DiscountOption
	seatErr       map[int]error
	discountCalls atomic.Int32
	discountDelay time.Duration
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		seats:     map[int]*model.Seat{},
		showtimes: map[int]*model.Showtime{},
		movies:    map[int]*model.Movie{},
		discounts: map[int][]model.DiscountOption{},
		seatErr:   map[int]error{},
	}
}

func (f *fakeCatalog) FetchSeat(_ context.Context, id int) (*model.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.seatErr[id]; err != nil {
		return nil, err
	}
	seat, ok := f.seats[id]
	if !ok {
		return nil, errors.New("Sitz nicht gefunden")
	}
	out := *seat
	return &out, nil
}

func (f *fakeCatalog) FetchShowtime(_ context.Context, id int) (*model.Showtime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.showtimes[id]
	if !ok {
		return nil, nil
	}
	out := *st
	return &out, nil
}

func (f *fakeCatalog) FetchMovie(_ context.Context, id int) (*model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[id]
	if !ok {
		return nil, errors.New("movie not found")
	}
	out := *m
	return &out, nil
}

func (f *fakeCatalog) FetchDiscounts(ctx context.Context, seatTypeID int) ([]model.DiscountOption, error) {
	f.discountCalls.Add(1)
	if f.discountDelay > 0 {
		select {
		case <-time.After(f.discountDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.discounts[seatTypeID], nil
}

func seededCatalog() *fakeCatalog {
	amount := 2.0
	f := newFakeCatalog()
	f.seats[1] = &model.Seat{SeatId: 1, Row: "A", Number: 1, Type: "Parkett", Price: utils.Amount(10), SeatTypeId: 5}
	f.seats[2] = &model.Seat{SeatId: 2, Row: "A", Number: 2, Type: "Parkett", Price: utils.Amount(10), SeatTypeId: 5}
	f.showtimes[3] = &model.Showtime{ShowtimeId: 3, MovieId: 30}
	f.movies[30] = &model.Movie{Id: 30, Title: "Das Boot"}
	f.discounts[5] = []model.DiscountOption{
		{SeatTypeDiscountId: 50, Name: "Student", Amount: &amount},
		{SeatTypeDiscountId: 51, Name: "Kind"},
	}
	return f
}

func TestEnrichJoinsDetails(t *testing.T) {
	svc := NewService(seededCatalog())
	selected := 50

	item, warning, err := svc.Enrich(context.Background(), model.CartLineItem{SeatId: 1, ShowtimeId: 3, Price: 10, SeatTypeDiscountId: &selected})
	require.NoError(t, err)
	assert.Nil(t, warning)
	require.NotNil(t, item.Row)
	assert.Equal(t, "A", *item.Row)
	assert.Equal(t, 5, *item.SeatTypeId)
	require.NotNil(t, item.Movie)
	assert.Equal(t, "das-boot", item.Movie.Slug)
	assert.Len(t, item.Discounts, 2)
	require.NotNil(t, item.SelectedDiscount)
	assert.Equal(t, "Student", item.SelectedDiscount.Name)
	assert.Equal(t, 8.0, item.FinalPrice())
	assert.False(t, item.Degraded)
}

func TestEnrichUnknownDiscountSelectsNothing(t *testing.T) {
	svc := NewService(seededCatalog())
	unknown := 99

	item, _, err := svc.Enrich(context.Background(), model.CartLineItem{SeatId: 1, ShowtimeId: 3, SeatTypeDiscountId: &unknown})
	require.NoError(t, err)
	assert.Nil(t, item.SelectedDiscount)
}

func TestEnrichMissingShowtimeSkipsMovie(t *testing.T) {
	svc := NewService(seededCatalog())

	item, warning, err := svc.Enrich(context.Background(), model.CartLineItem{SeatId: 1, ShowtimeId: 404})
	require.NoError(t, err)
	assert.Nil(t, warning)
	assert.Nil(t, item.Showtime)
	assert.Nil(t, item.Movie)
	assert.NotNil(t, item.Row)
}

func TestEnrichSeatFailureDegrades(t *testing.T) {
	catalog := seededCatalog()
	catalog.seatErr[1] = errors.New("boom")
	svc := NewService(catalog)
	selected := 50

	item, warning, err := svc.Enrich(context.Background(), model.CartLineItem{SeatId: 1, ShowtimeId: 3, Price: 12.5, SeatTypeDiscountId: &selected})
	require.NoError(t, err)
	require.NotNil(t, warning)
	assert.Equal(t, 1, warning.SeatID)
	assert.Nil(t, item.Row)
	assert.Nil(t, item.Number)
	assert.Nil(t, item.Type)
	assert.Equal(t, 12.5, item.Price)
	assert.NotNil(t, item.Discounts)
	assert.Empty(t, item.Discounts)
	assert.Nil(t, item.SelectedDiscount)
	assert.Nil(t, item.Showtime)
	assert.Nil(t, item.Movie)
	assert.True(t, item.Degraded)
}

func TestEnrichAllKeepsOtherItems(t *testing.T) {
	catalog := seededCatalog()
	catalog.seatErr[2] = errors.New("boom")
	svc := NewService(catalog)

	raws := []model.CartLineItem{
		{SeatId: 1, ShowtimeId: 3, Price: 10},
		{SeatId: 2, ShowtimeId: 3, Price: 11},
	}
	items, warnings, err := svc.EnrichAll(context.Background(), raws)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].SeatId)
	assert.False(t, items[0].Degraded)
	assert.Equal(t, 2, items[1].SeatId)
	assert.True(t, items[1].Degraded)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].SeatID)
}

func TestSharedSeatTypeFetchesDiscountsOnce(t *testing.T) {
	catalog := seededCatalog()
	catalog.discountDelay = 20 * time.Millisecond
	svc := NewService(catalog)

	raws := []model.CartLineItem{
		{SeatId: 1, ShowtimeId: 3},
		{SeatId: 2, ShowtimeId: 3},
	}
	_, warnings, err := svc.EnrichAll(context.Background(), raws)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, int32(1), catalog.discountCalls.Load())

	_, _, err = svc.EnrichAll(context.Background(), raws)
	require.NoError(t, err)
	assert.Equal(t, int32(1), catalog.discountCalls.Load())
}

func TestEnrichAllBounded(t *testing.T) {
	svc := NewService(seededCatalog(), WithMaxParallel(1))

	items, _, err := svc.EnrichAll(context.Background(), []model.CartLineItem{
		{SeatId: 2, ShowtimeId: 3},
		{SeatId: 1, ShowtimeId: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].SeatId)
	assert.Equal(t, 1, items[1].SeatId)
}

func TestEnrichAllCancelled(t *testing.T) {
	svc := NewService(seededCatalog())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.EnrichAll(ctx, []model.CartLineItem{{SeatId: 1, ShowtimeId: 3}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCacheReset(t *testing.T) {
	catalog := seededCatalog()
	cache := NewDiscountCache()

	_, err := cache.Get(context.Background(), 5, catalog.FetchDiscounts)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	cache.Reset()
	assert.Equal(t, 0, cache.Len())
	_, err = cache.Get(context.Background(), 5, catalog.FetchDiscounts)
	require.NoError(t, err)
	assert.Equal(t, int32(2), catalog.discountCalls.Load())
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	cache := NewDiscountCache()
	calls := 0
	failing := func(context.Context, int) ([]model.DiscountOption, error) {
		calls++
		return nil, errors.New("down")
	}

	_, err := cache.Get(context.Background(), 1, failing)
	require.Error(t, err)
	_, err = cache.Get(context.Background(), 1, failing)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, cache.Len())
}

func TestStartCacheResetDisabled(t *testing.T) {
	sched, err := StartCacheReset(NewDiscountCache(), "", nil)
	require.NoError(t, err)
	assert.Nil(t, sched)

	_, err = StartCacheReset(NewDiscountCache(), "not a cron", nil)
	assert.Error(t, err)
}
