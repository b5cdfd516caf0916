// Package enrich joins raw cart lines with seat, showtime, movie and
// discount details.
package enrich

import (
	"context"
	"errors"
	"fmt"

	"cinema_storefront/helper"
	"cinema_storefront/model"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Catalog is the read side of the backend used for enrichment.
type Catalog interface {
	FetchSeat(ctx context.Context, seatID int) (*model.Seat, error)
	FetchShowtime(ctx context.Context, showtimeID int) (*model.Showtime, error)
	FetchMovie(ctx context.Context, movieID int) (*model.Movie, error)
	FetchDiscounts(ctx context.Context, seatTypeID int) ([]model.DiscountOption, error)
}

// Warning reports an item that was published in degraded form.
type Warning struct {
	SeatID     int
	ShowtimeID int
	Err        error
}

func (w Warning) Error() string {
	return fmt.Sprintf("Fehler beim Abrufen der Details für Sitzplatz %d: %v", w.SeatID, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

type Service struct {
	catalog     Catalog
	cache       *DiscountCache
	maxParallel int
	logger      *zap.Logger
}

type Option func(*Service)

// WithMaxParallel bounds how many items are enriched at once; 0 means no bound.
func WithMaxParallel(n int) Option {
	return func(s *Service) { s.maxParallel = n }
}

func WithCache(c *DiscountCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(catalog Catalog, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = NewDiscountCache()
	}
	return s
}

func (s *Service) Cache() *DiscountCache {
	return s.cache
}

// Enrich resolves one item. Lookup failures degrade the item and come back
// as a *Warning; only ctx cancellation is returned as a plain error.
func (s *Service) Enrich(ctx context.Context, raw model.CartLineItem) (model.EnrichedCartItem, *Warning, error) {
	if err := ctx.Err(); err != nil {
		return model.EnrichedCartItem{}, nil, err
	}
	item, err := s.resolve(ctx, raw)
	if err == nil {
		return item, nil, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.EnrichedCartItem{}, nil, ctxErr
	}

	s.logger.Warn("cart item degraded",
		zap.Int("seat_id", raw.SeatId),
		zap.Int("showtime_id", raw.ShowtimeId),
		zap.Error(err))
	return degraded(raw), &Warning{SeatID: raw.SeatId, ShowtimeID: raw.ShowtimeId, Err: err}, nil
}

// EnrichAll keeps input order. The returned error is non-nil only when ctx
// ended before every item was resolved.
func (s *Service) EnrichAll(ctx context.Context, raws []model.CartLineItem) ([]model.EnrichedCartItem, []Warning, error) {
	items := make([]model.EnrichedCartItem, len(raws))
	warnings := make([]*Warning, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	if s.maxParallel > 0 {
		g.SetLimit(s.maxParallel)
	}
	for i, raw := range raws {
		g.Go(func() error {
			item, warning, err := s.Enrich(gctx, raw)
			if err != nil {
				return err
			}
			items[i] = item
			warnings[i] = warning
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var out []Warning
	for _, w := range warnings {
		if w != nil {
			out = append(out, *w)
		}
	}
	return items, out, nil
}

func (s *Service) resolve(ctx context.Context, raw model.CartLineItem) (model.EnrichedCartItem, error) {
	var (
		seat      *model.Seat
		showtime  *model.Showtime
		movie     *model.Movie
		discounts []model.DiscountOption
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		seat, err = s.catalog.FetchSeat(gctx, raw.SeatId)
		if err != nil {
			return fmt.Errorf("seat %d: %w", raw.SeatId, err)
		}
		discounts, err = s.cache.Get(gctx, seat.SeatTypeId, s.catalog.FetchDiscounts)
		if err != nil {
			return fmt.Errorf("discounts for seat type %d: %w", seat.SeatTypeId, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		showtime, err = s.catalog.FetchShowtime(gctx, raw.ShowtimeId)
		if err != nil {
			return fmt.Errorf("showtime %d: %w", raw.ShowtimeId, err)
		}
		if showtime == nil {
			return nil
		}
		movie, err = s.catalog.FetchMovie(gctx, showtime.MovieId)
		if err != nil {
			return fmt.Errorf("movie %d: %w", showtime.MovieId, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.EnrichedCartItem{}, err
	}
	if seat == nil {
		return model.EnrichedCartItem{}, errors.New("empty seat")
	}

	var item model.EnrichedCartItem
	if err := copier.Copy(&item, &raw); err != nil {
		return model.EnrichedCartItem{}, err
	}
	item.Row = &seat.Row
	item.Number = &seat.Number
	item.Type = &seat.Type
	item.SeatTypeId = &seat.SeatTypeId
	item.ScreenId = &seat.ScreenId
	if price := seat.Price.Float(); price > 0 {
		item.Price = price
	}
	item.Showtime = showtime
	if movie != nil {
		if movie.Slug == "" {
			movie.Slug = helper.MovieSlug(movie)
		}
		item.Movie = movie
	}
	item.Discounts = append([]model.DiscountOption{}, discounts...)
	item.SelectedDiscount = selectDiscount(item.Discounts, raw.SeatTypeDiscountId)
	return item, nil
}

func selectDiscount(discounts []model.DiscountOption, id *int) *model.DiscountOption {
	if id == nil {
		return nil
	}
	for i := range discounts {
		if discounts[i].SeatTypeDiscountId == *id {
			d := discounts[i]
			return &d
		}
	}
	return nil
}

func degraded(raw model.CartLineItem) model.EnrichedCartItem {
	var item model.EnrichedCartItem
	_ = copier.Copy(&item, &raw)
	item.Discounts = []model.DiscountOption{}
	item.SelectedDiscount = nil
	item.Degraded = true
	return item
}
