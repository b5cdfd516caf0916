package enrich

import (
	"context"
	"strconv"
	"sync"

	"cinema_storefront/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type DiscountFetcher func(ctx context.Context, seatTypeID int) ([]model.DiscountOption, error)

// DiscountCache memoizes discount lists per seat type. Entries live until
// Reset; failed fetches are not stored.
type DiscountCache struct {
	mu      sync.RWMutex
	entries map[int][]model.DiscountOption
	group   singleflight.Group
}

func NewDiscountCache() *DiscountCache {
	return &DiscountCache{entries: make(map[int][]model.DiscountOption)}
}

func (c *DiscountCache) lookup(seatTypeID int) ([]model.DiscountOption, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.entries[seatTypeID]
	return list, ok
}

// Get returns the cached list or fetches it. Concurrent misses for one seat
// type share a single fetch, which keeps running for the others when one
// caller's ctx is cancelled.
func (c *DiscountCache) Get(ctx context.Context, seatTypeID int, fetch DiscountFetcher) ([]model.DiscountOption, error) {
	if list, ok := c.lookup(seatTypeID); ok {
		return list, nil
	}

	ch := c.group.DoChan(strconv.Itoa(seatTypeID), func() (any, error) {
		if list, ok := c.lookup(seatTypeID); ok {
			return list, nil
		}
		list, err := fetch(context.WithoutCancel(ctx), seatTypeID)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []model.DiscountOption{}
		}
		c.mu.Lock()
		c.entries[seatTypeID] = list
		c.mu.Unlock()
		return list, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]model.DiscountOption), nil
	}
}

func (c *DiscountCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *DiscountCache) Reset() {
	c.mu.Lock()
	c.entries = make(map[int][]model.DiscountOption)
	c.mu.Unlock()
}

// StartCacheReset clears the cache on the given cron schedule. An empty
// schedule keeps entries for the process lifetime and returns a nil scheduler.
func StartCacheReset(c *DiscountCache, schedule string, logger *zap.Logger) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	sched := cron.New()
	_, err := sched.AddFunc(schedule, func() {
		n := c.Len()
		c.Reset()
		logger.Info("discount cache reset", zap.Int("entries", n))
	})
	if err != nil {
		return nil, err
	}
	sched.Start()
	return sched, nil
}
