package session

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StartSweeper runs Registry.Sweep every interval until the returned
// scheduler is shut down.
func StartSweeper(r *Registry, interval time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := r.Sweep(); n > 0 {
				r.logger.Info("idle sessions closed", zap.Int("count", n), zap.Int("remaining", r.Len()))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}

	s.Start()
	return s, nil
}
