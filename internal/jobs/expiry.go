package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/meetcast/matching-server-go/internal/repository"
)

// ExpiryJob periodically cancels pending offers older than the configured TTL.
type ExpiryJob struct {
	soloRepo  repository.SoloMatchingRepository
	groupRepo repository.GroupMatchingRepository
	ttl       time.Duration
	interval  time.Duration
	done      chan struct{}
}

func NewExpiryJob(
	soloRepo repository.SoloMatchingRepository,
	groupRepo repository.GroupMatchingRepository,
	ttl time.Duration,
	interval time.Duration,
) *ExpiryJob {
	return &ExpiryJob{
		soloRepo:  soloRepo,
		groupRepo: groupRepo,
		ttl:       ttl,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

func (j *ExpiryJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Dur("ttl", j.ttl).Msg("offer expiry job started")
}

func (j *ExpiryJob) Stop() {
	close(j.done)
	log.Info().Msg("offer expiry job stopped")
}

func (j *ExpiryJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.expire()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.expire()
		}
	}
}

func (j *ExpiryJob) expire() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-j.ttl)

	j.runExpiry(ctx, "solo offers", cutoff, j.soloRepo.CancelStalePending)
	j.runExpiry(ctx, "group offers", cutoff, j.groupRepo.CancelStalePending)
}

func (j *ExpiryJob) runExpiry(ctx context.Context, name string, cutoff time.Time, fn func(context.Context, time.Time) (int64, error)) {
	count, err := fn(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msgf("failed to expire %s", name)
	} else if count > 0 {
		log.Info().Int64("count", count).Msgf("expired %s", name)
	}
}
