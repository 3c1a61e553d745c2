// Package enrich runs the best-effort background job that augments
// imported Steam games with normalized genre/category tags.
//
// The job is a bounded work queue with a single consumer, rate-limited
// against the store API. Progress and failures are observable through
// Stats; there is no persistence of queue state, so items in flight when
// the process exits are picked up again by the periodic sweep.
package enrich

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"gameshelf/backend/internal/platform/steam"
	"gameshelf/backend/internal/tags"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultQueueSize = 1024

	// requestInterval keeps the worker under the store API's informal
	// rate limit of roughly one request per 1.5 seconds.
	requestInterval = 1500 * time.Millisecond

	// Detail fetches retry on a rate-limit signal with geometric backoff:
	// base 2s, doubling, capped at 3 attempts.
	retryBaseDelay   = 2 * time.Second
	maxFetchAttempts = 3

	// bulkRateLimitSleep is the long pause taken when a task is still
	// rate-limited after its retry budget, before one final attempt.
	bulkRateLimitSleep = 10 * time.Second
)

// Task identifies one game to enrich. BatchID groups the tasks of a single
// import for log correlation.
type Task struct {
	GameID  uint
	AppID   string
	BatchID uuid.UUID
}

// DetailFetcher provides genre/category details for an appid.
// *steam.Client satisfies it.
type DetailFetcher interface {
	AppDetails(ctx context.Context, appID string) (*steam.AppDetails, error)
}

// TagWriter persists normalized tags for a game.
type TagWriter interface {
	WriteTags(gameID uint, tagList []string) error
}

// Stats is a snapshot of worker progress.
type Stats struct {
	Queued    int64
	Processed int64
	Failed    int64
	Dropped   int64
}

// Worker consumes enrichment tasks sequentially.
type Worker struct {
	fetcher DetailFetcher
	writer  TagWriter
	queue   chan Task
	limiter *rate.Limiter
	log     zerolog.Logger

	// sleep is swapped out in tests to observe backoff delays.
	sleep func(ctx context.Context, d time.Duration) error

	queued    atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewWorker builds a worker with the default queue size and rate limit.
func NewWorker(fetcher DetailFetcher, writer TagWriter, log zerolog.Logger) *Worker {
	return &Worker{
		fetcher: fetcher,
		writer:  writer,
		queue:   make(chan Task, defaultQueueSize),
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
		log:     log.With().Str("component", "enrich").Logger(),
		sleep:   sleepCtx,
	}
}

// Start launches the single consumer goroutine. It runs until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Enqueue adds tasks to the queue without blocking. When the queue is
// full, remaining tasks are dropped and counted; the periodic sweep gives
// dropped games another chance. Returns the number of accepted tasks.
func (w *Worker) Enqueue(taskList ...Task) int {
	accepted := 0
	for _, t := range taskList {
		select {
		case w.queue <- t:
			w.queued.Add(1)
			accepted++
		default:
			w.dropped.Add(1)
			w.log.Warn().Uint("game_id", t.GameID).Msg("enrichment queue full, dropping task")
		}
	}
	return accepted
}

// Stats returns a snapshot of worker progress.
func (w *Worker) Stats() Stats {
	return Stats{
		Queued:    w.queued.Load(),
		Processed: w.processed.Load(),
		Failed:    w.failed.Load(),
		Dropped:   w.dropped.Load(),
	}
}

func (w *Worker) run(ctx context.Context) {
	w.log.Info().Msg("enrichment worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("enrichment worker stopped")
			return
		case task := <-w.queue:
			w.process(ctx, task)
		}
	}
}

func (w *Worker) process(ctx context.Context, task Task) {
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}

	details, err := w.fetchWithRetry(ctx, task.AppID)
	if errors.Is(err, steam.ErrRateLimited) {
		// Still throttled after the retry budget: take the long pause,
		// then give the task one more full round.
		w.log.Warn().Str("appid", task.AppID).Msg("bulk rate limit, backing off")
		if w.sleep(ctx, bulkRateLimitSleep) != nil {
			return
		}
		details, err = w.fetchWithRetry(ctx, task.AppID)
	}
	if err != nil {
		w.failed.Add(1)
		w.log.Error().Err(err).
			Uint("game_id", task.GameID).
			Str("appid", task.AppID).
			Str("batch", task.BatchID.String()).
			Msg("detail fetch failed")
		return
	}

	if details == nil {
		// Store has no entry for this appid. Nothing to write.
		w.processed.Add(1)
		return
	}

	normalized := tags.NormalizeAll(append(details.Genres, details.Categories...))
	if len(normalized) > 0 {
		if err := w.writer.WriteTags(task.GameID, normalized); err != nil {
			w.failed.Add(1)
			w.log.Error().Err(err).Uint("game_id", task.GameID).Msg("writing tags failed")
			return
		}
	}
	w.processed.Add(1)
}

func (w *Worker) fetchWithRetry(ctx context.Context, appID string) (*steam.AppDetails, error) {
	delay := retryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		details, err := w.fetcher.AppDetails(ctx, appID)
		if err == nil {
			return details, nil
		}
		if !errors.Is(err, steam.ErrRateLimited) {
			return nil, err
		}
		lastErr = err
		if attempt < maxFetchAttempts {
			if err := w.sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
		}
	}
	return nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
