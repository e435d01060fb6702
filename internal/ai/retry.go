package ai

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

const maxAttempts = 5

// Retrier wraps a Provider with a rate limiter and exponential backoff on
// quota errors. When the quota holds through every attempt it degrades to
// the fixed apology instead of surfacing the error, so the engine always has
// something to say. Other errors propagate immediately.
type Retrier struct {
	inner   Provider
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
	jitter  func() float64
}

func NewRetrier(inner Provider) *Retrier {
	return &Retrier{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		sleep:   sleepCtx,
		jitter:  rand.Float64,
	}
}

func (r *Retrier) Generate(ctx context.Context, prompt string) (string, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", err
		}

		reply, err := r.inner.Generate(ctx, prompt)
		if err == nil {
			return reply, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return "", err
		}

		wait := backoff(attempt, r.jitter())
		log.Printf("[AI] Rate limited (attempt %d/%d), sleeping %v", attempt, maxAttempts, wait)
		if err := r.sleep(ctx, wait); err != nil {
			return "", err
		}
	}

	log.Printf("[AI] Rate limit held after %d attempts, sending apology", maxAttempts)
	return Apology, nil
}

// backoff returns min(60s, 2^attempt seconds + jitter in [0,1)s).
func backoff(attempt int, jitter float64) time.Duration {
	secs := float64(int64(1)<<uint(attempt)) + jitter
	if secs > 60 {
		secs = 60
	}
	return time.Duration(secs * float64(time.Second))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
