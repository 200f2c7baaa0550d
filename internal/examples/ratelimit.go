package examples

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/ziadkadry99/jisho/internal/dictionary"
)

// RateLimitedGenerator wraps a Generator with a token bucket that allows at
// most rpm generations per minute across all visitors.
type RateLimitedGenerator struct {
	gen     Generator
	limiter *rate.Limiter
}

// NewRateLimitedGenerator wraps gen. A non-positive rpm returns gen as is.
func NewRateLimitedGenerator(gen Generator, rpm int) Generator {
	if rpm <= 0 {
		return gen
	}
	return &RateLimitedGenerator{gen: gen, limiter: newLimiter(rpm)}
}

// newLimiter refills one token every minute/rpm and bursts up to rpm.
func newLimiter(rpm int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
}

// GenerateExample waits for a token, or for ctx to end, then delegates.
func (r *RateLimitedGenerator) GenerateExample(ctx context.Context, req dictionary.GenerateExampleRequest) (*dictionary.Example, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.gen.GenerateExample(ctx, req)
}
