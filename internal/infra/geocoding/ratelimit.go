package geocoding

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer spaces out external lookups with a token bucket so a large upload
// does not flood the lookup service. Cache hits never take a token.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer allowing requestsPerSecond sustained with the
// given burst. A non-positive rate disables pacing.
func NewPacer(requestsPerSecond float64, burst int) *Pacer {
	if requestsPerSecond <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst < 1 {
		burst = 1
	}

	return &Pacer{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a lookup may be issued or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
