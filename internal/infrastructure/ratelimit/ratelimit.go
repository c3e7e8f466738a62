// Package ratelimit implements the fixed-window request limiter applied to
// the API surface: 200 requests per 15 minutes per client address.
package ratelimit

import (
	"context"
	"time"
)

const (
	DefaultLimit  = 200
	DefaultWindow = 15 * time.Minute
)

// Limiter reports whether a client may proceed with one more request inside
// the current window.
type Limiter interface {
	Allow(ctx context.Context, clientKey string) (bool, error)
}
