package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider retries transient provider failures with capped
// exponential backoff.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *zap.SugaredLogger
}

// WithRetry wraps p. A nil logger disables retry logging.
func WithRetry(p Provider, cfg RetryConfig, logger *zap.SugaredLogger) Provider {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg, logger: logger}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	malformedSeen := false

	var err error
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		if !retryable(err, &malformedSeen) || attempt == r.config.MaxAttempts-1 {
			return nil, err
		}

		wait := r.delay(attempt, err)
		r.logger.Debugw("retrying llm request",
			"model", r.inner.ModelID(),
			"attempt", attempt+1,
			"wait", wait,
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable reports whether err is worth another attempt. A malformed
// response is retried once; malformedSeen tracks that across attempts.
func retryable(err error, malformedSeen *bool) bool {
	var (
		badReq  *ErrBadRequest
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &badReq), errors.As(err, &maxTok):
		return false
	case errors.As(err, &invalid):
		if *malformedSeen {
			return false
		}
		*malformedSeen = true
		return true
	}
	// Rate limits, outages and network failures.
	return true
}

// delay is the wait before the retry following attempt. A rate limit's
// RetryAfter wins over the computed backoff.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	base := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	base = math.Min(base, float64(r.config.MaxWait))

	// ±20% jitter
	d := base * (1 + 0.4*(rand.Float64()-0.5))
	return time.Duration(math.Max(d, 0))
}
