// Package waiter provides the generic poll-until-found-or-timeout helper
// the driver's FindElement polls with.
package waiter

import (
	"context"
	"time"

	"github.com/echo-go/uiauto/internal/core"
	derrors "github.com/echo-go/uiauto/internal/core/errors"
)

// Loop polls fn at the given interval until it returns ok=true or an error,
// ctx is canceled, or timeout elapses, whichever comes first.
// fn is always called at least once, even if timeout is zero or negative.
func Loop[T any](ctx context.Context, timeout, interval time.Duration, fn func(context.Context) (T, bool, error)) (T, error) {
	var zero T

	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(max(interval, time.Millisecond))
	defer ticker.Stop()

	for {
		value, ok, err := fn(ctx)
		if err != nil {
			return zero, err
		}

		if ok {
			return value, nil
		}

		if !time.Now().Before(deadline) {
			return zero, derrors.New(derrors.CodeTargetNotFound, "loop exhausted its timeout without a result")
		}

		select {
		case <-ctx.Done():
			return zero, core.WrapContextCanceled(ctx, "poll loop")
		case <-ticker.C:
		}
	}
}
