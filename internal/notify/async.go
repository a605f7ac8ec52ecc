package notify

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/fieldops/internal/logging"
)

// Go runs fn detached from the request: the request's cancellation does not
// reach it, its error and panics end up in the log only.
func Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	detached := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.FromContext(detached).Error("background task panicked", "task", name, "panic", fmt.Sprint(r))
			}
		}()
		if err := fn(detached); err != nil {
			logging.FromContext(detached).Warn("background task failed", "task", name, "error", err)
		}
	}()
}
