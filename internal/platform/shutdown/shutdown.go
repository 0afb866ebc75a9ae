package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

// NotifyContext returns a context canceled on the first SIGINT or SIGTERM.
// A second signal is left to the runtime so the process can still be killed
// while draining.
func NotifyContext(parent context.Context, log *logger.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			if log != nil {
				log.Info("Shutdown signal received", "signal", sig.String())
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
