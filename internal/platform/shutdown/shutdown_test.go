package shutdown

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

func TestNotifyContextCancelsOnSignal(t *testing.T) {
	ctx, cancel := NotifyContext(context.Background(), logger.NewNop())
	defer cancel()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("kill: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not canceled after SIGTERM")
	}
}

func TestNotifyContextCancelFunc(t *testing.T) {
	ctx, cancel := NotifyContext(context.Background(), nil)
	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not canceled")
	}
}
