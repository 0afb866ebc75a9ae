package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/contacts-backend/internal/app"
	"github.com/yungbote/contacts-backend/internal/platform/shutdown"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := shutdown.NotifyContext(context.Background(), a.Log)
	err = a.Run(ctx)
	stop()

	if err != nil {
		a.Log.Error("Server failed", "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("Server stopped")
	a.Close()
}
