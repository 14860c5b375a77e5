package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/studyhall/lms-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return application.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		application.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return application.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		application.Log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
