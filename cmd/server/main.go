package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sanjaykumaar123/sentinelnet/internal/di"
)

func main() {
	os.Exit(run())
}

// run 은 종료 코드를 반환한다. os.Exit 전에 App.Run 의 정리가 끝나도록 main 과 분리한다.
func run() int {
	app, err := di.InitializeApp()
	if err != nil {
		log.Printf("failed to initialize app: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		app.Logger.Error("http_server_failed", "err", err)
		return 1
	}
	app.Logger.Info("http_server_stopped")
	return 0
}
