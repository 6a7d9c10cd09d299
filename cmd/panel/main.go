package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Apurer/counter-panel/internal/app/panel"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := panel.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := panel.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("panel exited: %v", err)
	}
}
