// Command mcbot connects a single bot session to a game server and prints
// the events it receives, using ReconnectPolicy to retry a dropped
// session with exponential backoff.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/k64z/mcbot/botproto"
	"github.com/k64z/mcbot/mcbot"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	newClient := func() *mcbot.Client {
		return mcbot.New(
			mcbot.WithLogger(logger),
			mcbot.WithEventHandler(func(ev botproto.Event) {
				logger.Info("event", "type", ev)
			}),
		)
	}

	policy := NewReconnectPolicy(logger, newClient)
	if err := policy.Run(ctx, cfg.Username, cfg.Host, cfg.Port); err != nil && ctx.Err() == nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}
