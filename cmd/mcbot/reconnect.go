package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/k64z/mcbot/botproto"
	"github.com/k64z/mcbot/mcbot"
)

// ReconnectPolicy drives repeated Connect attempts with exponential
// backoff. The translator itself never resumes a lost session (spec.md
// §9: no tag survives a reconnect) — this collaborator always builds a
// fresh Client and starts a new one from Disconnected, mirroring the
// teacher's Reconnect, which tears down and calls Connect again rather
// than resuming in place.
type ReconnectPolicy struct {
	newClient func() *mcbot.Client
	logger    *slog.Logger
}

func NewReconnectPolicy(logger *slog.Logger, newClient func() *mcbot.Client) *ReconnectPolicy {
	return &ReconnectPolicy{newClient: newClient, logger: logger}
}

// Run connects, blocking until the session ends, then retries with
// exponential backoff until ctx is cancelled.
func (p *ReconnectPolicy) Run(ctx context.Context, username, host string, port int) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0 // retry indefinitely until ctx is cancelled

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := p.runOnce(ctx, username, host, port); err != nil {
			p.logger.Warn("session ended", "err", err)
		}

		wait := policy.NextBackOff()
		p.logger.Info("reconnecting", "after", wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *ReconnectPolicy) runOnce(ctx context.Context, username, host string, port int) error {
	ended := make(chan error, 1)
	client := p.newClient()
	client.OnDisconnect = func(err error) { ended <- err }
	defer client.Close()

	fut := client.Submit(botproto.Connect{Username: username, Host: host, Port: port})
	if _, err := fut.Wait(ctx); err != nil {
		return err
	}

	select {
	case err := <-ended:
		return err
	case <-ctx.Done():
		return nil
	}
}
