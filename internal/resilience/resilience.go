// Package resilience wraps a relay.Transport in a circuit breaker so that
// a failing Bot API is not hammered by every incoming update.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sony/gobreaker"

	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/relay"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = gobreaker.ErrOpenState

// Transport is a relay.Transport guarded by a circuit breaker.
type Transport struct {
	next relay.Transport
	cb   *gobreaker.CircuitBreaker
}

var _ relay.Transport = (*Transport)(nil)

// NewTransport wraps next. Errors for which isClientError returns true (a
// blocked bot, a message that no longer exists) and context cancellations do
// not count as failures. A nil isClientError counts every error.
func NewTransport(next relay.Transport, cfg config.BreakerConfig, isClientError func(error) bool, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_breaker")

	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = config.DefaultBreakerMaxFailures
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = config.DefaultBreakerOpenTimeout
	}

	settings := gobreaker.Settings{
		Name:        "telegram",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			return isClientError != nil && isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				log.Warn("Circuit breaker opened", "name", name, "from", from.String(), "open_timeout", openTimeout)
				return
			}
			log.Info("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Transport{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// State returns the breaker state: "closed", "half-open" or "open".
func (t *Transport) State() string {
	return t.cb.State().String()
}

// Send implements relay.Transport.
func (t *Transport) Send(ctx context.Context, msg relay.Outgoing) (int, error) {
	return t.executeID(func() (int, error) { return t.next.Send(ctx, msg) })
}

// Delete implements relay.Transport.
func (t *Transport) Delete(ctx context.Context, chatID int64, messageID int) error {
	_, err := t.executeID(func() (int, error) { return 0, t.next.Delete(ctx, chatID, messageID) })
	return err
}

// Forward implements relay.Transport.
func (t *Transport) Forward(ctx context.Context, fromChatID, toChatID int64, messageID int) (int, error) {
	return t.executeID(func() (int, error) { return t.next.Forward(ctx, fromChatID, toChatID, messageID) })
}

func (t *Transport) executeID(call func() (int, error)) (int, error) {
	res, err := t.cb.Execute(func() (interface{}, error) {
		return call()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, fmt.Errorf("telegram unavailable: %w", err)
		}
		return 0, err
	}
	id, _ := res.(int)
	return id, nil
}
