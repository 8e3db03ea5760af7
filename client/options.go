package client

import (
	"log/slog"
	"net"
	"time"

	"github.com/cybergarage/go-mdns/internal/iface"
	"github.com/cybergarage/go-mdns/transport"
)

// config accumulates what New needs before it can build (or accept) a
// transport — kept separate from Client so WithTransport can bypass
// transport-option plumbing entirely.
type config struct {
	transport     transport.Transport
	transportOpts []transport.Option
}

// Option configures a Client under construction.
type Option func(c *Client, cfg *config)

// WithLogger sets the logger used for diagnostics (malformed packets,
// transport events). Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client, cfg *config) {
		c.logger = logger
		cfg.transportOpts = append(cfg.transportOpts, transport.WithLogger(logger))
	}
}

// WithInterfaces restricts discovery to exactly the given interfaces.
// Ignored if WithTransport is also given.
func WithInterfaces(ifaces []net.Interface) Option {
	return func(c *Client, cfg *config) {
		cfg.transportOpts = append(cfg.transportOpts, transport.WithInterfaces(ifaces))
	}
}

// WithInterfaceFilter sets a custom interface-selection predicate.
// Ignored if WithTransport is also given.
func WithInterfaceFilter(filter iface.Filter) Option {
	return func(c *Client, cfg *config) {
		cfg.transportOpts = append(cfg.transportOpts, transport.WithInterfaceFilter(filter))
	}
}

// WithRateLimit enables or disables the transport's receive-path rate
// limiter. Ignored if WithTransport is also given.
func WithRateLimit(enabled bool) Option {
	return func(c *Client, cfg *config) {
		cfg.transportOpts = append(cfg.transportOpts, transport.WithRateLimit(enabled))
	}
}

// WithRateLimitThreshold sets the transport's rate-limit threshold.
// Ignored if WithTransport is also given.
func WithRateLimitThreshold(threshold int) Option {
	return func(c *Client, cfg *config) {
		cfg.transportOpts = append(cfg.transportOpts, transport.WithRateLimitThreshold(threshold))
	}
}

// WithRateLimitCooldown sets the transport's rate-limit cooldown.
// Ignored if WithTransport is also given.
func WithRateLimitCooldown(cooldown time.Duration) Option {
	return func(c *Client, cfg *config) {
		cfg.transportOpts = append(cfg.transportOpts, transport.WithRateLimitCooldown(cooldown))
	}
}

// WithTransport injects a pre-built Transport (typically a
// transport.MockTransport) instead of letting New construct a
// UDPTransport — this is what makes Client unit-testable without a real
// network. Every other transport-shaping option is ignored when this one
// is given.
func WithTransport(t transport.Transport) Option {
	return func(c *Client, cfg *config) {
		cfg.transport = t
	}
}
