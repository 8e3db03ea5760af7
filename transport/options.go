package transport

import (
	"log/slog"
	"net"
	"time"

	"github.com/cybergarage/go-mdns/internal/errors"
	"github.com/cybergarage/go-mdns/internal/iface"
)

// Option configures a UDPTransport. Following the functional-options
// pattern, an Option mutates an in-construction transport and may reject
// configuration it cannot honor.
type Option func(*UDPTransport) error

// WithLogger sets the logger used for receive-path diagnostics (dropped
// packets, failed group joins). Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *UDPTransport) error {
		if logger == nil {
			return &errors.ValidationError{Field: "logger", Message: "logger cannot be nil"}
		}
		t.logger = logger
		return nil
	}
}

// WithInterfaces restricts the transport to exactly the given interfaces,
// overriding the default VPN/container-excluding selection.
func WithInterfaces(ifaces []net.Interface) Option {
	return func(t *UDPTransport) error {
		if len(ifaces) == 0 {
			return &errors.ValidationError{Field: "interfaces", Message: "interface list cannot be empty"}
		}
		t.explicitInterfaces = ifaces
		return nil
	}
}

// WithInterfaceFilter sets a custom interface-selection predicate, used
// only when WithInterfaces was not also given.
func WithInterfaceFilter(filter iface.Filter) Option {
	return func(t *UDPTransport) error {
		if filter == nil {
			return &errors.ValidationError{Field: "interfaceFilter", Message: "filter cannot be nil"}
		}
		t.interfaceFilter = filter
		return nil
	}
}

// WithRateLimit enables or disables the per-source-IP receive guard.
// Default: enabled.
func WithRateLimit(enabled bool) Option {
	return func(t *UDPTransport) error {
		t.rateLimitEnabled = enabled
		return nil
	}
}

// WithRateLimitThreshold sets the queries-per-second threshold a source IP
// may reach before its packets are dropped for the cooldown period.
// Default: 100.
func WithRateLimitThreshold(threshold int) Option {
	return func(t *UDPTransport) error {
		if threshold <= 0 {
			return &errors.ValidationError{Field: "rateLimitThreshold", Message: "must be greater than 0"}
		}
		t.rateLimitThreshold = threshold
		return nil
	}
}

// WithRateLimitCooldown sets how long a source IP is dropped for after
// exceeding the threshold. Default: 60s.
func WithRateLimitCooldown(cooldown time.Duration) Option {
	return func(t *UDPTransport) error {
		if cooldown <= 0 {
			return &errors.ValidationError{Field: "rateLimitCooldown", Message: "must be greater than 0"}
		}
		t.rateLimitCooldown = cooldown
		return nil
	}
}
