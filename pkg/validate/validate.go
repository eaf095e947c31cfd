// Package validate provides pure, allocation-cheap functions mapping raw
// wire-level input to domain values, or a typed ValidationError describing
// exactly which field was wrong and why (C1).
package validate

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/types"
)

// Error is the validation-failure shape every validator in this package
// returns: enough for the configuration facade to build an InvalidField
// error without re-deriving context from a generic error string.
type Error struct {
	Section string
	Field   string
	Value   string
	Reason  string
}

func (e *Error) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s.%s: %s (value=%q)", e.Section, e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s.%s: %s", e.Section, e.Field, e.Reason)
}

func fieldErr(section, field, value, reason string) *Error {
	return &Error{Section: section, Field: field, Value: value, Reason: reason}
}

// Port validates a TCP/UDP port number is in the valid 1..=65535 range.
func Port(section, field string, value int) (int, error) {
	if value < 1 || value > 65535 {
		return 0, fieldErr(section, field, fmt.Sprintf("%d", value), "port must be between 1 and 65535")
	}
	return value, nil
}

// PortRange validates that min, when both are set, is not greater than
// max (EngineProfile.Network.OutgoingPortMin/Max).
func PortRange(section string, min, max *int) error {
	if min == nil || max == nil {
		return nil
	}
	if *min > *max {
		return fieldErr(section, "outgoing_port_min", fmt.Sprintf("%d", *min), "outgoing_port_min must be <= outgoing_port_max")
	}
	return nil
}

// UUID parses s as a canonical 8-4-4-4-12 UUID, rejecting any other
// representation accepted by a looser parser (braced, urn-prefixed).
func UUID(section, field, s string) (uuid.UUID, error) {
	if len(s) != 36 {
		return uuid.Nil, fieldErr(section, field, s, "must be a canonical 8-4-4-4-12 UUID")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fieldErr(section, field, s, "must be a canonical 8-4-4-4-12 UUID")
	}
	return id, nil
}

// BindAddress validates a bind host as an IPv4 or IPv6 literal, or the
// empty string meaning "all interfaces". Bracketed IPv6 literals
// (`[::1]`) are unwrapped before parsing, matching the wire form the
// HTTP surface accepts in configuration payloads.
func BindAddress(section, field, s string) (string, error) {
	if s == "" {
		return s, nil
	}
	host := s
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	if net.ParseIP(host) == nil {
		return "", fieldErr(section, field, s, "must be an IPv4 or IPv6 literal")
	}
	return s, nil
}

// GlobList validates a raw list of glob pattern strings: no empty
// entries, each non-sentinel entry must compile as a gobwas/glob
// pattern (catching unbalanced `[`/`{` and other malformed syntax
// before it reaches storage), and the @skip_fluff sentinel expands to
// its fixed pattern family. The returned slice is ready to hand to
// pkg/fsops's `**`-capable doublestar matcher at run time; gobwas/glob
// here is a syntax gate, not the runtime matching engine.
func GlobList(section, field string, patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			return nil, fieldErr(section, field, "", "glob pattern entries must not be empty")
		}
		if p == types.SkipFluffPreset {
			out = append(out, types.SkipFluffPatterns...)
			continue
		}
		if _, err := glob.Compile(p); err != nil {
			return nil, fieldErr(section, field, p, fmt.Sprintf("must be a valid glob pattern: %v", err))
		}
		out = append(out, p)
	}
	return out, nil
}

// RateLimit validates a RateLimit's burst and replenish period.
func RateLimit(section string, rl *types.RateLimit) error {
	if rl == nil {
		return nil
	}
	if rl.Burst < 1 {
		return fieldErr(section, "rate_limit.burst", fmt.Sprintf("%d", rl.Burst), "burst must be >= 1")
	}
	if rl.ReplenishPeriod <= 0 {
		return fieldErr(section, "rate_limit.replenish_period", rl.ReplenishPeriod.String(), "replenish_period must be > 0")
	}
	return nil
}

// ApiKeyExpiry validates that an API key's requested expiry does not
// exceed now + the configured TTL policy.
func ApiKeyExpiry(section string, expiresAt time.Time, ttl time.Duration, now time.Time) error {
	if expiresAt.After(now.Add(ttl)) {
		return fieldErr(section, "expires_at", expiresAt.Format(time.RFC3339), "expires_at exceeds the maximum API key TTL")
	}
	return nil
}

// OctalMode validates a chmod/umask string parses as a three- or
// four-digit octal mode.
func OctalMode(section, field, s string) error {
	if s == "" {
		return fieldErr(section, field, s, "mode must not be empty")
	}
	if len(s) < 3 || len(s) > 4 {
		return fieldErr(section, field, s, "mode must be a 3 or 4 digit octal string")
	}
	for _, c := range s {
		if c < '0' || c > '7' {
			return fieldErr(section, field, s, "mode must contain only octal digits 0-7")
		}
	}
	return nil
}

// NonEmptyDir validates that path is non-empty; existence and
// directory-ness are checked by the caller against the filesystem,
// since this package stays pure and I/O-free.
func NonEmptyDir(section, field, path string) error {
	if strings.TrimSpace(path) == "" {
		return fieldErr(section, field, path, "path must not be empty")
	}
	return nil
}
