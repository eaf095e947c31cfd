package validate

import (
	"testing"
	"time"

	"github.com/revaer/revaer/pkg/types"
)

func TestPort(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"min valid", 1, false},
		{"max valid", 65535, false},
		{"typical", 51413, false},
		{"zero invalid", 0, true},
		{"negative invalid", -1, true},
		{"too large", 65536, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Port("engine_profile.network", "listen_port", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Port(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestPortRange(t *testing.T) {
	lo, hi := 6000, 6999
	if err := PortRange("engine_profile.network", &lo, &hi); err != nil {
		t.Errorf("expected valid range to pass, got %v", err)
	}

	bad := 7000
	if err := PortRange("engine_profile.network", &bad, &hi); err == nil {
		t.Error("expected min > max to fail")
	}

	if err := PortRange("engine_profile.network", nil, &hi); err != nil {
		t.Errorf("expected nil min to be a no-op, got %v", err)
	}
}

func TestUUID(t *testing.T) {
	if _, err := UUID("torrent", "id", "550e8400-e29b-41d4-a716-446655440000"); err != nil {
		t.Errorf("expected valid UUID to pass, got %v", err)
	}
	if _, err := UUID("torrent", "id", "not-a-uuid"); err == nil {
		t.Error("expected malformed UUID to fail")
	}
	if _, err := UUID("torrent", "id", "{550e8400-e29b-41d4-a716-446655440000}"); err == nil {
		t.Error("expected braced UUID form to be rejected (non-canonical)")
	}
}

func TestBindAddress(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty means all interfaces", "", false},
		{"ipv4", "0.0.0.0", false},
		{"ipv6 bracketed", "[::1]", false},
		{"ipv6 bare", "::1", false},
		{"garbage", "not-an-ip", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BindAddress("app_profile", "http_bind_host", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("BindAddress(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestGlobListExpandsSkipFluff(t *testing.T) {
	out, err := GlobList("fs_policy", "cleanup_keep", []string{"*.mkv", types.SkipFluffPreset})
	if err != nil {
		t.Fatalf("GlobList() error = %v", err)
	}
	want := 1 + len(types.SkipFluffPatterns)
	if len(out) != want {
		t.Errorf("expected %d patterns after expansion, got %d (%v)", want, len(out), out)
	}
}

func TestGlobListRejectsEmptyEntry(t *testing.T) {
	if _, err := GlobList("fs_policy", "cleanup_keep", []string{""}); err == nil {
		t.Error("expected empty glob entry to fail")
	}
}

func TestGlobListRejectsMalformedPattern(t *testing.T) {
	if _, err := GlobList("fs_policy", "cleanup_drop", []string{"*.mkv", "[unterminated"}); err == nil {
		t.Error("expected malformed glob syntax to fail compilation")
	}
}

func TestRateLimit(t *testing.T) {
	if err := RateLimit("auth", nil); err != nil {
		t.Errorf("expected nil rate limit to be a no-op, got %v", err)
	}
	if err := RateLimit("auth", &types.RateLimit{Burst: 1, ReplenishPeriod: time.Second}); err != nil {
		t.Errorf("expected valid rate limit to pass, got %v", err)
	}
	if err := RateLimit("auth", &types.RateLimit{Burst: 0, ReplenishPeriod: time.Second}); err == nil {
		t.Error("expected burst < 1 to fail")
	}
	if err := RateLimit("auth", &types.RateLimit{Burst: 1, ReplenishPeriod: 0}); err == nil {
		t.Error("expected zero replenish period to fail")
	}
}

func TestApiKeyExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ttl := 30 * 24 * time.Hour

	if err := ApiKeyExpiry("auth", now.Add(ttl-time.Hour), ttl, now); err != nil {
		t.Errorf("expected within-TTL expiry to pass, got %v", err)
	}
	if err := ApiKeyExpiry("auth", now.Add(ttl+time.Hour), ttl, now); err == nil {
		t.Error("expected beyond-TTL expiry to fail")
	}
}

func TestOctalMode(t *testing.T) {
	if err := OctalMode("fs_policy", "chmod_file", "0644"); err != nil {
		t.Errorf("expected 0644 to pass, got %v", err)
	}
	if err := OctalMode("fs_policy", "chmod_dir", "755"); err != nil {
		t.Errorf("expected 755 to pass, got %v", err)
	}
	if err := OctalMode("fs_policy", "chmod_file", "999"); err == nil {
		t.Error("expected non-octal digits to fail")
	}
	if err := OctalMode("fs_policy", "chmod_file", ""); err == nil {
		t.Error("expected empty mode to fail")
	}
}

func TestNonEmptyDir(t *testing.T) {
	if err := NonEmptyDir("fs_policy", "library_root", "/mnt/library"); err != nil {
		t.Errorf("expected non-empty path to pass, got %v", err)
	}
	if err := NonEmptyDir("fs_policy", "library_root", "   "); err == nil {
		t.Error("expected whitespace-only path to fail")
	}
}
