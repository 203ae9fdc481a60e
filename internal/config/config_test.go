package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NATS_URL", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")
	t.Setenv("WORKER_REFRESH_SECONDS", "")

	cfg := Load()
	if cfg.NATSURL != "" {
		t.Fatalf("expected events disabled by default, got %q", cfg.NATSURL)
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", cfg.Location())
	}
	if cfg.APIRateLimitRPS != 20 {
		t.Fatalf("expected default rps 20, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.WorkerRefreshSeconds != 300 {
		t.Fatalf("expected default refresh 300s, got %d", cfg.WorkerRefreshSeconds)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("API_MAX_IN_FLIGHT", "many")
	t.Setenv("API_RATE_LIMIT_RPS", "fast")

	cfg := Load()
	if cfg.APIMaxInFlight != 64 || cfg.APIRateLimitRPS != 20 {
		t.Fatalf("expected fallbacks, got in_flight=%d rps=%v", cfg.APIMaxInFlight, cfg.APIRateLimitRPS)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Config{Timezone: "Mars/Olympus"}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback")
	}
}

func TestLoadScoringProfileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	body := "overdue_invoice:\n  base_score: 2000\nall_clear_threshold: 50\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	cfg, err := LoadScoringProfile(path)
	if err != nil {
		t.Fatalf("LoadScoringProfile() error = %v", err)
	}
	if cfg.OverdueInvoice.BaseScore != 2000 {
		t.Fatalf("expected base score override, got %v", cfg.OverdueInvoice.BaseScore)
	}
	if cfg.OverdueInvoice.Multiplier != 1.2 {
		t.Fatalf("expected default multiplier kept, got %v", cfg.OverdueInvoice.Multiplier)
	}
	if cfg.AllClearThreshold != 50 {
		t.Fatalf("expected threshold 50, got %d", cfg.AllClearThreshold)
	}
}

func TestLoadScoringProfileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	body := "[ai_subscription]\nwindow_days = 14\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	cfg, err := LoadScoringProfile(path)
	if err != nil {
		t.Fatalf("LoadScoringProfile() error = %v", err)
	}
	if cfg.AISubscription.WindowDays != 14 || cfg.AISubscription.BaseScore != 150 {
		t.Fatalf("unexpected ai subscription config %+v", cfg.AISubscription)
	}
}

func TestLoadScoringProfileRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	if _, err := LoadScoringProfile(path); err == nil {
		t.Fatalf("expected error for json profile")
	}
}

func TestUrgencyConfigThresholdOverride(t *testing.T) {
	t.Setenv("ALL_CLEAR_THRESHOLD", "75")
	cfg := Load()

	ucfg, err := cfg.UrgencyConfig()
	if err != nil {
		t.Fatalf("UrgencyConfig() error = %v", err)
	}
	if ucfg.AllClearThreshold != 75 {
		t.Fatalf("expected env threshold 75, got %d", ucfg.AllClearThreshold)
	}
}
