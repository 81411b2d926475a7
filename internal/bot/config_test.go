package bot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "botconfig.json")
	cs := newConfigStore(path)
	if err := cs.Load(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	cfg := cs.Snapshot()
	if cfg.Cooldown() != 10*time.Second || cfg.CacheTTL() != 30*time.Second || cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.Prefix() != "!" || cfg.PrefixCommands || cfg.Watch != nil {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestConfigLoadExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botconfig.json")
	raw := `{"cooldown_seconds": 2.5, "cache_ttl_seconds": 0, "command_prefix": "?", "prefix_commands": true,
		"watch": {"channel_id": "c1", "interval_seconds": 120}}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cs := newConfigStore(path)
	if err := cs.Load(); err != nil {
		t.Fatal(err)
	}
	cfg := cs.Snapshot()
	if cfg.Cooldown() != 2500*time.Millisecond {
		t.Fatalf("cooldown: %s", cfg.Cooldown())
	}
	// ноль и отрицательные значения - дефолт
	if cfg.CacheTTL() != 30*time.Second {
		t.Fatalf("cache ttl: %s", cfg.CacheTTL())
	}
	if cfg.Prefix() != "?" || !cfg.PrefixCommands {
		t.Fatalf("prefix: %+v", cfg)
	}
	if cfg.Watch == nil || cfg.Watch.ChannelID != "c1" || cfg.Watch.IntervalSeconds != 120 {
		t.Fatalf("watch: %+v", cfg.Watch)
	}

	// Snapshot - копия
	cfg.Watch.ChannelID = "changed"
	if cs.Snapshot().Watch.ChannelID != "c1" {
		t.Fatal("snapshot shares watch with store")
	}
}

func TestConfigLoadBrokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botconfig.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := newConfigStore(path).Load(); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "dtoken")
	t.Setenv("RIOT_API_KEY", "rkey")
	t.Setenv("RIOT_PLATFORM", "")
	t.Setenv("TEST_GUILD_ID", "")
	t.Setenv("BOT_CONFIG", "")
	t.Setenv("APP_ENV", "")

	s, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.Platform != "na1" || s.ConfigPath != DefaultConfigPath || s.GuildID != "" || s.Production {
		t.Fatalf("settings: %+v", s)
	}

	t.Setenv("RIOT_PLATFORM", " EUW1 ")
	t.Setenv("TEST_GUILD_ID", "123")
	t.Setenv("APP_ENV", "prod")
	s, err = LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.Platform != "euw1" || s.GuildID != "123" || !s.Production {
		t.Fatalf("settings: %+v", s)
	}
}

func TestLoadSettingsMissingSecrets(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("RIOT_API_KEY", "")

	_, err := LoadSettings()
	if !errors.Is(err, ErrMissingDiscordToken) || !errors.Is(err, ErrMissingRiotKey) {
		t.Fatalf("got %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("APP_ENV", "")
	dir := t.TempDir()

	if err := LoadEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("LEAGUE_BOT_TEST_VAR=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LEAGUE_BOT_TEST_VAR", "")
	os.Unsetenv("LEAGUE_BOT_TEST_VAR")

	if err := LoadEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("LEAGUE_BOT_TEST_VAR"); got != "from-file" {
		t.Fatalf("got %q", got)
	}
}
