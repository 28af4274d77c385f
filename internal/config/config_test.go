package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Navigator.DataWindow != "60s" {
		t.Errorf("data window = %q, want 60s", cfg.Navigator.DataWindow)
	}
	if cfg.Navigator.TickPeriod != "10ms" {
		t.Errorf("tick period = %q, want 10ms", cfg.Navigator.TickPeriod)
	}
	if cfg.Navigator.SelectionPadding != 0.1 {
		t.Errorf("selection padding = %v, want 0.1", cfg.Navigator.SelectionPadding)
	}
	if cfg.Remote.Enabled {
		t.Error("remote should default to disabled")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[navigator]
data_window = "5m"

[remote]
enabled = true
listen = "0.0.0.0:9999"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dw, err := cfg.Navigator.DataWindowDuration()
	if err != nil || dw != 5*time.Minute {
		t.Errorf("data window = %v, %v", dw, err)
	}
	// Values the file does not set fall back to defaults.
	tp, err := cfg.Navigator.TickPeriodDuration()
	if err != nil || tp != 10*time.Millisecond {
		t.Errorf("tick period = %v, %v", tp, err)
	}
	if !cfg.Remote.Enabled || cfg.Remote.Listen != "0.0.0.0:9999" {
		t.Errorf("remote = %+v", cfg.Remote)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("navigator = not toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestDurationAccessors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if d, err := cfg.Feed.ThrottleDuration(); err != nil || d != 50*time.Millisecond {
		t.Errorf("throttle = %v, %v", d, err)
	}
	if d, err := cfg.UI.RefreshDuration(); err != nil || d != 100*time.Millisecond {
		t.Errorf("refresh = %v, %v", d, err)
	}
}

func TestDiffSummary(t *testing.T) {
	t.Parallel()

	if got := DiffSummary("a = 1\n", "a = 1\n"); got != "" {
		t.Errorf("identical contents produced a diff: %q", got)
	}
	got := DiffSummary("tick_period = \"10ms\"\n", "tick_period = \"20ms\"\n")
	if got == "" {
		t.Fatal("expected a non-empty diff")
	}
	if !strings.Contains(got, "20ms") {
		t.Errorf("diff does not mention the new value: %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	got := ExpandPath("~/.config/tln/config.toml")
	if !strings.HasPrefix(got, home) {
		t.Errorf("ExpandPath did not expand ~: %q", got)
	}
	if ExpandPath("/abs/path") != "/abs/path" {
		t.Error("absolute paths must pass through unchanged")
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[navigator]\ndata_window = \"60s\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	stop, err := Watch(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	if err := os.WriteFile(path, []byte("[navigator]\ndata_window = \"2m\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if d, _ := cfg.Navigator.DataWindowDuration(); d != 2*time.Minute {
			t.Errorf("reloaded data window = %v, want 2m", d)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
