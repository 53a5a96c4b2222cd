package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigDurationForms(t *testing.T) {
	config, err := ParseConfig([]byte(`{"logLevel": "debug", "tickDuration": "250ms", "heartbeatInterval": 2000000000}`))
	if err != nil {
		t.Fatal(err)
	}
	if config.LogLevel != "debug" {
		t.Errorf("expected debug level, got %q", config.LogLevel)
	}
	if config.TickDuration != 250*time.Millisecond {
		t.Errorf("expected 250ms tick, got %s", config.TickDuration)
	}
	if config.HeartbeatInterval != 2*time.Second {
		t.Errorf("expected 2s heartbeat, got %s", config.HeartbeatInterval)
	}
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	config, err := ParseConfig([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if config != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", config)
	}
}

func TestParseConfigRejectsBadDurations(t *testing.T) {
	for _, input := range []string{
		`{"tickDuration": "soon"}`,
		`{"tickDuration": "-1s"}`,
		`{"heartbeatInterval": 0}`,
		`not json`,
	} {
		if _, err := ParseConfig([]byte(input)); err == nil {
			t.Errorf("expected an error for %s", input)
		}
	}
}

func TestReadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timers.json")
	if err := os.WriteFile(path, []byte(`{"heartbeatInterval": "3s"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	config, err := ReadConfigFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if config.HeartbeatInterval != 3*time.Second {
		t.Errorf("expected 3s heartbeat, got %s", config.HeartbeatInterval)
	}

	if _, err := ReadConfigFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
