package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/heartmarshall/imagehub-sweeper/internal/config"
)

func TestNewLogger_InstallsDefault(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "warn", Format: "json"})

	if slog.Default().Handler() != logger.Handler() {
		t.Error("NewLogger must install the returned logger as slog default")
	}
}

func TestLevelOf(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		" info ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"info+2":  slog.LevelInfo + 2,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}

	for in, want := range cases {
		if got := levelOf(in); got != want {
			t.Errorf("levelOf(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "warn", Format: "json"})

	logger.Info("sweep started")
	if buf.Len() != 0 {
		t.Fatalf("info must be suppressed at warn, got %s", buf.String())
	}

	logger.Warn("close store")
	if buf.Len() == 0 {
		t.Fatal("warn must be written at warn")
	}
}

func TestNewLogger_JSONCarriesAppAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(&buf, config.LogConfig{Format: "json"}).Info("sweep completed", slog.Int64("affected", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if rec["app"] != "imagehub-sweeper" || rec["version"] != Version {
		t.Errorf("missing app attrs: %v", rec)
	}
	if rec["affected"] != float64(3) {
		t.Errorf("affected = %v", rec["affected"])
	}
	if _, ok := rec["source"]; ok {
		t.Error("json output must not carry source")
	}
}

func TestNewLogger_TextAddsSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(&buf, config.LogConfig{Level: "info", Format: "TEXT"}).Info("hello")

	if !strings.Contains(buf.String(), "source=") {
		t.Errorf("text output should carry source: %s", buf.String())
	}
}
