package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) error: %v", args, err)
	}
	return cfg
}

func TestBindFlags_Defaults(t *testing.T) {
	cfg := parse(t)

	if cfg.Destination != DefaultDestination {
		t.Errorf("expected destination %s, got %s", DefaultDestination, cfg.Destination)
	}
	if cfg.Weeks != DefaultWeeks {
		t.Errorf("expected %d weeks, got %d", DefaultWeeks, cfg.Weeks)
	}
	if cfg.IncludeIMs || cfg.Remove || cfg.Simulate || cfg.Quiet {
		t.Errorf("expected all switches off by default, got %+v", cfg)
	}
}

func TestBindFlags_ShortFlags(t *testing.T) {
	cfg := parse(t, "-t", "xoxp-test", "-d", "/tmp/archive", "-i", "-r", "-s", "-q", "-w", "4")

	if cfg.Token != "xoxp-test" {
		t.Errorf("expected token xoxp-test, got %s", cfg.Token)
	}
	if cfg.Destination != "/tmp/archive" {
		t.Errorf("expected destination /tmp/archive, got %s", cfg.Destination)
	}
	if !cfg.IncludeIMs || !cfg.Remove || !cfg.Simulate || !cfg.Quiet {
		t.Errorf("expected all switches on, got %+v", cfg)
	}
	if cfg.Weeks != 4 {
		t.Errorf("expected 4 weeks, got %d", cfg.Weeks)
	}
}

func TestBindFlags_BadWeeks(t *testing.T) {
	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse([]string{"-w", "soon"}); err == nil {
		t.Error("expected error for non-numeric weeks")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "xoxp-env")
	t.Setenv("ARCHIVE_DB_PATH", "/tmp/ledger.db")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := parse(t)
	cfg.ApplyEnv()

	if cfg.Token != "xoxp-env" {
		t.Errorf("expected token from env, got %s", cfg.Token)
	}
	if cfg.LedgerPath != "/tmp/ledger.db" {
		t.Errorf("expected ledger path from env, got %s", cfg.LedgerPath)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("expected DEBUG log level, got %s", cfg.LogLevel)
	}

	// Flag wins over env
	cfg = parse(t, "-t", "xoxp-flag", "-q")
	cfg.ApplyEnv()
	if cfg.Token != "xoxp-flag" {
		t.Errorf("expected flag token to win, got %s", cfg.Token)
	}
	if cfg.LogLevel != "ERROR" {
		t.Errorf("expected quiet to force ERROR, got %s", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "")

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"missing token", nil, true},
		{"token given", []string{"-t", "xoxp-test"}, false},
		{"negative weeks", []string{"-t", "xoxp-test", "-w", "-1"}, true},
		{"empty destination", []string{"-t", "xoxp-test", "-d", " "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := parse(t, tt.args...)
			cfg.ApplyEnv()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCutoff(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	cfg := Default()
	want := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := cfg.Cutoff(now); !got.Equal(want) {
		t.Errorf("Cutoff() = %v, want %v", got, want)
	}

	cfg.Weeks = 0
	if got := cfg.Cutoff(now); !got.IsZero() {
		t.Errorf("expected zero cutoff with weeks=0, got %v", got)
	}
}
