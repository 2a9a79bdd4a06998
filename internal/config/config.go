package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const (
	DefaultDestination = "downloads"
	DefaultWeeks       = 26
)

// Config holds all configuration for the application
type Config struct {
	Token       string
	Destination string
	IncludeIMs  bool
	Remove      bool
	Simulate    bool
	Weeks       int
	Quiet       bool
	LedgerPath  string // optional sqlite archive ledger
	LogPath     string // empty logs to stderr
	LogLevel    string
}

// Default returns a Config populated with the defaults used when no flag is given.
func Default() *Config {
	return &Config{
		Destination: DefaultDestination,
		Weeks:       DefaultWeeks,
		LogLevel:    "INFO",
	}
}

// BindFlags registers the command line flags on fs, writing into c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Token, "token", "t", c.Token, "Slack team token (or SLACK_TOKEN)")
	fs.StringVarP(&c.Destination, "destination", "d", c.Destination, "Download destination")
	fs.BoolVarP(&c.IncludeIMs, "include-ims", "i", c.IncludeIMs, "Include files belonging to private instant messages between users")
	fs.BoolVarP(&c.Remove, "remove", "r", c.Remove, "Remove files from Slack")
	fs.BoolVarP(&c.Simulate, "simulate", "s", c.Simulate, "Simulation mode, do not actually download and remove files from Slack")
	fs.IntVarP(&c.Weeks, "weeks", "w", c.Weeks, "Number of weeks to retain, 0 archives everything")
	fs.BoolVarP(&c.Quiet, "quiet", "q", c.Quiet, "Quiet mode. Suppresses all output except errors")
	fs.StringVar(&c.LedgerPath, "ledger", c.LedgerPath, "Record archived files in a sqlite database at this path")
}

// ApplyEnv fills values that were not given on the command line from the environment.
func (c *Config) ApplyEnv() {
	if c.Token == "" {
		c.Token = getEnvOrDefault("SLACK_TOKEN", "")
	}
	if c.LedgerPath == "" {
		c.LedgerPath = getEnvOrDefault("ARCHIVE_DB_PATH", "")
	}
	if c.LogPath == "" {
		c.LogPath = getEnvOrDefault("LOG_PATH", "")
	}
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	if c.Quiet {
		c.LogLevel = "ERROR"
	}
}

// Validate reports configuration errors that must stop the run before any remote call.
func (c *Config) Validate() error {
	var problems []string

	if c.Token == "" {
		problems = append(problems, "providing a token is required")
	}
	if c.Weeks < 0 {
		problems = append(problems, fmt.Sprintf("weeks must not be negative, got %d", c.Weeks))
	}
	if strings.TrimSpace(c.Destination) == "" {
		problems = append(problems, "destination must not be empty")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Cutoff returns the newest creation time eligible for archival, or the zero
// time when the age filter is disabled.
func (c *Config) Cutoff(now time.Time) time.Time {
	if c.Weeks == 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -7*c.Weeks)
}

func getEnvOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
