package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()

	shorthands := map[string]string{
		"token":       "t",
		"destination": "d",
		"include-ims": "i",
		"remove":      "r",
		"simulate":    "s",
		"weeks":       "w",
		"quiet":       "q",
	}
	for name, short := range shorthands {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Errorf("root command should have --%s flag", name)
			continue
		}
		if flag.Shorthand != short {
			t.Errorf("--%s shorthand = %q, want %q", name, flag.Shorthand, short)
		}
	}

	if cmd.Flags().Lookup("ledger") == nil {
		t.Error("root command should have --ledger flag")
	}
}

func TestRootCmd_MissingToken(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "")
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"-d", t.TempDir()})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "token is required") {
		t.Fatalf("expected missing token error, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed before validation passes, got %q", out.String())
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"-t", "xoxp-test", "extra"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected positional arguments to be rejected")
	}
}

func TestRootCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"-h"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help should succeed: %v", err)
	}
	if !strings.Contains(out.String(), "--include-ims") {
		t.Errorf("usage should list flags, got %q", out.String())
	}
}
