package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codepulse/codepulse/internal/version"
)

func TestVersion(t *testing.T) {
	if version.Short() == "" {
		t.Error("version should not be empty")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCmd()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--short"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != version.Short() {
		t.Errorf("Expected %q, got %q", version.Short(), buf.String())
	}
}

func TestAnalyzeCommandFlags(t *testing.T) {
	cmd := NewAnalyzeCmd()

	for _, name := range []string{
		"format", "config", "output", "include", "exclude", "recursive",
		"min-clone-lines", "skip-clones", "skip-security", "skip-smells",
		"cross-file", "no-progress",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("analyze command missing flag %q", name)
		}
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".codepulse.toml")

	cmd := NewInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected config file at %s: %v", path, err)
	}

	// A second run without --force must refuse to overwrite
	again := NewInitCmd()
	again.SetOut(&bytes.Buffer{})
	again.SetErr(&bytes.Buffer{})
	again.SetArgs([]string{"--config", path})
	if err := again.Execute(); err == nil {
		t.Error("Expected an error when the config file already exists")
	}
}

func TestAnalyzeCommandRequiresArgs(t *testing.T) {
	cmd := NewAnalyzeCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected an error when no paths are given")
	}
}
