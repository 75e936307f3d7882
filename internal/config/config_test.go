package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseValidConfig(t *testing.T) {
	data := []byte(`
initial_stack_size: 128
max_stack_size: 4096
max_frame_count: 512
trace: true
trace_db: /tmp/sofia-trace.db
`)
	cfg, err := Parse(data, "inline")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.InitialStackSize != 128 || cfg.MaxStackSize != 4096 || cfg.MaxFrameCount != 512 {
		t.Fatalf("unexpected numeric fields: %+v", cfg)
	}
	if !cfg.Trace || cfg.TraceDB != "/tmp/sofia-trace.db" {
		t.Fatalf("unexpected trace fields: %+v", cfg)
	}
}

func TestParseEmptyConfigUsesZeroValues(t *testing.T) {
	cfg, err := Parse([]byte(""), "empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.InitialStackSize != 0 || cfg.MaxStackSize != 0 || cfg.MaxFrameCount != 0 || cfg.Trace || cfg.TraceDB != "" {
		t.Fatalf("expected all-zero config, got %+v", cfg)
	}
}

func TestParseRejectsNegativeSizes(t *testing.T) {
	cases := []string{
		"initial_stack_size: -1\n",
		"max_stack_size: -1\n",
		"max_frame_count: -1\n",
	}
	for _, src := range cases {
		if _, err := Parse([]byte(src), "bad"); err == nil {
			t.Fatalf("expected an error for %q", src)
		}
	}
}

func TestParseRejectsInitialExceedingMax(t *testing.T) {
	data := []byte("initial_stack_size: 8192\nmax_stack_size: 1024\n")
	if _, err := Parse(data, "bad"); err == nil {
		t.Fatal("expected an error when initial_stack_size exceeds max_stack_size")
	}
}

func TestLoadReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sofia.yaml")
	content := "initial_stack_size: 64\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.InitialStackSize != 64 {
		t.Fatalf("expected 64, got %d", cfg.InitialStackSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
