package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesEmbeddedDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Target.Device != "/dev/sda" {
		t.Fatalf("default device = %q", cfg.Target.Device)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
}

func TestLoadHydratesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := `target:
  device: /dev/nvme0n1
`
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Target.Device != "/dev/nvme0n1" {
		t.Fatalf("device = %q", cfg.Target.Device)
	}
	if cfg.Target.BootPartition != "/dev/nvme0n1p1" {
		t.Fatalf("boot partition not derived from device: %q", cfg.Target.BootPartition)
	}
	if cfg.Target.RootPartition != "/dev/nvme0n1p2" {
		t.Fatalf("root partition not derived from device: %q", cfg.Target.RootPartition)
	}
	if cfg.Target.MountPoint != "/mnt" {
		t.Fatalf("mount point default missing: %q", cfg.Target.MountPoint)
	}
	if len(cfg.Install.Packages) == 0 {
		t.Fatal("package list default missing")
	}
}

func TestLoadJournalDefaultsOnWhenBlockOmitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := `target:
  device: /dev/sda
`
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Journal.On() {
		t.Fatal("journal must default to enabled when the block is omitted")
	}
}

func TestLoadJournalExplicitlyDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := `journal:
  enabled: false
`
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Journal.On() {
		t.Fatal("explicit enabled: false must disable the journal")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("target: [broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}
