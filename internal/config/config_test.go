package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SocketPath == "" {
		t.Error("expected a non-empty default socket path")
	}
	if cfg.DefaultEffect == "" {
		t.Error("expected a non-empty default effect")
	}
	if cfg.SacnUniverse == 0 {
		t.Error("expected a non-zero default universe")
	}
	if cfg.DSP.NBins == 0 {
		t.Error("expected default DSP settings to be populated")
	}
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(dir)

	if err := mgr.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	path := mgr.GetPath()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}

	info, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("stat config dir: %v", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("config dir perm = %v, want 0700", info.Mode().Perm())
	}
}

func TestLoadRoundTripsChanges(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(dir)
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := mgr.Get()
	cfg.SacnUniverse = 42
	cfg.PreferredDevice = "USB Microphone"
	if err := mgr.Update(cfg); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	reloaded := NewManager(dir)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Get().SacnUniverse != 42 {
		t.Errorf("SacnUniverse = %d, want 42", reloaded.Get().SacnUniverse)
	}
	if reloaded.Get().PreferredDevice != "USB Microphone" {
		t.Errorf("PreferredDevice = %q, want %q", reloaded.Get().PreferredDevice, "USB Microphone")
	}
}

func TestSaveWritesFilePermissions(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(dir)
	if err := mgr.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(mgr.GetPath())
	if err != nil {
		t.Fatalf("stat config file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file perm = %v, want 0600", info.Mode().Perm())
	}
}
