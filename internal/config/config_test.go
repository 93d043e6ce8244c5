package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName+".yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("root", "", "")
	fs.Bool("verbose", false, "")
	fs.String("output", OutputText, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{SearchDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *cfg != DefaultConfig() {
		t.Errorf("Load() = %+v, want %+v", *cfg, DefaultConfig())
	}
	if err := cfg.RequireRoot(); err == nil {
		t.Error("RequireRoot() = nil with no root configured")
	}
}

func TestLoadSearchDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "root: /srv/sources\nverbose: true\n")

	cfg, err := Load(LoadOptions{SearchDir: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Root != "/srv/sources" || !cfg.Verbose || cfg.Output != OutputText {
		t.Errorf("Load() = %+v", *cfg)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	if err == nil {
		t.Fatal("Load() with a missing explicit config file returned nil error")
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "root: /from/file\noutput: yaml\n")

	t.Setenv("RUBYCORESOURCE_ROOT", "/from/env")

	cfg, err := Load(LoadOptions{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Root != "/from/env" {
		t.Errorf("Root = %q, want env to override file", cfg.Root)
	}
	if cfg.Output != OutputYAML {
		t.Errorf("Output = %q, want %q from file", cfg.Output, OutputYAML)
	}

	fs := testFlags()
	if err := fs.Set("root", "/from/flag"); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(LoadOptions{ConfigFile: path, Flags: fs})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Root != "/from/flag" {
		t.Errorf("Root = %q, want flag to override env", cfg.Root)
	}
	if cfg.Output != OutputYAML {
		t.Errorf("Output = %q, unchanged flag should not override file", cfg.Output)
	}
}

func TestLoadInvalidOutput(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output: xml\n")

	if _, err := Load(LoadOptions{SearchDir: dir}); err == nil {
		t.Error("Load() accepted output: xml")
	}
}
