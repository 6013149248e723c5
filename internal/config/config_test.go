package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points the global and project config paths at fresh temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, key := range envKeys {
		t.Setenv("POSTGENIE_"+strings.ToUpper(key), "")
		_ = os.Unsetenv("POSTGENIE_" + strings.ToUpper(key))
	}
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := GlobalPath(); got != "/custom/config/postgenie/postgenie.yml" {
			t.Errorf("GlobalPath() = %v", got)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		got := GlobalPath()
		if !filepath.IsAbs(got) {
			t.Errorf("GlobalPath() should return absolute path, got %v", got)
		}
		if !strings.HasSuffix(got, filepath.Join(".config", "postgenie", "postgenie.yml")) {
			t.Errorf("GlobalPath() = %v, want ~/.config/postgenie/postgenie.yml", got)
		}
	})
}

func TestProjectPath(t *testing.T) {
	if got := ProjectPath(); got != "postgenie.yml" {
		t.Errorf("ProjectPath() = %v, want postgenie.yml", got)
	}
}

func TestExists(t *testing.T) {
	isolate(t)

	if Exists() {
		t.Error("Exists() = true, want false when no config files exist")
	}
	if err := os.WriteFile(ProjectPath(), []byte("session: demo\n"), 0644); err != nil {
		t.Fatalf("Failed to write project config: %v", err)
	}
	if !Exists() {
		t.Error("Exists() = false, want true when project config exists")
	}
}

func TestLoad_NoConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Errorf("Load() = %+v, want defaults %+v", *cfg, *want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestWriteGlobal_RoundTrip(t *testing.T) {
	isolate(t)

	cfg := &Config{
		DataDir:    ".test",
		LogLevel:   "debug",
		LogFile:    "/tmp/test.log",
		Provider:   "mock",
		TextDelay:  250 * time.Millisecond,
		ImageDelay: 2 * time.Second,
		BrandFile:  "brand.yml",
		ExportDir:  "out",
		Session:    "spring",
		Publish:    false,
	}
	if err := WriteGlobal(cfg); err != nil {
		t.Fatalf("WriteGlobal() error = %v", err)
	}

	data, err := os.ReadFile(GlobalPath())
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	for _, field := range []string{
		"data_dir: .test",
		"log_level: debug",
		"text_delay: 250ms",
		"image_delay: 2s",
		"brand_file: brand.yml",
		"publish: false",
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("Config file missing expected field: %s\nContent:\n%s", field, data)
		}
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *cfg {
		t.Errorf("Load() = %+v, want %+v", *got, *cfg)
	}
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	global := Default()
	global.Session = "global"
	global.ExportDir = "global-out"
	if err := WriteGlobal(global); err != nil {
		t.Fatalf("WriteGlobal() error = %v", err)
	}
	if err := os.WriteFile(ProjectPath(), []byte("session: project\n"), 0644); err != nil {
		t.Fatalf("Failed to write project config: %v", err)
	}
	t.Setenv("POSTGENIE_TEXT_DELAY", "10ms")
	t.Setenv("POSTGENIE_PUBLISH", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Session != "project" {
		t.Errorf("Session = %q, want project config to win over global", cfg.Session)
	}
	if cfg.ExportDir != "global-out" {
		t.Errorf("ExportDir = %q, want global value", cfg.ExportDir)
	}
	if cfg.TextDelay != 10*time.Millisecond {
		t.Errorf("TextDelay = %v, want env override", cfg.TextDelay)
	}
	if cfg.Publish {
		t.Error("Publish = true, want env override false")
	}
}

func TestWriteProject(t *testing.T) {
	isolate(t)

	if err := WriteProject(Default()); err != nil {
		t.Fatalf("WriteProject() error = %v", err)
	}
	data, err := os.ReadFile(ProjectPath())
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	if !strings.Contains(string(data), "session: default") {
		t.Errorf("project config missing session:\n%s", data)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "openai" }, wantErr: true},
		{name: "negative delay", mutate: func(c *Config) { c.ImageDelay = -time.Second }, wantErr: true},
		{name: "empty session", mutate: func(c *Config) { c.Session = " " }, wantErr: true},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
