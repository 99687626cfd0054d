package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func mapEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestSettingsPreferFlagsOverEnvironment(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	s := bindSettings(fs, mapEnv(map[string]string{
		"SITECMS_STORAGE":     "sqlite",
		"SITECMS_STORAGE_DSN": "file:env.db",
		"SITECMS_CACHE":       "true",
		"SITECMS_CACHE_TTL":   "5m",
		"SITECMS_LOCALES":     "en, hr",
		"SITECMS_MENUS":       "header,footer",
	}))
	if err := fs.Parse([]string{"-storage-dsn", "file:flag.db", "-media-dir", t.TempDir()}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := s.config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Storage.Provider != "sqlite" || cfg.Storage.DSN != "file:flag.db" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if !cfg.Cache.Enabled || cfg.Cache.DefaultTTL != 5*time.Minute {
		t.Fatalf("unexpected cache %+v", cfg.Cache)
	}
	if strings.Join(cfg.I18N.Locales, ",") != "en,hr" || len(cfg.Navigation.Menus) != 2 {
		t.Fatalf("unexpected lists %v %v", cfg.I18N.Locales, cfg.Navigation.Menus)
	}
}

func TestSettingsHashAdminPassword(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	s := bindSettings(fs, mapEnv(map[string]string{
		"SITECMS_AUTH_SECRET":    strings.Repeat("s", 32),
		"SITECMS_ADMIN_USER":     "admin",
		"SITECMS_ADMIN_PASSWORD": "hunter2",
	}))
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := s.config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cfg.Auth.AdminPasswordHash), []byte("hunter2")); err != nil {
		t.Fatalf("expected bcrypt hash of the admin password: %v", err)
	}
}

func TestSettingsRejectInvalidConfig(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	s := bindSettings(fs, mapEnv(nil))
	if err := fs.Parse([]string{"-editor-concurrency", "pessimistic"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := s.config(); err == nil {
		t.Fatalf("expected invalid concurrency to fail validation")
	}
}

func TestRunSeedReportsCounts(t *testing.T) {
	var out bytes.Buffer
	env := mapEnv(map[string]string{"SITECMS_LOG_LEVEL": "error"})
	err := run(context.Background(), []string{"seed", "-media-dir", t.TempDir()}, env, &out)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "seeded 9 pages and 3 menus") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunImport(t *testing.T) {
	dir := t.TempDir()
	body := []byte("---\ntitle: Careers\n---\nJoin us.\n")
	if err := os.WriteFile(filepath.Join(dir, "careers.md"), body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out bytes.Buffer
	env := mapEnv(map[string]string{"SITECMS_LOG_LEVEL": "error"})
	args := []string{"import", "-content-dir", dir, "-media-dir", t.TempDir(), "-dry-run"}
	if err := run(context.Background(), args, env, &out); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out.String(), dir) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunHashPassword(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"hash-password", "secret"}, mapEnv(nil), &out); err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")); err != nil {
		t.Fatalf("expected valid hash: %v", err)
	}
	if err := run(context.Background(), []string{"hash-password"}, mapEnv(nil), &out); err == nil {
		t.Fatalf("expected error without a password")
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"migrate"}, mapEnv(nil), &out); err == nil {
		t.Fatalf("expected unknown command error")
	}
	if err := run(context.Background(), nil, mapEnv(nil), &out); err == nil || !strings.Contains(out.String(), "usage") {
		t.Fatalf("expected usage for a missing command")
	}
}
