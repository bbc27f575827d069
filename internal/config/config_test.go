package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdirTemp runs the test from an empty directory so no stray config.json
// or .env leaks into Load.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.IMAPHost != DefaultIMAPHost {
		t.Errorf("IMAPHost = %q, want %q", cfg.IMAPHost, DefaultIMAPHost)
	}
	if cfg.IMAPPort != DefaultIMAPPort {
		t.Errorf("IMAPPort = %d, want %d", cfg.IMAPPort, DefaultIMAPPort)
	}
	if cfg.Folder != DefaultFolder {
		t.Errorf("Folder = %q, want %q", cfg.Folder, DefaultFolder)
	}
	if cfg.SenderFilter != DefaultSenderFilter {
		t.Errorf("SenderFilter = %q, want %q", cfg.SenderFilter, DefaultSenderFilter)
	}
	if cfg.AIModel != DefaultAIModel {
		t.Errorf("AIModel = %q, want %q", cfg.AIModel, DefaultAIModel)
	}
	if cfg.AIBaseURL != DefaultAIBaseURL {
		t.Errorf("AIBaseURL = %q, want %q", cfg.AIBaseURL, DefaultAIBaseURL)
	}
	if cfg.UseOAuth() {
		t.Error("UseOAuth() = true with default auth method")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)

	t.Setenv("ETLLM_IMAP_HOST", "imap.example.com")
	t.Setenv("ETLLM_IMAP_PORT", "1993")
	t.Setenv("ETLLM_SENDER_FILTER", "billing.example.com")
	t.Setenv("ETLLM_MAIL_USER", "user@example.com")
	t.Setenv("ETLLM_MAIL_PASSWORD", "app-password")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("ETLLM_AUTH_METHOD", "oauth2")
	t.Setenv("ETLLM_SYNC_MINUTES", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr() != "imap.example.com:1993" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.SenderFilter != "billing.example.com" {
		t.Errorf("SenderFilter = %q", cfg.SenderFilter)
	}
	if cfg.MailUser != "user@example.com" || cfg.MailPassword != "app-password" {
		t.Errorf("mail credentials not loaded")
	}
	if cfg.GroqAPIKey != "gsk_test" {
		t.Errorf("GroqAPIKey = %q", cfg.GroqAPIKey)
	}
	if !cfg.UseOAuth() {
		t.Error("UseOAuth() = false with oauth2 auth method")
	}
	if cfg.SyncMinutes != 15 {
		t.Errorf("SyncMinutes = %d, want 15", cfg.SyncMinutes)
	}
}

func TestLoadInvalidPortIgnored(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ETLLM_IMAP_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IMAPPort != DefaultIMAPPort {
		t.Errorf("IMAPPort = %d, want default %d", cfg.IMAPPort, DefaultIMAPPort)
	}
}

func TestLoadConfigFile(t *testing.T) {
	chdirTemp(t)

	content := `{"imap_host": "imap.file.example", "folder": "INBOX", "sync_minutes": 30}`
	if err := os.WriteFile("config.json", []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IMAPHost != "imap.file.example" {
		t.Errorf("IMAPHost = %q", cfg.IMAPHost)
	}
	if cfg.Folder != "INBOX" {
		t.Errorf("Folder = %q", cfg.Folder)
	}
	if cfg.SyncMinutes != 30 {
		t.Errorf("SyncMinutes = %d", cfg.SyncMinutes)
	}

	// Environment wins over the file
	t.Setenv("ETLLM_FOLDER", "[Gmail]/All Mail")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Folder != "[Gmail]/All Mail" {
		t.Errorf("Folder = %q, env should win", cfg.Folder)
	}
}

func TestSaveOmitsSecrets(t *testing.T) {
	cfg := &Config{
		MailUser:     "user@example.com",
		MailPassword: "app-password",
		GroqAPIKey:   "gsk_secret",
	}

	path := filepath.Join(t.TempDir(), "config.json")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	saved := string(data)
	if strings.Contains(saved, "app-password") || strings.Contains(saved, "gsk_secret") {
		t.Errorf("saved config leaks secrets: %s", saved)
	}
	if !strings.Contains(saved, "user@example.com") {
		t.Errorf("saved config lost mail_user: %s", saved)
	}
}
