package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. Built once at startup and
// passed by reference; never mutated afterwards.
type Config struct {
	// Mailbox
	IMAPHost     string `json:"imap_host"`
	IMAPPort     int    `json:"imap_port"`
	Folder       string `json:"folder"`
	SenderFilter string `json:"sender_filter"`
	MailUser     string `json:"mail_user"`
	MailPassword string `json:"-"`

	// Optional Gmail OAuth2 (app password is the default auth path)
	AuthMethod         string `json:"auth_method"` // password, oauth2
	GoogleClientID     string `json:"google_client_id"`
	GoogleClientSecret string `json:"-"`
	GoogleRefreshToken string `json:"-"`

	// Language model
	GroqAPIKey string `json:"-"`
	AIModel    string `json:"ai_model"`
	AIBaseURL  string `json:"ai_base_url"`

	// Service
	DatabasePath string `json:"database_path"`
	DataDir      string `json:"data_dir"`
	APIPort      string `json:"api_port"`
	LogLevel     string `json:"log_level"`
	SyncMinutes  int    `json:"sync_minutes"`
}

// Default configuration values
const (
	DefaultIMAPHost     = "imap.gmail.com"
	DefaultIMAPPort     = 993
	DefaultFolder       = "[Gmail]/All Mail"
	DefaultSenderFilter = "pagbank.com.br"
	DefaultAuthMethod   = "password"
	DefaultAIModel      = "llama-3.3-70b-versatile"
	DefaultAIBaseURL    = "https://api.groq.com/openai/v1"
	DefaultDatabasePath = "data/etllm.db"
	DefaultDataDir      = "data"
	DefaultAPIPort      = "8080"
	DefaultLogLevel     = "INFO"
	DefaultSyncMinutes  = 0 // 0 disables the scheduler
)

// Load loads configuration from environment variables and config file.
// Priority: Environment variables > Config file > Default values.
// A .env file in the working directory is honored before the environment
// is read.
func Load() (*Config, error) {
	cfg := &Config{
		IMAPHost:     DefaultIMAPHost,
		IMAPPort:     DefaultIMAPPort,
		Folder:       DefaultFolder,
		SenderFilter: DefaultSenderFilter,
		AuthMethod:   DefaultAuthMethod,
		AIModel:      DefaultAIModel,
		AIBaseURL:    DefaultAIBaseURL,
		DatabasePath: DefaultDatabasePath,
		DataDir:      DefaultDataDir,
		APIPort:      DefaultAPIPort,
		LogLevel:     DefaultLogLevel,
		SyncMinutes:  DefaultSyncMinutes,
	}

	// Config file is optional
	if err := cfg.loadFromFile(); err != nil {
		return nil, err
	}

	// .env is optional too; absence is not an error
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg, nil
}

// loadFromFile loads configuration from config.json file
func (c *Config) loadFromFile() error {
	configPaths := []string{
		"config.json",
		filepath.Join(c.DataDir, "config.json"),
	}

	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return json.Unmarshal(data, c)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if val := os.Getenv("ETLLM_IMAP_HOST"); val != "" {
		c.IMAPHost = val
	}
	if val := os.Getenv("ETLLM_IMAP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.IMAPPort = port
		}
	}
	if val := os.Getenv("ETLLM_FOLDER"); val != "" {
		c.Folder = val
	}
	if val := os.Getenv("ETLLM_SENDER_FILTER"); val != "" {
		c.SenderFilter = val
	}
	if val := os.Getenv("ETLLM_MAIL_USER"); val != "" {
		c.MailUser = val
	}
	if val := os.Getenv("ETLLM_MAIL_PASSWORD"); val != "" {
		c.MailPassword = val
	}
	if val := os.Getenv("ETLLM_AUTH_METHOD"); val != "" {
		c.AuthMethod = val
	}
	if val := os.Getenv("GOOGLE_CLIENT_ID"); val != "" {
		c.GoogleClientID = val
	}
	if val := os.Getenv("GOOGLE_CLIENT_SECRET"); val != "" {
		c.GoogleClientSecret = val
	}
	if val := os.Getenv("GOOGLE_REFRESH_TOKEN"); val != "" {
		c.GoogleRefreshToken = val
	}
	if val := os.Getenv("GROQ_API_KEY"); val != "" {
		c.GroqAPIKey = val
	}
	if val := os.Getenv("ETLLM_AI_MODEL"); val != "" {
		c.AIModel = val
	}
	if val := os.Getenv("ETLLM_AI_BASE_URL"); val != "" {
		c.AIBaseURL = val
	}
	if val := os.Getenv("ETLLM_DATABASE_PATH"); val != "" {
		c.DatabasePath = val
	}
	if val := os.Getenv("ETLLM_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("ETLLM_API_PORT"); val != "" {
		c.APIPort = val
	}
	if val := os.Getenv("ETLLM_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("ETLLM_SYNC_MINUTES"); val != "" {
		if minutes, err := strconv.Atoi(val); err == nil {
			c.SyncMinutes = minutes
		}
	}
}

// Addr returns the host:port address of the IMAP server
func (c *Config) Addr() string {
	return c.IMAPHost + ":" + strconv.Itoa(c.IMAPPort)
}

// UseOAuth reports whether the mailbox should authenticate with XOAUTH2
func (c *Config) UseOAuth() bool {
	return c.AuthMethod == "oauth2"
}

// Save saves the current configuration to a file. Secret fields carry the
// json:"-" tag and are never written.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
