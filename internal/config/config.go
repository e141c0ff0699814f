package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	RemoteSQLite   = "sqlite"
	RemotePostgres = "postgres"

	AIClaude = "claude"
	AIGemini = "gemini"
	AIOllama = "ollama"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
	DataDir    string `yaml:"data_dir"`

	RemoteDriver string `yaml:"remote_driver"`
	RemoteDSN    string `yaml:"remote_dsn"`

	BackendURL     string        `yaml:"backend_url"`
	UseBackend     bool          `yaml:"use_backend"`
	AuthSecret     string        `yaml:"auth_secret"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`

	AIBackend    string `yaml:"ai_backend"`
	ClaudeAPIKey string `yaml:"claude_api_key"`
	ClaudeModel  string `yaml:"claude_model"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
	OllamaHost   string `yaml:"ollama_host"`
	OllamaModel  string `yaml:"ollama_model"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	ClassifierCacheSize int    `yaml:"classifier_cache_size"`
	KnowledgePath       string `yaml:"knowledge_path"`
}

// Strategy says which storage tiers are enabled, in the order they are tried
// after remote-direct. The local cache is always enabled.
type Strategy struct {
	RemoteDirect bool
	Backend      bool
}

func (c *Config) Strategy() Strategy {
	return Strategy{
		RemoteDirect: c.RemoteDriver != "" && c.RemoteDSN != "",
		Backend:      c.UseBackend && c.BackendURL != "",
	}
}

func defaults() *Config {
	return &Config{
		ListenAddr:     ":8080",
		DBPath:         "/data/kitchenflow.db",
		DataDir:        defaultDataDir(),
		BackendTimeout: 30 * time.Second,
		ClaudeModel:    "claude-sonnet-4-5",
		GeminiModel:    "gemini-1.5-flash",
		OllamaHost:     "http://localhost:11434",
		OllamaModel:    "llava",
		LogLevel:       "info",
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/kitchenflow"
	}
	return ".kitchenflow"
}

// Load resolves the configuration once: defaults, then the YAML file named by
// KITCHENFLOW_CONFIG if set, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("KITCHENFLOW_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.RemoteDriver = getEnv("REMOTE_DRIVER", cfg.RemoteDriver)
	cfg.RemoteDSN = getEnv("REMOTE_DSN", cfg.RemoteDSN)
	cfg.BackendURL = getEnv("BACKEND_URL", cfg.BackendURL)
	cfg.AuthSecret = getEnv("AUTH_SECRET", cfg.AuthSecret)
	cfg.AIBackend = getEnv("AI_BACKEND", cfg.AIBackend)
	cfg.ClaudeAPIKey = getEnv("CLAUDE_API_KEY", cfg.ClaudeAPIKey)
	cfg.ClaudeModel = getEnv("CLAUDE_MODEL", cfg.ClaudeModel)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.KnowledgePath = getEnv("KNOWLEDGE_PATH", cfg.KnowledgePath)

	var err error
	if cfg.UseBackend, err = getEnvBool("USE_BACKEND", cfg.UseBackend); err != nil {
		return nil, err
	}
	if cfg.BackendTimeout, err = getEnvDuration("BACKEND_TIMEOUT", cfg.BackendTimeout); err != nil {
		return nil, err
	}
	if cfg.ClassifierCacheSize, err = getEnvInt("CLASSIFIER_CACHE_SIZE", cfg.ClassifierCacheSize); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.RemoteDriver {
	case "", RemoteSQLite, RemotePostgres:
	default:
		return fmt.Errorf("unsupported REMOTE_DRIVER %q", c.RemoteDriver)
	}
	switch c.AIBackend {
	case "", AIClaude, AIGemini, AIOllama:
	default:
		return fmt.Errorf("unsupported AI_BACKEND %q", c.AIBackend)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
