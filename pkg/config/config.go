package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string
	DeepSeekAPIKey  string
	DataDir         string
	ConfigDir       string
	Router          RouterSettings
}

// RouterSettings holds the router's operational knobs.
type RouterSettings struct {
	// BatchSize is how many outcome records accumulate between background
	// retunes.
	BatchSize int `yaml:"batch_size"`

	// MinRetuneSamples is the outcome count below which a retune is a no-op.
	// Zero means the tuner's built-in minimum.
	MinRetuneSamples int `yaml:"min_retune_samples"`

	// DiscoveryPrefixes is the naming-convention filter for catalog entries.
	// Empty means the built-in default list.
	DiscoveryPrefixes []string `yaml:"discovery_prefixes"`

	// ListenAddr is the bind address for serve mode.
	ListenAddr string `yaml:"listen_addr"`

	// LogFile enables rotating file logging when set.
	LogFile string `yaml:"log_file"`
}

// FileConfig represents the structure of ~/.helmsman/config.yaml
type FileConfig struct {
	APIKeys APIKeysConfig  `yaml:"api_keys"`
	DataDir string         `yaml:"data_dir"`
	Router  RouterSettings `yaml:"router"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic string `yaml:"anthropic"`
	OpenAI    string `yaml:"openai"`
	Google    string `yaml:"google"`
	DeepSeek  string `yaml:"deepseek"`
}

// Load reads configuration from config files and environment variables.
// Environment variables take precedence over file configuration.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		DeepSeekAPIKey:  getEnvOrDefault("DEEPSEEK_API_KEY", fileConfig.APIKeys.DeepSeek),
		DataDir:         getEnvOrDefault("HELMSMAN_DATA_DIR", fileConfig.DataDir),
		ConfigDir:       configDir,
		Router:          fileConfig.Router,
	}

	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(configDir, "data")
	}
	applyRouterDefaults(&cfg.Router)

	return cfg, nil
}

// HasProvider returns true if the API key for the given provider is
// configured.
func (c *Config) HasProvider(name string) bool {
	switch name {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	case "deepseek":
		return c.DeepSeekAPIKey != ""
	default:
		return false
	}
}

func applyRouterDefaults(r *RouterSettings) {
	if r.BatchSize <= 0 {
		r.BatchSize = 100
	}
	if r.ListenAddr == "" {
		r.ListenAddr = "127.0.0.1:8676"
	}
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // Return empty config if file doesn't exist
	}

	_ = yaml.Unmarshal(data, cfg) // Ignore parse errors, use defaults
	return cfg
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".helmsman")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
