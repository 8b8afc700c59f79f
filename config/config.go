package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLConfig is the on-disk configuration file layout.
type YAMLConfig struct {
	LLM struct {
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"llm"`

	Server struct {
		Port          int `yaml:"port"`
		RatePerMinute int `yaml:"rate_per_minute"`
	} `yaml:"server"`
}

// Config is the resolved runtime configuration.
type Config struct {
	// Chat endpoint base URL, without the /api/chat suffix
	BaseURL string

	// Model name requested on every chat call
	Model string

	// Per-request timeout for chat calls
	Timeout time.Duration

	// HTTP service port
	Port int

	// API requests allowed per minute, 0 disables the limit
	RatePerMinute int
}

// DefaultConfig is the configuration used when nothing else is set.
var DefaultConfig = Config{
	BaseURL:       "http://localhost:11434",
	Model:         "llama3.3",
	Timeout:       180 * time.Second,
	Port:          8787,
	RatePerMinute: 120,
}

// LoadFromFile loads configuration from a YAML file. Fields absent from
// the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var yamlConfig YAMLConfig
	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	config := DefaultConfig

	if yamlConfig.LLM.BaseURL != "" {
		config.BaseURL = yamlConfig.LLM.BaseURL
	}
	if yamlConfig.LLM.Model != "" {
		config.Model = yamlConfig.LLM.Model
	}
	if yamlConfig.LLM.TimeoutSeconds > 0 {
		config.Timeout = time.Duration(yamlConfig.LLM.TimeoutSeconds) * time.Second
	}

	if yamlConfig.Server.Port > 0 {
		config.Port = yamlConfig.Server.Port
	}
	if yamlConfig.Server.RatePerMinute > 0 {
		config.RatePerMinute = yamlConfig.Server.RatePerMinute
	}

	return &config, nil
}

// GetConfig resolves the configuration. Environment variables override
// the config file, which overrides the defaults.
func GetConfig(configPath string) *Config {
	config := DefaultConfig

	if configPath != "" {
		if cfg, err := LoadFromFile(configPath); err == nil {
			config = *cfg
		} else {
			fmt.Printf("warning: cannot load config file %s: %v\n", configPath, err)
		}
	}

	if url := getBaseURL(); url != "" {
		config.BaseURL = url
	}
	if model := getModel(); model != "" {
		config.Model = model
	}
	if timeout := getTimeout(); timeout > 0 {
		config.Timeout = timeout
	}
	if port := getPort(); port > 0 {
		config.Port = port
	}

	return &config
}

// getBaseURL reads the chat endpoint base URL from the environment.
func getBaseURL() string {
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		return url
	}
	return os.Getenv("PROMPTLAB_BASE_URL")
}

// getModel reads the model name from the environment.
func getModel() string {
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		return model
	}
	return os.Getenv("PROMPTLAB_MODEL")
}

// getTimeout reads the chat timeout from the environment. A bare number
// is taken as seconds, otherwise Go duration syntax applies.
func getTimeout() time.Duration {
	raw := os.Getenv("PROMPTLAB_TIMEOUT")
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return 0
}

// getPort reads the HTTP port from the environment.
func getPort() int {
	raw := os.Getenv("PROMPTLAB_PORT")
	if raw == "" {
		return 0
	}
	if port, err := strconv.Atoi(raw); err == nil {
		return port
	}
	return 0
}
