package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete gateway configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	TextGen  TextGenConfig  `yaml:"textgen"`
	VideoGen VideoGenConfig `yaml:"videogen"`
	Worker   WorkerConfig   `yaml:"worker"`
	Stream   StreamConfig   `yaml:"stream"`
	Logging  LoggingConfig  `yaml:"logging"`
	App      AppConfig      `yaml:"app"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TextGenConfig holds the text-generation service settings. The caption and
// context applications share one endpoint and key but have distinct app ids.
type TextGenConfig struct {
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
	CaptionAppID string `yaml:"caption_app_id"`
	ContextAppID string `yaml:"context_app_id"`
}

// VideoGenConfig holds the video-generation service settings
type VideoGenConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Token     string        `yaml:"token"`
	DemoMode  bool          `yaml:"demo_mode"`
	DemoDelay time.Duration `yaml:"demo_delay"`
}

// WorkerConfig holds the blocking-call pool configuration
type WorkerConfig struct {
	PoolSize int `yaml:"pool_size"`
}

// StreamConfig holds the text-stream polling settings
type StreamConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxDuration  time.Duration `yaml:"max_duration"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// Load reads and parses the configuration file, then applies environment
// overrides for service credentials and the demo-mode switch.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvOverrides()

	return &config, nil
}

// applyEnvOverrides lets secrets and endpoints come from the process
// environment instead of the checked-in YAML file.
func (c *Config) applyEnvOverrides() {
	c.TextGen.BaseURL = getEnv("DASHSCOPE_HTTP_BASE_URL", c.TextGen.BaseURL)
	c.TextGen.APIKey = getEnv("DASHSCOPE_API_KEY", c.TextGen.APIKey)
	c.TextGen.CaptionAppID = getEnv("DASHSCOPE_CAPTION_APP_ID", c.TextGen.CaptionAppID)
	c.TextGen.ContextAppID = getEnv("DASHSCOPE_CONTEXT_APP_ID", c.TextGen.ContextAppID)
	c.VideoGen.Endpoint = getEnv("VIDEOGEN_URL", c.VideoGen.Endpoint)
	c.VideoGen.Token = getEnv("VIDEOGEN_TOKEN", c.VideoGen.Token)
	c.VideoGen.DemoMode = getEnvBool("DEMO_MODE", c.VideoGen.DemoMode)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.TextGen.BaseURL == "" {
		return fmt.Errorf("textgen base_url is required")
	}

	if c.TextGen.APIKey == "" {
		return fmt.Errorf("textgen api_key is required")
	}

	if c.TextGen.CaptionAppID == "" {
		return fmt.Errorf("textgen caption_app_id is required")
	}

	if c.TextGen.ContextAppID == "" {
		return fmt.Errorf("textgen context_app_id is required")
	}

	if !c.VideoGen.DemoMode && c.VideoGen.Endpoint == "" {
		return fmt.Errorf("videogen endpoint is required outside demo mode")
	}

	if c.Worker.PoolSize <= 0 {
		return fmt.Errorf("worker pool_size must be greater than 0")
	}

	if c.Stream.PollInterval <= 0 {
		return fmt.Errorf("stream poll_interval must be greater than 0")
	}

	if c.Stream.MaxDuration <= 0 {
		return fmt.Errorf("stream max_duration must be greater than 0")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
