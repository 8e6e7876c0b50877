package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				assert.Equal(t, 8001, cfg.Server.Port)
				assert.Equal(t, "https://dashscope-intl.aliyuncs.com", cfg.TextGen.BaseURL)
				assert.Equal(t, "caption-app", cfg.TextGen.CaptionAppID)
				assert.Equal(t, "context-app", cfg.TextGen.ContextAppID)
				assert.Equal(t, "http://wan-svc.example.com", cfg.VideoGen.Endpoint)
				assert.Equal(t, 4, cfg.Worker.PoolSize)
				assert.Equal(t, 500*time.Millisecond, cfg.Stream.PollInterval)
				assert.Equal(t, 10*time.Minute, cfg.Stream.MaxDuration)
				assert.Equal(t, "video-gateway", cfg.App.Name)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "sk-from-env")
	t.Setenv("DASHSCOPE_CAPTION_APP_ID", "caption-from-env")
	t.Setenv("VIDEOGEN_URL", "http://env-svc.example.com")
	t.Setenv("DEMO_MODE", "true")

	cfg, err := Load("testdata/valid_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sk-from-env", cfg.TextGen.APIKey)
	assert.Equal(t, "caption-from-env", cfg.TextGen.CaptionAppID)
	assert.Equal(t, "context-app", cfg.TextGen.ContextAppID, "unset env vars keep file values")
	assert.Equal(t, "http://env-svc.example.com", cfg.VideoGen.Endpoint)
	assert.True(t, cfg.VideoGen.DemoMode)
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8001},
		TextGen: TextGenConfig{
			BaseURL:      "https://dashscope-intl.aliyuncs.com",
			APIKey:       "sk-test",
			CaptionAppID: "caption-app",
			ContextAppID: "context-app",
		},
		VideoGen: VideoGenConfig{Endpoint: "http://wan-svc.example.com"},
		Worker:   WorkerConfig{PoolSize: 4},
		Stream: StreamConfig{
			PollInterval: 500 * time.Millisecond,
			MaxDuration:  10 * time.Minute,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "port too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "port too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "missing textgen base url",
			mutate:    func(c *Config) { c.TextGen.BaseURL = "" },
			wantErr:   true,
			errString: "base_url is required",
		},
		{
			name:      "missing api key",
			mutate:    func(c *Config) { c.TextGen.APIKey = "" },
			wantErr:   true,
			errString: "api_key is required",
		},
		{
			name:      "missing caption app",
			mutate:    func(c *Config) { c.TextGen.CaptionAppID = "" },
			wantErr:   true,
			errString: "caption_app_id is required",
		},
		{
			name:      "missing context app",
			mutate:    func(c *Config) { c.TextGen.ContextAppID = "" },
			wantErr:   true,
			errString: "context_app_id is required",
		},
		{
			name:      "missing videogen endpoint outside demo mode",
			mutate:    func(c *Config) { c.VideoGen.Endpoint = "" },
			wantErr:   true,
			errString: "videogen endpoint is required",
		},
		{
			name: "demo mode does not need an endpoint",
			mutate: func(c *Config) {
				c.VideoGen.Endpoint = ""
				c.VideoGen.DemoMode = true
			},
			wantErr: false,
		},
		{
			name:      "zero pool size",
			mutate:    func(c *Config) { c.Worker.PoolSize = 0 },
			wantErr:   true,
			errString: "pool_size must be greater than 0",
		},
		{
			name:      "zero poll interval",
			mutate:    func(c *Config) { c.Stream.PollInterval = 0 },
			wantErr:   true,
			errString: "poll_interval must be greater than 0",
		},
		{
			name:      "zero max duration",
			mutate:    func(c *Config) { c.Stream.MaxDuration = 0 },
			wantErr:   true,
			errString: "max_duration must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_ValidateIntegration(t *testing.T) {
	t.Run("load and validate valid config", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)

		require.NoError(t, cfg.Validate())
	})

	t.Run("load config with invalid port", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_port.yaml")
		require.NoError(t, err)

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("load config with missing textgen section", func(t *testing.T) {
		cfg, err := Load("testdata/missing_textgen.yaml")
		require.NoError(t, err)

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base_url is required")
	})
}
