package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system.
// This should be called once at application startup.
func Init() error {
	once.Do(func() {
		setDefaults()

		// Environment variable overrides, e.g. RECORDER_SERVER_PORT
		viper.SetEnvPrefix("RECORDER")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// A missing config file is fine - defaults and env vars apply
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct.
// Init() must be called before using this.
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// Get returns a config value by key using Viper directly
func Get(key string) any {
	return viper.Get(key)
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("storage.root") == "" {
		return fmt.Errorf("storage.root must not be empty")
	}

	// Auto-correct nonsensical values rather than failing startup
	if viper.GetInt("transcription.max_concurrent") < 1 {
		viper.Set("transcription.max_concurrent", 2)
	}

	if viper.GetInt("pagination.items_per_page") < 1 {
		viper.Set("pagination.items_per_page", 20)
	}

	if viper.GetDuration("transcription.poll_interval") <= 0 {
		viper.Set("transcription.poll_interval", 30*time.Second)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Storage.Root == "" {
		return fmt.Errorf("storage.root must not be empty")
	}

	if c.Transcription.MaxConcurrent < 1 {
		c.Transcription.MaxConcurrent = 2
	}

	if c.Pagination.ItemsPerPage < 1 {
		c.Pagination.ItemsPerPage = 20
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/recorder.db")
	viper.SetDefault("database.verbose", false)

	// Storage defaults
	viper.SetDefault("storage.root", "./data/audio")
	viper.SetDefault("storage.upload_temp", "./data/uploads")

	// Ingest defaults
	viper.SetDefault("ingest.monitored_directory", "./incoming")

	// Transcription defaults
	viper.SetDefault("transcription.whisper_path", "whisper-cli")
	viper.SetDefault("transcription.model_dir", "./models")
	viper.SetDefault("transcription.default_model", "base.en")
	viper.SetDefault("transcription.default_language", "auto")
	viper.SetDefault("transcription.max_concurrent", 2)
	viper.SetDefault("transcription.poll_interval", 30*time.Second)
	viper.SetDefault("transcription.job_timeout", 0)

	// Search defaults
	viper.SetDefault("search.index_path", "./data/recordings.bleve")

	// Pagination defaults
	viper.SetDefault("pagination.items_per_page", 20)
}
