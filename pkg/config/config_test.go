package config

import (
	"os"
	"sync"
	"testing"

	"github.com/spf13/viper"
)

// resetConfig clears viper and re-arms the init guard between subtests
func resetConfig() {
	viper.Reset()
	once = sync.Once{}
	initErr = nil
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name    string
		setup   func()
		cleanup func()
		wantErr bool
		check   func(t *testing.T)
	}{
		{
			name: "load from settings.yaml",
			setup: func() {
				resetConfig()
				content := `
server:
  host: "127.0.0.1"
  port: 8080
storage:
  root: "./test-audio"
`
				_ = os.MkdirAll("./config", 0755)
				_ = os.WriteFile("./config/settings.yaml", []byte(content), 0644)
			},
			cleanup: func() {
				_ = os.RemoveAll("./config")
				resetConfig()
			},
			wantErr: false,
			check: func(t *testing.T) {
				if GetInt("server.port") != 8080 {
					t.Errorf("Expected server.port to be 8080, got %d", GetInt("server.port"))
				}
				if GetString("storage.root") != "./test-audio" {
					t.Errorf("Expected storage.root override, got %s", GetString("storage.root"))
				}
			},
		},
		{
			name: "environment variable override",
			setup: func() {
				resetConfig()
				os.Setenv("RECORDER_SERVER_PORT", "9090")
			},
			cleanup: func() {
				os.Unsetenv("RECORDER_SERVER_PORT")
				resetConfig()
			},
			wantErr: false,
			check: func(t *testing.T) {
				if GetInt("server.port") != 9090 {
					t.Errorf("Expected server.port to be overridden to 9090, got %d", GetInt("server.port"))
				}
			},
		},
		{
			name: "missing config file with defaults",
			setup: func() {
				resetConfig()
			},
			cleanup: func() {
				resetConfig()
			},
			wantErr: false,
			check: func(t *testing.T) {
				if GetInt("server.port") != 8080 {
					t.Errorf("Expected default server.port to be 8080, got %d", GetInt("server.port"))
				}
				if GetString("transcription.default_language") != "auto" {
					t.Errorf("Expected default language auto, got %s", GetString("transcription.default_language"))
				}
			},
		},
		{
			name: "invalid worker count auto-corrected",
			setup: func() {
				resetConfig()
				os.Setenv("RECORDER_TRANSCRIPTION_MAX_CONCURRENT", "0")
			},
			cleanup: func() {
				os.Unsetenv("RECORDER_TRANSCRIPTION_MAX_CONCURRENT")
				resetConfig()
			},
			wantErr: false,
			check: func(t *testing.T) {
				if GetInt("transcription.max_concurrent") != 2 {
					t.Errorf("Expected max_concurrent corrected to 2, got %d", GetInt("transcription.max_concurrent"))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.cleanup()

			err := Init()
			if (err != nil) != tt.wantErr {
				t.Errorf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.check != nil && err == nil {
				tt.check(t)
			}
		})
	}
}

func TestConfigStructValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Storage.Root = "./data/audio"
	cfg.Transcription.MaxConcurrent = 0
	cfg.Pagination.ItemsPerPage = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Transcription.MaxConcurrent != 2 {
		t.Errorf("Expected MaxConcurrent corrected to 2, got %d", cfg.Transcription.MaxConcurrent)
	}
	if cfg.Pagination.ItemsPerPage != 20 {
		t.Errorf("Expected ItemsPerPage corrected to 20, got %d", cfg.Pagination.ItemsPerPage)
	}

	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid port")
	}
}
