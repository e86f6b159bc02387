package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Ingest        IngestConfig        `mapstructure:"ingest"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Search        SearchConfig        `mapstructure:"search"`
	Pagination    PaginationConfig    `mapstructure:"pagination"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// StorageConfig contains audio storage settings
type StorageConfig struct {
	Root       string `mapstructure:"root"`
	UploadTemp string `mapstructure:"upload_temp"`
}

// IngestConfig contains directory watcher settings
type IngestConfig struct {
	MonitoredDirectory string `mapstructure:"monitored_directory"`
}

// TranscriptionConfig contains transcription engine and scheduler settings
type TranscriptionConfig struct {
	WhisperPath     string        `mapstructure:"whisper_path"`
	ModelDir        string        `mapstructure:"model_dir"`
	DefaultModel    string        `mapstructure:"default_model"`
	DefaultLanguage string        `mapstructure:"default_language"`
	MaxConcurrent   int           `mapstructure:"max_concurrent"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	JobTimeout      time.Duration `mapstructure:"job_timeout"`
}

// SearchConfig contains full-text index settings
type SearchConfig struct {
	IndexPath string `mapstructure:"index_path"`
}

// PaginationConfig contains listing defaults
type PaginationConfig struct {
	ItemsPerPage int `mapstructure:"items_per_page"`
}
