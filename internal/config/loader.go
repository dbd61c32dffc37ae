package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Engine kinds.
const (
	EngineExec   = "exec"
	EngineNative = "native"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr        string `json:"addr" yaml:"addr" toml:"addr"`
	Engine      string `json:"engine" yaml:"engine" toml:"engine"`
	FFmpegPath  string `json:"ffmpeg_path" yaml:"ffmpeg_path" toml:"ffmpeg_path"`
	LibraryPath string `json:"library_path" yaml:"library_path" toml:"library_path"`
	ProgramName string `json:"program_name" yaml:"program_name" toml:"program_name"`

	// LogLevel is the engine verbosity, by name ("info") or value ("32").
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`

	// Redirection is a pointer so an explicit false survives WithDefaults.
	Redirection *bool `json:"redirection" yaml:"redirection" toml:"redirection"`

	MonitorTimeoutMS int `json:"monitor_timeout_ms" yaml:"monitor_timeout_ms" toml:"monitor_timeout_ms"`
	MaxConcurrent    int `json:"max_concurrent" yaml:"max_concurrent" toml:"max_concurrent"`
	MaxQueueDepth    int `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWaitMS        int `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms"`

	FontDir      string            `json:"font_dir" yaml:"font_dir" toml:"font_dir"`
	FontCacheDir string            `json:"font_cache_dir" yaml:"font_cache_dir" toml:"font_cache_dir"`
	FontMappings map[string]string `json:"font_mappings" yaml:"font_mappings" toml:"font_mappings"`

	CORSEnabled    bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	LogFormat      string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	ServerLogLevel string   `json:"server_log_level" yaml:"server_log_level" toml:"server_log_level"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// WithDefaults returns a copy of cfg with unspecified fields filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Engine == "" {
		c.Engine = EngineExec
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.ProgramName == "" {
		c.ProgramName = "ffmpeg"
	}
	if c.Redirection == nil {
		on := true
		c.Redirection = &on
	}
	if c.MonitorTimeoutMS <= 0 {
		c.MonitorTimeoutMS = 100
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 1
	}
	if c.MaxQueueDepth <= 0 {
		c.MaxQueueDepth = 8
	}
	if c.MaxWaitMS <= 0 {
		c.MaxWaitMS = 30000
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
	if c.ServerLogLevel == "" {
		c.ServerLogLevel = "info"
	}
	return c
}

// Validate rejects values that cannot be used to start the service.
func (c Config) Validate() error {
	switch c.Engine {
	case "", EngineExec, EngineNative:
	default:
		return fmt.Errorf("unknown engine %q (want %s or %s)", c.Engine, EngineExec, EngineNative)
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.MaxConcurrent < 0 || c.MaxQueueDepth < 0 {
		return fmt.Errorf("max_concurrent and max_queue_depth must not be negative")
	}
	return nil
}
