package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	validLogLevels = map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}
	validGroupBy   = map[string]bool{"country": true, "region": true, "category": true, "media_type": true, "source": true}
	validModes     = map[string]bool{"range": true, "min_only": true, "max_only": true}
	validPositions = map[string]bool{"extinf": true, "url": true}
)

// Config holds the complete application configuration
type Config struct {
	// Probe settings
	Testing struct {
		Timeout           time.Duration `yaml:"timeout"`
		Concurrency       int           `yaml:"concurrency"`
		CacheTTL          time.Duration `yaml:"cache_ttl"`
		SpeedTest         bool          `yaml:"speed_test"`
		SpeedTestDuration time.Duration `yaml:"speed_test_duration"`
	} `yaml:"testing"`

	// Qualification thresholds
	Filter struct {
		MaxLatencyMs   int     `yaml:"max_latency"`
		MinBitrateKbps int     `yaml:"min_bitrate"`
		MustHD         bool    `yaml:"must_hd"`
		Must4K         bool    `yaml:"must_4k"`
		MinSpeedKBps   float64 `yaml:"min_download_speed"`
		MinResolution  string  `yaml:"min_resolution"`
		MaxResolution  string  `yaml:"max_resolution"`
		Mode           string  `yaml:"resolution_filter_mode"`
	} `yaml:"filter"`

	// Playlist output
	Output struct {
		Dir        string   `yaml:"dir"`
		BaseName   string   `yaml:"base_name"`
		GroupBy    string   `yaml:"group_by"`
		PerChannel int      `yaml:"max_sources_per_channel"`
		GuideURLs  []string `yaml:"guide_urls"`
	} `yaml:"output"`

	// User agents attached to sources and written to the playlist
	UserAgents struct {
		Enabled  bool              `yaml:"enabled"`
		Position string            `yaml:"position"`
		Sources  map[string]string `yaml:"sources"`
	} `yaml:"user_agents"`

	// Playlist inputs
	Sources struct {
		LocalDirs  []string      `yaml:"local_dirs"`
		OnlineURLs []string      `yaml:"online_urls"`
		CacheDir   string        `yaml:"cache_dir"`
		CacheTTL   time.Duration `yaml:"cache_ttl"`
	} `yaml:"sources"`

	// Classification rule file
	Rules struct {
		Path string `yaml:"path"`
	} `yaml:"rules"`

	// Run persistence
	Storage struct {
		DBPath    string        `yaml:"db_path"`
		Retention time.Duration `yaml:"retention"`
	} `yaml:"storage"`

	// HTTP server settings
	HTTP struct {
		Address string `yaml:"address"`
		Port    string `yaml:"port"`
	} `yaml:"http"`

	// Periodic runs in serve mode
	Schedule struct {
		Interval time.Duration `yaml:"interval"`
	} `yaml:"schedule"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	cfg := &Config{}

	cfg.Testing.Timeout = 10 * time.Second
	cfg.Testing.Concurrency = 30
	cfg.Testing.CacheTTL = 120 * time.Minute
	cfg.Testing.SpeedTest = true
	cfg.Testing.SpeedTestDuration = 6 * time.Second

	cfg.Filter.MaxLatencyMs = 5000
	cfg.Filter.MinBitrateKbps = 100
	cfg.Filter.MinSpeedKBps = 40
	cfg.Filter.MinResolution = "720p"
	cfg.Filter.MaxResolution = "4k"
	cfg.Filter.Mode = "range"

	cfg.Output.Dir = "output"
	cfg.Output.BaseName = "live"
	cfg.Output.GroupBy = "category"
	cfg.Output.PerChannel = 5

	cfg.UserAgents.Enabled = true
	cfg.UserAgents.Position = "extinf"
	cfg.UserAgents.Sources = map[string]string{}

	cfg.Sources.LocalDirs = []string{"sources"}
	cfg.Sources.CacheDir = "cache"
	cfg.Sources.CacheTTL = time.Hour

	cfg.Rules.Path = ""

	cfg.Storage.DBPath = "iptv-curator.db"
	cfg.Storage.Retention = 7 * 24 * time.Hour

	cfg.HTTP.Address = "127.0.0.1"
	cfg.HTTP.Port = "8080"

	cfg.Schedule.Interval = 6 * time.Hour

	cfg.Log.Level = "INFO"

	return cfg
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var errors []string

	if c.Testing.Timeout <= 0 {
		errors = append(errors, "Probe timeout must be positive")
	}
	if c.Testing.Concurrency <= 0 {
		errors = append(errors, "Probe concurrency must be positive")
	}
	if c.Testing.CacheTTL <= 0 {
		errors = append(errors, "Probe cache TTL must be positive")
	}
	if c.Testing.SpeedTest && c.Testing.SpeedTestDuration <= 0 {
		errors = append(errors, "Speed test duration must be positive when the speed test is enabled")
	}

	if c.Filter.MaxLatencyMs <= 0 {
		errors = append(errors, "Filter max latency must be positive")
	}
	if c.Filter.MinBitrateKbps < 0 || c.Filter.MinSpeedKBps < 0 {
		errors = append(errors, "Filter minimums cannot be negative")
	}
	if !validModes[c.Filter.Mode] {
		errors = append(errors, "Filter resolution mode must be one of: "+strings.Join(sortedKeys(validModes), ", "))
	}

	if c.Output.Dir == "" {
		errors = append(errors, "Output directory is required")
	}
	if !validGroupBy[c.Output.GroupBy] {
		errors = append(errors, "Output group_by must be one of: "+strings.Join(sortedKeys(validGroupBy), ", "))
	}
	if c.Output.PerChannel <= 0 {
		errors = append(errors, "Output max sources per channel must be positive")
	}

	if !validPositions[c.UserAgents.Position] {
		errors = append(errors, "User agent position must be one of: extinf, url")
	}

	if len(c.Sources.LocalDirs) == 0 && len(c.Sources.OnlineURLs) == 0 {
		errors = append(errors, "At least one local directory or online URL is required")
	}
	for i, u := range c.Sources.OnlineURLs {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			errors = append(errors, fmt.Sprintf("Online source %d (%s): URL must be http or https", i, u))
		}
	}
	if len(c.Sources.OnlineURLs) > 0 && c.Sources.CacheDir == "" {
		errors = append(errors, "Source cache directory is required for online sources")
	}

	if c.Storage.DBPath == "" {
		errors = append(errors, "Database path is required")
	}
	if c.Storage.Retention < 0 {
		errors = append(errors, "Run retention cannot be negative")
	}

	if c.HTTP.Address == "" {
		errors = append(errors, "HTTP address is required")
	}
	if c.HTTP.Port == "" {
		errors = append(errors, "HTTP port is required")
	}
	if c.Schedule.Interval <= 0 {
		errors = append(errors, "Schedule interval must be positive")
	}

	if !validLogLevels[c.Log.Level] {
		errors = append(errors, "Log level must be one of: DEBUG, INFO, WARN, ERROR")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file, or from a legacy INI
// file when the extension is .ini or .conf.
func LoadFromFile(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".conf":
		return LoadINI(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from a file (if provided) and applies environment variable overrides
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path == "" {
		path = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(path); err == nil {
		cfg, err = LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else {
		cfg = Default()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	p := &envParser{}

	p.parseDuration("PROBE_TIMEOUT", &cfg.Testing.Timeout)
	p.parseInt("PROBE_CONCURRENCY", &cfg.Testing.Concurrency)
	p.parseDuration("PROBE_CACHE_TTL", &cfg.Testing.CacheTTL)
	p.parseBool("SPEED_TEST", &cfg.Testing.SpeedTest)
	p.parseDuration("SPEED_TEST_DURATION", &cfg.Testing.SpeedTestDuration)

	p.parseInt("FILTER_MAX_LATENCY", &cfg.Filter.MaxLatencyMs)
	p.parseInt("FILTER_MIN_BITRATE", &cfg.Filter.MinBitrateKbps)
	p.parseFloat("FILTER_MIN_DOWNLOAD_SPEED", &cfg.Filter.MinSpeedKBps)
	p.parseBool("FILTER_MUST_HD", &cfg.Filter.MustHD)
	p.parseBool("FILTER_MUST_4K", &cfg.Filter.Must4K)
	p.parseString("FILTER_MIN_RESOLUTION", &cfg.Filter.MinResolution)
	p.parseString("FILTER_MAX_RESOLUTION", &cfg.Filter.MaxResolution)
	p.parseEnum("FILTER_RESOLUTION_MODE", &cfg.Filter.Mode, strings.ToLower, validModes)

	p.parseString("OUTPUT_DIR", &cfg.Output.Dir)
	p.parseEnum("GROUP_BY", &cfg.Output.GroupBy, strings.ToLower, validGroupBy)
	p.parseInt("MAX_SOURCES_PER_CHANNEL", &cfg.Output.PerChannel)
	p.parseList("GUIDE_URLS", &cfg.Output.GuideURLs)

	p.parseBool("UA_ENABLED", &cfg.UserAgents.Enabled)
	p.parseEnum("UA_POSITION", &cfg.UserAgents.Position, strings.ToLower, validPositions)

	p.parseList("LOCAL_DIRS", &cfg.Sources.LocalDirs)
	p.parseList("ONLINE_URLS", &cfg.Sources.OnlineURLs)
	p.parseString("SOURCE_CACHE_DIR", &cfg.Sources.CacheDir)
	p.parseDuration("SOURCE_CACHE_TTL", &cfg.Sources.CacheTTL)

	p.parseString("RULES_FILE", &cfg.Rules.Path)
	p.parseString("DB_PATH", &cfg.Storage.DBPath)
	p.parseDuration("RUN_RETENTION", &cfg.Storage.Retention)

	p.parseString("HTTP_ADDRESS", &cfg.HTTP.Address)
	p.parseString("HTTP_PORT", &cfg.HTTP.Port)
	p.parseDuration("RUN_INTERVAL", &cfg.Schedule.Interval)

	p.parseEnum("LOG_LEVEL", &cfg.Log.Level, strings.ToUpper, validLogLevels)

	if err := p.err(); err != nil {
		return err
	}

	if cfg.Sources.CacheDir != "" {
		abs, err := validateCacheDir(cfg.Sources.CacheDir)
		if err != nil {
			return err
		}
		cfg.Sources.CacheDir = abs
	}
	return nil
}

// validateCacheDir validates and normalizes the cache directory path
func validateCacheDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("cache directory cannot be empty")
	}

	if !filepath.IsAbs(dir) {
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path for cache dir: %w", err)
		}
		return absPath, nil
	}

	return dir, nil
}

// SlogLevel maps Log.Level onto a slog level. Unknown levels mean Info.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogSummary logs the effective configuration.
func (c *Config) LogSummary(logger *slog.Logger) {
	logger.Info("configuration loaded",
		"probe_timeout", c.Testing.Timeout,
		"concurrency", c.Testing.Concurrency,
		"cache_ttl", c.Testing.CacheTTL,
		"speed_test", c.Testing.SpeedTest,
		"group_by", c.Output.GroupBy,
		"max_sources_per_channel", c.Output.PerChannel,
		"output_dir", c.Output.Dir,
		"local_dirs", c.Sources.LocalDirs,
		"online_sources", len(c.Sources.OnlineURLs),
		"rules", c.Rules.Path,
		"db_path", c.Storage.DBPath,
		"log_level", c.Log.Level,
	)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
