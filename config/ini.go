package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// reservedUserAgentKeys are settings in [UserAgents], not per-source agents.
var reservedUserAgentKeys = map[string]bool{"ua_position": true, "ua_enabled": true}

// LoadINI loads a legacy INI configuration. Sections and keys that are
// absent keep their defaults. Times are plain numbers: seconds for
// timeouts, minutes for cache_ttl.
func LoadINI(path string) (*Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()

	if f.HasSection("Testing") {
		sec := f.Section("Testing")
		cfg.Testing.Timeout = seconds(sec.Key("timeout"), cfg.Testing.Timeout)
		cfg.Testing.Concurrency = sec.Key("concurrent_threads").MustInt(cfg.Testing.Concurrency)
		cfg.Testing.CacheTTL = minutes(sec.Key("cache_ttl"), cfg.Testing.CacheTTL)
		cfg.Testing.SpeedTest = sec.Key("enable_speed_test").MustBool(cfg.Testing.SpeedTest)
		cfg.Testing.SpeedTestDuration = seconds(sec.Key("speed_test_duration"), cfg.Testing.SpeedTestDuration)
	}

	if f.HasSection("Filter") {
		sec := f.Section("Filter")
		cfg.Filter.MaxLatencyMs = sec.Key("max_latency").MustInt(cfg.Filter.MaxLatencyMs)
		cfg.Filter.MinBitrateKbps = sec.Key("min_bitrate").MustInt(cfg.Filter.MinBitrateKbps)
		cfg.Filter.MustHD = sec.Key("must_hd").MustBool(cfg.Filter.MustHD)
		cfg.Filter.Must4K = sec.Key("must_4k").MustBool(cfg.Filter.Must4K)
		cfg.Filter.MinSpeedKBps = sec.Key("min_speed").MustFloat64(cfg.Filter.MinSpeedKBps)
		cfg.Filter.MinResolution = sec.Key("min_resolution").MustString(cfg.Filter.MinResolution)
		cfg.Filter.MaxResolution = sec.Key("max_resolution").MustString(cfg.Filter.MaxResolution)
		cfg.Filter.Mode = sec.Key("resolution_filter_mode").MustString(cfg.Filter.Mode)
	}

	if f.HasSection("Output") {
		sec := f.Section("Output")
		if name := sec.Key("filename").String(); name != "" {
			cfg.Output.BaseName = strings.TrimSuffix(name, ".m3u")
		}
		cfg.Output.GroupBy = sec.Key("group_by").MustString(cfg.Output.GroupBy)
		cfg.Output.PerChannel = sec.Key("max_sources_per_channel").MustInt(cfg.Output.PerChannel)
		cfg.Output.Dir = sec.Key("output_dir").MustString(cfg.Output.Dir)
	}

	if f.HasSection("UserAgents") {
		sec := f.Section("UserAgents")
		cfg.UserAgents.Position = sec.Key("ua_position").MustString(cfg.UserAgents.Position)
		cfg.UserAgents.Enabled = sec.Key("ua_enabled").MustBool(cfg.UserAgents.Enabled)
		for _, key := range sec.Keys() {
			if reservedUserAgentKeys[key.Name()] {
				continue
			}
			cfg.UserAgents.Sources[key.Name()] = key.Value()
		}
	}

	if f.HasSection("Sources") {
		sec := f.Section("Sources")
		if dirs := sec.Key("local_dirs").String(); dirs != "" {
			cfg.Sources.LocalDirs = splitList(dirs, ",")
		}
		if urls := sec.Key("online_urls").String(); urls != "" {
			cfg.Sources.OnlineURLs = splitList(urls, "\n")
		}
	}

	if f.HasSection("Logging") {
		cfg.Log.Level = strings.ToUpper(f.Section("Logging").Key("level").MustString(cfg.Log.Level))
	}

	return cfg, nil
}

func seconds(k *ini.Key, def time.Duration) time.Duration {
	n := k.MustInt(-1)
	if n < 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

func minutes(k *ini.Key, def time.Duration) time.Duration {
	n := k.MustInt(-1)
	if n < 0 {
		return def
	}
	return time.Duration(n) * time.Minute
}
