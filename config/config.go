// Package config loads the reply reduction settings from TOML.
//
// Every key is optional and overlays the defaults:
//
//	msg_pool_size = 128
//	severity = [
//	  ["unknown", "found", "notfound", "stored", "deleted", "touched", ...],
//	  ["busy", "try_again"],
//	  ...
//	]
//
//	[tko]
//	min_requests = 3
//	failure_ratio = 0.6
//	interval = "10s"
//	timeout = "5s"
//	max_probes = 1
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pior/mcroute/result"
	"github.com/pior/mcroute/route"
)

var ErrUnknownKey = errors.New("config: unknown key")

type Config struct {
	Severity    *result.Policy
	Tko         route.TkoConfig
	MsgPoolSize int32
}

func Default() Config {
	return Config{
		Severity:    result.DefaultPolicy,
		Tko:         route.DefaultTkoConfig(),
		MsgPoolSize: 128,
	}
}

type fileConfig struct {
	Severity    [][]string `toml:"severity"`
	MsgPoolSize int32      `toml:"msg_pool_size"`
	Tko         struct {
		MinRequests  uint32  `toml:"min_requests"`
		FailureRatio float64 `toml:"failure_ratio"`
		Interval     string  `toml:"interval"`
		Timeout      string  `toml:"timeout"`
		MaxProbes    uint32  `toml:"max_probes"`
	} `toml:"tko"`
}

// Load reads the file at path.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return build(raw, meta)
}

// Parse reads a configuration from a TOML document.
func Parse(doc string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(doc, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return build(raw, meta)
}

func build(raw fileConfig, meta toml.MetaData) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w %q", ErrUnknownKey, undecoded[0].String())
	}

	cfg := Default()

	if meta.IsDefined("severity") {
		policy, err := parseSeverity(raw.Severity)
		if err != nil {
			return Config{}, err
		}
		cfg.Severity = policy
	}

	if meta.IsDefined("msg_pool_size") {
		if raw.MsgPoolSize <= 0 {
			return Config{}, fmt.Errorf("parse msg_pool_size: must be positive, got %d", raw.MsgPoolSize)
		}
		cfg.MsgPoolSize = raw.MsgPoolSize
	}

	if meta.IsDefined("tko", "min_requests") {
		cfg.Tko.MinRequests = raw.Tko.MinRequests
	}

	if meta.IsDefined("tko", "failure_ratio") {
		if raw.Tko.FailureRatio <= 0 || raw.Tko.FailureRatio > 1 {
			return Config{}, fmt.Errorf("parse tko.failure_ratio: must be in (0, 1], got %v", raw.Tko.FailureRatio)
		}
		cfg.Tko.FailureRatio = raw.Tko.FailureRatio
	}

	if meta.IsDefined("tko", "interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Tko.Interval))
		if err != nil {
			return Config{}, fmt.Errorf("parse tko.interval: %w", err)
		}
		cfg.Tko.Interval = d
	}

	if meta.IsDefined("tko", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Tko.Timeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse tko.timeout: %w", err)
		}
		cfg.Tko.Timeout = d
	}

	if meta.IsDefined("tko", "max_probes") {
		cfg.Tko.MaxProbes = raw.Tko.MaxProbes
	}

	return cfg, nil
}

func parseSeverity(tiers [][]string) (*result.Policy, error) {
	ranking := make(result.Ranking, 0, len(tiers))
	for _, tier := range tiers {
		codes := make([]result.Code, 0, len(tier))
		for _, name := range tier {
			c, err := result.ParseCode(strings.TrimSpace(name))
			if err != nil {
				return nil, fmt.Errorf("parse severity: %w", err)
			}
			codes = append(codes, c)
		}
		ranking = append(ranking, codes)
	}

	policy, err := result.NewPolicy(ranking)
	if err != nil {
		return nil, fmt.Errorf("parse severity: %w", err)
	}
	return policy, nil
}
