// Copyright 2025 The Driftwatch Authors. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the driftwatch runtime configuration: which sink to
// flush queues to, the SPC/PSI thresholds, and the serve loop's tick
// interval. A missing config file falls back to DefaultConfig rather than
// erroring, so the binaries run out of the box.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"driftwatch/pkg/driftprofile"
)

// SinkKind names which RecordSink implementation to construct.
type SinkKind string

const (
	SinkFile  SinkKind = "file"
	SinkRedis SinkKind = "redis"
)

// Config is the top-level driftwatch runtime configuration.
type Config struct {
	Space             string              `yaml:"space"`
	Name              string              `yaml:"name"`
	Version           string              `yaml:"version"`
	PsiThreshold      float64             `yaml:"psi_threshold"`
	SpcAlertRule      string              `yaml:"spc_alert_rule"`
	SpcZonesToMonitor []driftprofile.Zone `yaml:"spc_zones_to_monitor"`
	FlushInterval     time.Duration       `yaml:"flush_interval"`
	Sink              SinkKind            `yaml:"sink"`
	FileSinkPath      string              `yaml:"file_sink_path"`
	RedisAddr         string              `yaml:"redis_addr"`
	RedisKey          string              `yaml:"redis_key"`
}

// DefaultConfig returns sensible defaults: a file sink at ./driftwatch.jsonl,
// the conventional PSI threshold, and the default Western-Electric rule.
func DefaultConfig() *Config {
	return &Config{
		Space:             "default",
		Name:              "model",
		Version:           "0.1.0",
		PsiThreshold:      driftprofile.DefaultPsiThreshold,
		SpcAlertRule:      driftprofile.DefaultSpcAlertRule().Rule,
		SpcZonesToMonitor: driftprofile.DefaultSpcAlertRule().ZonesToMonitor,
		FlushInterval:     time.Minute,
		Sink:              SinkFile,
		FileSinkPath:      "driftwatch.jsonl",
	}
}

// Load reads YAML configuration from path, returning defaults if the file
// does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading driftwatch config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing driftwatch config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid driftwatch config: %w", err)
	}
	return cfg, nil
}

// Validate checks that loaded values are sensible.
func (c *Config) Validate() error {
	if c.PsiThreshold <= 0 {
		return fmt.Errorf("psi_threshold must be positive")
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = time.Minute
	}
	switch c.Sink {
	case SinkFile:
		if c.FileSinkPath == "" {
			return fmt.Errorf("file_sink_path required when sink is \"file\"")
		}
	case SinkRedis:
		if c.RedisAddr == "" || c.RedisKey == "" {
			return fmt.Errorf("redis_addr and redis_key required when sink is \"redis\"")
		}
	default:
		return fmt.Errorf("unknown sink kind %q", c.Sink)
	}
	return nil
}
