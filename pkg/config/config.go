// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/logutil"
)

const (
	EngineTypeMem    = "mem"
	EngineTypePebble = "pebble"

	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
	defaultDataDir     = "./mo-data/catalog"
	defaultMetricPort  = 7001
	defaultScanBatchSz = 1024
)

// Config is the configuration of the mo-catalog tool.
type Config struct {
	Log     logutil.LogConfig `toml:"log"`
	Engine  EngineConfig      `toml:"engine"`
	Catalog CatalogConfig     `toml:"catalog"`
	Metric  MetricConfig      `toml:"metric"`
}

type EngineConfig struct {
	// Type is mem or pebble
	Type string `toml:"type"`
	// DataDir is where the pebble engine keeps its files
	DataDir string `toml:"data-dir"`
	// ScanBatchRows is how many rows one scan batch carries
	ScanBatchRows int `toml:"scan-batch-rows"`
}

type CatalogConfig struct {
	// SkipCorruptEntries logs and skips rows that fail to decode when
	// listing entries, instead of failing the listing.
	SkipCorruptEntries bool `toml:"skip-corrupt-entries"`
}

type MetricConfig struct {
	Enable bool `toml:"enable"`
	Port   int  `toml:"port"`
}

// ParseConfigFromFile decodes the TOML file at path, fills in defaults
// and validates the result.
func ParseConfigFromFile(path string) (*Config, error) {
	ctx := context.Background()
	if path == "" {
		return nil, moerr.NewBadConfig(ctx, "empty config file path")
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, moerr.NewBadConfig(ctx, "decode %s: %v", path, err)
	}
	cfg.SetDefaultValues()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default filled in.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaultValues()
	return cfg
}

func (c *Config) SetDefaultValues() {
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
	if c.Engine.Type == "" {
		c.Engine.Type = EngineTypeMem
	}
	if c.Engine.Type == EngineTypePebble && c.Engine.DataDir == "" {
		c.Engine.DataDir = defaultDataDir
	}
	if c.Engine.ScanBatchRows == 0 {
		c.Engine.ScanBatchRows = defaultScanBatchSz
	}
	if c.Metric.Enable && c.Metric.Port == 0 {
		c.Metric.Port = defaultMetricPort
	}
}

func (c *Config) Validate() error {
	ctx := context.Background()
	switch c.Log.Level {
	case "debug", "info", "warn", "error", "dpanic", "panic", "fatal":
	default:
		return moerr.NewBadConfig(ctx, "invalid log level %s", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return moerr.NewBadConfig(ctx, "invalid log format %s", c.Log.Format)
	}
	switch c.Engine.Type {
	case EngineTypeMem:
	case EngineTypePebble:
		c.Engine.DataDir = filepath.Clean(c.Engine.DataDir)
	default:
		return moerr.NewBadConfig(ctx, "invalid engine type %s", c.Engine.Type)
	}
	if c.Engine.ScanBatchRows < 0 {
		return moerr.NewBadConfig(ctx, "invalid scan batch rows %d", c.Engine.ScanBatchRows)
	}
	if c.Metric.Enable && (c.Metric.Port <= 0 || c.Metric.Port > 65535) {
		return moerr.NewBadConfig(ctx, "invalid metric port %d", c.Metric.Port)
	}
	return nil
}
