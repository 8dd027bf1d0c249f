// Copyright 2025 The Rivaas Authors
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

package main

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"

	"rivaas.dev/dispatch/codec"
)

// Config is the dispatchctl configuration file.
//
//	declarations: [routes/app.yaml]
//	consul: { address: "127.0.0.1:8500", key: dispatch/routes, format: yaml }
//	redis: { address: "127.0.0.1:6379", key: "dispatch:routes", format: json }
//	log: { level: debug, format: console }
//	metrics: { provider: prometheus }
//	tracing: { provider: otlp, endpoint: "localhost:4317", insecure: true }
//	addr: ":8080"
type Config struct {
	Declarations []string      `mapstructure:"declarations"`
	Consul       ConsulConfig  `mapstructure:"consul"`
	Redis        RedisConfig   `mapstructure:"redis"`
	Log          LogConfig     `mapstructure:"log"`
	Metrics      MetricsConfig `mapstructure:"metrics"`
	Tracing      TracingConfig `mapstructure:"tracing"`
	Addr         string        `mapstructure:"addr"`
}

// ConsulConfig points at a declaration document stored in Consul KV.
// An empty key disables the Consul source.
type ConsulConfig struct {
	Address string `mapstructure:"address"`
	Key     string `mapstructure:"key"`
	Format  string `mapstructure:"format"`
}

// RedisConfig points at a declaration document stored in a Redis string key.
// An empty key disables the Redis source.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
	Format   string `mapstructure:"format"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig selects the metrics provider of the serve command.
type MetricsConfig struct {
	Provider string `mapstructure:"provider"`
	Endpoint string `mapstructure:"endpoint"`
}

// TracingConfig selects the tracing provider. A sample rate of 0 means 1.
type TracingConfig struct {
	Provider   string  `mapstructure:"provider"`
	Endpoint   string  `mapstructure:"endpoint"`
	Insecure   bool    `mapstructure:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

func defaultConfig() Config {
	return Config{
		Consul:  ConsulConfig{Format: string(codec.TypeYAML)},
		Redis:   RedisConfig{Address: "127.0.0.1:6379", Format: string(codec.TypeYAML)},
		Log:     LogConfig{Level: "info", Format: "console"},
		Metrics: MetricsConfig{Provider: "prometheus"},
		Tracing: TracingConfig{Provider: "noop", SampleRate: 1},
		Addr:    ":8080",
	}
}

// loadConfig reads path (when set), applies overrides, then fills the
// remaining zero fields from the defaults.
func loadConfig(path string, overrides Config) (Config, error) {
	var cfg Config

	if path != "" {
		values, err := readConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		})
		if err != nil {
			return Config{}, fmt.Errorf("failed to create config decoder: %w", err)
		}
		if err = dec.Decode(values); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := mergo.Merge(&cfg, overrides, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("failed to apply flags: %w", err)
	}
	if err := mergo.Merge(&cfg, defaultConfig()); err != nil {
		return Config{}, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

func readConfigFile(path string) (map[string]any, error) {
	decoder, err := codec.DecoderFor(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var values map[string]any
	if err = decoder.Decode(data, &values); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return values, nil
}
