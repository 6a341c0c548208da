// Copyright 2020 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmpconfig loads cmpctl's configuration file with
// spf13/viper, in viper's standard idiom: a fresh *viper.Viper instance
// bound to CMPCTL_-prefixed environment variables with config-file
// values as fallback.
package cmpconfig

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the shape cmpctl's subcommands read their defaults from.
type Config struct {
	Endpoint       string        `mapstructure:"endpoint"`
	KeyFile        string        `mapstructure:"key_file"`
	CertFile       string        `mapstructure:"cert_file"`
	CAFile         string        `mapstructure:"ca_file"`
	TotalTimeout   time.Duration `mapstructure:"total_timeout"`
	MessageTimeout time.Duration `mapstructure:"message_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	TracingAgent   string        `mapstructure:"tracing_agent"`
}

// Default returns Config's zero-value-safe defaults.
func Default() Config {
	return Config{
		Endpoint:       "http://127.0.0.1:8080/cmp",
		TotalTimeout:   5 * time.Minute,
		MessageTimeout: 30 * time.Second,
		LogLevel:       "info",
	}
}

// Load reads configFile (if non-empty) and CMPCTL_-prefixed environment
// variables on top of Default, using viper's AutomaticEnv/Unmarshal idiom.
func Load(configFile string) (Config, error) {
	v := viper.New()
	cfg := Default()

	v.SetEnvPrefix("CMPCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("endpoint", cfg.Endpoint)
	v.SetDefault("total_timeout", cfg.TotalTimeout)
	v.SetDefault("message_timeout", cfg.MessageTimeout)
	v.SetDefault("log_level", cfg.LogLevel)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
