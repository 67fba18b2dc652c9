// Copyright 2025 VisualFlow Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package providers contains the boundary components that talk to external
// media and AI services. This file defines the application configuration,
// loaded from TOML files with a hierarchical override scheme: a base
// ".env.toml" file is read first, then an environment-specific
// ".env.<runtime>.toml" file overwrites any values it repeats. The config
// directory and runtime name come from environment variables so that
// local, test, and production setups can coexist.
//
// Structs:
//   - ProviderConfig: credential, enabled flag, endpoint, and rate limit
//     for one media-search provider.
//   - GeminiConfig: credential and generation settings for the AI-assisted
//     query builder.
//   - Defaults: default orientation, vibe, color grade, and AI toggle for
//     a processing run.
//   - Config: the top-level aggregate.
//
// Functions:
//   - NewConfig: constructor that initializes the provider map.
//   - LoadConfig: the hierarchical TOML loader.
package providers

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Configuration loading constants.
const (
	ConfigFileBaseName  = ".env"             // Base name for configuration files (".env.toml").
	ConfigFileExtension = ".toml"            // Extension for configuration files.
	ConfigSeparator     = "."                // Separator in override file names (".env.local.toml").
	EnvConfigFilePrefix = "VF_CONFIG_PREFIX" // Env var naming the config directory.
	EnvConfigRuntime    = "VF_RUNTIME"       // Env var naming the runtime ("local", "test", "prod").
)

// Provider keys used in the [providers] TOML table and the client container.
const (
	ProviderKeyPexels    = "pexels"
	ProviderKeyPixabay   = "pixabay"
	ProviderKeyCoverr    = "coverr"
	ProviderKeyFreesound = "freesound"
)

// ProviderConfig holds the settings for a single media-search provider.
type ProviderConfig struct {
	APIKey            string `toml:"api_key"`             // The provider credential; empty disables the adapter.
	Enabled           bool   `toml:"enabled"`             // Administrative toggle, independent of the credential.
	Endpoint          string `toml:"endpoint"`            // Search endpoint URL; tests point this at a local server.
	RequestsPerSecond int    `toml:"requests_per_second"` // Rate limit applied to outbound calls.
}

// GeminiConfig holds the settings for the AI-assisted query builder.
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Gemini API key; empty disables AI query generation.
	Model       string  `toml:"model"`       // Model name, e.g. "gemini-2.5-flash".
	Temperature float32 `toml:"temperature"` // Sampling temperature.
	TopP        float32 `toml:"top_p"`       // Nucleus sampling parameter.
	TopK        float32 `toml:"top_k"`       // Top-k sampling parameter.
	MaxTokens   int32   `toml:"max_tokens"`  // Output token cap; queries are 2-4 words so this stays small.
	QueryMode   string  `toml:"query_mode"`  // "literal" or "metaphorical" instruction mode.
	RateLimit   int     `toml:"rate_limit"`  // Requests per second against the model.
}

// Defaults holds the run-level settings a request may omit.
type Defaults struct {
	Orientation string `toml:"orientation"` // "landscape" or "portrait".
	Vibe        string `toml:"vibe"`        // Aesthetic keyword vocabulary entry.
	ColorGrade  string `toml:"color_grade"` // Color treatment vocabulary entry.
	UseAI       bool   `toml:"use_ai"`      // Whether AI-assisted query building is on by default.
}

// Config is the top-level application configuration loaded from TOML.
type Config struct {
	Application struct {
		Name string `toml:"name"` // Service name, used in telemetry resources.
		Port int    `toml:"port"` // HTTP listen port.
	} `toml:"application"`
	Providers map[string]ProviderConfig `toml:"providers"` // Keyed by the ProviderKey* constants.
	Gemini    GeminiConfig              `toml:"gemini"`
	Defaults  Defaults                  `toml:"defaults"`
}

// NewConfig creates a Config with its provider map initialized, so the TOML
// decoder never writes into a nil map.
func NewConfig() *Config {
	return &Config{Providers: make(map[string]ProviderConfig)}
}

// Provider returns the named provider's configuration, zero-valued when the
// config file omits it. A zero value means disabled and uncredentialed,
// which every adapter treats as "contribute nothing".
func (c *Config) Provider(key string) ProviderConfig {
	return c.Providers[key]
}

// fileExists reports whether a file exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig populates baseConfig from the hierarchical TOML files. The
// base file is optional; so is the override. Decoding errors are fatal
// because the application cannot run on a half-read configuration.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		if _, err := toml.DecodeFile(baseConfigFileName, baseConfig); err != nil {
			slog.Error("failed to decode base configuration file", "file", baseConfigFileName, "error", err)
			os.Exit(1)
		}
	}

	// Values in the runtime-specific file overwrite the base values.
	if fileExists(envConfigFileName) {
		if _, err := toml.DecodeFile(envConfigFileName, baseConfig); err != nil {
			slog.Error("failed to decode environment configuration file", "file", envConfigFileName, "error", err)
			os.Exit(1)
		}
	}
}
