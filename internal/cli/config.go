/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"dirpx.dev/cfx/apis"
	"dirpx.dev/cfx/config"
	"dirpx.dev/cfx/internal/logger"
	"dirpx.dev/cfx/internal/tracing"
)

const (
	configFileName = "cfx"
	configFileType = "yaml"
	envPrefix      = "CFX"

	// Config keys.
	cfgKeyBasename       = "basename"
	cfgKeyPrefixes       = "prefixes"
	cfgKeyTransforms     = "transforms"
	cfgKeyLiteralMarker  = "literal_marker"
	cfgKeyCatalog        = "catalog"
	cfgKeyRegistryKind   = "registry.backend"
	cfgKeyRegistryPath   = "registry.path"
	cfgKeyLogLevel       = "log.level"
	cfgKeyLogFormat      = "log.format"
	cfgKeyLogPath        = "log.path"
	cfgKeyTracingEnabled = "tracing.enabled"
	cfgKeyTracingExport  = "tracing.exporter"
	cfgKeyTracingFile    = "tracing.file_path"
	cfgKeyTracingOTLP    = "tracing.otlp_endpoint"
	cfgKeyTracingRate    = "tracing.sample_rate"
	cfgKeyTracingService = "tracing.service_name"

	backendMemory = "memory"
	backendSQLite = "sqlite"
)

// settings is the decoded form of cfx.yaml.
type settings struct {
	Basename      string               `mapstructure:"basename"`
	Prefixes      []prefixRule         `mapstructure:"prefixes"`
	Transforms    []apis.TransformSpec `mapstructure:"transforms"`
	LiteralMarker bool                 `mapstructure:"literal_marker"`
	Catalog       string               `mapstructure:"catalog"`
	Registry      registrySettings     `mapstructure:"registry"`
	Log           logSettings          `mapstructure:"log"`
	Tracing       tracing.Config       `mapstructure:"tracing"`
}

// prefixRule is one rewrite rule. Rules are a list rather than a mapping
// because viper lower-cases mapping keys.
type prefixRule struct {
	Prefix    string `mapstructure:"prefix"`
	Expansion string `mapstructure:"expansion"`
}

type registrySettings struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type logSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// loadSettings reads path (or ./cfx.yaml when empty) with CFX_* environment
// overrides. A missing default config file is not an error.
func loadSettings(path string) (settings, error) {
	v := viper.New()
	tc := tracing.DefaultConfig()

	v.SetDefault(cfgKeyBasename, "App")
	v.SetDefault(cfgKeyLiteralMarker, true)
	v.SetDefault(cfgKeyCatalog, "units")
	v.SetDefault(cfgKeyRegistryKind, backendMemory)
	v.SetDefault(cfgKeyRegistryPath, ".cfx/journal.db")
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetDefault(cfgKeyLogPath, "")
	v.SetDefault(cfgKeyTracingEnabled, tc.Enabled)
	v.SetDefault(cfgKeyTracingExport, tc.Exporter)
	v.SetDefault(cfgKeyTracingFile, tc.FilePath)
	v.SetDefault(cfgKeyTracingOTLP, tc.OTLPEndpoint)
	v.SetDefault(cfgKeyTracingRate, tc.SampleRate)
	v.SetDefault(cfgKeyTracingService, tc.ServiceName)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// compositorConfig turns settings into a validated apis.Config.
func (s settings) compositorConfig() (apis.Config, error) {
	opts := []config.Option{
		config.WithBasename(s.Basename),
		config.WithPostTransforms(s.Transforms...),
	}
	if s.LiteralMarker {
		opts = append(opts, config.WithLiteralMarker())
	}
	for _, r := range s.Prefixes {
		opts = append(opts, config.WithPrefix(r.Prefix, r.Expansion))
	}
	cfg := config.NewConfig(opts...)
	if err := config.Validate(cfg); err != nil {
		return apis.Config{}, err
	}
	return cfg, nil
}

// loggerConfig maps the log section, applying a --log-level override.
func (s settings) loggerConfig(override string) logger.Config {
	c := logger.Config{Level: s.Log.Level, Format: s.Log.Format, Path: s.Log.Path}
	if override != "" {
		c.Level = override
	}
	return c
}
