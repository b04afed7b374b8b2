// config.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the configuration of the dictionary
// registry and the command line tool

/*

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.

*/

package skrafl

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// VocabularyConfig names a binary DAWG file and the locale
// of its alphabet and tile set
type VocabularyConfig struct {
	File string `mapstructure:"file"`
	// Locale is either a built-in locale identifier such
	// as "en_US" or the path of a locale YAML file
	Locale string `mapstructure:"locale"`
}

// Config contains the settings of the dictionary registry
type Config struct {
	DictDir        string                      `mapstructure:"dict_dir"`
	Vocabularies   map[string]VocabularyConfig `mapstructure:"vocabularies"`
	NodeCacheSize  int                         `mapstructure:"node_cache_size"`
	CrossCacheSize int                         `mapstructure:"cross_cache_size"`
	LogLevel       string                      `mapstructure:"log_level"`
	// Board is a built-in board layout name or the path
	// of a board layout YAML file
	Board string `mapstructure:"board"`
}

// defaultVocabularies are used when the configuration names none
func defaultVocabularies() map[string]VocabularyConfig {
	return map[string]VocabularyConfig{
		"otcwl":   {File: "otcwl2014.bin.dawg", Locale: "en_US"},
		"sowpods": {File: "sowpods.bin.dawg", Locale: "en_GB"},
		"ice":     {File: "ordalisti.bin.dawg", Locale: "is_IS"},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dict_dir", "resources")
	v.SetDefault("node_cache_size", DefaultNodeCacheSize)
	v.SetDefault("cross_cache_size", DefaultCrossCacheSize)
	v.SetDefault("log_level", "info")
	v.SetDefault("board", "standard")
}

// LoadConfig reads the configuration. Settings are taken from, in
// increasing order of precedence: built-in defaults, the YAML file
// at path (if path is not empty), and SKRAFL_* environment variables,
// which may also be given in a .env file in the working directory.
// Configured vocabularies replace the default ones rather than being
// added to them.
func LoadConfig(path string) (*Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SKRAFL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if len(cfg.Vocabularies) == 0 {
		cfg.Vocabularies = defaultVocabularies()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for obvious errors
func (cfg *Config) Validate() error {
	if cfg.NodeCacheSize <= 0 || cfg.CrossCacheSize <= 0 {
		return fmt.Errorf("cache sizes must be positive")
	}
	for name, vc := range cfg.Vocabularies {
		if vc.File == "" {
			return fmt.Errorf("vocabulary %s: no file given", name)
		}
	}
	return nil
}

// DawgOptions returns the Dawg options implied by the configuration
func (cfg *Config) DawgOptions() *DawgOptions {
	return &DawgOptions{
		NodeCacheSize:  cfg.NodeCacheSize,
		CrossCacheSize: cfg.CrossCacheSize,
	}
}

// BoardLayout returns the configured board layout
func (cfg *Config) BoardLayout() (*BoardLayout, error) {
	if strings.HasSuffix(cfg.Board, ".yaml") || strings.HasSuffix(cfg.Board, ".yml") {
		return LoadBoardLayoutFile(cfg.Board)
	}
	return BuiltinBoardLayout(cfg.Board)
}

// loadLocale returns a built-in locale or reads one from a file
func loadLocale(locale string) (*Locale, error) {
	if strings.HasSuffix(locale, ".yaml") || strings.HasSuffix(locale, ".yml") {
		return LoadLocaleFile(locale)
	}
	return BuiltinLocale(locale)
}
