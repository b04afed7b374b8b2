// config_test.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.
// This file contains tests for the configuration and the vocabulary registry

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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	fileName := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fileName, []byte(contents), 0o644))
	return fileName
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "resources", cfg.DictDir)
	assert.Equal(t, DefaultNodeCacheSize, cfg.NodeCacheSize)
	assert.Equal(t, DefaultCrossCacheSize, cfg.CrossCacheSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, VocabularyConfig{File: "otcwl2014.bin.dawg", Locale: "en_US"}, cfg.Vocabularies["otcwl"])
	assert.Equal(t, "is_IS", cfg.Vocabularies["ice"].Locale)
	assert.Len(t, cfg.Vocabularies, 3)

	layout, err := cfg.BoardLayout()
	require.NoError(t, err)
	assert.Equal(t, "standard", layout.Name)
	assert.Equal(t, &DawgOptions{NodeCacheSize: DefaultNodeCacheSize, CrossCacheSize: DefaultCrossCacheSize}, cfg.DawgOptions())
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("SKRAFL_NODE_CACHE_SIZE", "100")
	t.Setenv("SKRAFL_LOG_LEVEL", "debug")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.NodeCacheSize)
	assert.Equal(t, "debug", cfg.LogLevel)

	t.Setenv("SKRAFL_CROSS_CACHE_SIZE", "0")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	fileName := writeFile(t, dir, "skrafl.yaml", `
dict_dir: /var/lib/skrafl
log_level: warn
board: standard
vocabularies:
  small:
    file: small.bin.dawg
    locale: en_GB
`)
	cfg, err := LoadConfig(fileName)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/skrafl", cfg.DictDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	// Configured vocabularies replace the built-in ones
	assert.Equal(t, map[string]VocabularyConfig{
		"small": {File: "small.bin.dawg", Locale: "en_GB"},
	}, cfg.Vocabularies)
	assert.NotContains(t, cfg.Vocabularies, "otcwl")

	fileName = writeFile(t, dir, "nofile.yaml", "vocabularies:\n  small:\n    locale: en_GB\n")
	_, err = LoadConfig(fileName)
	assert.Error(t, err)

	fileName = writeFile(t, dir, "nocache.yaml", "node_cache_size: 0\n")
	_, err = LoadConfig(fileName)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	cfg.Board = "hexagonal"
	_, err = cfg.BoardLayout()
	assert.Error(t, err)
	cfg.Board = filepath.Join("resources", "boards", "standard.yaml")
	layout, err := cfg.BoardLayout()
	require.NoError(t, err)
	assert.Equal(t, StandardLayout.WordMultipliers, layout.WordMultipliers)
}

func TestLoadConfigRegistry(t *testing.T) {
	dir := t.TempDir()
	_, data := packWords(t, "do", "dog")
	writeFile(t, dir, "mine.bin.dawg", string(data))
	fileName := writeFile(t, dir, "skrafl.yaml", "dict_dir: "+dir+`
vocabularies:
  mine:
    file: mine.bin.dawg
    locale: en_US
`)
	cfg, err := LoadConfig(fileName)
	require.NoError(t, err)
	reg, err := LoadRegistry(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, reg.Names())
	mine, ok := reg.Get("mine")
	require.True(t, ok)
	assert.True(t, mine.Dawg.Find("dog"))
}

// testRegistryConfig writes an English and an Icelandic DAWG
// into a temporary directory and returns a configuration for them
func testRegistryConfig(t *testing.T) *Config {
	dir := t.TempDir()
	_, data := packWords(t, "cat", "cats", "do", "dog", "dogs")
	writeFile(t, dir, "small.bin.dawg", string(data))

	icelandic := MustBuiltinLocale("is_IS")
	builder := NewDawgBuilder(icelandic.Alphabet)
	for _, word := range []string{"ar", "ás", "öl"} {
		require.NoError(t, builder.Insert(word))
	}
	data, err := builder.Pack()
	require.NoError(t, err)
	icelandicFile := writeFile(t, t.TempDir(), "litill.bin.dawg", string(data))

	return &Config{
		DictDir: dir,
		Vocabularies: map[string]VocabularyConfig{
			"small":  {File: "small.bin.dawg", Locale: "en_US"},
			"uk":     {File: "small.bin.dawg", Locale: filepath.Join("resources", "locales", "en_GB.yaml")},
			"litill": {File: icelandicFile, Locale: "is_IS"},
		},
		NodeCacheSize:  64,
		CrossCacheSize: 64,
	}
}

func TestLoadRegistry(t *testing.T) {
	cfg := testRegistryConfig(t)
	reg, err := LoadRegistry(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"litill", "small", "uk"}, reg.Names())

	small, ok := reg.Get("small")
	require.True(t, ok)
	assert.Equal(t, "en_US", small.Locale.Name)
	assert.True(t, small.Dawg.Find("dogs"))
	assert.False(t, small.Dawg.Find("ás"))

	litill, ok := reg.Get("litill")
	require.True(t, ok)
	assert.True(t, litill.Dawg.Find("ás"))
	assert.Equal(t, []string{"ar", "ás", "öl"}, litill.Dawg.Match("??"))

	_, ok = reg.Get("otcwl")
	assert.False(t, ok)

	v, err := reg.ForLocale("en")
	require.NoError(t, err)
	assert.Equal(t, "uk", v.Name)
	v, err = reg.ForLocale("is-IS")
	require.NoError(t, err)
	assert.Equal(t, "litill", v.Name)
	v, err = reg.ForLocale("")
	require.NoError(t, err)
	assert.Equal(t, "small", v.Name)

	// The registry can be shared between goroutines
	done := make(chan bool)
	for _, name := range reg.Names() {
		go func() {
			v, _ := reg.Get(name)
			done <- len(v.Dawg.Permute("dogs?", 2)) > 0
		}()
	}
	for range reg.Names() {
		<-done
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	cfg := testRegistryConfig(t)
	cfg.Vocabularies["missing"] = VocabularyConfig{File: "missing.bin.dawg", Locale: "en_US"}
	_, err := LoadRegistry(context.Background(), cfg)
	assert.ErrorContains(t, err, "missing")

	cfg = testRegistryConfig(t)
	cfg.Vocabularies["badlocale"] = VocabularyConfig{File: "small.bin.dawg", Locale: "nowhere.yaml"}
	_, err = LoadRegistry(context.Background(), cfg)
	assert.Error(t, err)

	// A root node that claims more edges than the file holds
	cfg = testRegistryConfig(t)
	writeFile(t, cfg.DictDir, "corrupt.bin.dawg", "\x05\x01")
	cfg.Vocabularies["corrupt"] = VocabularyConfig{File: "corrupt.bin.dawg", Locale: "en_US"}
	_, err = LoadRegistry(context.Background(), cfg)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadRegistry(ctx, testRegistryConfig(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRegistry(t *testing.T) {
	dawg := buildTestDawg(t, "cat")
	v := &Vocabulary{Name: "cat", Locale: testLocale, Dawg: dawg}
	reg, err := NewRegistry(v)
	require.NoError(t, err)
	_, err = reg.ForLocale("is")
	assert.Error(t, err)

	_, err = NewRegistry(v, v)
	assert.Error(t, err)
	_, err = NewRegistry(&Vocabulary{Name: "x", Locale: testLocale})
	assert.Error(t, err)
	_, err = NewRegistry(nil)
	assert.Error(t, err)
}
