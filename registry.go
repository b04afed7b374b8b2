// registry.go
// Copyright (C) 2023 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements a registry of the loaded vocabularies,
// i.e. binary DAWG dictionaries together with their locales

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
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Vocabulary is a named dictionary and the locale it belongs to
type Vocabulary struct {
	Name   string
	Locale *Locale
	Dawg   *Dawg
}

// Registry maps vocabulary names to loaded vocabularies.
// A Registry is immutable once created and may be shared
// freely between goroutines.
type Registry struct {
	vocabularies map[string]*Vocabulary
}

// NewRegistry creates a Registry from a set of vocabularies,
// which must have distinct names
func NewRegistry(vocabularies ...*Vocabulary) (*Registry, error) {
	reg := &Registry{vocabularies: make(map[string]*Vocabulary, len(vocabularies))}
	for _, v := range vocabularies {
		if v == nil || v.Dawg == nil || v.Locale == nil {
			return nil, fmt.Errorf("incomplete vocabulary")
		}
		if _, ok := reg.vocabularies[v.Name]; ok {
			return nil, fmt.Errorf("duplicate vocabulary '%s'", v.Name)
		}
		reg.vocabularies[v.Name] = v
	}
	return reg, nil
}

// LoadRegistry loads all vocabularies named in the configuration,
// concurrently. It fails if any of them fails to load.
func LoadRegistry(ctx context.Context, cfg *Config) (*Registry, error) {
	names := lo.Keys(cfg.Vocabularies)
	sort.Strings(names)
	loaded := make([]*Vocabulary, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			vc := cfg.Vocabularies[name]
			locale, err := loadLocale(vc.Locale)
			if err != nil {
				return fmt.Errorf("vocabulary %s: %w", name, err)
			}
			fileName := vc.File
			if !filepath.IsAbs(fileName) {
				fileName = filepath.Join(cfg.DictDir, fileName)
			}
			dawg, err := LoadDawg(fileName, locale.Alphabet, cfg.DawgOptions())
			if err != nil {
				return fmt.Errorf("vocabulary %s: %w", name, err)
			}
			loaded[i] = &Vocabulary{Name: name, Locale: locale, Dawg: dawg}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug().Strs("vocabularies", names).Msg("registry loaded")
	return NewRegistry(loaded...)
}

// Get returns the vocabulary with the given name
func (reg *Registry) Get(name string) (*Vocabulary, bool) {
	v, ok := reg.vocabularies[name]
	return v, ok
}

// Names returns the sorted names of the registered vocabularies
func (reg *Registry) Names() []string {
	names := lo.Keys(reg.vocabularies)
	sort.Strings(names)
	return names
}

// ForLocale returns the first vocabulary, by name, whose locale
// matches the given locale identifier after resolution
func (reg *Registry) ForLocale(locale string) (*Vocabulary, error) {
	resolved := ResolveLocale(locale)
	for _, name := range reg.Names() {
		if v := reg.vocabularies[name]; v.Locale.Name == resolved {
			return v, nil
		}
	}
	return nil, fmt.Errorf("no vocabulary for locale '%s'", locale)
}
