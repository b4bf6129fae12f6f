// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dispatch

import (
	"fmt"
	"sort"
)

// ProviderCatalogue is the deduplicated, whole-registry provider identity
// space: one canonical (enum token, condition, loader) triple per
// human-readable condition name. Every generated resolver refers to
// providers through this catalogue.
type ProviderCatalogue struct {
	providers map[string]*Provider
	names     []string
}

// BuildProviderCatalogue scans every symbol's providers and deduplicates
// them by condition name. Two providers sharing a name must carry identical
// condition and loader text: they are the same provider observed from two
// symbols. Disagreement is invalid input.
func BuildProviderCatalogue(c *Catalogue) (*ProviderCatalogue, error) {
	pc := &ProviderCatalogue{providers: make(map[string]*Provider)}

	for _, sym := range c.Symbols() {
		for _, p := range sym.Providers() {
			canon, ok := pc.providers[p.ConditionName]
			if !ok {
				pc.providers[p.ConditionName] = p
				pc.names = append(pc.names, p.ConditionName)
				continue
			}
			if !canon.equivalent(p) {
				return nil, fmt.Errorf("%w: %q has condition %q/%q, loader %q/%q",
					ErrProviderMismatch, p.ConditionName,
					canon.Condition, p.Condition, canon.Loader, p.Loader)
			}
		}
	}

	sort.Strings(pc.names)
	return pc, nil
}

// Names returns every condition name, sorted. This is the enumeration
// order of the generated provider enum.
func (pc *ProviderCatalogue) Names() []string {
	return pc.names
}

// Get returns the canonical provider for a condition name.
func (pc *ProviderCatalogue) Get(name string) (*Provider, bool) {
	p, ok := pc.providers[name]
	return p, ok
}

// Len returns the number of distinct providers.
func (pc *ProviderCatalogue) Len() int {
	return len(pc.names)
}
