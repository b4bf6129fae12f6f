// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dispatch

import "strings"

// Provider is one way of obtaining one symbol's address at artifact
// runtime: a C boolean expression guarding availability, and a loader
// expression template producing the address.
type Provider struct {
	// Condition is C code deciding whether this provider is usable in the
	// running context (e.g. `gld_is_desktop_gl() && gld_conservative_gl_version() >= 20`).
	Condition string

	// ConditionName is the human-readable description of Condition. It
	// doubles as the provider's identity for deduplication and as the
	// diagnostic string printed on resolution failure.
	ConditionName string

	// Loader is a %s-template of C code fetching the address, given an
	// expression for the entrypoint name string.
	Loader string

	// Name is the entrypoint to load, possibly a vendor-suffixed variant
	// of the symbol the provider is attached to.
	Name string
}

// EnumToken derives the C enumerator used to refer to this provider,
// by normalizing the condition name's punctuation and whitespace.
func (p *Provider) EnumToken() string {
	tok := strings.ReplaceAll(p.ConditionName, " ", "_")
	tok = strings.ReplaceAll(tok, `\"`, "")
	tok = strings.ReplaceAll(tok, ".", "_")
	return tok
}

// equivalent reports whether two providers carry identical condition and
// loader text. Providers sharing a condition name must be equivalent.
func (p *Provider) equivalent(o *Provider) bool {
	return p.Condition == o.Condition && p.Loader == o.Loader
}
