// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dispatch

import (
	"fmt"
	"strings"
)

// registerArgWindow is how many leading arguments the common x86-64 calling
// convention passes in 64-bit registers. Within that window the GLhandleARB
// compatibility cast below is binary-safe.
const registerArgWindow = 6

// wrappedSymbols have hand-written wrapper logic in the runtime support
// library interposing their public name, so their generated dispatch entry
// keeps a distinct non-exported name.
var wrappedSymbols = map[string]struct{}{
	"glBegin": {},
	"glEnd":   {},
}

// Arg is one declared function argument.
type Arg struct {
	Type string
	Name string
}

// Symbol is one API function: its signature, its providers, and its place
// in an alias unit.
type Symbol struct {
	// Name is the canonical registry name.
	Name string

	// RetType is the prototype text preceding the name.
	RetType string

	// Args are the declared arguments in order.
	Args []Arg

	// WrappedName is the name used for the generated dispatch symbol;
	// equal to Name except for wrapped symbols.
	WrappedName string

	// Public is the storage attribute for the generated entry point:
	// "PUBLIC " normally, "" for wrapped symbols.
	Public string

	// AliasName starts as the registry's declared alias target (or the
	// symbol's own name) and, after ResolveAliases, is the alias root's
	// name.
	AliasName string

	// AliasOf is the alias unit's root, nil when this symbol is a root.
	AliasOf *Symbol

	// Aliases lists the symbols aliasing this root, in discovery order.
	Aliases []*Symbol

	providers     []*Provider
	providerIndex map[string]int

	argsDecl string
	argsList string
}

// NewSymbol creates a Symbol with no arguments or providers.
func NewSymbol(name, retType string) *Symbol {
	s := &Symbol{
		Name:          name,
		RetType:       retType,
		WrappedName:   name,
		Public:        "PUBLIC ",
		AliasName:     name,
		providerIndex: make(map[string]int),
		argsDecl:      "void",
	}
	if _, ok := wrappedSymbols[name]; ok {
		s.WrappedName = name + "_unwrapped"
		s.Public = ""
	}
	return s
}

// AddArg appends one declared argument, applying the two mandatory
// normalizations: renaming arguments that collide with win32 header macros,
// and casting the misdefined pointer-sized GLhandleARB through uintptr_t so
// its alias pairing with GLuint-typed counterparts stays binary-compatible.
func (s *Symbol) AddArg(typ, name string) error {
	// "near" and "far" are #defines in win32 headers.
	switch name {
	case "near":
		name = "hither"
	case "far":
		name = "yon"
	}

	listName := name
	if typ == "GLhandleARB" {
		// The cast trick only holds while the argument is passed in a
		// register; a stack-passed GLhandleARB would need real conversion.
		if len(s.Args) >= registerArgWindow {
			return fmt.Errorf("%w: %s argument %q at position %d", ErrCastWindow, s.Name, name, len(s.Args))
		}
		listName = "(uintptr_t)" + name
	}

	s.Args = append(s.Args, Arg{Type: typ, Name: name})
	if s.argsDecl == "void" {
		s.argsList = listName
		s.argsDecl = typ + " " + name
	} else {
		s.argsList += ", " + listName
		s.argsDecl += ", " + typ + " " + name
	}
	return nil
}

// AddProvider attaches a provider under its condition name. A repeated
// condition name replaces the earlier entry without changing its position
// in discovery order.
func (s *Symbol) AddProvider(condition, loader, conditionName string) {
	p := &Provider{
		Condition:     condition,
		ConditionName: conditionName,
		Loader:        loader,
		Name:          s.Name,
	}
	if i, ok := s.providerIndex[conditionName]; ok {
		s.providers[i] = p
		return
	}
	s.providerIndex[conditionName] = len(s.providers)
	s.providers = append(s.providers, p)
}

// ClearProviders drops every attached provider. Used by the bootstrap
// fixup, which replaces the general mechanism outright.
func (s *Symbol) ClearProviders() {
	s.providers = nil
	s.providerIndex = make(map[string]int)
}

// Providers returns this symbol's own providers in discovery order.
func (s *Symbol) Providers() []*Provider {
	return s.providers
}

// UnitProviders returns the providers of the whole alias unit rooted at
// this symbol: its own first, then each aliasing symbol's, preserving
// discovery order throughout. Earlier entries are tried first at runtime.
func (s *Symbol) UnitProviders() []*Provider {
	out := make([]*Provider, 0, len(s.providers))
	out = append(out, s.providers...)
	for _, alias := range s.Aliases {
		out = append(out, alias.providers...)
	}
	return out
}

// IsRoot reports whether this symbol heads its alias unit.
func (s *Symbol) IsRoot() bool {
	return s.AliasOf == nil
}

// PtrType is the function-pointer typedef name for this symbol.
func (s *Symbol) PtrType() string {
	return "PFN" + strings.ToUpper(s.Name) + "PROC"
}

// ArgsDecl is the C parameter declaration list ("void" when empty).
func (s *Symbol) ArgsDecl() string {
	return s.argsDecl
}

// ArgsList is the C argument forwarding list, casts applied.
func (s *Symbol) ArgsList() string {
	return s.argsList
}
