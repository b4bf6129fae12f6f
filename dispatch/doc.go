// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package dispatch builds the resolution model for a lazy GL dispatch layer.
//
// The model answers one question per API function: in how many ways can its
// address be obtained at runtime, and under which conditions? Each way is a
// Provider (a runtime condition plus a loader expression). Functions that
// the registry declares as aliases of each other are collapsed into one
// alias unit whose root carries the union of all providers, so that any
// historical spelling of an entry point can satisfy a call to any other.
//
// The pipeline over a parsed registry is:
//
//	Build            commands -> Symbol catalogue
//	BindProviders    features/extensions -> Providers on each Symbol
//	DropNonPortable  remove symbols with untypeable legacy arguments
//	ResolveAliases   flatten alias chains to single-hop units
//	FixupBootstrap   pin the three self-referential symbols
//	BuildProviderCatalogue  dedup providers by condition name
//	BuildEntrypoints intern canonical names into one 16-bit-offset blob
//
// Every stage returns an error on invariant violation; a partially built
// model is never emitted.
package dispatch
