// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package cback renders the generated C artifacts: one header and one
// dispatch source per target API family.
//
// The header declares the target's type aliases, constants, presence
// macros, function-pointer typedefs and the public entry points, redirected
// via #define onto the generated dispatch symbols. The source carries the
// provider enumeration, the interned entrypoint name blob, the generic
// provider-resolution routine, one resolver per alias unit, and both
// dispatch shapes: the per-context indirection table (rewrite stubs behind
// GLD_USING_DISPATCH_TABLE) and the self-overwriting global function
// pointers. Which shape is live is decided when the artifact is compiled,
// once per target.
//
// Rendering is deterministic: the same catalogue always produces
// byte-identical artifacts.
package cback
