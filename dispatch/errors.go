// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dispatch

import "errors"

var (
	// ErrTransitiveAlias reports an alias chain deeper than one hop after
	// flattening. The registry promises single-hop aliasing; anything else
	// is invalid input.
	ErrTransitiveAlias = errors.New("dispatch: transitive alias")

	// ErrProviderMismatch reports two providers sharing a condition name
	// but disagreeing on condition or loader text.
	ErrProviderMismatch = errors.New("dispatch: provider mismatch")

	// ErrNameTableOverflow reports an entrypoint name blob that no longer
	// fits 16-bit offsets.
	ErrNameTableOverflow = errors.New("dispatch: entrypoint name table exceeds 16-bit offsets")

	// ErrUnknownAPI reports a feature block with an unrecognized api family.
	ErrUnknownAPI = errors.New("dispatch: unknown API family")

	// ErrCastWindow reports a pointer-sized handle argument outside the
	// register-passed parameter window, where the compatibility cast is
	// unsound.
	ErrCastWindow = errors.New("dispatch: handle argument outside register window")
)
