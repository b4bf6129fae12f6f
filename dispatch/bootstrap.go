// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dispatch

// Bootstrap symbols are the functions every other resolution path calls
// into: the version/extension queries and the proc-address lookup itself.
// Resolving them through the general provider mechanism would make their
// resolvers call themselves, so each is pinned to a single unconditional,
// non-version-gated loader.
var bootstrapLoaders = []struct {
	name   string
	loader string
}{
	{"glGetString", "gld_get_core_proc_address(%s, 10)"},
	{"glGetIntegerv", "gld_get_core_proc_address(%s, 10)"},
	// Exposed as a GLX extension, but the Linux OpenGL ABI requires it
	// as a public symbol, so a plain dlsym is always safe.
	{"glXGetProcAddress", "gld_glx_dlsym(%s)"},
}

// FixupBootstrap replaces the providers of the bootstrap symbols present in
// the catalogue. Must run after binding and alias resolution, before
// provider deduplication.
func FixupBootstrap(c *Catalogue) {
	for _, b := range bootstrapLoaders {
		sym, ok := c.Lookup(b.name)
		if !ok {
			continue
		}
		sym.ClearProviders()
		sym.AddProvider("true", b.loader, "always present")
	}
}
