// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dispatch

import "fmt"

// ResolveAliases flattens every declared alias to its terminal root and
// registers each symbol with its root's alias unit.
//
// The registry declares aliases one hop at a time, sometimes before the
// target command is defined and sometimes through an intermediate (for
// example glFramebufferTextureEXT -> glFramebufferTextureARB ->
// glFramebufferTexture), so the chain is followed until it reaches a
// symbol that is not itself an alias. Deeper structures are invalid input.
func ResolveAliases(c *Catalogue) error {
	for _, sym := range c.Symbols() {
		if sym.AliasName == sym.Name {
			continue
		}

		root, ok := c.Lookup(sym.AliasName)
		if !ok {
			return fmt.Errorf("dispatch: %s aliases unknown command %q", sym.Name, sym.AliasName)
		}
		steps := 0
		for root.AliasName != root.Name {
			next, nok := c.Lookup(root.AliasName)
			if !nok {
				return fmt.Errorf("dispatch: %s aliases unknown command %q", root.Name, root.AliasName)
			}
			root = next
			if steps++; steps > len(c.order) {
				return fmt.Errorf("%w: cycle through %s", ErrTransitiveAlias, sym.Name)
			}
		}

		// A symbol that both aliases something and is aliased by others
		// would make the unit transitively deep; that is unsupported,
		// not silently flattened.
		if len(sym.Aliases) > 0 {
			return fmt.Errorf("%w: %s is aliased but aliases %s", ErrTransitiveAlias, sym.Name, root.Name)
		}

		sym.AliasName = root.Name
		sym.AliasOf = root
		root.Aliases = append(root.Aliases, sym)
	}
	return nil
}
