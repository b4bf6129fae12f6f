// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dispatch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gogpu/glgen/registry"
)

// enumDenylist names constants skipped during ingestion: the registry's hex
// definitions of these collide with decimal definitions in wingdi.h.
var enumDenylist = []string{
	"WGL_SWAP_OVERLAY",
	"WGL_SWAP_UNDERLAY",
	"WGL_SWAP_MAIN_PLANE",
}

// nonPortableTypes mark symbols whose argument types come from vendor
// headers with no public definition; such symbols cannot even be declared
// portably and are dropped from the catalogue.
var nonPortableTypes = []string{"VLServer", "DMparams"}

// Catalogue holds every symbol of one target registry, plus the header
// material (typedefs, constants, presence macros) emitted alongside them.
type Catalogue struct {
	// Target is the API family name the artifacts are generated for,
	// taken from the registry file's basename (gl, glx, egl, wgl).
	Target string

	// Comment is the registry's copyright comment.
	Comment string

	// Typedefs is the accumulated typedef text for the header.
	Typedefs string

	// MaxEnumNameLen is the longest ingested constant name, for aligned
	// #define emission.
	MaxEnumNameLen int

	symbols map[string]*Symbol
	order   []string

	enumOrder  []string
	enumValues map[string]string

	versions   map[string]struct{}
	extensions map[string]struct{}
}

// Build constructs the symbol catalogue from a parsed registry.
func Build(reg *registry.Registry, target string, log logrus.FieldLogger) (*Catalogue, error) {
	c := &Catalogue{
		Target:         target,
		Comment:        reg.Comment,
		MaxEnumNameLen: 1,
		symbols:        make(map[string]*Symbol),
		enumValues:     make(map[string]string),
		versions:       make(map[string]struct{}),
		extensions:     make(map[string]struct{}),
	}

	c.ingestTypedefs(reg)
	c.ingestEnums(reg)

	for _, cmd := range reg.Commands {
		sym := NewSymbol(cmd.Name, cmd.ReturnType)
		for _, p := range cmd.Params {
			if err := sym.AddArg(p.Type, p.Name); err != nil {
				return nil, err
			}
		}
		if cmd.Alias != "" {
			// The target command may not be defined yet; alias resolution
			// runs over the complete catalogue.
			sym.AliasName = cmd.Alias
		}
		c.add(sym)
	}

	log.WithFields(logrus.Fields{
		"target":  target,
		"symbols": len(c.order),
		"enums":   len(c.enumOrder),
	}).Debug("built symbol catalogue")
	return c, nil
}

func (c *Catalogue) ingestTypedefs(reg *registry.Registry) {
	for _, t := range reg.TypeDefs {
		// Attribute-named types are declared in platform headers, not
		// here; GLhandleARB is the one exception (see Symbol.AddArg).
		if t.NameAttr && t.Name != "GLhandleARB" {
			continue
		}
		// API-specific redeclarations (gles int vs int32_t) are redundant
		// and broke win32 builds.
		if t.API != "" {
			continue
		}
		c.Typedefs += t.Text + "\n"
	}
}

func (c *Catalogue) ingestEnums(reg *registry.Registry) {
	for _, e := range reg.Enums {
		if enumDenied(e.Name) {
			continue
		}
		if len(e.Name) > c.MaxEnumNameLen {
			c.MaxEnumNameLen = len(e.Name)
		}
		if _, ok := c.enumValues[e.Name]; !ok {
			c.enumOrder = append(c.enumOrder, e.Name)
		}
		c.enumValues[e.Name] = e.Value
	}
}

func enumDenied(name string) bool {
	for _, deny := range enumDenylist {
		if strings.Contains(name, deny) {
			return true
		}
	}
	return false
}

func (c *Catalogue) add(sym *Symbol) {
	if _, ok := c.symbols[sym.Name]; !ok {
		c.order = append(c.order, sym.Name)
	}
	c.symbols[sym.Name] = sym
}

// Lookup returns the symbol with the given canonical name.
func (c *Catalogue) Lookup(name string) (*Symbol, bool) {
	s, ok := c.symbols[name]
	return s, ok
}

// Delete removes a symbol from the catalogue. Missing names are ignored.
func (c *Catalogue) Delete(name string) {
	if _, ok := c.symbols[name]; !ok {
		return
	}
	delete(c.symbols, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Symbols returns every symbol in registry order.
func (c *Catalogue) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.symbols[name])
	}
	return out
}

// SortedSymbols returns every symbol ordered lexicographically by name,
// the stable total order used for interning and emission.
func (c *Catalogue) SortedSymbols() []*Symbol {
	out := c.Symbols()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Enums returns the ingested constants in registry order.
func (c *Catalogue) Enums() []registry.Enum {
	out := make([]registry.Enum, 0, len(c.enumOrder))
	for _, name := range c.enumOrder {
		out = append(out, registry.Enum{Name: name, Value: c.enumValues[name]})
	}
	return out
}

// AddVersion records a feature name for presence-macro emission.
func (c *Catalogue) AddVersion(name string) { c.versions[name] = struct{}{} }

// AddExtension records an extension name for presence-macro emission.
func (c *Catalogue) AddExtension(name string) { c.extensions[name] = struct{}{} }

// SupportedVersions returns the recorded feature names, sorted.
func (c *Catalogue) SupportedVersions() []string { return sortedKeys(c.versions) }

// SupportedExtensions returns the recorded extension names, sorted.
func (c *Catalogue) SupportedExtensions() []string { return sortedKeys(c.extensions) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DropNonPortable removes the legacy symbols whose argument declarations
// reference types with no portable definition.
func (c *Catalogue) DropNonPortable(log logrus.FieldLogger) {
	var doomed []string
	for _, name := range c.order {
		decl := c.symbols[name].ArgsDecl()
		for _, t := range nonPortableTypes {
			if strings.Contains(decl, t) {
				doomed = append(doomed, name)
				break
			}
		}
	}
	for _, name := range doomed {
		c.Delete(name)
		log.WithField("symbol", name).Debug("dropped non-portable symbol")
	}
}

// String describes the catalogue for diagnostics.
func (c *Catalogue) String() string {
	return fmt.Sprintf("catalogue(%s, %d symbols)", c.Target, len(c.order))
}
