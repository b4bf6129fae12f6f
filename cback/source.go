// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cback

import (
	"fmt"

	"github.com/gogpu/glgen/dispatch"
)

// WriteSource renders the dispatch source for one target: provider
// enumeration, interned names, the generic provider-resolution routine,
// one resolver per alias unit, and both dispatch shapes.
func WriteSource(c *dispatch.Catalogue, pc *dispatch.ProviderCatalogue, tbl *dispatch.StringTable) ([]byte, error) {
	w := &writer{}
	w.banner("code", c.Comment)

	w.line("#include <stdlib.h>")
	w.line("#include <stdio.h>")
	w.blank()
	w.line(`#include "dispatch_common.h"`)
	w.linef(`#include "gld/%s.h"`, c.Target)
	w.blank()

	sorted := c.SortedSymbols()

	w.line("struct dispatch_table {")
	for _, sym := range sorted {
		// Aliases share their root's slot and resolver.
		if sym.IsRoot() {
			w.linef("    %s p%s;", sym.PtrType(), sym.Name)
		}
	}
	w.line("};")
	w.blank()

	// Early declaration, so the resolver stubs can reference the accessor
	// defined at the bottom with the rest of the table shape.
	w.line("#if GLD_USING_DISPATCH_TABLE")
	w.line("static inline struct dispatch_table *")
	w.line("get_dispatch_table(void);")
	w.blank()
	w.line("#endif")

	writeProviderEnum(w, c, pc)
	writeProviderStrings(w, pc)
	writeEntrypointStrings(w, tbl)
	writeProviderResolver(w, c, pc)

	for _, sym := range sorted {
		if sym.IsRoot() {
			if err := writeResolver(w, c, tbl, sym); err != nil {
				return nil, err
			}
		}
	}

	w.line("#if GLD_USING_DISPATCH_TABLE")
	for _, sym := range sorted {
		if sym.IsRoot() {
			writeRewriteStub(w, sym)
		}
	}
	for _, sym := range sorted {
		writeTableThunk(w, sym)
	}

	w.line("static struct dispatch_table resolver_table = {")
	for _, sym := range sorted {
		if sym.IsRoot() {
			w.linef("    .p%s = gld_%s_rewrite_stub,", sym.Name, sym.Name)
		}
	}
	w.line("};")
	w.blank()

	w.line("static inline struct dispatch_table *")
	w.line("get_dispatch_table(void)")
	w.line("{")
	w.line("    /* XXX: Make this thread-local and swapped on makecurrent on win32. */")
	w.line("    return &resolver_table;")
	w.line("}")
	w.blank()

	w.line("#else /* !GLD_USING_DISPATCH_TABLE */")
	for _, sym := range sorted {
		writeRewritePointer(w, sym)
	}
	w.line("#endif /* !GLD_USING_DISPATCH_TABLE */")

	return w.bytes(), nil
}

// writeProviderEnum emits the global provider identity enum. The zero
// value is reserved as a terminator so provider lists need no length.
func writeProviderEnum(w *writer, c *dispatch.Catalogue, pc *dispatch.ProviderCatalogue) {
	w.linef("enum %s_provider {", c.Target)
	w.linef("    %s_provider_terminator = 0,", c.Target)
	for _, name := range pc.Names() {
		p, _ := pc.Get(name)
		w.linef("    %s,", p.EnumToken())
	}
	w.line("};")
	w.blank()
}

func writeProviderStrings(w *writer, pc *dispatch.ProviderCatalogue) {
	w.line("static const char *enum_strings[] = {")
	for _, name := range pc.Names() {
		p, _ := pc.Get(name)
		w.linef("    [%s] = \"%s\",", p.EnumToken(), name)
	}
	w.line("};")
	w.blank()
}

func writeEntrypointStrings(w *writer, tbl *dispatch.StringTable) {
	w.line("static const char entrypoint_strings[] = ")
	for _, name := range tbl.Names() {
		w.linef("   \"%s\\0\"", name)
	}
	w.line("    ;")
	w.blank()
}

// writeProviderResolver emits the generic routine trying each provider in
// list order and returning the first whose condition holds. On total
// failure it reports the symbol and every condition name tried, then
// aborts: a missing entry point about to be called through a raw pointer
// has no soft fallback.
func writeProviderResolver(w *writer, c *dispatch.Catalogue, pc *dispatch.ProviderCatalogue) {
	w.linef("static void *%s_provider_resolver(const char *name,", c.Target)
	w.linef("                                  const enum %s_provider *providers,", c.Target)
	w.line("                                  const uint16_t *entrypoints)")
	w.line("{")
	w.line("    int i;")
	w.linef("    for (i = 0; providers[i] != %s_provider_terminator; i++) {", c.Target)
	w.line("        switch (providers[i]) {")

	for _, name := range pc.Names() {
		p, _ := pc.Get(name)
		w.linef("        case %s:", p.EnumToken())
		w.linef("            if (%s)", p.Condition)
		w.linef("                return %s;", fmt.Sprintf(p.Loader, "entrypoint_strings + entrypoints[i]"))
		w.line("            break;")
	}

	w.linef("        case %s_provider_terminator:", c.Target)
	w.line("            abort(); /* Not reached */")
	w.line("        }")
	w.line("    }")
	w.blank()
	w.line("    gld_print_failure_reasons(name, enum_strings, (const int *)providers);")
	w.line("    abort();")
	w.line("}")
	w.blank()
}

// writeResolver emits one alias unit's resolver: the unit's providers in
// try order (root's own first, then each alias's, discovery order kept)
// and the matching interned-name offsets.
func writeResolver(w *writer, c *dispatch.Catalogue, tbl *dispatch.StringTable, sym *dispatch.Symbol) error {
	providers := sym.UnitProviders()

	w.linef("static %s", sym.PtrType())
	w.linef("gld_%s_resolver(void)", sym.Name)
	w.line("{")

	w.linef("    static const enum %s_provider providers[] = {", c.Target)
	for _, p := range providers {
		w.linef("        %s,", p.EnumToken())
	}
	w.linef("        %s_provider_terminator", c.Target)
	w.line("    };")

	w.line("    static const uint16_t entrypoints[] = {")
	for _, p := range providers {
		off, ok := tbl.Offset(p.Name)
		if !ok {
			return fmt.Errorf("cback: entrypoint %q not interned", p.Name)
		}
		w.linef("        %d /* \"%s\" */,", off, p.Name)
	}
	w.line("    };")

	w.linef("    return %s_provider_resolver(\"%s\",", c.Target, sym.Name)
	w.line("                               providers, entrypoints);")
	w.line("}")
	w.blank()
	return nil
}

// writeRewriteStub emits the table slot's initial value: resolve once,
// store the result into the slot, call through it. First-call races from
// two threads are benign: resolution is idempotent and the store is one
// pointer write.
func writeRewriteStub(w *writer, sym *dispatch.Symbol) {
	w.linef("static %s", sym.RetType)
	w.linef("gld_%s_rewrite_stub(%s)", sym.Name, sym.ArgsDecl())
	w.line("{")
	w.line("    struct dispatch_table *dispatch_table = get_dispatch_table();")
	w.blank()
	w.linef("    dispatch_table->p%s = gld_%s_resolver();", sym.Name, sym.Name)
	w.blank()
	if sym.RetType == "void" {
		w.linef("    dispatch_table->p%s(%s);", sym.Name, sym.ArgsList())
	} else {
		w.linef("    return dispatch_table->p%s(%s);", sym.Name, sym.ArgsList())
	}
	w.line("}")
	w.blank()
}

// writeTableThunk emits the public entry point for table mode: fetch the
// table, call the unit root's slot.
func writeTableThunk(w *writer, sym *dispatch.Symbol) {
	w.linef("%s%s", sym.Public, sym.RetType)
	w.linef("gld_%s(%s)", sym.WrappedName, sym.ArgsDecl())
	w.line("{")
	w.line("    struct dispatch_table *dispatch_table = get_dispatch_table();")
	w.blank()
	if sym.RetType == "void" {
		w.linef("    dispatch_table->p%s(%s);", sym.AliasName, sym.ArgsList())
	} else {
		w.linef("    return dispatch_table->p%s(%s);", sym.AliasName, sym.ArgsList())
	}
	w.line("}")
	w.blank()
}

// writeRewritePointer emits the direct-pointer shape: a global function
// pointer initialized to a stub that resolves, overwrites the global in
// place and calls through it.
func writeRewritePointer(w *writer, sym *dispatch.Symbol) {
	w.linef("static %s", sym.RetType)
	w.linef("gld_%s_rewrite_ptr(%s)", sym.WrappedName, sym.ArgsDecl())
	w.line("{")
	w.linef("    gld_%s = (void *)gld_%s_resolver();", sym.WrappedName, sym.AliasName)
	if sym.RetType == "void" {
		w.linef("    gld_%s(%s);", sym.WrappedName, sym.ArgsList())
	} else {
		w.linef("    return gld_%s(%s);", sym.WrappedName, sym.ArgsList())
	}
	w.line("}")
	w.linef("%s%s gld_%s = gld_%s_rewrite_ptr;", sym.Public, sym.PtrType(), sym.WrappedName, sym.WrappedName)
	w.blank()
}
