// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cback

import (
	"strings"

	"github.com/gogpu/glgen/dispatch"
)

// khronosTypedefs are the khrplatform.h scalar types referenced by gl.xml
// typedef text but not defined by it.
var khronosTypedefs = []string{
	"typedef int8_t khronos_int8_t;",
	"typedef int16_t khronos_int16_t;",
	"typedef int32_t khronos_int32_t;",
	"typedef int64_t khronos_int64_t;",
	"typedef uint8_t khronos_uint8_t;",
	"typedef uint16_t khronos_uint16_t;",
	"typedef uint32_t khronos_uint32_t;",
	"typedef uint64_t khronos_uint64_t;",
	"typedef float khronos_float_t;",
	"typedef intptr_t khronos_intptr_t;",
	"typedef ptrdiff_t khronos_ssize_t;",
	"typedef uint64_t khronos_utime_nanoseconds_t;",
	"typedef int64_t khronos_stime_nanoseconds_t;",
}

// WriteHeader renders the public header for one target.
func WriteHeader(c *dispatch.Catalogue) []byte {
	w := &writer{}
	w.banner("header", c.Comment)

	w.line("#pragma once")
	w.line("#include <inttypes.h>")
	w.line("#include <stddef.h>")
	w.blank()

	if c.Target != "gl" {
		w.line(`#include "gld/gl.h"`)
		if c.Target == "egl" {
			w.line(`#include "EGL/eglplatform.h"`)
		}
	} else {
		for _, td := range khronosTypedefs {
			w.line(td)
		}
	}

	if c.Target == "glx" {
		w.line("#include <X11/Xlib.h>")
		w.line("#include <X11/Xutil.h>")
	}

	w.raw(c.Typedefs)
	w.blank()
	writeDefines(w, c)
	w.blank()

	sorted := c.SortedSymbols()
	for _, sym := range sorted {
		w.linef("typedef %s (*%s)(%s);", sym.RetType, sym.PtrType(), sym.ArgsDecl())
	}

	w.line("/* The library ABI is a set of functions on win32 (where")
	w.line(" * we have to use per-thread dispatch tables) and a set")
	w.line(" * of function pointers, otherwise.")
	w.line(" */")
	w.line("#ifdef _WIN32")
	w.line("#define GLD_FPTR(x) x")
	w.line("#define GLD_FPTR_EXTERN")
	w.line("#else")
	w.line("#define GLD_FPTR(x) (*x)")
	w.line("#define GLD_FPTR_EXTERN extern")
	w.line("#endif")

	for _, sym := range sorted {
		w.linef("GLD_FPTR_EXTERN %s GLD_FPTR(gld_%s)(%s);", sym.RetType, sym.Name, sym.ArgsDecl())
		w.blank()
	}

	for _, sym := range sorted {
		w.linef("#define %s gld_%s", sym.Name, sym.Name)
	}

	return w.bytes()
}

// writeDefines emits the version/extension presence macros and the named
// constants, values aligned past the longest name.
func writeDefines(w *writer, c *dispatch.Catalogue) {
	for _, name := range c.SupportedVersions() {
		w.linef("#define %s 1", name)
	}
	w.blank()

	for _, name := range c.SupportedExtensions() {
		w.linef("#define %s 1", name)
	}
	w.blank()

	pad := c.MaxEnumNameLen + 3
	for _, e := range c.Enums() {
		w.linef("#define %s%s", e.Name+strings.Repeat(" ", pad-len(e.Name)), e.Value)
	}
}
