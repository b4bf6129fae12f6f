// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cback

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glgen/dispatch"
	"github.com/gogpu/glgen/registry"
)

// glFixture is a miniature desktop-GL registry exercising aliasing,
// bootstrap symbols, wrapped symbols and the non-portable drop.
func glFixture() *registry.Registry {
	return &registry.Registry{
		Comment: "Copyright 2013 The Khronos Group Inc.\n" +
			"-----------------------------\nlegal boilerplate",
		TypeDefs: []registry.TypeDef{
			{Name: "GLenum", Text: "typedef unsigned int GLenum;"},
		},
		Enums: []registry.Enum{
			{Name: "GL_INVALID_ENUM", Value: "0x0500"},
			{Name: "GL_CURRENT_BIT", Value: "0x00000001"},
		},
		Commands: []registry.Command{
			{Name: "glGetString", ReturnType: "const GLubyte *",
				Params: []registry.Param{{Type: "GLenum", Name: "name"}}},
			{Name: "glGetIntegerv", ReturnType: "void",
				Params: []registry.Param{{Type: "GLenum", Name: "pname"}, {Type: "GLint *", Name: "data"}}},
			{Name: "glFoo", ReturnType: "void",
				Params: []registry.Param{{Type: "GLenum", Name: "pname"}}},
			{Name: "glFooARB", ReturnType: "void", Alias: "glFoo",
				Params: []registry.Param{{Type: "GLenum", Name: "pname"}}},
			{Name: "glBegin", ReturnType: "void",
				Params: []registry.Param{{Type: "GLenum", Name: "mode"}}},
			{Name: "glEnd", ReturnType: "void"},
			{Name: "glWeird", ReturnType: "void",
				Params: []registry.Param{{Type: "VLServer", Name: "server"}}},
		},
		Features: []registry.Feature{
			{API: "gl", Name: "GL_VERSION_1_0", Number: "1.0",
				Commands: []string{"glGetString", "glGetIntegerv", "glFoo", "glBegin", "glEnd", "glWeird"}},
			{API: "gl", Name: "GL_VERSION_3_2", Number: "3.2",
				Commands: []string{"glFoo"}},
		},
		Extensions: []registry.Extension{
			{Name: "GL_ARB_foo", Supported: []string{"gl"}, Commands: []string{"glFooARB"}},
		},
	}
}

func buildModel(t *testing.T, reg *registry.Registry, target string) (*dispatch.Catalogue, *dispatch.ProviderCatalogue, *dispatch.StringTable) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	c, err := dispatch.Build(reg, target, log)
	require.NoError(t, err)
	require.NoError(t, dispatch.BindProviders(c, reg, log))
	c.DropNonPortable(log)
	require.NoError(t, dispatch.ResolveAliases(c))
	dispatch.FixupBootstrap(c)

	pc, err := dispatch.BuildProviderCatalogue(c)
	require.NoError(t, err)
	tbl, err := dispatch.BuildEntrypoints(c)
	require.NoError(t, err)
	return c, pc, tbl
}

// extractFunc returns the emitted text from the first line mentioning
// marker through the function's closing brace.
func extractFunc(t *testing.T, src, marker string) string {
	t.Helper()
	start := strings.Index(src, marker)
	require.GreaterOrEqual(t, start, 0, "marker %q not found", marker)
	end := strings.Index(src[start:], "\n}")
	require.GreaterOrEqual(t, end, 0)
	return src[start : start+end]
}

func TestWriteHeader_GL(t *testing.T) {
	c, _, _ := buildModel(t, glFixture(), "gl")
	header := string(WriteHeader(c))

	assert.Contains(t, header, "/* GL dispatch header.")
	assert.Contains(t, header, " * Copyright 2013 The Khronos Group Inc.")
	assert.NotContains(t, header, "legal boilerplate")

	assert.Contains(t, header, "#pragma once")
	// gl target inlines the khrplatform scalar types.
	assert.Contains(t, header, "typedef int32_t khronos_int32_t;")
	assert.NotContains(t, header, `#include "gld/gl.h"`)
	assert.Contains(t, header, "typedef unsigned int GLenum;")

	assert.Contains(t, header, "#define GL_VERSION_1_0 1")
	assert.Contains(t, header, "#define GL_VERSION_3_2 1")
	assert.Contains(t, header, "#define GL_ARB_foo 1")
	// Values aligned three columns past the longest name.
	assert.Contains(t, header, "#define GL_INVALID_ENUM   0x0500")
	assert.Contains(t, header, "#define GL_CURRENT_BIT    0x00000001")

	assert.Contains(t, header, "typedef const GLubyte * (*PFNGLGETSTRINGPROC)(GLenum name);")
	assert.Contains(t, header, "typedef void (*PFNGLENDPROC)(void);")

	assert.Contains(t, header, "#define GLD_FPTR(x) (*x)")
	assert.Contains(t, header, "GLD_FPTR_EXTERN void GLD_FPTR(gld_glFoo)(GLenum pname);")
	// The public declaration always uses the public name, wrapped or not.
	assert.Contains(t, header, "GLD_FPTR_EXTERN void GLD_FPTR(gld_glBegin)(GLenum mode);")
	assert.Contains(t, header, "#define glFoo gld_glFoo")
	assert.Contains(t, header, "#define glBegin gld_glBegin")

	// Structurally incompatible symbols appear nowhere.
	assert.NotContains(t, header, "glWeird")
}

func TestWriteHeader_TargetIncludes(t *testing.T) {
	glx := &registry.Registry{}
	c, _, _ := buildModel(t, glx, "glx")
	header := string(WriteHeader(c))
	assert.Contains(t, header, `#include "gld/gl.h"`)
	assert.Contains(t, header, "#include <X11/Xlib.h>")
	assert.Contains(t, header, "#include <X11/Xutil.h>")
	assert.NotContains(t, header, "khronos_int32_t")

	c, _, _ = buildModel(t, &registry.Registry{}, "egl")
	header = string(WriteHeader(c))
	assert.Contains(t, header, `#include "gld/gl.h"`)
	assert.Contains(t, header, `#include "EGL/eglplatform.h"`)
}

func TestWriteSource_TableShape(t *testing.T) {
	c, pc, tbl := buildModel(t, glFixture(), "gl")
	out, err := WriteSource(c, pc, tbl)
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, `#include "dispatch_common.h"`)
	assert.Contains(t, src, `#include "gld/gl.h"`)

	// One slot per alias-unit root; aliases share the root's slot.
	table := extractFunc(t, src, "struct dispatch_table {")
	assert.Contains(t, table, "PFNGLFOOPROC pglFoo;")
	assert.NotContains(t, table, "pglFooARB")

	// Rewrite stub resolves into its own slot, then calls through it.
	stub := extractFunc(t, src, "gld_glFoo_rewrite_stub(GLenum pname)")
	assert.Contains(t, stub, "dispatch_table->pglFoo = gld_glFoo_resolver();")
	assert.Contains(t, stub, "dispatch_table->pglFoo(pname);")

	// The alias's public thunk calls the root's slot.
	thunk := extractFunc(t, src, "gld_glFooARB(GLenum pname)")
	assert.Contains(t, thunk, "dispatch_table->pglFoo(pname);")

	assert.Contains(t, src, ".pglFoo = gld_glFoo_rewrite_stub,")
	assert.NotContains(t, src, ".pglFooARB")

	// Wrapped symbols keep a non-public dispatch name; hand-written
	// wrappers own the public one.
	begin := extractFunc(t, src, "gld_glBegin_unwrapped(GLenum mode)")
	assert.Contains(t, begin, "dispatch_table->pglBegin(mode);")
	assert.NotContains(t, src, "PUBLIC void\ngld_glBegin_unwrapped")
}

func TestWriteSource_PointerShape(t *testing.T) {
	c, pc, tbl := buildModel(t, glFixture(), "gl")
	out, err := WriteSource(c, pc, tbl)
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "#else /* !GLD_USING_DISPATCH_TABLE */")

	ptr := extractFunc(t, src, "gld_glFooARB_rewrite_ptr(GLenum pname)")
	// The alias's global pointer is overwritten in place with the shared
	// unit resolver's result, then called through.
	assert.Contains(t, ptr, "gld_glFooARB = (void *)gld_glFoo_resolver();")
	assert.Contains(t, ptr, "gld_glFooARB(pname);")
	assert.Contains(t, src, "PUBLIC PFNGLFOOARBPROC gld_glFooARB = gld_glFooARB_rewrite_ptr;")

	// Wrapped symbols drop the PUBLIC attribute in this shape too.
	assert.Contains(t, src, "\nPFNGLBEGINPROC gld_glBegin_unwrapped = gld_glBegin_unwrapped_rewrite_ptr;")
}

func TestWriteSource_ProviderEnum(t *testing.T) {
	c, pc, tbl := buildModel(t, glFixture(), "gl")
	out, err := WriteSource(c, pc, tbl)
	require.NoError(t, err)
	src := string(out)

	enum := extractFunc(t, src, "enum gl_provider {")
	lines := strings.Split(enum, "\n")
	require.Greater(t, len(lines), 2)
	// Zero is reserved so provider lists can be terminator-ended.
	assert.Equal(t, "    gl_provider_terminator = 0,", lines[1])
	assert.Contains(t, enum, "Desktop_OpenGL_1_0,")
	assert.Contains(t, enum, "Desktop_OpenGL_3_2,")
	assert.Contains(t, enum, "GL_extension_GL_ARB_foo,")
	assert.Contains(t, enum, "always_present,")

	// Display strings keep the escaped quotes for the C literal.
	assert.Contains(t, src, `[GL_extension_GL_ARB_foo] = "GL extension \"GL_ARB_foo\"",`)
}

func TestWriteSource_EntrypointStrings(t *testing.T) {
	c, pc, tbl := buildModel(t, glFixture(), "gl")
	out, err := WriteSource(c, pc, tbl)
	require.NoError(t, err)
	src := string(out)

	blob := extractFunc(t, src, "static const char entrypoint_strings[] =")
	// Each canonical name exactly once, null separated.
	assert.Equal(t, 1, strings.Count(blob, `"glFoo\0"`))
	assert.Equal(t, 1, strings.Count(blob, `"glFooARB\0"`))
	assert.Equal(t, 1, strings.Count(blob, `"glGetString\0"`))
	assert.NotContains(t, blob, "glWeird")
}

func TestWriteSource_ProviderResolver(t *testing.T) {
	c, pc, tbl := buildModel(t, glFixture(), "gl")
	out, err := WriteSource(c, pc, tbl)
	require.NoError(t, err)
	src := string(out)

	res := extractFunc(t, src, "static void *gl_provider_resolver(")
	assert.Contains(t, res, "case Desktop_OpenGL_3_2:")
	assert.Contains(t, res, "if (gld_is_desktop_gl() && gld_conservative_gl_version() >= 32)")
	assert.Contains(t, res, "return gld_get_core_proc_address(entrypoint_strings + entrypoints[i], 32);")
	assert.Contains(t, res, `if (gld_conservative_has_gl_extension("GL_ARB_foo"))`)

	// Total failure reports the symbol and every condition tried, then
	// halts: there is no soft failure mode.
	assert.Contains(t, res, "gld_print_failure_reasons(name, enum_strings, (const int *)providers);")
	assert.Contains(t, res, "abort();")
}

func TestWriteSource_UnitResolverOrder(t *testing.T) {
	c, pc, tbl := buildModel(t, glFixture(), "gl")
	out, err := WriteSource(c, pc, tbl)
	require.NoError(t, err)
	src := string(out)

	res := extractFunc(t, src, "gld_glFoo_resolver(void)")
	// Self providers in discovery order, then the alias's: first listed
	// wins when several conditions hold simultaneously.
	i10 := strings.Index(res, "Desktop_OpenGL_1_0,")
	i32 := strings.Index(res, "Desktop_OpenGL_3_2,")
	iExt := strings.Index(res, "GL_extension_GL_ARB_foo,")
	iTerm := strings.Index(res, "gl_provider_terminator\n")
	require.True(t, i10 >= 0 && i32 >= 0 && iExt >= 0 && iTerm >= 0)
	assert.Less(t, i10, i32)
	assert.Less(t, i32, iExt)
	assert.Less(t, iExt, iTerm)

	// When only the extension's condition holds, the loader fetches the
	// suffixed variant even though the public entry point is glFoo.
	offARB, ok := tbl.Offset("glFooARB")
	require.True(t, ok)
	assert.Contains(t, res, fmt.Sprintf("        %d /* \"glFooARB\" */,", offARB))

	// Aliases get no resolver of their own.
	assert.NotContains(t, src, "gld_glFooARB_resolver")
}

func TestWriteSource_BootstrapResolvers(t *testing.T) {
	c, pc, tbl := buildModel(t, glFixture(), "gl")
	out, err := WriteSource(c, pc, tbl)
	require.NoError(t, err)
	src := string(out)

	for _, name := range []string{"gld_glGetString_resolver(void)", "gld_glGetIntegerv_resolver(void)"} {
		res := extractFunc(t, src, name)
		assert.Contains(t, res, "always_present,")
		assert.NotContains(t, res, "Desktop_OpenGL_1_0,")
	}
}

func TestWriteSource_Deterministic(t *testing.T) {
	c, pc, tbl := buildModel(t, glFixture(), "gl")
	first, err := WriteSource(c, pc, tbl)
	require.NoError(t, err)
	second, err := WriteSource(c, pc, tbl)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, WriteHeader(c), WriteHeader(c))
}
