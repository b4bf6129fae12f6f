// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package registry

// Registry is one parsed Khronos registry document.
type Registry struct {
	// Comment is the registry-level copyright comment, if present.
	Comment string

	// TypeDefs are the <types> entries in document order. Each entry is the
	// full typedef text with markup stripped (the <name> child's text is
	// part of the typedef).
	TypeDefs []TypeDef

	// Enums are every <enums><enum> name/value pair in document order,
	// across all enum groups.
	Enums []Enum

	// Commands are the <commands><command> entries in document order.
	Commands []Command

	// Features are the versioned <feature> blocks in document order.
	Features []Feature

	// Extensions are the <extensions><extension> blocks in document order.
	Extensions []Extension
}

// TypeDef is one <type> entry.
type TypeDef struct {
	// Name is the type's name, whether given as an attribute or as a
	// <name> child.
	Name string

	// API is the api attribute, set when the entry is an API-specific
	// redeclaration of a type defined elsewhere.
	API string

	// NameAttr reports whether the name came from a name="" attribute
	// (struct-like types declared elsewhere) rather than a <name> child.
	NameAttr bool

	// Text is the typedef text with markup stripped.
	Text string
}

// Enum is one named constant.
type Enum struct {
	Name  string
	Value string
}

// Command is one API function.
type Command struct {
	// Name is the function name from the prototype's <name> child.
	Name string

	// ReturnType is all prototype text preceding the name, trimmed.
	ReturnType string

	// Params are the declared parameters in order.
	Params []Param

	// Alias is the name of the command this one aliases, or "".
	Alias string
}

// Param is one command parameter.
type Param struct {
	// Type is all parameter text preceding the name, trimmed.
	Type string

	// Name is the parameter name.
	Name string
}

// Feature is one versioned feature block for a single API family.
type Feature struct {
	// API is the family string: gl, gles1, gles2, glx, egl, or wgl.
	API string

	// Name is the feature's registry name (e.g. GL_VERSION_3_2).
	Name string

	// Number is the version string (e.g. "3.2").
	Number string

	// Commands are the names of commands the feature requires.
	Commands []string
}

// Extension is one named extension block.
type Extension struct {
	// Name is the extension's registry name.
	Name string

	// Supported lists the API families the extension applies to.
	Supported []string

	// Commands are the names of commands the extension requires.
	Commands []string
}
