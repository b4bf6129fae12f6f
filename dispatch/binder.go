// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dispatch

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/gogpu/glgen/registry"
)

var featureVersionRe = regexp.MustCompile(`^([0-9])\.([0-9])`)

// BindProviders walks every feature and extension block and attaches one
// provider per (block, API family) to each symbol the block requires.
func BindProviders(c *Catalogue, reg *registry.Registry, log logrus.FieldLogger) error {
	for _, feat := range reg.Features {
		if err := bindFeature(c, feat, log); err != nil {
			return err
		}
	}
	for _, ext := range reg.Extensions {
		if err := bindExtension(c, ext); err != nil {
			return err
		}
	}
	return nil
}

func bindFeature(c *Catalogue, feat registry.Feature, log logrus.FieldLogger) error {
	m := featureVersionRe.FindStringSubmatch(feat.Number)
	if m == nil {
		return fmt.Errorf("dispatch: feature %s: malformed version %q", feat.Name, feat.Number)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	version := major*10 + minor

	c.AddVersion(feat.Name)

	var humanName, condition, loader string
	switch feat.API {
	case "gl":
		humanName = "Desktop OpenGL " + feat.Number
		condition = "gld_is_desktop_gl()"
		loader = fmt.Sprintf("gld_get_core_proc_address(%%s, %d)", version)
		if version >= 11 {
			condition += fmt.Sprintf(" && gld_conservative_gl_version() >= %d", version)
		}
	case "gles2":
		humanName = "OpenGL ES " + feat.Number
		condition = fmt.Sprintf("!gld_is_desktop_gl() && gld_gl_version() >= %d", version)
		if version <= 20 {
			loader = "gld_gles2_dlsym(%s)"
		} else {
			loader = "gld_get_proc_address(%s)"
		}
	case "gles1":
		humanName = "OpenGL ES 1.0"
		condition = "!gld_is_desktop_gl() && gld_gl_version() == 10"
		loader = "gld_gles1_dlsym(%s)"
	case "glx":
		humanName = fmt.Sprintf("GLX %d", version)
		// dlsym is the cheaper lookup, usable for the GLX entry points
		// every libGL must export; everything above 1.3 goes through
		// glXGetProcAddress behind a conservative version check.
		if version > 13 {
			condition = fmt.Sprintf("gld_conservative_glx_version() >= %d", version)
			loader = "glXGetProcAddress((const GLubyte *)%s)"
		} else {
			condition = "true"
			loader = "gld_glx_dlsym(%s)"
		}
	case "egl":
		humanName = fmt.Sprintf("EGL %d", version)
		if version > 10 {
			condition = fmt.Sprintf("gld_conservative_egl_version() >= %d", version)
		} else {
			condition = "true"
		}
		// EGL core entry points must be dlsym()ed: eglGetProcAddress()
		// returns NULL for them.
		loader = "gld_egl_dlsym(%s)"
	case "wgl":
		// The registry lists WGL 1.0 symbols from both opengl32.dll and
		// gdi32.dll without saying which came from where, and they are
		// always present anyway, so there is no point interposing them.
		for _, name := range feat.Commands {
			c.Delete(name)
			log.WithField("symbol", name).Debug("dropped WGL core symbol")
		}
		return nil
	default:
		return fmt.Errorf("%w: %q (feature %s)", ErrUnknownAPI, feat.API, feat.Name)
	}

	return attach(c, feat.Name, feat.Commands, condition, loader, humanName)
}

func bindExtension(c *Catalogue, ext registry.Extension) error {
	c.AddExtension(ext.Name)

	families := make(map[string]bool, len(ext.Supported))
	for _, api := range ext.Supported {
		families[api] = true
	}

	if families["glx"] {
		humanName := fmt.Sprintf(`GLX extension \"%s\"`, ext.Name)
		condition := fmt.Sprintf("gld_conservative_has_glx_extension(%q)", ext.Name)
		loader := "glXGetProcAddress((const GLubyte *)%s)"
		if err := attach(c, ext.Name, ext.Commands, condition, loader, humanName); err != nil {
			return err
		}
	}
	if families["egl"] {
		humanName := fmt.Sprintf(`EGL extension \"%s\"`, ext.Name)
		condition := fmt.Sprintf("gld_conservative_has_egl_extension(%q)", ext.Name)
		loader := "eglGetProcAddress(%s)"
		if err := attach(c, ext.Name, ext.Commands, condition, loader, humanName); err != nil {
			return err
		}
	}
	if families["wgl"] {
		humanName := fmt.Sprintf(`WGL extension \"%s\"`, ext.Name)
		condition := fmt.Sprintf("gld_conservative_has_wgl_extension(%q)", ext.Name)
		loader := "wglGetProcAddress(%s)"
		if err := attach(c, ext.Name, ext.Commands, condition, loader, humanName); err != nil {
			return err
		}
	}
	if families["gl"] || families["gles1"] || families["gles2"] {
		humanName := fmt.Sprintf(`GL extension \"%s\"`, ext.Name)
		condition := fmt.Sprintf("gld_conservative_has_gl_extension(%q)", ext.Name)
		loader := "gld_get_proc_address(%s)"
		if err := attach(c, ext.Name, ext.Commands, condition, loader, humanName); err != nil {
			return err
		}
	}
	return nil
}

func attach(c *Catalogue, block string, commands []string, condition, loader, humanName string) error {
	for _, name := range commands {
		sym, ok := c.Lookup(name)
		if !ok {
			return fmt.Errorf("dispatch: block %s requires unknown command %q", block, name)
		}
		sym.AddProvider(condition, loader, humanName)
	}
	return nil
}
