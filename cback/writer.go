// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cback

import (
	"fmt"
	"strings"
)

// writer accumulates generated C text line by line.
type writer struct {
	out strings.Builder
}

// line writes one literal line.
func (w *writer) line(s string) {
	w.out.WriteString(s)
	w.out.WriteByte('\n')
}

// linef writes one formatted line.
func (w *writer) linef(format string, args ...any) {
	fmt.Fprintf(&w.out, format, args...)
	w.out.WriteByte('\n')
}

// raw writes text without a trailing newline.
func (w *writer) raw(s string) {
	w.out.WriteString(s)
}

// blank writes an empty line.
func (w *writer) blank() {
	w.out.WriteByte('\n')
}

func (w *writer) bytes() []byte {
	return []byte(w.out.String())
}

// banner writes the artifact's leading comment, splicing in the registry's
// own copyright comment up to its first divider line.
func (w *writer) banner(kind, comment string) {
	w.linef("/* GL dispatch %s.", kind)
	w.line(" * This is code-generated from the GL API XML files from Khronos.")
	if comment != "" {
		for _, line := range strings.Split(comment, "\n") {
			if strings.Contains(line, "-----") {
				break
			}
			w.line(" * " + line)
		}
	}
	w.line(" */")
	w.blank()
}
