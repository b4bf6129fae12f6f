// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package registry loads Khronos API registry documents (gl.xml, glx.xml,
// egl.xml, wgl.xml) into structured records.
//
// The registry format mixes prose and markup inside single elements: a
// command prototype is character data interleaved with <ptype> and <name>
// children, and the return type is "everything before the name". Parse
// preserves that text faithfully; interpreting the records (which commands
// exist on which API family, alias relationships, provider conditions) is
// the dispatch package's job.
package registry
