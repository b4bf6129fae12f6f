// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dispatch

import "fmt"

// maxBlobSize bounds the interned name blob; offsets into it are emitted
// as uint16_t.
const maxBlobSize = 1 << 16

// StringTable interns each canonical entrypoint name exactly once into a
// single null-separated blob, addressed by 16-bit offsets. Per-symbol
// resolvers then reference names by offset instead of carrying string
// pointers, which keeps the generated artifact small.
type StringTable struct {
	names   []string
	offsets map[string]uint16
	size    int
}

// BuildEntrypoints interns every symbol name, visiting symbols in the
// stable lexicographic order used throughout emission. Overflowing the
// 16-bit offset space is a fatal generation error, never a truncation.
func BuildEntrypoints(c *Catalogue) (*StringTable, error) {
	t := &StringTable{offsets: make(map[string]uint16)}
	for _, sym := range c.SortedSymbols() {
		if _, ok := t.offsets[sym.Name]; ok {
			continue
		}
		end := t.size + len(sym.Name) + 1
		if end >= maxBlobSize {
			return nil, fmt.Errorf("%w: %d bytes at %q", ErrNameTableOverflow, end, sym.Name)
		}
		t.offsets[sym.Name] = uint16(t.size)
		t.names = append(t.names, sym.Name)
		t.size = end
	}
	return t, nil
}

// Offset returns the blob offset of an interned name.
func (t *StringTable) Offset(name string) (uint16, bool) {
	off, ok := t.offsets[name]
	return off, ok
}

// Names returns the interned names in blob order.
func (t *StringTable) Names() []string {
	return t.names
}

// Size returns the total blob length, terminators included.
func (t *StringTable) Size() int {
	return t.size
}
