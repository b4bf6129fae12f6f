// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package registry

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Parse reads one registry document from r.
func Parse(r io.Reader) (*Registry, error) {
	var doc xmlRegistry
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}

	reg := &Registry{Comment: doc.Comment}

	for _, t := range doc.Types {
		reg.TypeDefs = append(reg.TypeDefs, TypeDef{
			Name:     t.name(),
			API:      t.API,
			NameAttr: t.NameAttr != "",
			Text:     t.Text,
		})
	}

	for _, group := range doc.Enums {
		for _, e := range group.Enums {
			reg.Enums = append(reg.Enums, Enum{Name: e.Name, Value: e.Value})
		}
	}

	for _, c := range doc.Commands {
		cmd := Command{
			Name:       c.Proto.Name,
			ReturnType: c.Proto.TextBeforeName,
		}
		if cmd.Name == "" {
			return nil, fmt.Errorf("registry: command without a prototype name")
		}
		for _, p := range c.Params {
			cmd.Params = append(cmd.Params, Param{Type: p.TextBeforeName, Name: p.Name})
		}
		if c.Alias != nil {
			cmd.Alias = c.Alias.Name
		}
		reg.Commands = append(reg.Commands, cmd)
	}

	for _, f := range doc.Features {
		feat := Feature{API: f.API, Name: f.Name, Number: f.Number}
		for _, req := range f.Requires {
			for _, c := range req.Commands {
				feat.Commands = append(feat.Commands, c.Name)
			}
		}
		reg.Features = append(reg.Features, feat)
	}

	for _, x := range doc.Extensions {
		ext := Extension{Name: x.Name}
		for _, api := range strings.Split(x.Supported, "|") {
			if api != "" {
				ext.Supported = append(ext.Supported, api)
			}
		}
		for _, req := range x.Requires {
			for _, c := range req.Commands {
				ext.Commands = append(ext.Commands, c.Name)
			}
		}
		reg.Extensions = append(reg.Extensions, ext)
	}

	return reg, nil
}

// ParseBytes parses a registry document held in memory.
func ParseBytes(data []byte) (*Registry, error) {
	return Parse(bytes.NewReader(data))
}

type xmlRegistry struct {
	XMLName    xml.Name       `xml:"registry"`
	Comment    string         `xml:"comment"`
	Types      []xmlType      `xml:"types>type"`
	Enums      []xmlEnumGroup `xml:"enums"`
	Commands   []xmlCommand   `xml:"commands>command"`
	Features   []xmlFeature   `xml:"feature"`
	Extensions []xmlExtension `xml:"extensions>extension"`
}

type xmlEnumGroup struct {
	Enums []xmlEnum `xml:"enum"`
}

type xmlEnum struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlAlias struct {
	Name string `xml:"name,attr"`
}

type xmlCommand struct {
	Proto  xmlMixed   `xml:"proto"`
	Params []xmlMixed `xml:"param"`
	Alias  *xmlAlias  `xml:"alias"`
}

type xmlFeature struct {
	API      string       `xml:"api,attr"`
	Name     string       `xml:"name,attr"`
	Number   string       `xml:"number,attr"`
	Requires []xmlRequire `xml:"require"`
}

type xmlExtension struct {
	Name      string       `xml:"name,attr"`
	Supported string       `xml:"supported,attr"`
	Requires  []xmlRequire `xml:"require"`
}

type xmlRequire struct {
	Commands []struct {
		Name string `xml:"name,attr"`
	} `xml:"command"`
}

// xmlType is a <type> entry: mixed character data and markup, where the
// type's own name may appear either as a name="" attribute or as a <name>
// child embedded in the typedef text.
type xmlType struct {
	NameAttr  string
	API       string
	ChildName string
	Text      string
}

func (t *xmlType) name() string {
	if t.NameAttr != "" {
		return t.NameAttr
	}
	return t.ChildName
}

// UnmarshalXML collects the full typedef text, markup stripped. Unlike the
// prototype/parameter case, text after the <name> child (the trailing ";")
// is part of the typedef and is kept.
func (t *xmlType) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "name":
			t.NameAttr = attr.Value
		case "api":
			t.API = attr.Value
		}
	}

	var text strings.Builder
	depth := 0
	inName := false
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			depth++
			if tok.Name.Local == "name" {
				inName = true
			}
		case xml.EndElement:
			if depth == 0 {
				t.Text = text.String()
				return nil
			}
			depth--
			inName = false
		case xml.CharData:
			text.Write(tok)
			if inName {
				t.ChildName += string(tok)
			}
		}
	}
}

// xmlMixed is a <proto> or <param> element: the declaration text runs up to
// an embedded <name> child holding the identifier, and everything before
// that child (character data plus <ptype> text) is the type.
type xmlMixed struct {
	TextBeforeName string
	Name           string
}

func (m *xmlMixed) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var text strings.Builder
	depth := 0
	inName := false
	sawName := false
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			depth++
			if tok.Name.Local == "name" {
				inName = true
				sawName = true
			}
		case xml.EndElement:
			if depth == 0 {
				m.TextBeforeName = strings.TrimSpace(text.String())
				return nil
			}
			depth--
			inName = false
		case xml.CharData:
			switch {
			case inName:
				m.Name += string(tok)
			case !sawName:
				text.Write(tok)
			}
		}
	}
}
