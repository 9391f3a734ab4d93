// Package decl ingests declaration documents: the serialized form of the
// structured type-declaration graph handed to the engine by an upstream
// C/C++ front end. The document format carries fully-qualified names,
// namespace paths, per-declaration pack bounds, and explicit enum
// underlying types; it is graph notation, not C source.
package decl

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Document is the top-level TOML schema.
type Document struct {
	Enums    []EnumDecl    `toml:"enum"`
	Structs  []StructDecl  `toml:"struct"`
	Typedefs []TypedefDecl `toml:"typedef"`
}

// EnumDecl declares one enum type.
type EnumDecl struct {
	Name       string        `toml:"name"`
	Namespace  []string      `toml:"namespace"`
	Underlying string        `toml:"underlying"` // empty = infer smallest
	Variants   []VariantDecl `toml:"variants"`
}

type VariantDecl struct {
	Name  string `toml:"name"`
	Value int64  `toml:"value"`
}

// StructDecl declares one struct or union type. Pack distinguishes "absent"
// from an explicit bound, so a declared pack of zero can be rejected.
type StructDecl struct {
	Name      string      `toml:"name"`
	Namespace []string    `toml:"namespace"`
	Union     bool        `toml:"union"`
	Pack      *int        `toml:"pack"`
	Fields    []FieldDecl `toml:"fields"`
}

// FieldDecl declares one member. Exactly one of Type or Fields must be
// set: Type references an existing node by type expression, Fields declares
// an inline composite at this site. A field with no name and an inline
// composite is an anonymous member whose children promote during
// flattening; a field with no name and Bits set is an unnamed bitfield.
type FieldDecl struct {
	Name   string      `toml:"name"`
	Type   string      `toml:"type"`
	Bits   *int        `toml:"bits"`
	Union  bool        `toml:"union"`
	Pack   *int        `toml:"pack"`
	Fields []FieldDecl `toml:"fields"`
}

// TypedefDecl declares one alias.
type TypedefDecl struct {
	Name      string   `toml:"name"`
	Namespace []string `toml:"namespace"`
	Type      string   `toml:"type"`
}

// LoadFile parses a declaration document from disk.
func LoadFile(path string) (*Document, error) {
	var doc Document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return &doc, nil
}

// Parse parses a declaration document from a string, mostly for tests.
func Parse(blob string) (*Document, error) {
	var doc Document
	if _, err := toml.Decode(blob, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return &doc, nil
}
