// Package snapshot persists resolved layouts so repeated runs over an
// unchanged declaration document skip resolution entirely. Payloads are
// msgpack-encoded, schema-versioned, and keyed by a digest of the document
// bytes plus the target, so any input or ABI change invalidates naturally.
package snapshot

import (
	"crypto/sha256"
	"fmt"

	"cshape/internal/layout"
	"cshape/internal/types"
)

// Schema version - increment when the Payload format changes.
const schemaVersion uint16 = 1

// Digest identifies one (document, target) combination.
type Digest [sha256.Size]byte

// DigestOf hashes the raw document bytes together with the layout-relevant
// engine configuration.
func DigestOf(doc []byte, target layout.Target, forcePack int) Digest {
	h := sha256.New()
	h.Write(doc)
	fmt.Fprintf(h, "|%s|%d|%d|%d|%d", target.Triple, target.PtrSize, target.PtrAlign, target.BitOrder, forcePack)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// FieldRecord is one resolved member position.
type FieldRecord struct {
	Name       string
	Type       string
	ByteOffset int
	BitOffset  int
	BitWidth   int
}

// HoleRecord is one padding range.
type HoleRecord struct {
	Offset int
	Len    int
}

// TypeRecord is the resolved layout of one named node.
type TypeRecord struct {
	Name   string
	Kind   string
	Size   int
	Align  int
	Fields []FieldRecord
	Holes  []HoleRecord
}

// Payload is the cached/exported form of a resolution run.
type Payload struct {
	Schema uint16
	Triple string
	Types  []TypeRecord
}

// Build collects the resolved layouts of the given nodes into a payload.
// Nodes that fail to resolve are skipped; the caller reports them through
// its diagnostics bag.
func Build(typesIn *types.Interner, engine *layout.Engine, ids []types.TypeID) *Payload {
	p := &Payload{
		Schema: schemaVersion,
		Triple: engine.Target.Triple,
	}
	for _, id := range ids {
		l, err := engine.LayoutOf(id)
		if err != nil {
			continue
		}
		tt, ok := typesIn.Lookup(id)
		if !ok {
			continue
		}
		rec := TypeRecord{
			Name:  typesIn.NameOf(id),
			Kind:  tt.Kind.String(),
			Size:  l.Size,
			Align: l.Align,
		}
		if info, ok := typesIn.StructInfo(id); ok {
			if info.IsUnion {
				rec.Kind = "union"
			}
			for i, f := range info.Fields {
				if i >= len(l.Fields) {
					break
				}
				name, _ := typesIn.Strings().Lookup(f.Name)
				rec.Fields = append(rec.Fields, FieldRecord{
					Name:       name,
					Type:       typesIn.NameOf(f.Type),
					ByteOffset: l.Fields[i].ByteOffset,
					BitOffset:  l.Fields[i].BitOffset,
					BitWidth:   l.Fields[i].BitWidth,
				})
			}
			for _, h := range l.Holes {
				rec.Holes = append(rec.Holes, HoleRecord{Offset: h.Offset, Len: h.Len})
			}
		}
		p.Types = append(p.Types, rec)
	}
	return p
}
