package types

import (
	"fmt"

	"fortio.org/safecast"

	"cshape/internal/names"
)

// PrimClass splits the primitives by their numeric nature.
type PrimClass uint8

const (
	PrimVoid PrimClass = iota
	PrimBool
	PrimSigned
	PrimUnsigned
	PrimFloat
)

// PrimInfo stores the platform-independent shape of a primitive type.
// Sizes follow the LP64 convention baked into the builtin set; the layout
// engine only ever reads Size/Align from here.
type PrimInfo struct {
	Name  names.StringID
	Size  int
	Align int
	Class PrimClass
}

// PrimInfo returns metadata for the provided primitive TypeID.
func (in *Interner) PrimInfo(id TypeID) (*PrimInfo, bool) {
	info := in.primInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) registerPrim(name string, size, align int, class PrimClass) TypeID {
	nameID := in.strings.Intern(name)
	in.prims = append(in.prims, PrimInfo{
		Name:  nameID,
		Size:  size,
		Align: align,
		Class: class,
	})
	slot, err := safecast.Conv[uint32](len(in.prims) - 1)
	if err != nil {
		panic(fmt.Errorf("prim info overflow: %w", err))
	}
	id := in.appendType(Type{Kind: KindPrimitive, Payload: slot})
	in.bindName(nameID, id)
	return id
}

func (in *Interner) primInfo(id TypeID) *PrimInfo {
	if id == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindPrimitive {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.prims) {
		return nil
	}
	return &in.prims[tt.Payload]
}
