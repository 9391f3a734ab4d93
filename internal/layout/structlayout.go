package layout

import (
	"cshape/internal/types"
)

// structLayout implements the core placement algorithm for structs and
// unions: cursor walk in declaration order, pack-bounded field alignment,
// hole accounting, and bitfield storage units.
func (e *Engine) structLayout(id types.TypeID, state *resolveState) (TypeLayout, *Error) {
	info, ok := e.Types.StructInfo(id)
	if !ok || info == nil {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	pack, perr := e.effectivePack(id, info)
	if perr != nil {
		return TypeLayout{Size: 0, Align: 1}, perr
	}
	if info.IsUnion {
		return e.unionLayout(info, pack, state)
	}

	fields := info.Fields
	out := make([]FieldLayout, len(fields))
	var holes []Hole

	cursor := 0
	maxAlign := 1

	// Open bitfield storage unit. While a unit is open the cursor stays at
	// its start; closing advances past the whole unit.
	unitStart := -1
	unitSize := 0
	unitBit := 0
	closeUnit := func() {
		if unitStart >= 0 {
			cursor = unitStart + unitSize
			unitStart = -1
			unitBit = 0
		}
	}

	for i, f := range fields {
		fl, err := e.layoutOf(f.Type, state)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}

		if !f.IsBitfield() {
			closeUnit()
			al := boundAlign(fl.Align, pack)
			aligned := roundUp(cursor, al)
			if aligned > cursor {
				holes = append(holes, Hole{Offset: cursor, Len: aligned - cursor})
			}
			out[i] = FieldLayout{ByteOffset: aligned, BitWidth: int(types.NotBitfield)}
			cursor = aligned + fl.Size
			maxAlign = maxInt(maxAlign, al)
			continue
		}

		width := int(f.Bits)
		if width == 0 {
			// Zero-width padding bitfield: close the unit, place nothing.
			closeUnit()
			out[i] = FieldLayout{ByteOffset: cursor, BitWidth: 0}
			continue
		}

		// A new storage unit opens when none is open, when the declared
		// type's size differs from the open unit, or when the unit has too
		// few bits left.
		if unitStart >= 0 && (fl.Size != unitSize || unitBit+width > unitSize*8) {
			closeUnit()
		}
		if unitStart < 0 {
			al := boundAlign(fl.Align, pack)
			aligned := roundUp(cursor, al)
			if aligned > cursor {
				holes = append(holes, Hole{Offset: cursor, Len: aligned - cursor})
			}
			unitStart = aligned
			unitSize = fl.Size
			unitBit = 0
			cursor = aligned
			maxAlign = maxInt(maxAlign, al)
		}

		bitOff := unitBit
		if e.Target.BitOrder == HighBitFirst {
			bitOff = unitSize*8 - unitBit - width
		}
		out[i] = FieldLayout{ByteOffset: unitStart, BitOffset: bitOff, BitWidth: width}
		unitBit += width
	}
	closeUnit()

	size := roundUp(cursor, maxAlign)
	if size > cursor {
		holes = append(holes, Hole{Offset: cursor, Len: size - cursor})
	}
	return TypeLayout{
		Size:   size,
		Align:  maxAlign,
		Fields: out,
		Holes:  holes,
	}, nil
}

// unionLayout places every member at offset zero. All bytes may be live
// depending on the active member, so unions record no holes.
func (e *Engine) unionLayout(info *types.StructInfo, pack int, state *resolveState) (TypeLayout, *Error) {
	out := make([]FieldLayout, len(info.Fields))
	size := 0
	align := 1
	for i, f := range info.Fields {
		fl, err := e.layoutOf(f.Type, state)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		memberSize := fl.Size
		if f.IsBitfield() {
			width := int(f.Bits)
			bitOff := 0
			if e.Target.BitOrder == HighBitFirst {
				bitOff = fl.Size*8 - width
			}
			out[i] = FieldLayout{ByteOffset: 0, BitOffset: bitOff, BitWidth: width}
		} else {
			out[i] = FieldLayout{ByteOffset: 0, BitWidth: int(types.NotBitfield)}
		}
		size = maxInt(size, memberSize)
		align = maxInt(align, boundAlign(fl.Align, pack))
	}
	size = roundUp(size, align)
	return TypeLayout{
		Size:   size,
		Align:  align,
		Fields: out,
	}, nil
}

// boundAlign caps a natural alignment by the active pack bound.
func boundAlign(align, pack int) int {
	if align <= 0 {
		align = 1
	}
	if pack > 0 && align > pack {
		return pack
	}
	return align
}
