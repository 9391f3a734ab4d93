// Package testkit holds cross-package checkers shared by tests.
package testkit

import (
	"fmt"

	"cshape/internal/layout"
	"cshape/internal/types"
)

// CheckLayoutInvariants runs the structural checks every successfully
// resolved node must satisfy:
// 1) align is positive and size is a non-negative multiple of it
// 2) struct field positions parallel the declared fields and stay in bounds
// 3) union members all sit at offset zero and record no holes
// 4) holes are sorted, disjoint, and inside the type's size
func CheckLayoutInvariants(typesIn *types.Interner, id types.TypeID, l layout.TypeLayout) error {
	if typesIn == nil {
		return fmt.Errorf("nil interner")
	}

	// 1) size/align sanity
	if l.Align < 1 {
		return fmt.Errorf("align %d < 1", l.Align)
	}
	if l.Size < 0 {
		return fmt.Errorf("negative size %d", l.Size)
	}
	if l.Size%l.Align != 0 {
		return fmt.Errorf("size %d is not a multiple of align %d", l.Size, l.Align)
	}

	info, isComposite := typesIn.StructInfo(id)
	if !isComposite {
		if len(l.Fields) != 0 || len(l.Holes) != 0 {
			return fmt.Errorf("non-composite node carries field or hole records")
		}
		return nil
	}

	// 2) field positions parallel the declaration
	if len(l.Fields) != len(info.Fields) {
		return fmt.Errorf("%d field positions for %d declared fields", len(l.Fields), len(info.Fields))
	}
	prevOffset := 0
	for i, pos := range l.Fields {
		if pos.ByteOffset < 0 || pos.ByteOffset > l.Size {
			return fmt.Errorf("field %d at %d is outside [0,%d]", i, pos.ByteOffset, l.Size)
		}
		if pos.IsBitfield() && pos.BitOffset < 0 {
			return fmt.Errorf("field %d has negative bit offset %d", i, pos.BitOffset)
		}
		if !info.IsUnion {
			if pos.ByteOffset < prevOffset {
				return fmt.Errorf("field %d at %d precedes field %d at %d", i, pos.ByteOffset, i-1, prevOffset)
			}
			prevOffset = pos.ByteOffset
		}
	}

	// 3) union placement
	if info.IsUnion {
		for i, pos := range l.Fields {
			if pos.ByteOffset != 0 {
				return fmt.Errorf("union member %d at %d", i, pos.ByteOffset)
			}
		}
		if len(l.Holes) != 0 {
			return fmt.Errorf("union records %d holes", len(l.Holes))
		}
		return nil
	}

	// 4) hole discipline
	prevEnd := -1
	for i, h := range l.Holes {
		if h.Len <= 0 {
			return fmt.Errorf("hole %d has non-positive length %d", i, h.Len)
		}
		if h.Offset < 0 || h.Offset+h.Len > l.Size {
			return fmt.Errorf("hole %d [%d,+%d] is outside [0,%d]", i, h.Offset, h.Len, l.Size)
		}
		if h.Offset <= prevEnd {
			return fmt.Errorf("hole %d [%d,+%d] overlaps or precedes the previous hole", i, h.Offset, h.Len)
		}
		prevEnd = h.Offset + h.Len - 1
	}
	return nil
}
