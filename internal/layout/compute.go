package layout

import (
	"fortio.org/safecast"

	"cshape/internal/types"
)

func (e *Engine) computeLayout(id types.TypeID, state *resolveState) (TypeLayout, *Error) {
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return TypeLayout{Size: 0, Align: 1}, nil
	}

	switch tt.Kind {
	case types.KindPrimitive:
		info, ok := e.Types.PrimInfo(id)
		if !ok || info.Size <= 0 {
			// void and friends: zero-sized, byte-aligned.
			return TypeLayout{Size: 0, Align: 1}, nil
		}
		return TypeLayout{Size: info.Size, Align: info.Align}, nil

	case types.KindPointer, types.KindFuncPtr:
		// Pointee shape never matters for sizing; function pointers share
		// data-pointer size and alignment on the supported targets.
		return e.ptrLayout(), nil

	case types.KindArray:
		return e.arrayLayout(tt, state)

	case types.KindEnum:
		return e.enumLayout(id, state)

	case types.KindStruct:
		return e.structLayout(id, state)

	case types.KindAlias:
		// A typedef adds no padding and changes no alignment: the target's
		// layout is inherited verbatim. Walking the target through the
		// state stack turns typedef chains that loop into ErrCycle.
		target, ok := e.Types.AliasTarget(id)
		if !ok {
			return TypeLayout{Size: 0, Align: 1}, nil
		}
		return e.layoutOf(target, state)

	default:
		return TypeLayout{Size: 0, Align: 1}, nil
	}
}

func (e *Engine) ptrLayout() TypeLayout {
	ptrSize := e.Target.PtrSize
	ptrAlign := e.Target.PtrAlign
	if ptrSize <= 0 {
		ptrSize = 8
	}
	if ptrAlign <= 0 {
		ptrAlign = ptrSize
	}
	return TypeLayout{Size: ptrSize, Align: ptrAlign}
}

func (e *Engine) arrayLayout(tt types.Type, state *resolveState) (TypeLayout, *Error) {
	elemLayout, err := e.layoutOf(tt.Elem, state)
	if err != nil {
		return TypeLayout{Size: 0, Align: 1}, err
	}
	elemAlign := elemLayout.Align
	if elemAlign <= 0 {
		elemAlign = 1
	}
	n, convErr := safecast.Conv[int](tt.Count)
	if convErr != nil || n < 0 {
		n = 0
	}
	// The element size is already a multiple of its alignment, so the
	// stride is the element size itself. Zero extents (int x[0]) are legal
	// and zero-sized.
	return TypeLayout{
		Size:  elemLayout.Size * n,
		Align: elemAlign,
	}, nil
}

func (e *Engine) enumLayout(id types.TypeID, state *resolveState) (TypeLayout, *Error) {
	info, ok := e.Types.EnumInfo(id)
	if !ok || info == nil {
		return TypeLayout{Size: 4, Align: 4}, nil
	}
	if info.Underlying != types.NoTypeID {
		return e.layoutOf(info.Underlying, state)
	}
	return e.layoutOf(e.inferEnumUnderlying(info), state)
}

// inferEnumUnderlying picks the smallest integer type holding every variant
// value, signed when any value is negative. Empty enums default to int32.
func (e *Engine) inferEnumUnderlying(info *types.EnumInfo) types.TypeID {
	b := e.Types.Builtins()
	if len(info.Variants) == 0 {
		return b.Int32
	}
	minV := info.Variants[0].Value
	maxV := info.Variants[0].Value
	for _, v := range info.Variants[1:] {
		if v.Value < minV {
			minV = v.Value
		}
		if v.Value > maxV {
			maxV = v.Value
		}
	}
	if minV < 0 {
		switch {
		case minV >= -1<<7 && maxV <= 1<<7-1:
			return b.Int8
		case minV >= -1<<15 && maxV <= 1<<15-1:
			return b.Int16
		case minV >= -1<<31 && maxV <= 1<<31-1:
			return b.Int32
		default:
			return b.Int64
		}
	}
	switch {
	case maxV <= 1<<8-1:
		return b.Uint8
	case maxV <= 1<<16-1:
		return b.Uint16
	case maxV <= 1<<32-1:
		return b.Uint32
	default:
		return b.Uint64
	}
}
