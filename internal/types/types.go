package types

import "fmt"

// TypeID uniquely identifies a type node inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of type nodes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindPointer
	KindArray
	KindFuncPtr
	KindEnum
	KindStruct // unions too, see StructInfo.IsUnion
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindPrimitive:
		return "primitive"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindFuncPtr:
		return "funcptr"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindAlias:
		return "alias"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any type node. Structural kinds
// (pointer, array) are fully described here; nominal kinds keep their
// metadata in a side table addressed by Payload.
type Type struct {
	Kind    Kind
	Elem    TypeID // pointee / array element
	Count   uint32 // array extent; multi-dim arrays nest, outermost first
	Payload uint32 // slot into the side table for the nominal kinds
}

// MakePointer describes a pointer to elem. A pointer to NoTypeID is void*.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeArray describes one array dimension over elem. int[3][4] is
// MakeArray(MakeArray(int, 4), 3): the outermost extent sits outermost.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}
