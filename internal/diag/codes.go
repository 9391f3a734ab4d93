package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Declaration document loading
	DeclInfo          Code = 1000
	DeclParse         Code = 1001
	DeclBadTypeExpr   Code = 1002
	DeclUnknownType   Code = 1003
	DeclDuplicateType Code = 1004
	DeclBadPack       Code = 1005
	DeclBadBitWidth   Code = 1006
	DeclBadField      Code = 1007
	DeclBadEnum       Code = 1008

	// Layout resolution
	LayoutInfo           Code = 2000
	LayoutCycle          Code = 2001
	LayoutInvalidPacking Code = 2002

	// Facade queries
	QueryInfo        Code = 3000
	QueryUnknownType Code = 3001
	QueryAliasCycle  Code = 3002
)

func (c Code) String() string {
	switch {
	case c >= 3000:
		return fmt.Sprintf("QRY%04d", uint16(c))
	case c >= 2000:
		return fmt.Sprintf("LAY%04d", uint16(c))
	case c >= 1000:
		return fmt.Sprintf("DEC%04d", uint16(c))
	default:
		return fmt.Sprintf("GEN%04d", uint16(c))
	}
}
