package layout

import (
	"testing"

	"cshape/internal/types"
)

func bitFld(in *types.Interner, name string, typ types.TypeID, width int32) types.Field {
	return types.Field{Name: in.Strings().Intern(name), Type: typ, Bits: width}
}

func TestBitfieldPacking(t *testing.T) {
	e, in := newTestEngine(t)
	b := in.Builtins()

	// struct { int32 a:3; int32 b:5; int32 c:1; }
	id := defStruct(t, in, "Flags", false,
		bitFld(in, "a", b.Int32, 3),
		bitFld(in, "b", b.Int32, 5),
		bitFld(in, "c", b.Int32, 1),
	)
	l := mustLayout(t, e, id)
	if l.Size != 4 || l.Align != 4 {
		t.Fatalf("size=%d align=%d, want 4/4", l.Size, l.Align)
	}
	want := []FieldLayout{
		{ByteOffset: 0, BitOffset: 0, BitWidth: 3},
		{ByteOffset: 0, BitOffset: 3, BitWidth: 5},
		{ByteOffset: 0, BitOffset: 8, BitWidth: 1},
	}
	for i, w := range want {
		if l.Fields[i] != w {
			t.Errorf("field %d = %+v, want %+v", i, l.Fields[i], w)
		}
	}
}

func TestBitfieldUnitOverflowOpensNewUnit(t *testing.T) {
	e, in := newTestEngine(t)
	b := in.Builtins()

	// struct { uint8 a:7; uint8 b:3; } - b does not fit the 1 bit left.
	id := defStruct(t, in, "Narrow", false,
		bitFld(in, "a", b.Uint8, 7),
		bitFld(in, "b", b.Uint8, 3),
	)
	l := mustLayout(t, e, id)
	if l.Fields[0] != (FieldLayout{ByteOffset: 0, BitOffset: 0, BitWidth: 7}) {
		t.Fatalf("a = %+v", l.Fields[0])
	}
	if l.Fields[1] != (FieldLayout{ByteOffset: 1, BitOffset: 0, BitWidth: 3}) {
		t.Fatalf("b = %+v", l.Fields[1])
	}
	if l.Size != 2 || l.Align != 1 {
		t.Fatalf("size=%d align=%d, want 2/1", l.Size, l.Align)
	}
}

func TestBitfieldDeclaredTypeChangeOpensNewUnit(t *testing.T) {
	e, in := newTestEngine(t)
	b := in.Builtins()

	// struct { int32 a:3; int8 b:2; } - size change forces a fresh unit.
	id := defStruct(t, in, "TypeChange", false,
		bitFld(in, "a", b.Int32, 3),
		bitFld(in, "b", b.Int8, 2),
	)
	l := mustLayout(t, e, id)
	if l.Fields[0].ByteOffset != 0 {
		t.Fatalf("a at %d, want 0", l.Fields[0].ByteOffset)
	}
	if l.Fields[1] != (FieldLayout{ByteOffset: 4, BitOffset: 0, BitWidth: 2}) {
		t.Fatalf("b = %+v", l.Fields[1])
	}
	if l.Size != 8 {
		t.Fatalf("size = %d, want 8", l.Size)
	}
}

func TestZeroWidthBitfieldClosesUnit(t *testing.T) {
	e, in := newTestEngine(t)
	b := in.Builtins()

	// struct { int32 a:3; int32 :0; int32 b:2; }
	id := defStruct(t, in, "Split", false,
		bitFld(in, "a", b.Int32, 3),
		types.Field{Type: b.Int32, Bits: 0}, // unnamed :0
		bitFld(in, "b", b.Int32, 2),
	)
	l := mustLayout(t, e, id)
	if l.Fields[0].ByteOffset != 0 || l.Fields[0].BitOffset != 0 {
		t.Fatalf("a = %+v", l.Fields[0])
	}
	if l.Fields[2] != (FieldLayout{ByteOffset: 4, BitOffset: 0, BitWidth: 2}) {
		t.Fatalf("b = %+v, want a fresh unit at 4", l.Fields[2])
	}
	if l.Size != 8 {
		t.Fatalf("size = %d, want 8", l.Size)
	}
}

func TestNonBitfieldClosesUnit(t *testing.T) {
	e, in := newTestEngine(t)
	b := in.Builtins()

	// struct { int32 a:3; int16 mid; int32 b:2; }
	id := defStruct(t, in, "Interleaved", false,
		bitFld(in, "a", b.Int32, 3),
		fld(in, "mid", b.Int16),
		bitFld(in, "b", b.Int32, 2),
	)
	l := mustLayout(t, e, id)
	if l.Fields[1].ByteOffset != 4 {
		t.Fatalf("mid at %d, want 4", l.Fields[1].ByteOffset)
	}
	if l.Fields[2].ByteOffset != 8 || l.Fields[2].BitOffset != 0 {
		t.Fatalf("b = %+v, want a fresh unit at 8", l.Fields[2])
	}
	if l.Size != 12 {
		t.Fatalf("size = %d, want 12", l.Size)
	}
}

func TestBitfieldHighBitFirst(t *testing.T) {
	in := types.NewInterner(nil)
	target := X86_64LinuxGNU()
	target.BitOrder = HighBitFirst
	e := New(target, in)
	b := in.Builtins()

	id := defStruct(t, in, "BigEndianBits", false,
		bitFld(in, "a", b.Int32, 3),
		bitFld(in, "b", b.Int32, 5),
	)
	l := mustLayout(t, e, id)
	// 32-bit unit, packed from the most significant bit down.
	if l.Fields[0].BitOffset != 29 {
		t.Fatalf("a bit offset = %d, want 29", l.Fields[0].BitOffset)
	}
	if l.Fields[1].BitOffset != 24 {
		t.Fatalf("b bit offset = %d, want 24", l.Fields[1].BitOffset)
	}
}

func TestUnionBitfieldsOverlayAtZero(t *testing.T) {
	e, in := newTestEngine(t)
	b := in.Builtins()

	id := defStruct(t, in, "BitUnion", true,
		bitFld(in, "lo", b.Uint32, 4),
		bitFld(in, "hi", b.Uint32, 12),
		fld(in, "raw", b.Uint32),
	)
	l := mustLayout(t, e, id)
	if l.Size != 4 || l.Align != 4 {
		t.Fatalf("size=%d align=%d, want 4/4", l.Size, l.Align)
	}
	for i, f := range l.Fields {
		if f.ByteOffset != 0 {
			t.Errorf("member %d at %d, want 0", i, f.ByteOffset)
		}
	}
	if l.Fields[0].BitOffset != 0 || l.Fields[1].BitOffset != 0 {
		t.Fatalf("union bitfields both start at bit 0: %+v", l.Fields)
	}
}

func TestPackedBitfieldUnitAlignment(t *testing.T) {
	e, in := newTestEngine(t)
	b := in.Builtins()

	// pack(1): the int32 storage unit loses its 4-byte alignment.
	id := defStruct(t, in, "PackedBits", false,
		fld(in, "lead", b.Uint8),
		bitFld(in, "a", b.Int32, 3),
	)
	in.SetStructPack(id, 1)
	l := mustLayout(t, e, id)
	if l.Fields[1].ByteOffset != 1 {
		t.Fatalf("unit at %d, want 1 under pack(1)", l.Fields[1].ByteOffset)
	}
	if l.Size != 5 || l.Align != 1 {
		t.Fatalf("size=%d align=%d, want 5/1", l.Size, l.Align)
	}
}
