package decl

import (
	"testing"

	"cshape/internal/names"
	"cshape/internal/types"
)

func newTestTypes(t *testing.T) *types.Interner {
	t.Helper()
	return types.NewInterner(names.NewInterner())
}

func TestParseTypeRefNamed(t *testing.T) {
	in := newTestTypes(t)
	b := in.Builtins()

	id, err := parseTypeRef(in, "int32")
	if err != nil || id != b.Int32 {
		t.Fatalf("int32 = %d, %v", id, err)
	}

	s := in.RegisterStruct(in.Strings().Intern("ns::Point"), false)
	id, err = parseTypeRef(in, "ns::Point")
	if err != nil || id != s {
		t.Fatalf("ns::Point = %d, %v; want %d", id, err, s)
	}
}

func TestParseTypeRefPointer(t *testing.T) {
	in := newTestTypes(t)
	b := in.Builtins()

	id, err := parseTypeRef(in, "*int32")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tt := in.MustLookup(id)
	if tt.Kind != types.KindPointer || tt.Elem != b.Int32 {
		t.Fatalf("descriptor = %+v", tt)
	}

	// **T nests.
	id2, err := parseTypeRef(in, "**int32")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	outer := in.MustLookup(id2)
	if outer.Kind != types.KindPointer || outer.Elem != id {
		t.Fatalf("double pointer = %+v", outer)
	}
}

func TestParseTypeRefArray(t *testing.T) {
	in := newTestTypes(t)
	b := in.Builtins()

	id, err := parseTypeRef(in, "[2][3]int32")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	outer := in.MustLookup(id)
	if outer.Kind != types.KindArray || outer.Count != 2 {
		t.Fatalf("outer = %+v, want extent 2 outermost", outer)
	}
	inner := in.MustLookup(outer.Elem)
	if inner.Kind != types.KindArray || inner.Count != 3 || inner.Elem != b.Int32 {
		t.Fatalf("inner = %+v", inner)
	}
}

func TestParseTypeRefFunc(t *testing.T) {
	in := newTestTypes(t)
	b := in.Builtins()

	id, err := parseTypeRef(in, "fn(int32, *char) -> bool")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	info, ok := in.FuncInfo(id)
	if !ok || info.Result != b.Bool || len(info.Params) != 2 || info.Params[0] != b.Int32 {
		t.Fatalf("signature = %+v ok=%v", info, ok)
	}

	// No arrow means void result.
	id2, err := parseTypeRef(in, "fn()")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	info2, _ := in.FuncInfo(id2)
	if info2.Result != b.Void || len(info2.Params) != 0 {
		t.Fatalf("fn() = %+v", info2)
	}
}

func TestParseTypeRefErrors(t *testing.T) {
	in := newTestTypes(t)
	bad := []string{
		"",
		"NoSuchType",
		"[x]int32",
		"[2int32",
		"fn(int32",
		"int32 trailing",
		"*",
	}
	for _, expr := range bad {
		if _, err := parseTypeRef(in, expr); err == nil {
			t.Errorf("%q parsed without error", expr)
		}
	}
}

func TestParseTypeRefDeduplicates(t *testing.T) {
	in := newTestTypes(t)
	id1, _ := parseTypeRef(in, "*int32")
	id2, _ := parseTypeRef(in, "* int32")
	if id1 != id2 {
		t.Fatal("equivalent pointer expressions must intern to one node")
	}
}
