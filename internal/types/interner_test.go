package types

import (
	"testing"

	"cshape/internal/names"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner(nil)
	b := in.Builtins()
	if b.Void == NoTypeID || b.Int32 == NoTypeID || b.Float64 == NoTypeID {
		t.Fatal("builtins not initialized")
	}
	info, ok := in.PrimInfo(b.Int32)
	if !ok || info.Size != 4 || info.Align != 4 || info.Class != PrimSigned {
		t.Fatalf("int32 info = %+v ok=%v", info, ok)
	}
	if id, ok := in.LookupQualified("uint64"); !ok || id != b.Uint64 {
		t.Fatalf("uint64 lookup = %d ok=%v, want %d", id, ok, b.Uint64)
	}
}

func TestInternerDeduplicatesStructural(t *testing.T) {
	in := NewInterner(nil)
	b := in.Builtins()

	p1 := in.Intern(MakePointer(b.Int32))
	p2 := in.Intern(MakePointer(b.Int32))
	if p1 != p2 {
		t.Fatal("identical pointer descriptors must dedupe")
	}
	if p3 := in.Intern(MakePointer(b.Int64)); p3 == p1 {
		t.Fatal("pointers to different pointees must differ")
	}

	a1 := in.Intern(MakeArray(b.Int32, 4))
	a2 := in.Intern(MakeArray(b.Int32, 4))
	if a1 != a2 {
		t.Fatal("identical array descriptors must dedupe")
	}
	if a3 := in.Intern(MakeArray(b.Int32, 5)); a3 == a1 {
		t.Fatal("arrays with different extents must differ")
	}
}

func TestInternRejectsNominalKinds(t *testing.T) {
	in := NewInterner(nil)
	if id := in.Intern(Type{Kind: KindStruct}); id != NoTypeID {
		t.Fatalf("Intern(struct descriptor) = %d, want NoTypeID", id)
	}
}

func TestRegisterStructDeduplicatesByName(t *testing.T) {
	in := NewInterner(nil)
	name := in.Strings().Intern("demo::Point")
	id1 := in.RegisterStruct(name, false)
	id2 := in.RegisterStruct(name, false)
	if id1 != id2 {
		t.Fatal("registering the same qualified name must return the same node")
	}
	if got := in.NameOf(id1); got != "demo::Point" {
		t.Fatalf("NameOf = %q", got)
	}
	if id, ok := in.LookupQualified("demo::Point"); !ok || id != id1 {
		t.Fatalf("LookupQualified = %d ok=%v", id, ok)
	}
}

func TestNamespaceDistinguishesIdentity(t *testing.T) {
	in := NewInterner(nil)
	a := in.RegisterStruct(in.Strings().Intern("A::B"), false)
	b := in.RegisterStruct(in.Strings().Intern("C::B"), false)
	if a == b {
		t.Fatal("same unqualified name in different namespaces must be distinct nodes")
	}
}

func TestAnonymousSitesAreDistinct(t *testing.T) {
	in := NewInterner(nil)
	// Site-unique names, as the declaration builder generates them.
	s1 := in.RegisterStruct(in.Strings().Intern("P::<anon#1>"), true)
	s2 := in.RegisterStruct(in.Strings().Intern("P::<anon#2>"), true)
	if s1 == s2 {
		t.Fatal("shape-identical anonymous composites at distinct sites must not unify")
	}
}

func TestStructFieldsAreCopied(t *testing.T) {
	in := NewInterner(nil)
	b := in.Builtins()
	id := in.RegisterStruct(in.Strings().Intern("S"), false)
	fields := []Field{{Name: in.Strings().Intern("x"), Type: b.Int32, Bits: NotBitfield}}
	in.SetStructFields(id, fields)
	fields[0].Type = b.Int64

	got := in.StructFields(id)
	if len(got) != 1 || got[0].Type != b.Int32 {
		t.Fatalf("stored fields alias the caller's slice: %+v", got)
	}
}

func TestInternFuncDeduplicates(t *testing.T) {
	in := NewInterner(nil)
	b := in.Builtins()
	f1 := in.InternFunc(b.Int32, []TypeID{b.Int64, b.Bool})
	f2 := in.InternFunc(b.Int32, []TypeID{b.Int64, b.Bool})
	if f1 != f2 {
		t.Fatal("identical signatures must dedupe")
	}
	if f3 := in.InternFunc(b.Int32, []TypeID{b.Int64}); f3 == f1 {
		t.Fatal("different parameter lists must differ")
	}
	info, ok := in.FuncInfo(f1)
	if !ok || info.Result != b.Int32 || len(info.Params) != 2 {
		t.Fatalf("FuncInfo = %+v ok=%v", info, ok)
	}
}

func TestResolveAliasChain(t *testing.T) {
	in := NewInterner(names.NewInterner())
	b := in.Builtins()

	a1 := in.RegisterAlias(in.Strings().Intern("Meters"))
	in.SetAliasTarget(a1, b.Int32)
	a2 := in.RegisterAlias(in.Strings().Intern("Distance"))
	in.SetAliasTarget(a2, a1)

	got, err := in.ResolveAliasChain(a2)
	if err != nil {
		t.Fatalf("ResolveAliasChain: %v", err)
	}
	if got != b.Int32 {
		t.Fatalf("resolved to %d, want %d", got, b.Int32)
	}

	// Non-alias nodes resolve to themselves.
	if got, err := in.ResolveAliasChain(b.Bool); err != nil || got != b.Bool {
		t.Fatalf("non-alias resolve = %d, %v", got, err)
	}
}

func TestResolveAliasChainCycle(t *testing.T) {
	in := NewInterner(nil)
	a1 := in.RegisterAlias(in.Strings().Intern("A"))
	a2 := in.RegisterAlias(in.Strings().Intern("B"))
	in.SetAliasTarget(a1, a2)
	in.SetAliasTarget(a2, a1)

	_, err := in.ResolveAliasChain(a1)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	if _, ok := err.(*AliasCycleError); !ok {
		t.Fatalf("error type = %T", err)
	}
}

func TestDeclaredOrder(t *testing.T) {
	in := NewInterner(nil)
	base := len(in.Declared()) // builtins occupy the front
	s := in.RegisterStruct(in.Strings().Intern("First"), false)
	e := in.RegisterEnum(in.Strings().Intern("Second"))
	got := in.Declared()
	if len(got) != base+2 || got[base] != s || got[base+1] != e {
		t.Fatalf("Declared tail = %v, want [%d %d]", got[base:], s, e)
	}
}
