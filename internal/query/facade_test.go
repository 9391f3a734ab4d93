package query

import (
	"errors"
	"testing"

	"cshape/internal/layout"
	"cshape/internal/names"
	"cshape/internal/types"
)

func newTestFacade(t *testing.T) (*Facade, *types.Interner) {
	t.Helper()
	in := types.NewInterner(names.NewInterner())
	engine := layout.New(layout.X86_64LinuxGNU(), in)
	return New(in, engine), in
}

func field(in *types.Interner, name string, typ types.TypeID) types.Field {
	return types.Field{Name: in.Strings().Intern(name), Type: typ, Bits: types.NotBitfield}
}

func buildDemoGraph(t *testing.T, in *types.Interner) {
	t.Helper()
	b := in.Builtins()

	status := in.RegisterEnum(in.Strings().Intern("demo::Status"))
	in.SetEnumVariants(status, []types.EnumVariant{
		{Name: in.Strings().Intern("Ok"), Value: 0},
	})

	payload := in.RegisterStruct(in.Strings().Intern("demo::Payload"), false)
	in.SetStructFields(payload, []types.Field{
		field(in, "len", b.Int32),
		field(in, "status", status),
	})

	main := in.RegisterStruct(in.Strings().Intern("demo::Main"), false)
	in.SetStructFields(main, []types.Field{
		field(in, "payload", payload),
	})

	unused := in.RegisterStruct(in.Strings().Intern("demo::Unused"), false)
	in.SetStructFields(unused, []types.Field{field(in, "x", b.Int64)})

	alias := in.RegisterAlias(in.Strings().Intern("demo::StatusAlias"))
	in.SetAliasTarget(alias, status)
}

func TestFacadeLayoutOf(t *testing.T) {
	f, in := newTestFacade(t)
	buildDemoGraph(t, in)

	l, err := f.LayoutOf("demo::Payload")
	if err != nil {
		t.Fatalf("LayoutOf: %v", err)
	}
	if l.Size != 8 || l.Align != 4 {
		t.Fatalf("Payload = %d/%d, want 8/4", l.Size, l.Align)
	}
}

func TestFacadeUnknownType(t *testing.T) {
	f, in := newTestFacade(t)
	buildDemoGraph(t, in)

	_, err := f.LayoutOf("demo::Missing")
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) || unknown.Name != "demo::Missing" {
		t.Fatalf("err = %v, want UnknownTypeError for demo::Missing", err)
	}
}

func TestReachableViewHidesUnreachable(t *testing.T) {
	f, in := newTestFacade(t)
	buildDemoGraph(t, in)

	narrowed, err := f.ReachableView("demo::Main")
	if err != nil {
		t.Fatalf("ReachableView: %v", err)
	}

	if _, err := narrowed.LayoutOf("demo::Payload"); err != nil {
		t.Fatalf("Payload should survive: %v", err)
	}
	_, err = narrowed.LayoutOf("demo::Unused")
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("Unused still visible: err = %v", err)
	}

	// The original facade is untouched.
	if _, err := f.LayoutOf("demo::Unused"); err != nil {
		t.Fatalf("base facade narrowed as a side effect: %v", err)
	}
}

func TestReachableViewUnknownRoot(t *testing.T) {
	f, in := newTestFacade(t)
	buildDemoGraph(t, in)
	if _, err := f.ReachableView("demo::Nope"); err == nil {
		t.Fatal("unknown root accepted")
	}
}

func TestFlattenedViewFlatFields(t *testing.T) {
	f, in := newTestFacade(t)
	b := in.Builtins()

	inner := in.RegisterStruct(in.Strings().Intern("P::<anon#1>"), true)
	in.SetStructFields(inner, []types.Field{
		field(in, "a", b.Uint16),
		field(in, "raw", b.Uint32),
	})
	p := in.RegisterStruct(in.Strings().Intern("P"), false)
	in.SetStructFields(p, []types.Field{
		field(in, "id", b.Int32),
		{Type: inner, Bits: types.NotBitfield, Anonymous: true},
	})

	flat := f.FlattenedView()
	ff, err := flat.FlatFields("P")
	if err != nil {
		t.Fatalf("FlatFields: %v", err)
	}
	if len(ff) != 3 {
		t.Fatalf("flattened to %d members, want 3", len(ff))
	}

	// The unflattened facade has no flat lists.
	if _, err := f.FlatFields("P"); err == nil {
		t.Fatal("base facade claims flattened fields")
	}
}

func TestFacadeCanonical(t *testing.T) {
	f, in := newTestFacade(t)
	buildDemoGraph(t, in)

	got, err := f.Canonical("demo::StatusAlias")
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if got != "demo::Status" {
		t.Fatalf("canonical = %q, want demo::Status", got)
	}

	// Non-alias names canonicalize to themselves.
	if self, _ := f.Canonical("demo::Status"); self != "demo::Status" {
		t.Fatalf("self-canonical = %q", self)
	}
}
