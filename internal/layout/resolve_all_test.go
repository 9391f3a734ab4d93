package layout

import (
	"testing"

	"cshape/internal/diag"
	"cshape/internal/types"
)

func TestResolveAllIsBestEffort(t *testing.T) {
	e, in := newTestEngine(t)
	b := in.Builtins()

	selfRef := in.RegisterStruct(in.Strings().Intern("Self"), false)
	in.SetStructFields(selfRef, []types.Field{fld(in, "again", selfRef)})

	badPack := defStruct(t, in, "BadPack", false, fld(in, "x", b.Int32))
	in.SetStructPack(badPack, 6)

	good := defStruct(t, in, "Good", false, fld(in, "x", b.Int64))

	bag := diag.NewBag(16)
	got := e.ResolveAll([]types.TypeID{selfRef, badPack, good}, bag)

	if _, ok := got[selfRef]; ok {
		t.Fatal("cyclic node must be absent from the result map")
	}
	if _, ok := got[badPack]; ok {
		t.Fatal("invalid-pack node must be absent from the result map")
	}
	l, ok := got[good]
	if !ok || l.Size != 8 {
		t.Fatalf("good node = %+v ok=%v", l, ok)
	}

	if bag.Len() != 2 {
		t.Fatalf("bag has %d diagnostics, want 2", bag.Len())
	}
	codes := map[diag.Code]bool{}
	for _, d := range bag.Items() {
		codes[d.Code] = true
		if d.Severity != diag.SevError {
			t.Errorf("diagnostic %v severity = %v, want error", d.Code, d.Severity)
		}
	}
	if !codes[diag.LayoutCycle] || !codes[diag.LayoutInvalidPacking] {
		t.Fatalf("codes = %v, want cycle + invalid packing", codes)
	}
}

func TestResolveAllCachesFailures(t *testing.T) {
	e, in := newTestEngine(t)

	selfRef := in.RegisterStruct(in.Strings().Intern("Self"), false)
	in.SetStructFields(selfRef, []types.Field{fld(in, "again", selfRef)})

	// Second resolution hits the memoized failure and reports it again.
	for run := 0; run < 2; run++ {
		bag := diag.NewBag(4)
		e.ResolveAll([]types.TypeID{selfRef}, bag)
		if bag.Len() != 1 {
			t.Fatalf("run %d: bag has %d diagnostics, want 1", run, bag.Len())
		}
	}
}
