package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"cshape/internal/layout"
	"cshape/internal/names"
	"cshape/internal/types"
)

func testPayload(t *testing.T) *Payload {
	t.Helper()
	in := types.NewInterner(names.NewInterner())
	b := in.Builtins()
	id := in.RegisterStruct(in.Strings().Intern("demo::Pair"), false)
	in.SetStructFields(id, []types.Field{
		{Name: in.Strings().Intern("a"), Type: b.Int32, Bits: types.NotBitfield},
		{Name: in.Strings().Intern("b"), Type: b.Int64, Bits: types.NotBitfield},
	})
	engine := layout.New(layout.X86_64LinuxGNU(), in)
	return Build(in, engine, []types.TypeID{id})
}

func TestCacheRoundTrip(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}

	payload := testPayload(t)
	key := DigestOf([]byte("doc-v1"), layout.X86_64LinuxGNU(), 0)

	if err := c.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got Payload
	hit, err := c.Get(key, &got)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if got.Schema != payload.Schema || got.Triple != payload.Triple {
		t.Fatalf("header mismatch: %+v vs %+v", got, payload)
	}
	if len(got.Types) != 1 || got.Types[0].Name != "demo::Pair" || got.Types[0].Size != 16 {
		t.Fatalf("payload mismatch: %+v", got.Types)
	}
	if len(got.Types[0].Fields) != 2 || got.Types[0].Fields[1].ByteOffset != 8 {
		t.Fatalf("fields mismatch: %+v", got.Types[0].Fields)
	}
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	var got Payload
	hit, err := c.Get(DigestOf([]byte("never stored"), layout.X86_64LinuxGNU(), 0), &got)
	if err != nil || hit {
		t.Fatalf("hit=%v err=%v, want clean miss", hit, err)
	}
}

func TestDigestChangesWithInputs(t *testing.T) {
	target := layout.X86_64LinuxGNU()
	base := DigestOf([]byte("doc"), target, 0)

	if DigestOf([]byte("doc2"), target, 0) == base {
		t.Fatal("digest ignores the document bytes")
	}
	if DigestOf([]byte("doc"), target, 4) == base {
		t.Fatal("digest ignores the forced pack bound")
	}
	other := target
	other.BitOrder = layout.HighBitFirst
	if DigestOf([]byte("doc"), other, 0) == base {
		t.Fatal("digest ignores the bit order")
	}
	if DigestOf([]byte("doc"), target, 0) != base {
		t.Fatal("digest is not deterministic")
	}
}

func TestDropAll(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenAt(dir)
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	key := DigestOf([]byte("doc"), layout.X86_64LinuxGNU(), 0)
	if err := c.Put(key, testPayload(t)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	var got Payload
	if hit, _ := c.Get(key, &got); hit {
		t.Fatal("entry survived DropAll")
	}
}

func TestWriteFileExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "layouts.mp")
	if err := WriteFile(path, testPayload(t)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	defer f.Close()

	var got Payload
	if err := msgpack.NewDecoder(f).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Schema != schemaVersion || len(got.Types) != 1 {
		t.Fatalf("exported payload = %+v", got)
	}
}
