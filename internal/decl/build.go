package decl

import (
	"fmt"

	"fortio.org/safecast"

	"cshape/internal/diag"
	"cshape/internal/names"
	"cshape/internal/types"
)

// Builder turns a Document into graph nodes. Construction is two-pass:
// every named type is declared first, then bodies are filled, so forward
// references and pointer self-references need no ordering in the document.
// Construction records structure only; no layout is computed here.
type Builder struct {
	Types    *types.Interner
	Reporter diag.Reporter

	anonSeq int
}

func NewBuilder(typesIn *types.Interner, reporter diag.Reporter) *Builder {
	return &Builder{Types: typesIn, Reporter: reporter}
}

// Build registers the document's declarations into the graph. It returns
// false when any error-severity diagnostic was reported.
func (b *Builder) Build(doc *Document) bool {
	if doc == nil {
		return true
	}
	ok := true

	// Pass 1: declare names.
	enumIDs := make([]types.TypeID, len(doc.Enums))
	structIDs := make([]types.TypeID, len(doc.Structs))
	typedefIDs := make([]types.TypeID, len(doc.Typedefs))

	for i, e := range doc.Enums {
		qualified := names.Path(e.Namespace).Qualify(e.Name)
		if !b.checkFresh(qualified) {
			ok = false
			continue
		}
		enumIDs[i] = b.Types.RegisterEnum(b.intern(qualified))
	}
	for i, s := range doc.Structs {
		qualified := names.Path(s.Namespace).Qualify(s.Name)
		if !b.checkFresh(qualified) {
			ok = false
			continue
		}
		structIDs[i] = b.Types.RegisterStruct(b.intern(qualified), s.Union)
	}
	for i, t := range doc.Typedefs {
		qualified := names.Path(t.Namespace).Qualify(t.Name)
		if !b.checkFresh(qualified) {
			ok = false
			continue
		}
		typedefIDs[i] = b.Types.RegisterAlias(b.intern(qualified))
	}

	// Pass 2: fill bodies.
	for i, e := range doc.Enums {
		if enumIDs[i] == types.NoTypeID {
			continue
		}
		if !b.fillEnum(enumIDs[i], e) {
			ok = false
		}
	}
	for i, s := range doc.Structs {
		if structIDs[i] == types.NoTypeID {
			continue
		}
		qualified := names.Path(s.Namespace).Qualify(s.Name)
		if !b.fillStruct(structIDs[i], qualified, s.Pack, s.Fields) {
			ok = false
		}
	}
	for i, t := range doc.Typedefs {
		if typedefIDs[i] == types.NoTypeID {
			continue
		}
		qualified := names.Path(t.Namespace).Qualify(t.Name)
		target, err := parseTypeRef(b.Types, t.Type)
		if err != nil {
			b.report(diag.DeclBadTypeExpr, qualified, err.Error())
			ok = false
			continue
		}
		b.Types.SetAliasTarget(typedefIDs[i], target)
	}
	return ok
}

func (b *Builder) fillEnum(id types.TypeID, e EnumDecl) bool {
	qualified := names.Path(e.Namespace).Qualify(e.Name)
	if e.Underlying != "" {
		underlying, err := parseTypeRef(b.Types, e.Underlying)
		if err != nil {
			b.report(diag.DeclBadTypeExpr, qualified, err.Error())
			return false
		}
		if !b.isIntegerPrim(underlying) {
			b.report(diag.DeclBadEnum, qualified,
				fmt.Sprintf("underlying type %q is not an integer primitive", e.Underlying))
			return false
		}
		b.Types.SetEnumUnderlying(id, underlying)
	}
	variants := make([]types.EnumVariant, 0, len(e.Variants))
	for _, v := range e.Variants {
		if v.Name == "" {
			b.report(diag.DeclBadEnum, qualified, "enum variant without a name")
			return false
		}
		variants = append(variants, types.EnumVariant{
			Name:  b.intern(v.Name),
			Value: v.Value,
		})
	}
	b.Types.SetEnumVariants(id, variants)
	return true
}

func (b *Builder) fillStruct(id types.TypeID, qualified string, pack *int, fieldDecls []FieldDecl) bool {
	ok := true
	if pack != nil {
		p := *pack
		if p <= 0 || p&(p-1) != 0 {
			b.report(diag.DeclBadPack, qualified,
				fmt.Sprintf("pack bound %d is not a positive power of two", p))
			ok = false
		} else {
			b.Types.SetStructPack(id, p)
		}
	}

	fields := make([]types.Field, 0, len(fieldDecls))
	for _, fd := range fieldDecls {
		field, fieldOK := b.buildField(qualified, fd, pack)
		if !fieldOK {
			ok = false
			continue
		}
		fields = append(fields, field)
	}
	b.Types.SetStructFields(id, fields)
	return ok
}

func (b *Builder) buildField(parent string, fd FieldDecl, parentPack *int) (types.Field, bool) {
	hasType := fd.Type != ""
	hasBody := len(fd.Fields) > 0
	if hasType == hasBody {
		b.report(diag.DeclBadField, parent,
			fmt.Sprintf("field %q must have exactly one of type or fields", fd.Name))
		return types.Field{}, false
	}

	var fieldType types.TypeID
	if hasType {
		id, err := parseTypeRef(b.Types, fd.Type)
		if err != nil {
			b.report(diag.DeclBadTypeExpr, parent,
				fmt.Sprintf("field %q: %v", fd.Name, err))
			return types.Field{}, false
		}
		fieldType = id
	} else {
		// Inline composite declared at this site. It gets a site-unique
		// qualified name so shape-identical anonymous types at other sites
		// stay distinct nodes. A pack region covering the parent's
		// declaration also covers the nested declaration site.
		b.anonSeq++
		anonName := fmt.Sprintf("%s%s<anon#%d>", parent, names.Separator, b.anonSeq)
		nested := b.Types.RegisterStruct(b.intern(anonName), fd.Union)
		nestedPack := fd.Pack
		if nestedPack == nil {
			nestedPack = parentPack
		}
		if !b.fillStruct(nested, anonName, nestedPack, fd.Fields) {
			return types.Field{}, false
		}
		fieldType = nested
	}

	field := types.Field{
		Name:      b.intern(fd.Name),
		Type:      fieldType,
		Bits:      types.NotBitfield,
		Anonymous: fd.Name == "" && hasBody,
	}
	if fd.Bits != nil {
		bits := *fd.Bits
		if bits < 0 || hasBody {
			b.report(diag.DeclBadBitWidth, parent,
				fmt.Sprintf("field %q has invalid bit width %d", fd.Name, bits))
			return types.Field{}, false
		}
		if bits == 0 && fd.Name != "" {
			b.report(diag.DeclBadBitWidth, parent,
				fmt.Sprintf("zero-width bitfield %q cannot be named", fd.Name))
			return types.Field{}, false
		}
		b32, err := safecast.Conv[int32](bits)
		if err != nil {
			b.report(diag.DeclBadBitWidth, parent,
				fmt.Sprintf("field %q bit width overflow: %v", fd.Name, err))
			return types.Field{}, false
		}
		field.Bits = b32
	}
	return field, true
}

func (b *Builder) isIntegerPrim(id types.TypeID) bool {
	resolved, err := b.Types.ResolveAliasChain(id)
	if err != nil {
		return false
	}
	info, ok := b.Types.PrimInfo(resolved)
	if !ok {
		return false
	}
	switch info.Class {
	case types.PrimSigned, types.PrimUnsigned, types.PrimBool:
		return true
	default:
		return false
	}
}

func (b *Builder) checkFresh(qualified string) bool {
	if qualified == "" || qualified == names.Separator {
		b.report(diag.DeclBadField, qualified, "declaration without a name")
		return false
	}
	if _, taken := b.Types.LookupQualified(qualified); taken {
		b.report(diag.DeclDuplicateType, qualified,
			fmt.Sprintf("type %q is already declared", qualified))
		return false
	}
	return true
}

func (b *Builder) intern(s string) names.StringID {
	return b.Types.Strings().Intern(s)
}

func (b *Builder) report(code diag.Code, subject, msg string) {
	if b.Reporter == nil {
		return
	}
	b.Reporter.Report(code, diag.SevError, subject, msg)
}
