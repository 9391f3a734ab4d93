package decl

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"cshape/internal/types"
)

// parseTypeRef resolves a type reference expression against the graph:
//
//	int32            named (builtin or previously declared, qualified)
//	*T               pointer to T
//	[2][3]T          array, outermost extent first
//	fn(int32) -> T   function pointer
//
// Named references must already exist; the builder pre-declares every named
// type before filling bodies, so forward references inside one document
// resolve fine.
func parseTypeRef(typesIn *types.Interner, expr string) (types.TypeID, error) {
	p := &refParser{types: typesIn, src: expr}
	id, err := p.parse()
	if err != nil {
		return types.NoTypeID, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return types.NoTypeID, fmt.Errorf("trailing input at %d in type expression %q", p.pos, expr)
	}
	return id, nil
}

type refParser struct {
	types *types.Interner
	src   string
	pos   int
}

func (p *refParser) parse() (types.TypeID, error) {
	p.skipSpace()
	switch {
	case p.eat("*"):
		elem, err := p.parse()
		if err != nil {
			return types.NoTypeID, err
		}
		return p.types.Intern(types.MakePointer(elem)), nil

	case p.peek("["):
		return p.parseArray()

	case p.peek("fn("), p.peek("fn "):
		return p.parseFunc()

	default:
		return p.parseNamed()
	}
}

func (p *refParser) parseArray() (types.TypeID, error) {
	// Collect the extents first: [2][3]T applies 2 to the outermost node.
	var dims []uint32
	for p.eat("[") {
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		if start == p.pos {
			return types.NoTypeID, fmt.Errorf("expected array extent at %d in %q", p.pos, p.src)
		}
		var n uint64
		for _, c := range p.src[start:p.pos] {
			n = n*10 + uint64(c-'0')
		}
		dim, err := safecast.Conv[uint32](n)
		if err != nil {
			return types.NoTypeID, fmt.Errorf("array extent overflow in %q: %w", p.src, err)
		}
		if !p.eat("]") {
			return types.NoTypeID, fmt.Errorf("expected ']' at %d in %q", p.pos, p.src)
		}
		dims = append(dims, dim)
	}
	elem, err := p.parse()
	if err != nil {
		return types.NoTypeID, err
	}
	for i := len(dims) - 1; i >= 0; i-- {
		elem = p.types.Intern(types.MakeArray(elem, dims[i]))
	}
	return elem, nil
}

func (p *refParser) parseFunc() (types.TypeID, error) {
	p.pos += len("fn")
	p.skipSpace()
	if !p.eat("(") {
		return types.NoTypeID, fmt.Errorf("expected '(' after fn in %q", p.src)
	}
	var params []types.TypeID
	p.skipSpace()
	if !p.eat(")") {
		for {
			param, err := p.parse()
			if err != nil {
				return types.NoTypeID, err
			}
			params = append(params, param)
			p.skipSpace()
			if p.eat(",") {
				continue
			}
			if p.eat(")") {
				break
			}
			return types.NoTypeID, fmt.Errorf("expected ',' or ')' at %d in %q", p.pos, p.src)
		}
	}
	result := p.types.Builtins().Void
	p.skipSpace()
	if p.eat("->") {
		r, err := p.parse()
		if err != nil {
			return types.NoTypeID, err
		}
		result = r
	}
	return p.types.InternFunc(result, params), nil
}

func (p *refParser) parseNamed() (types.TypeID, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == ')' || c == ']' || c == ' ' {
			break
		}
		p.pos++
	}
	name := strings.TrimSpace(p.src[start:p.pos])
	if name == "" {
		return types.NoTypeID, fmt.Errorf("expected type name at %d in %q", start, p.src)
	}
	id, ok := p.types.LookupQualified(name)
	if !ok {
		return types.NoTypeID, fmt.Errorf("unknown type %q", name)
	}
	return id, nil
}

func (p *refParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *refParser) peek(prefix string) bool {
	return strings.HasPrefix(p.src[p.pos:], prefix)
}

func (p *refParser) eat(prefix string) bool {
	if p.peek(prefix) {
		p.pos += len(prefix)
		return true
	}
	return false
}
