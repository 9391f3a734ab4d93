package names

import "strings"

// Separator joins namespace scopes in a qualified name.
const Separator = "::"

// AnonScope is the scope marker contributed by an anonymous namespace.
// It keeps anonymous-namespace members distinct from global-scope members
// while still producing a printable qualified name.
const AnonScope = ""

// Path is an ordered namespace path. A nil Path is the global scope.
//
// Two declarations with identical unqualified names in different paths are
// distinct identities; the path is folded into the qualified-name key rather
// than resolved through a scope tree at query time.
type Path []string

// Qualify produces the fully-qualified form of name under the path,
// e.g. Path{"Outer","Inner"}.Qualify("B") == "Outer::Inner::B".
// Anonymous scopes render as an empty segment: "::C" for namespace{}.
func (p Path) Qualify(name string) string {
	if len(p) == 0 {
		return name
	}
	var sb strings.Builder
	for _, scope := range p {
		sb.WriteString(scope)
		sb.WriteString(Separator)
	}
	sb.WriteString(name)
	return sb.String()
}

// Child returns the path extended by one scope.
func (p Path) Child(scope string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	out = append(out, scope)
	return out
}

// ParsePath splits a qualified name into its path and unqualified name.
func ParsePath(qualified string) (Path, string) {
	parts := strings.Split(qualified, Separator)
	if len(parts) == 1 {
		return nil, qualified
	}
	return Path(parts[:len(parts)-1]), parts[len(parts)-1]
}
