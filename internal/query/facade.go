// Package query is the read-only facade handed to downstream consumers:
// resolved layouts, filtered graphs, flattened views, and alias
// canonicalization over one immutable type graph.
package query

import (
	"fmt"

	"cshape/internal/layout"
	"cshape/internal/types"
	"cshape/internal/view"
)

// UnknownTypeError reports a query for a name absent from the current view.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q in current view", e.Name)
}

// Facade exposes the engine over one view of the graph. The zero view is
// the full graph; ReachableView and FlattenedView derive narrowed facades
// sharing the same engine and memo tables.
type Facade struct {
	Types  *types.Interner
	Engine *layout.Engine

	view  *view.View
	canon *view.Canon
}

// New builds a facade over the full graph.
func New(typesIn *types.Interner, engine *layout.Engine) *Facade {
	return &Facade{
		Types:  typesIn,
		Engine: engine,
		view:   view.Full(typesIn),
		canon:  view.NewCanon(typesIn),
	}
}

// View returns the facade's current graph view.
func (f *Facade) View() *view.View {
	return f.view
}

// lookup maps a qualified name to a node retained in the current view.
func (f *Facade) lookup(qualified string) (types.TypeID, error) {
	id, ok := f.Types.LookupQualified(qualified)
	if !ok || !f.view.Contains(id) {
		return types.NoTypeID, &UnknownTypeError{Name: qualified}
	}
	return id, nil
}

// LayoutOf resolves the layout of the named type in the current view.
func (f *Facade) LayoutOf(qualified string) (layout.TypeLayout, error) {
	id, err := f.lookup(qualified)
	if err != nil {
		return layout.TypeLayout{}, err
	}
	return f.Engine.LayoutOf(id)
}

// ReachableView narrows the facade to the subgraph reachable from the
// roots. Unknown root names fail with UnknownTypeError. The receiver is
// left untouched.
func (f *Facade) ReachableView(roots ...string) (*Facade, error) {
	ids := make([]types.TypeID, 0, len(roots))
	for _, name := range roots {
		id, err := f.lookup(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return f.withView(view.Reachable(f.view, ids)), nil
}

// FlattenedView derives the facade whose structs carry promoted field
// lists for anonymous nested composites.
func (f *Facade) FlattenedView() *Facade {
	return f.withView(view.Flatten(f.Engine, f.view))
}

// Canonical resolves a typedef/alias chain to the qualified name of its
// underlying node. Non-alias names canonicalize to themselves.
func (f *Facade) Canonical(qualified string) (string, error) {
	id, err := f.lookup(qualified)
	if err != nil {
		return "", err
	}
	resolved, cerr := f.canon.Canonical(id)
	if cerr != nil {
		return "", cerr
	}
	if name := f.Types.NameOf(resolved); name != "" {
		return name, nil
	}
	return qualified, nil
}

// FlatFields exposes the flattened member list of a struct in a flattened
// view.
func (f *Facade) FlatFields(qualified string) ([]view.FlatField, error) {
	id, err := f.lookup(qualified)
	if err != nil {
		return nil, err
	}
	ff, ok := f.view.FlatFields(id)
	if !ok {
		return nil, &UnknownTypeError{Name: qualified}
	}
	return ff, nil
}

func (f *Facade) withView(v *view.View) *Facade {
	return &Facade{
		Types:  f.Types,
		Engine: f.Engine,
		view:   v,
		canon:  f.canon,
	}
}
