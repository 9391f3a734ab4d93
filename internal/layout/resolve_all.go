package layout

import (
	"fmt"

	"cshape/internal/diag"
	"cshape/internal/types"
)

// ResolveAll resolves every listed node on a best-effort basis: one node's
// cycle or packing failure never aborts the others. Failures are reported
// into bag (when non-nil) and the failing nodes are simply absent from the
// result map.
func (e *Engine) ResolveAll(ids []types.TypeID, bag *diag.Bag) map[types.TypeID]TypeLayout {
	out := make(map[types.TypeID]TypeLayout, len(ids))
	for _, id := range ids {
		l, err := e.LayoutOf(id)
		if err == nil {
			out[id] = l
			continue
		}
		if bag == nil {
			continue
		}
		subject := e.Types.NameOf(id)
		if subject == "" {
			subject = fmt.Sprintf("type#%d", id)
		}
		code := diag.LayoutInfo
		if lerr, ok := err.(*Error); ok {
			switch lerr.Kind {
			case ErrCycle:
				code = diag.LayoutCycle
			case ErrInvalidPacking:
				code = diag.LayoutInvalidPacking
			}
		}
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     code,
			Subject:  subject,
			Message:  err.Error(),
		})
	}
	return out
}
