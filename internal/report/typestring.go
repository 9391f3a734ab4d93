package report

import (
	"fmt"
	"strings"

	"cshape/internal/types"
)

// typeString renders a node reference the way declaration documents spell
// it: named types by qualified name, structural types recursively.
func typeString(typesIn *types.Interner, id types.TypeID) string {
	if id == types.NoTypeID {
		return "void"
	}
	if name := typesIn.NameOf(id); name != "" {
		return name
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return fmt.Sprintf("type#%d", id)
	}
	switch tt.Kind {
	case types.KindPointer:
		return "*" + typeString(typesIn, tt.Elem)
	case types.KindArray:
		return fmt.Sprintf("[%d]%s", tt.Count, typeString(typesIn, tt.Elem))
	case types.KindFuncPtr:
		info, ok := typesIn.FuncInfo(id)
		if !ok {
			return "fn()"
		}
		params := make([]string, 0, len(info.Params))
		for _, p := range info.Params {
			params = append(params, typeString(typesIn, p))
		}
		sig := "fn(" + strings.Join(params, ", ") + ")"
		if info.Result != types.NoTypeID && info.Result != typesIn.Builtins().Void {
			sig += " -> " + typeString(typesIn, info.Result)
		}
		return sig
	default:
		return fmt.Sprintf("type#%d", id)
	}
}
