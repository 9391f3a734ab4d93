package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// FuncInfo stores the signature behind a function-pointer node.
// The signature only matters for identity and reachability; every function
// pointer is pointer-sized for layout.
type FuncInfo struct {
	Result TypeID // NoTypeID for void
	Params []TypeID
}

// InternFunc returns a function-pointer node for the signature,
// deduplicating structurally identical signatures.
func (in *Interner) InternFunc(result TypeID, params []TypeID) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		if in.types[id].Kind != KindFuncPtr {
			continue
		}
		info := in.funcInfo(id)
		if info == nil {
			continue
		}
		if info.Result == result && slices.Equal(info.Params, params) {
			return id
		}
	}
	in.funcs = append(in.funcs, FuncInfo{Result: result, Params: slices.Clone(params)})
	slot, err := safecast.Conv[uint32](len(in.funcs) - 1)
	if err != nil {
		panic(fmt.Errorf("func info overflow: %w", err))
	}
	return in.appendType(Type{Kind: KindFuncPtr, Payload: slot})
}

// FuncInfo returns the signature for the provided function-pointer TypeID.
func (in *Interner) FuncInfo(typeID TypeID) (*FuncInfo, bool) {
	info := in.funcInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) funcInfo(typeID TypeID) *FuncInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindFuncPtr {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.funcs) {
		return nil
	}
	return &in.funcs[tt.Payload]
}
