package layout

// BitOrder selects the bit-endianness of bitfield packing inside a storage
// unit. Real compilers fix this per ABI, so it is a Target knob rather than
// a constant.
type BitOrder uint8

const (
	// LowBitFirst packs bitfields from the least significant bit up.
	// This is the default contract and matches the common ELF psABIs.
	LowBitFirst BitOrder = iota
	// HighBitFirst packs from the most significant bit down.
	HighBitFirst
)

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple   string // e.g. "x86_64-linux-gnu"
	PtrSize  int    // bytes
	PtrAlign int    // bytes
	BitOrder BitOrder
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:   "x86_64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
		BitOrder: LowBitFirst,
	}
}
