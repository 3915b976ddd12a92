package capstone

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/native-bridge/marshal"
)

// Capstone API version whose headers the layouts in this package follow.
const (
	APIMajor = 5
	APIMinor = 0
)

// Sizes of the inline arrays in cs_insn.
const (
	MaxBytes    = 24
	MaxMnemonic = 32
	MaxOpStr    = 160
)

// Insn is cs_insn as of Capstone 5.0. Detail is the raw cs_detail pointer; it is zero when
// detail mode is off and is never dereferenced here.
type Insn struct {
	Mnemonic string
	OpStr    string
	Address  uint64
	Detail   uintptr
	ID       uint32
	Size     uint16
	Bytes    [MaxBytes]byte
}

// Raw returns the machine code bytes of the instruction.
func (i *Insn) Raw() []byte {
	n := min(int(i.Size), MaxBytes)
	return i.Bytes[:n]
}

func (i *Insn) String() string {
	if i.OpStr == "" {
		return i.Mnemonic
	}
	return i.Mnemonic + " " + i.OpStr
}

// InsnLayout is the codec for cs_insn.
var InsnLayout marshal.FixedLayout[Insn] = insnCodec{}

var insnLayout = marshal.Describe("cs_insn",
	marshal.F("id", wit.U32{}),
	marshal.F("address", wit.U64{}),
	marshal.F("size", wit.U16{}),
	marshal.F("bytes", marshal.Array(wit.U8{}, MaxBytes)),
	marshal.F("mnemonic", marshal.Array(wit.U8{}, MaxMnemonic)),
	marshal.F("op_str", marshal.Array(wit.U8{}, MaxOpStr)),
	marshal.F("detail", marshal.Pointer()),
)

var (
	offID       = insnLayout.MustOffset("id")
	offAddress  = insnLayout.MustOffset("address")
	offSize     = insnLayout.MustOffset("size")
	offBytes    = insnLayout.MustOffset("bytes")
	offMnemonic = insnLayout.MustOffset("mnemonic")
	offOpStr    = insnLayout.MustOffset("op_str")
	offDetail   = insnLayout.MustOffset("detail")
)

type insnCodec struct{}

func (insnCodec) Layout() *marshal.TypeLayout { return insnLayout }

func (insnCodec) DecodeBytes(src []byte) Insn {
	insn := Insn{
		ID:       marshal.U32(src, offID),
		Address:  marshal.U64(src, offAddress),
		Size:     marshal.U16(src, offSize),
		Mnemonic: marshal.CString(src, offMnemonic, MaxMnemonic),
		OpStr:    marshal.CString(src, offOpStr, MaxOpStr),
		Detail:   marshal.Uintptr(src, offDetail),
	}
	copy(insn.Bytes[:], src[offBytes:offBytes+MaxBytes])
	return insn
}

func (insnCodec) EncodeBytes(dst []byte, insn Insn) {
	clear(dst)
	marshal.PutU32(dst, offID, insn.ID)
	marshal.PutU64(dst, offAddress, insn.Address)
	marshal.PutU16(dst, offSize, insn.Size)
	copy(dst[offBytes:offBytes+MaxBytes], insn.Bytes[:])
	marshal.PutCString(dst, offMnemonic, MaxMnemonic, insn.Mnemonic)
	marshal.PutCString(dst, offOpStr, MaxOpStr, insn.OpStr)
	marshal.PutUintptr(dst, offDetail, insn.Detail)
}
