package capstone

import (
	"math"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/native-bridge/marshal"
)

// ArmOperandType is arm_op_type.
type ArmOperandType uint32

const (
	ArmOpInvalid ArmOperandType = 0
	ArmOpReg     ArmOperandType = 1
	ArmOpImm     ArmOperandType = 2
	ArmOpMem     ArmOperandType = 3
	ArmOpFP      ArmOperandType = 4
	ArmOpCImm    ArmOperandType = 64
	ArmOpPImm    ArmOperandType = 65
	ArmOpSetEnd  ArmOperandType = 66
	ArmOpSysReg  ArmOperandType = 67
)

// ArmMem is arm_op_mem.
type ArmMem struct {
	Base   uint32
	Index  uint32
	Scale  int32
	Disp   int32
	LShift int32
}

// ArmOperand is cs_arm_op as of Capstone 5.0. Only the union member selected by Type is
// populated on decode.
type ArmOperand struct {
	VectorIndex int32
	ShiftType   uint32
	ShiftValue  uint32
	Type        ArmOperandType
	Reg         int32
	Imm         int32
	FP          float64
	Mem         ArmMem
	SetEnd      ArmSetEndOperandType
	Subtracted  bool
	Access      uint8
	NeonLane    int8
}

const armUnion = 16

// ArmOperandLayout is the codec for cs_arm_op.
var ArmOperandLayout marshal.FixedLayout[ArmOperand] = armOperandCodec{}

var armOperandLayout = marshal.Describe("cs_arm_op",
	marshal.F("vector_index", wit.S32{}),
	marshal.F("shift_type", wit.U32{}),
	marshal.F("shift_value", wit.U32{}),
	marshal.F("type", wit.U32{}),
	marshal.At("reg", wit.S32{}, armUnion),
	marshal.At("imm", wit.S32{}, armUnion),
	marshal.At("fp", wit.F64{}, armUnion),
	marshal.At("mem", marshal.Array(wit.U32{}, 5), armUnion),
	marshal.At("setend", armSetEndType, armUnion),
	// the union is padded to 24 bytes by its double member
	marshal.At("subtracted", wit.Bool{}, armUnion+24),
	marshal.F("access", wit.U8{}),
	marshal.F("neon_lane", wit.S8{}),
)

var (
	armOffVector     = armOperandLayout.MustOffset("vector_index")
	armOffShiftType  = armOperandLayout.MustOffset("shift_type")
	armOffShiftValue = armOperandLayout.MustOffset("shift_value")
	armOffType       = armOperandLayout.MustOffset("type")
	armOffSubtracted = armOperandLayout.MustOffset("subtracted")
	armOffAccess     = armOperandLayout.MustOffset("access")
	armOffNeonLane   = armOperandLayout.MustOffset("neon_lane")
)

type armOperandCodec struct{}

func (armOperandCodec) Layout() *marshal.TypeLayout { return armOperandLayout }

func (armOperandCodec) DecodeBytes(src []byte) ArmOperand {
	op := ArmOperand{
		VectorIndex: marshal.I32(src, armOffVector),
		ShiftType:   marshal.U32(src, armOffShiftType),
		ShiftValue:  marshal.U32(src, armOffShiftValue),
		Type:        ArmOperandType(marshal.U32(src, armOffType)),
		Subtracted:  marshal.U8(src, armOffSubtracted) != 0,
		Access:      marshal.U8(src, armOffAccess),
		NeonLane:    int8(marshal.U8(src, armOffNeonLane)),
	}

	switch op.Type {
	case ArmOpReg, ArmOpSysReg:
		op.Reg = marshal.I32(src, armUnion)
	case ArmOpImm, ArmOpCImm, ArmOpPImm:
		op.Imm = marshal.I32(src, armUnion)
	case ArmOpFP:
		op.FP = math.Float64frombits(marshal.U64(src, armUnion))
	case ArmOpMem:
		op.Mem = ArmMem{
			Base:   marshal.U32(src, armUnion),
			Index:  marshal.U32(src, armUnion+4),
			Scale:  marshal.I32(src, armUnion+8),
			Disp:   marshal.I32(src, armUnion+12),
			LShift: marshal.I32(src, armUnion+16),
		}
	case ArmOpSetEnd:
		op.SetEnd = ArmSetEndOperandType(marshal.I32(src, armUnion))
	}
	return op
}

func (armOperandCodec) EncodeBytes(dst []byte, op ArmOperand) {
	clear(dst)
	marshal.PutI32(dst, armOffVector, op.VectorIndex)
	marshal.PutU32(dst, armOffShiftType, op.ShiftType)
	marshal.PutU32(dst, armOffShiftValue, op.ShiftValue)
	marshal.PutU32(dst, armOffType, uint32(op.Type))
	if op.Subtracted {
		marshal.PutU8(dst, armOffSubtracted, 1)
	}
	marshal.PutU8(dst, armOffAccess, op.Access)
	marshal.PutU8(dst, armOffNeonLane, uint8(op.NeonLane))

	switch op.Type {
	case ArmOpReg, ArmOpSysReg:
		marshal.PutI32(dst, armUnion, op.Reg)
	case ArmOpImm, ArmOpCImm, ArmOpPImm:
		marshal.PutI32(dst, armUnion, op.Imm)
	case ArmOpFP:
		marshal.PutU64(dst, armUnion, math.Float64bits(op.FP))
	case ArmOpMem:
		marshal.PutU32(dst, armUnion, op.Mem.Base)
		marshal.PutU32(dst, armUnion+4, op.Mem.Index)
		marshal.PutI32(dst, armUnion+8, op.Mem.Scale)
		marshal.PutI32(dst, armUnion+12, op.Mem.Disp)
		marshal.PutI32(dst, armUnion+16, op.Mem.LShift)
	case ArmOpSetEnd:
		marshal.PutI32(dst, armUnion, int32(op.SetEnd))
	}
}
