package capstone

import "go.bytecodealliance.org/wit"

// ArmSetEndOperandType is arm_setend_type, the operand of an ARM SETEND
// instruction. Values are the native constants.
type ArmSetEndOperandType int32

const (
	ArmSetEndInvalid ArmSetEndOperandType = iota
	ArmSetEndBE
	ArmSetEndLE
)

var setEndNames = [...]string{
	ArmSetEndInvalid: "invalid",
	ArmSetEndBE:      "be",
	ArmSetEndLE:      "le",
}

func (t ArmSetEndOperandType) String() string {
	if t >= 0 && int(t) < len(setEndNames) {
		return setEndNames[t]
	}
	return "unknown"
}

// IsValid reports whether t names an endianness.
func (t ArmSetEndOperandType) IsValid() bool {
	return t == ArmSetEndBE || t == ArmSetEndLE
}

// armSetEndType is the C enum as a layout field type.
var armSetEndType = &wit.TypeDef{Kind: &wit.Enum{Cases: []wit.EnumCase{
	{Name: "invalid"}, {Name: "be"}, {Name: "le"},
}}}
