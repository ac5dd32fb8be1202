package isa

import "fmt"

// Family groups mnemonics that share one bit layout.
type Family int

const (
	FamilyInvalid Family = iota
	FamilyALU
	FamilyMemory
	FamilyImmediate
	FamilyBranch
	FamilyJumpReg
	FamilyJump
	FamilyMovi
	FamilyNop
	FamilyHalt
	FamilyFill
)

var familyNames = [...]string{
	FamilyInvalid:   "invalid",
	FamilyALU:       "alu",
	FamilyMemory:    "memory",
	FamilyImmediate: "immediate",
	FamilyBranch:    "branch",
	FamilyJumpReg:   "jump-register",
	FamilyJump:      "jump",
	FamilyMovi:      "movi",
	FamilyNop:       "nop",
	FamilyHalt:      "halt",
	FamilyFill:      "fill",
}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return familyNames[f]
}

// Top-level opcodes, stored in bits 13-15.
const (
	OpALU  uint16 = 0b000
	OpAddi uint16 = 0b001
	OpJ    uint16 = 0b010
	OpJal  uint16 = 0b011
	OpLw   uint16 = 0b100
	OpSw   uint16 = 0b101
	OpJeq  uint16 = 0b110
	OpSlti uint16 = 0b111
)

// Function codes of opcode 000, stored in bits 0-3.
const (
	FuncAdd uint16 = 0b0000
	FuncSub uint16 = 0b0001
	FuncOr  uint16 = 0b0010
	FuncAnd uint16 = 0b0011
	FuncSlt uint16 = 0b0100
	FuncJr  uint16 = 0b1000
)

// Field widths.
const (
	RegBits  = 3
	ImmBits  = 7
	JumpBits = 13
	WordBits = 16

	NumRegs = 1 << RegBits
)

// Field shifts.
const (
	shiftFunc = 0
	shiftDst  = 4
	shiftRegB = 7
	shiftRegA = 10
	shiftOp   = 13
)

// Op describes one mnemonic: its family and the code that selects it
// within that family (a top-level opcode or an ALU function code).
type Op struct {
	Mnemonic string
	Family   Family
	Code     uint16
	Operands int
}

var ops = map[string]Op{
	"add":   {"add", FamilyALU, FuncAdd, 3},
	"sub":   {"sub", FamilyALU, FuncSub, 3},
	"or":    {"or", FamilyALU, FuncOr, 3},
	"and":   {"and", FamilyALU, FuncAnd, 3},
	"slt":   {"slt", FamilyALU, FuncSlt, 3},
	"lw":    {"lw", FamilyMemory, OpLw, 2},
	"sw":    {"sw", FamilyMemory, OpSw, 2},
	"addi":  {"addi", FamilyImmediate, OpAddi, 3},
	"slti":  {"slti", FamilyImmediate, OpSlti, 3},
	"jeq":   {"jeq", FamilyBranch, OpJeq, 3},
	"jr":    {"jr", FamilyJumpReg, FuncJr, 1},
	"j":     {"j", FamilyJump, OpJ, 1},
	"jal":   {"jal", FamilyJump, OpJal, 1},
	"movi":  {"movi", FamilyMovi, OpAddi, 2},
	"nop":   {"nop", FamilyNop, FuncAdd, 0},
	"halt":  {"halt", FamilyHalt, OpJ, 0},
	".fill": {".fill", FamilyFill, 0, 1},
}

// Lookup returns the Op for a lower-case mnemonic.
func Lookup(mnemonic string) (Op, bool) {
	op, ok := ops[mnemonic]
	return op, ok
}

// EncodeALU packs a three-register instruction of opcode 000.
func EncodeALU(fn, dst, srcA, srcB uint16) uint16 {
	return (fn&0xF)<<shiftFunc | (dst&0x7)<<shiftDst | (srcB&0x7)<<shiftRegB | (srcA&0x7)<<shiftRegA
}

// EncodeJr packs jr, which shares opcode 000 with the ALU group.
func EncodeJr(reg uint16) uint16 {
	return (reg&0x7)<<shiftRegA | FuncJr
}

// EncodeRRI packs the register-register-immediate layout used by lw, sw,
// addi, slti and jeq. imm must already be reduced to ImmBits.
func EncodeRRI(op, regA, regB, imm uint16) uint16 {
	return imm&Mask(ImmBits) | (regB&0x7)<<shiftRegB | (regA&0x7)<<shiftRegA | (op&0x7)<<shiftOp
}

// EncodeJump packs j and jal. imm must already be reduced to JumpBits.
func EncodeJump(op, imm uint16) uint16 {
	return imm&Mask(JumpBits) | (op&0x7)<<shiftOp
}

// Mask returns the low bits set for a field of the given width.
func Mask(bits uint) uint16 {
	if bits >= WordBits {
		return 0xFFFF
	}
	return uint16(1)<<bits - 1
}

// FitsField reports whether v can be stored in a field of the given width,
// either as an unsigned value or as a two's-complement negative.
func FitsField(v int, bits uint) bool {
	return v >= -(1<<(bits-1)) && v <= (1<<bits)-1
}

// TwosComplement reduces v to a field of the given width. Negative values
// are stored as ~|v| + 1 over exactly bits bits.
func TwosComplement(v int, bits uint) uint16 {
	if v >= 0 {
		return uint16(v) & Mask(bits)
	}
	abs := uint16(-v) & Mask(bits)
	return (^abs + 1) & Mask(bits)
}

// SignExtend interprets the low bits of v as a two's-complement number.
func SignExtend(v uint16, bits uint) int {
	v &= Mask(bits)
	if v&(1<<(bits-1)) != 0 {
		return int(v) - (1 << bits)
	}
	return int(v)
}

// Bits renders a word as a 16-character binary string.
func Bits(w uint16) string {
	return fmt.Sprintf("%016b", w)
}
