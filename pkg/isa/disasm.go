package isa

import (
	"bufio"
	"fmt"
	"io"
)

// Instruction is a decoded machine word.
type Instruction struct {
	Word uint16
	PC   int
	Op   Op

	// Register operands in source order: dst/srcA/srcB for the ALU group,
	// dst/src for addi and slti, reg/addr for lw and sw, regA/regB for jeq.
	Regs []uint16

	// Imm is sign-extended for 7-bit fields and unsigned for j/jal and .fill.
	Imm int
}

// Decode decodes a single word found at pc. Words that match no known
// layout decode as .fill.
func Decode(w uint16, pc int) Instruction {
	in := Instruction{Word: w, PC: pc}
	regA := (w >> shiftRegA) & 0x7
	regB := (w >> shiftRegB) & 0x7
	imm7 := SignExtend(w, ImmBits)

	switch w >> shiftOp {
	case OpALU:
		fn := w & 0xF
		if fn == FuncJr && w&0x3F0 == 0 {
			in.Op = ops["jr"]
			in.Regs = []uint16{regA}
			return in
		}
		for _, name := range []string{"add", "sub", "or", "and", "slt"} {
			if ops[name].Code == fn {
				in.Op = ops[name]
				in.Regs = []uint16{(w >> shiftDst) & 0x7, regA, regB}
				return in
			}
		}
	case OpAddi:
		in.Op = ops["addi"]
		in.Regs = []uint16{regB, regA}
		in.Imm = imm7
		return in
	case OpSlti:
		in.Op = ops["slti"]
		in.Regs = []uint16{regB, regA}
		in.Imm = imm7
		return in
	case OpLw, OpSw:
		in.Op = ops["lw"]
		if w>>shiftOp == OpSw {
			in.Op = ops["sw"]
		}
		in.Regs = []uint16{regB, regA}
		in.Imm = imm7
		return in
	case OpJeq:
		in.Op = ops["jeq"]
		in.Regs = []uint16{regA, regB}
		in.Imm = imm7
		return in
	case OpJ, OpJal:
		in.Op = ops["j"]
		if w>>shiftOp == OpJal {
			in.Op = ops["jal"]
		}
		in.Imm = int(w & Mask(JumpBits))
		return in
	}

	in.Op = ops[".fill"]
	in.Imm = int(w)
	return in
}

// Target returns the absolute address a jeq branches to.
func (in Instruction) Target() int {
	return in.PC + 1 + in.Imm
}

func (in Instruction) String() string {
	r := func(i int) string { return fmt.Sprintf("$%d", in.Regs[i]) }

	switch in.Op.Family {
	case FamilyALU:
		if in.Word == 0 {
			return "nop"
		}
		return fmt.Sprintf("%s %s, %s, %s", in.Op.Mnemonic, r(0), r(1), r(2))
	case FamilyImmediate:
		return fmt.Sprintf("%s %s, %s, %d", in.Op.Mnemonic, r(0), r(1), in.Imm)
	case FamilyMemory:
		return fmt.Sprintf("%s %s, %d(%s)", in.Op.Mnemonic, r(0), in.Imm, r(1))
	case FamilyBranch:
		return fmt.Sprintf("jeq %s, %s, %d", r(0), r(1), in.Target())
	case FamilyJumpReg:
		return fmt.Sprintf("jr %s", r(0))
	case FamilyJump:
		if in.Op.Code == OpJ && in.Imm == in.PC {
			return "halt"
		}
		return fmt.Sprintf("%s %d", in.Op.Mnemonic, in.Imm)
	}
	return fmt.Sprintf(".fill %d", in.Imm)
}

// DisassembleAll writes one listing line per word: address, binary word and
// the decoded instruction.
func DisassembleAll(w io.Writer, words []uint16) error {
	bw := bufio.NewWriter(w)
	for pc, word := range words {
		fmt.Fprintf(bw, "%5d  %s  %s\n", pc, Bits(word), Decode(word, pc))
	}
	return bw.Flush()
}
