package asm

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"goe20/pkg/isa"
)

// EncodeInstruction encodes one instruction (label declarations already
// removed) that sits at address pc.
func EncodeInstruction(text string, labels Labels, pc int) (uint16, error) {
	mnemonic, args := splitInstruction(text)
	if mnemonic == "" {
		return 0, errors.Wrap(ErrSyntax, "missing instruction")
	}
	return encodeOp(mnemonic, args, labels, pc)
}

// splitInstruction separates the mnemonic from its comma-separated
// arguments. Whitespace between arguments is not significant.
func splitInstruction(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}

	mnemonic := strings.ToLower(fields[0])
	rest := strings.Join(fields[1:], "")
	if rest == "" {
		return mnemonic, nil
	}
	return mnemonic, strings.Split(rest, ",")
}

func encodeOp(mnemonic string, args []string, labels Labels, pc int) (uint16, error) {
	op, ok := isa.Lookup(mnemonic)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownOpcode, "%q", mnemonic)
	}
	if len(args) != op.Operands {
		return 0, errors.Wrapf(ErrOperandCount, "%s expects %d, got %d", mnemonic, op.Operands, len(args))
	}

	switch op.Family {
	case isa.FamilyALU:
		regs, err := parseRegisters(args)
		if err != nil {
			return 0, err
		}
		return isa.EncodeALU(op.Code, regs[0], regs[1], regs[2]), nil

	case isa.FamilyMemory:
		reg, err := parseRegister(args[0])
		if err != nil {
			return 0, err
		}
		offset, base, err := splitMemoryOperand(args[1])
		if err != nil {
			return 0, err
		}
		addr, err := parseRegister(base)
		if err != nil {
			return 0, err
		}
		imm, err := resolveField(offset, labels, isa.ImmBits)
		if err != nil {
			return 0, err
		}
		return isa.EncodeRRI(op.Code, addr, reg, imm), nil

	case isa.FamilyImmediate:
		regs, err := parseRegisters(args[:2])
		if err != nil {
			return 0, err
		}
		imm, err := resolveField(args[2], labels, isa.ImmBits)
		if err != nil {
			return 0, err
		}
		return isa.EncodeRRI(op.Code, regs[1], regs[0], imm), nil

	case isa.FamilyBranch:
		regs, err := parseRegisters(args[:2])
		if err != nil {
			return 0, err
		}
		target, err := resolve(args[2], labels)
		if err != nil {
			return 0, err
		}
		rel, err := fitField(target-pc-1, isa.ImmBits)
		if err != nil {
			return 0, err
		}
		return isa.EncodeRRI(op.Code, regs[0], regs[1], rel), nil

	case isa.FamilyJumpReg:
		reg, err := parseRegister(args[0])
		if err != nil {
			return 0, err
		}
		return isa.EncodeJr(reg), nil

	case isa.FamilyJump:
		imm, err := resolveField(args[0], labels, isa.JumpBits)
		if err != nil {
			return 0, err
		}
		return isa.EncodeJump(op.Code, imm), nil

	case isa.FamilyMovi:
		// movi dst, imm == addi dst, $0, imm
		return encodeOp("addi", []string{args[0], "$0", args[1]}, labels, pc)

	case isa.FamilyNop:
		return encodeOp("add", []string{"$0", "$0", "$0"}, labels, pc)

	case isa.FamilyHalt:
		return encodeOp("j", []string{strconv.Itoa(pc)}, labels, pc)

	case isa.FamilyFill:
		return resolveField(args[0], labels, isa.WordBits)
	}

	return 0, errors.Wrapf(ErrUnknownOpcode, "%q", mnemonic)
}

// parseRegister accepts exactly "$0" through "$7".
func parseRegister(token string) (uint16, error) {
	if len(token) < 2 || token[0] != '$' || !isDecimal(token[1:]) {
		return 0, errors.Wrapf(ErrSyntax, "invalid register %q", token)
	}
	if len(token) != 2 || token[1] > '7' {
		return 0, errors.Wrapf(ErrRegisterRange, "%q", token)
	}
	return uint16(token[1] - '0'), nil
}

func parseRegisters(tokens []string) ([]uint16, error) {
	regs := make([]uint16, len(tokens))
	for i, tok := range tokens {
		r, err := parseRegister(tok)
		if err != nil {
			return nil, err
		}
		regs[i] = r
	}
	return regs, nil
}

// splitMemoryOperand splits "imm(reg)" into its offset and base register.
func splitMemoryOperand(token string) (offset, base string, err error) {
	open := strings.IndexByte(token, '(')
	if open <= 0 || !strings.HasSuffix(token, ")") {
		return "", "", errors.Wrapf(ErrSyntax, "invalid memory operand %q, want imm(reg)", token)
	}
	return token[:open], token[open+1 : len(token)-1], nil
}

// resolve turns a label or a signed decimal literal into its value. Labels
// take precedence.
func resolve(token string, labels Labels) (int, error) {
	if token == "" {
		return 0, errors.Wrap(ErrSyntax, "missing operand")
	}
	if addr, ok := labels.Lookup(token); ok {
		return addr, nil
	}

	v, err := strconv.Atoi(token)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, errors.Wrapf(ErrImmediateRange, "%q", token)
	}
	if isIdentifier(token) {
		return 0, errors.Wrapf(ErrUnresolvedLabel, "%q", token)
	}
	return 0, errors.Wrapf(ErrSyntax, "invalid immediate %q", token)
}

func resolveField(token string, labels Labels, bits uint) (uint16, error) {
	v, err := resolve(token, labels)
	if err != nil {
		return 0, err
	}
	return fitField(v, bits)
}

// fitField stores v in a field of the given width, two's-complementing
// negative values.
func fitField(v int, bits uint) (uint16, error) {
	if !isa.FitsField(v, bits) {
		return 0, errors.Wrapf(ErrImmediateRange, "%d does not fit in %d bits", v, bits)
	}
	return isa.TwosComplement(v, bits), nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	return true
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
