package isa

import (
	"bytes"
	"strings"
	"testing"
)

func TestTwosComplement(t *testing.T) {
	tests := []struct {
		v    int
		bits uint
		want uint16
	}{
		{-1, 7, 0b1111111},
		{-3, 7, 0b1111101},
		{-64, 7, 0b1000000},
		{5, 7, 5},
		{127, 7, 127},
		{-1, 13, 0x1FFF},
		{-1, 16, 0xFFFF},
		{-32768, 16, 0x8000},
		{0, 16, 0},
	}
	for _, tc := range tests {
		if got := TwosComplement(tc.v, tc.bits); got != tc.want {
			t.Errorf("TwosComplement(%d, %d) = %b; want %b", tc.v, tc.bits, got, tc.want)
		}
	}
}

func TestSignExtendRoundTrip(t *testing.T) {
	for v := -64; v <= 63; v++ {
		if got := SignExtend(TwosComplement(v, ImmBits), ImmBits); got != v {
			t.Errorf("SignExtend(TwosComplement(%d)) = %d", v, got)
		}
	}
	if got := SignExtend(0b1111111, 7); got != -1 {
		t.Errorf("SignExtend(1111111, 7) = %d; want -1", got)
	}
}

func TestFitsField(t *testing.T) {
	tests := []struct {
		v    int
		bits uint
		want bool
	}{
		{-64, 7, true},
		{-65, 7, false},
		{127, 7, true},
		{128, 7, false},
		{8191, 13, true},
		{8192, 13, false},
		{-4096, 13, true},
		{65535, 16, true},
		{65536, 16, false},
		{-32769, 16, false},
	}
	for _, tc := range tests {
		if got := FitsField(tc.v, tc.bits); got != tc.want {
			t.Errorf("FitsField(%d, %d) = %v; want %v", tc.v, tc.bits, got, tc.want)
		}
	}
}

func TestEncodeLayouts(t *testing.T) {
	tests := []struct {
		name string
		got  uint16
		want string
	}{
		// srcA=2 (010), srcB=3 (011), dst=1 (001), func 0000
		{"add $1, $2, $3", EncodeALU(FuncAdd, 1, 2, 3), "0000100110010000"},
		{"slt $7, $7, $7", EncodeALU(FuncSlt, 7, 7, 7), "0001111111110100"},
		{"jr $7", EncodeJr(7), "0001110000001000"},
		// op 100, addr=2, reg=1, imm=5
		{"lw $1, 5($2)", EncodeRRI(OpLw, 2, 1, 5), "1000100010000101"},
		{"addi $1, $1, 1", EncodeRRI(OpAddi, 1, 1, 1), "0010010010000001"},
		{"jeq $1, $0, -3", EncodeRRI(OpJeq, 1, 0, TwosComplement(-3, 7)), "1100010001111101"},
		{"j 3", EncodeJump(OpJ, 3), "0100000000000011"},
		{"jal 8191", EncodeJump(OpJal, 8191), "0111111111111111"},
	}
	for _, tc := range tests {
		if got := Bits(tc.got); got != tc.want {
			t.Errorf("%s: got %s; want %s", tc.name, got, tc.want)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"add", "sub", "or", "and", "slt", "lw", "sw", "addi", "slti", "jeq", "jr", "j", "jal", "movi", "nop", "halt", ".fill"} {
		op, ok := Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) not found", name)
			continue
		}
		if op.Mnemonic != name {
			t.Errorf("Lookup(%q).Mnemonic = %q", name, op.Mnemonic)
		}
	}
	if _, ok := Lookup("mul"); ok {
		t.Errorf("Lookup(\"mul\") should fail")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		word uint16
		pc   int
		want string
	}{
		{0, 0, "nop"},
		{EncodeALU(FuncSub, 3, 4, 5), 0, "sub $3, $4, $5"},
		{EncodeJr(7), 0, "jr $7"},
		{EncodeRRI(OpLw, 2, 1, TwosComplement(-2, 7)), 0, "lw $1, -2($2)"},
		{EncodeRRI(OpSw, 0, 6, 10), 0, "sw $6, 10($0)"},
		{EncodeRRI(OpAddi, 0, 2, 5), 0, "addi $2, $0, 5"},
		{EncodeRRI(OpSlti, 3, 4, TwosComplement(-1, 7)), 0, "slti $4, $3, -1"},
		{EncodeRRI(OpJeq, 1, 0, TwosComplement(-3, 7)), 2, "jeq $1, $0, 0"},
		{EncodeJump(OpJ, 3), 3, "halt"},
		{EncodeJump(OpJ, 9), 3, "j 9"},
		{EncodeJump(OpJal, 100), 0, "jal 100"},
		{0x000F, 0, ".fill 15"},
	}
	for _, tc := range tests {
		if got := Decode(tc.word, tc.pc).String(); got != tc.want {
			t.Errorf("Decode(%s, %d) = %q; want %q", Bits(tc.word), tc.pc, got, tc.want)
		}
	}
}

func TestDisassembleAll(t *testing.T) {
	var buf bytes.Buffer
	words := []uint16{EncodeALU(FuncAdd, 1, 0, 0), EncodeJump(OpJ, 1)}
	if err := DisassembleAll(&buf, words); err != nil {
		t.Fatalf("DisassembleAll failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines; want 2:\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], "add $1, $0, $0") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "halt") {
		t.Errorf("line 1 = %q", lines[1])
	}
}
