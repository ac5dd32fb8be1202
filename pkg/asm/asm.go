package asm

import (
	"io"
	"strings"

	"github.com/golang/glog"

	"goe20/pkg/isa"
)

// Word is one encoded instruction together with where it came from.
type Word struct {
	PC    int
	Value uint16
	Line  int
	Text  string
}

// Bits renders the word as a 16-character binary string.
func (w Word) Bits() string {
	return isa.Bits(w.Value)
}

// Program is the result of a successful assembly.
type Program struct {
	Words  []Word
	Labels Labels
}

// Values returns the encoded words in program order.
func (p *Program) Values() []uint16 {
	out := make([]uint16, len(p.Words))
	for i, w := range p.Words {
		out[i] = w.Value
	}
	return out
}

// SourceMap maps each PC to the source line it was assembled from.
func (p *Program) SourceMap() map[int]int {
	m := make(map[int]int, len(p.Words))
	for _, w := range p.Words {
		m[w.PC] = w.Line
	}
	return m
}

type Assembler struct {
	labels Labels
}

func NewAssembler() *Assembler {
	return &Assembler{}
}

func Assemble(lines []string) (*Program, error) {
	return NewAssembler().Assemble(lines)
}

func AssembleString(code string) (*Program, error) {
	return Assemble(strings.Split(code, "\n"))
}

func AssembleReader(r io.Reader) (*Program, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return Assemble(lines)
}

// Assemble runs both passes over lines. The first error stops assembly and
// no program is returned.
func (a *Assembler) Assemble(lines []string) (*Program, error) {
	stmts := Normalize(lines)

	if err := a.pass1(stmts); err != nil {
		return nil, err
	}

	return a.pass2(stmts)
}

// Labels returns the table built by the last call to Assemble.
func (a *Assembler) Labels() Labels {
	return a.labels
}

func (a *Assembler) pass1(stmts []Statement) error {
	labels, err := ResolveLabels(stmts)
	if err != nil {
		return err
	}
	a.labels = labels
	glog.V(1).Infof("pass 1: %d statements, %d labels", len(stmts), len(labels))
	return nil
}

func (a *Assembler) pass2(stmts []Statement) (*Program, error) {
	prog := &Program{
		Words:  make([]Word, 0, len(stmts)),
		Labels: a.labels,
	}

	pc := 0
	for _, s := range stmts {
		if s.LabelOnly() {
			continue
		}

		value, err := EncodeInstruction(s.Instruction(), a.labels, pc)
		if err != nil {
			return nil, lineError(s, err)
		}
		glog.V(2).Infof("%4d  %s  %s", pc, isa.Bits(value), s.Text)

		prog.Words = append(prog.Words, Word{PC: pc, Value: value, Line: s.Line, Text: s.Text})
		pc++
	}

	glog.V(1).Infof("pass 2: %d words", len(prog.Words))
	return prog, nil
}
