// Command e20stages prints every stage of assembling one source file:
// normalized statements, the label table and the encoded words.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"goe20/pkg/asm"
	"goe20/pkg/isa"
	"goe20/pkg/utils"
)

const testSource = `# demo
start: add $1,$0,$0
addi $1,$1,1
jeq $1,$0,start
halt
`

func main() {
	lines, err := asm.ReadLines(strings.NewReader(testSource))
	if len(os.Args) > 1 {
		lines, err = utils.ReadSourceLines(os.Args[1])
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		os.Exit(1)
	}

	printer := pp.New()
	printer.SetColoringEnabled(term.IsTerminal(int(os.Stdout.Fd())))

	// Normalize
	stmts := asm.Normalize(lines)
	fmt.Printf("Statements (%d)\n", len(stmts))
	for _, s := range stmts {
		fmt.Printf("  %4d  %s\n", s.Line, s.Text)
	}
	fmt.Println()

	// Labels
	labels, err := asm.ResolveLabels(stmts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "label error:", err)
		os.Exit(1)
	}
	fmt.Println("Labels")
	printer.Println(labels)
	fmt.Println()

	// Encode
	prog, err := asm.Assemble(lines)
	if err != nil {
		fmt.Fprintln(os.Stderr, "assembly error:", err)
		os.Exit(1)
	}
	fmt.Println("Words")
	for _, w := range prog.Words {
		fmt.Printf("  %4d  %s  %-24s  ; line %d: %s\n", w.PC, w.Bits(), isa.Decode(w.Value, w.PC), w.Line, w.Text)
	}
	fmt.Println()

	fmt.Println("RAM image")
	if err := asm.WriteRAM(os.Stdout, prog.Values()); err != nil {
		fmt.Fprintln(os.Stderr, "write error:", err)
		os.Exit(1)
	}
}
