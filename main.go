package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"goe20/pkg/asm"
	"goe20/pkg/isa"
	"goe20/pkg/utils"
)

func main() {
	// glog writes to files under $TMPDIR unless told otherwise.
	flag.Set("logtostderr", "true")

	err := newRootCmd().Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "goe20",
		Short:         "Assembler for the 16-bit E20 instruction set",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Values were already set through pflag; this only marks the
			// standard flag set as parsed for glog.
			return flag.CommandLine.Parse(nil)
		},
	}
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(newAsmCmd(), newDisasmCmd())
	return root
}

func newAsmCmd() *cobra.Command {
	var (
		outPath    string
		dumpLabels bool
	)

	cmd := &cobra.Command{
		Use:   "asm sourceFile",
		Short: "Assemble a source file into a ram image",
		Long: `Asm assembles one source file and writes one line per machine word:

    ram[<index>] = 16'b<16-bit word>;

The image is written next to the source with a .bin extension unless -o is
given; "-o -" writes it to standard output. Nothing is written when any
statement fails to assemble.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsm(cmd, args[0], outPath, dumpLabels)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output ram image path (default: input with .bin extension)")
	cmd.Flags().BoolVar(&dumpLabels, "labels", false, "print the label table to stderr")
	return cmd
}

func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm ramFile",
		Short: "Print a listing of a ram image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "open ram image")
			}
			defer f.Close()

			words, err := asm.ReadRAM(f)
			if err != nil {
				return errors.Wrapf(err, "%s", args[0])
			}
			return isa.DisassembleAll(cmd.OutOrStdout(), words)
		},
	}
}

func runAsm(cmd *cobra.Command, inPath, outPath string, dumpLabels bool) error {
	lines, err := utils.ReadSourceLines(inPath)
	if err != nil {
		return errors.Wrapf(err, "read %s", inPath)
	}

	prog, err := asm.Assemble(lines)
	if err != nil {
		glog.Errorf("assembly of %s failed: %v", inPath, err)
		return errors.Wrapf(err, "%s", inPath)
	}

	if dumpLabels {
		printLabels(cmd.ErrOrStderr(), prog.Labels)
	}

	var buf bytes.Buffer
	if err := asm.WriteRAM(&buf, prog.Values()); err != nil {
		return err
	}

	if outPath == "-" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return errors.Wrap(err, "write ram image")
	}
	if outPath == "" {
		outPath = utils.DefaultOutputPath(inPath)
	}
	if err := utils.WriteFileAtomic(outPath, buf.Bytes()); err != nil {
		return errors.Wrapf(err, "write %s", outPath)
	}

	glog.V(1).Infof("wrote %d words to %s", len(prog.Words), outPath)
	if isTerminal(cmd.ErrOrStderr()) {
		fmt.Fprintf(cmd.ErrOrStderr(), "assembled %d words -> %s\n", len(prog.Words), outPath)
	}
	return nil
}

type labelEntry struct {
	Name    string
	Address int
}

func printLabels(w io.Writer, labels asm.Labels) {
	entries := make([]labelEntry, 0, len(labels))
	for _, name := range labels.Names() {
		entries = append(entries, labelEntry{Name: name, Address: labels[name]})
	}

	printer := pp.New()
	printer.SetColoringEnabled(isTerminal(w))
	printer.Fprintln(w, entries)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
