package asm

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"goe20/pkg/isa"
)

var ramLine = regexp.MustCompile(`^ram\[(\d+)\]\s*=\s*16'b([01]{16})\s*;$`)

// WriteRAM renders words as memory initialisation lines:
//
//	ram[0] = 16'b0000000000010000;
func WriteRAM(w io.Writer, words []uint16) error {
	bw := bufio.NewWriter(w)
	for i, word := range words {
		fmt.Fprintf(bw, "ram[%d] = 16'b%s;\n", i, isa.Bits(word))
	}
	return errors.Wrap(bw.Flush(), "write ram image")
}

// ReadRAM parses the output of WriteRAM. Indices must start at 0 and be
// consecutive; blank lines and # comments are ignored.
func ReadRAM(r io.Reader) ([]uint16, error) {
	var words []uint16

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}

		m := ramLine.FindStringSubmatch(line)
		if m == nil {
			return nil, errors.Errorf("ram image line %d: malformed %q", lineNo, line)
		}
		index, err := strconv.Atoi(m[1])
		if err != nil || index != len(words) {
			return nil, errors.Errorf("ram image line %d: index %s out of sequence, want %d", lineNo, m[1], len(words))
		}
		v, err := strconv.ParseUint(m[2], 2, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "ram image line %d", lineNo)
		}
		words = append(words, uint16(v))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read ram image")
	}

	return words, nil
}
