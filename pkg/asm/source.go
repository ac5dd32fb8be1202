package asm

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const commentMarker = "#"

// Statement is one logical source line after comment and whitespace
// stripping. It may carry label declarations, an instruction, or both.
type Statement struct {
	Line int    // 1-based line number in the raw source
	Text string // normalized text
}

// Normalize strips comments and blank lines. The result keeps the raw line
// numbers so errors can point back at the source.
func Normalize(lines []string) []Statement {
	stmts := make([]Statement, 0, len(lines))
	for i, raw := range lines {
		if raw == "" || strings.HasPrefix(raw, commentMarker) {
			continue
		}
		if cut := strings.Index(raw, commentMarker); cut >= 0 {
			raw = raw[:cut]
		}
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		stmts = append(stmts, Statement{Line: i + 1, Text: text})
	}
	return stmts
}

// ReadLines splits r into lines without their terminators.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read source")
	}
	return lines, nil
}

// LabelOnly reports whether the statement declares labels and nothing else.
func (s Statement) LabelOnly() bool {
	return strings.HasSuffix(s.Text, ":")
}

// Labels returns the names declared in front of the instruction, in source
// order and as written.
func (s Statement) Labels() ([]string, error) {
	end := strings.LastIndexByte(s.Text, ':')
	if end < 0 {
		return nil, nil
	}

	var names []string
	for _, decl := range strings.Split(s.Text[:end], ":") {
		name := strings.TrimSpace(decl)
		if !isIdentifier(name) {
			return nil, errors.Wrapf(ErrSyntax, "invalid label %q", name)
		}
		names = append(names, name)
	}
	return names, nil
}

// Instruction returns the statement text with label declarations removed.
func (s Statement) Instruction() string {
	return strings.TrimSpace(s.Text[strings.LastIndexByte(s.Text, ':')+1:])
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}
