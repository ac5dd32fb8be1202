package asm

import (
	"sort"
	"strings"
)

// Labels maps lower-cased label names to instruction addresses.
type Labels map[string]int

// ResolveLabels builds the label table for a normalized program.
//
// A label's address is the index of its statement minus the number of
// label-only statements before it, which is the PC the next
// instruction-bearing statement will be encoded at. Redeclaring a label
// overwrites the earlier address.
func ResolveLabels(stmts []Statement) (Labels, error) {
	labels := make(Labels)
	offset := 0

	for i, s := range stmts {
		names, err := s.Labels()
		if err != nil {
			return nil, lineError(s, err)
		}
		for _, name := range names {
			labels[normalizeLabel(name)] = i - offset
		}
		if s.LabelOnly() {
			offset++
		}
	}

	return labels, nil
}

// Lookup finds a label regardless of case.
func (l Labels) Lookup(name string) (int, bool) {
	addr, ok := l[normalizeLabel(name)]
	return addr, ok
}

// Names returns the label names in address order, ties broken by name.
func (l Labels) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if l[names[i]] != l[names[j]] {
			return l[names[i]] < l[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func normalizeLabel(label string) string {
	return strings.ToLower(label)
}
