package asm

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestResolveLabels(t *testing.T) {
	stmts := Normalize([]string{
		"main:",
		"  movi $1, 10",
		"loop: LOOP2:",
		"  addi $1, $1, -1",
		"  jeq $1, $0, done",
		"  j loop",
		"done: halt",
		"table: .fill 1",
		"end:",
	})

	got, err := ResolveLabels(stmts)
	if err != nil {
		t.Fatalf("ResolveLabels failed: %v", err)
	}
	want := Labels{
		"main":  0,
		"loop":  1,
		"loop2": 1,
		"done":  4,
		"table": 5,
		"end":   6,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveLabels() = %v; want %v", got, want)
	}

	again, err := ResolveLabels(stmts)
	if err != nil {
		t.Fatalf("second ResolveLabels failed: %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Errorf("ResolveLabels is not idempotent: %v != %v", got, again)
	}
}

func TestResolveLabelsOverwrite(t *testing.T) {
	got, err := ResolveLabels(Normalize([]string{"x: nop", "nop", "X: nop"}))
	if err != nil {
		t.Fatalf("ResolveLabels failed: %v", err)
	}
	if got["x"] != 2 || len(got) != 1 {
		t.Errorf("ResolveLabels() = %v; want map[x:2]", got)
	}
}

func TestResolveLabelsError(t *testing.T) {
	_, err := ResolveLabels(Normalize([]string{"nop", "bad label: nop"}))
	if errors.Cause(err) != ErrSyntax {
		t.Fatalf("ResolveLabels error = %v; want ErrSyntax", err)
	}
	if e, ok := err.(*Error); !ok || e.Line != 2 {
		t.Errorf("error = %#v; want *Error on line 2", err)
	}
}

func TestLabelsLookupAndNames(t *testing.T) {
	l := Labels{"b": 1, "a": 1, "z": 0}
	if addr, ok := l.Lookup("Z"); !ok || addr != 0 {
		t.Errorf("Lookup(Z) = %d, %v", addr, ok)
	}
	if _, ok := l.Lookup("missing"); ok {
		t.Errorf("Lookup(missing) succeeded")
	}
	if got, want := l.Names(), []string{"z", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v; want %v", got, want)
	}
}
