package hxbind

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSchemaDefine(t *testing.T) {
	tests := []struct {
		name    string
		defs    []Instruction
		wantErr error
	}{
		{"distinct attributes", []Instruction{{Name: "a"}, {Name: "b"}}, nil},
		{"multi variant shares", []Instruction{{Name: "call"}, {Name: "calls", Attribute: "call", Multi: true}}, nil},
		{"two singles share", []Instruction{{Name: "x", Attribute: "v"}, {Name: "y", Attribute: "v"}}, ErrDuplicateAttribute},
		{"two multis share", []Instruction{{Name: "x", Attribute: "v", Multi: true}, {Name: "y", Attribute: "v", Multi: true}}, ErrDuplicateAttribute},
		{"third sharer", []Instruction{
			{Name: "x", Attribute: "v"},
			{Name: "xs", Attribute: "v", Multi: true},
			{Name: "xx", Attribute: "v", Multi: true},
		}, ErrDuplicateAttribute},
		{"duplicate name", []Instruction{{Name: "a"}, {Name: "a", Attribute: "other"}}, ErrDuplicateInstruction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSchema()
			var err error
			for _, in := range tt.defs {
				if err = s.Define(in); err != nil {
					break
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Define() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSchemaFreeze(t *testing.T) {
	s := NewSchema()
	if err := s.Define(Instruction{Name: "a"}); err != nil {
		t.Fatal(err)
	}
	s.Freeze()
	if err := s.Define(Instruction{Name: "b"}); !errors.Is(err, ErrSchemaFrozen) {
		t.Errorf("Define() after Freeze error = %v, want ErrSchemaFrozen", err)
	}
	if _, ok := s.Lookup("b"); ok {
		t.Error("rejected instruction must not be visible")
	}
	if !Instructions.Frozen() {
		t.Error("default schema must be frozen")
	}
}

func TestDefaultInstructions(t *testing.T) {
	in, ok := Instructions.Lookup("toggles")
	if !ok || in.Attribute != "toggle" || !in.Multi {
		t.Errorf("Lookup(toggles) = %+v, %v", in, ok)
	}
	if in, _ := Instructions.Lookup("timeout"); !in.Numeric {
		t.Error("timeout should be numeric")
	}
	if _, ok := Instructions.Lookup("unknown"); ok {
		t.Error("unknown instruction reported present")
	}

	want := []string{
		"action", "anchor", "attribute", "call", "exec", "inject", "property",
		"swap", "target", "template", "toggle", "timeout", "trigger", "value",
	}
	if diff := cmp.Diff(want, Instructions.Attributes()); diff != "" {
		t.Errorf("Attributes() mismatch (-want +got):\n%s", diff)
	}
	if n := len(Instructions.Instructions()); n != 17 {
		t.Errorf("len(Instructions()) = %d, want 17", n)
	}
}
