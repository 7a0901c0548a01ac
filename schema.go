package hxbind

import (
	"fmt"
	"sync"
)

// Instruction describes one entry of the marker attribute vocabulary.
type Instruction struct {
	// Name identifies the instruction, e.g. "toggles".
	Name string
	// Attribute is the marker attribute read, without the prefix.
	Attribute string
	// Multi marks list-valued instructions.
	Multi bool
	// Numeric marks instructions parsed as a number.
	Numeric bool
}

// Schema is an ordered set of instructions. Once frozen it is read-only and
// safe for concurrent use.
type Schema struct {
	mu     sync.RWMutex
	frozen bool
	order  []Instruction
	byName map[string]Instruction
}

// NewSchema returns an empty, unfrozen schema.
func NewSchema() *Schema {
	return &Schema{byName: make(map[string]Instruction)}
}

// MustSchema defines every instruction on a new schema, freezes it, and
// panics on error. It is meant for package-level tables.
func MustSchema(instructions ...Instruction) *Schema {
	s := NewSchema()
	for _, in := range instructions {
		if err := s.Define(in); err != nil {
			panic(err)
		}
	}
	s.Freeze()
	return s
}

// Define adds an instruction. Two instructions may read the same attribute
// only when exactly one of them is the multi-valued variant of the other.
func (s *Schema) Define(in Instruction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return fmt.Errorf("%w: define %q", ErrSchemaFrozen, in.Name)
	}
	if in.Name == "" {
		return fmt.Errorf("hxbind: instruction without a name")
	}
	if in.Attribute == "" {
		in.Attribute = in.Name
	}
	if _, ok := s.byName[in.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateInstruction, in.Name)
	}
	var sharing []Instruction
	for _, ex := range s.order {
		if ex.Attribute == in.Attribute {
			sharing = append(sharing, ex)
		}
	}
	switch {
	case len(sharing) == 0:
	case len(sharing) == 1 && sharing[0].Multi != in.Multi:
	default:
		return fmt.Errorf("%w: %q wants %q, taken by %q", ErrDuplicateAttribute, in.Name, in.Attribute, sharing[0].Name)
	}
	s.order = append(s.order, in)
	s.byName[in.Name] = in
	return nil
}

// Freeze makes the schema read-only.
func (s *Schema) Freeze() {
	s.mu.Lock()
	s.frozen = true
	s.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (s *Schema) Frozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen
}

// Lookup returns the named instruction. Unknown names report ok == false
// and are treated by callers as an absent instruction.
func (s *Schema) Lookup(name string) (Instruction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.byName[name]
	return in, ok
}

// Instructions returns the instructions in declaration order.
func (s *Schema) Instructions() []Instruction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Instruction(nil), s.order...)
}

// Attributes returns the distinct marker attributes in declaration order.
func (s *Schema) Attributes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool, len(s.order))
	var out []string
	for _, in := range s.order {
		if !seen[in.Attribute] {
			seen[in.Attribute] = true
			out = append(out, in.Attribute)
		}
	}
	return out
}
