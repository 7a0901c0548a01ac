package hxbind

//go:generate go run ./cmd/hxbind generate .

// Instructions is the default vocabulary. Typed accessors for it are
// generated into instructions_hx.go.
var Instructions = MustSchema(
	Instruction{Name: "action", Attribute: "action"},
	Instruction{Name: "anchor", Attribute: "anchor"},
	Instruction{Name: "attribute", Attribute: "attribute"},
	Instruction{Name: "call", Attribute: "call"},
	Instruction{Name: "calls", Attribute: "call", Multi: true},
	Instruction{Name: "exec", Attribute: "exec"},
	Instruction{Name: "inject", Attribute: "inject"},
	Instruction{Name: "property", Attribute: "property"},
	Instruction{Name: "swap", Attribute: "swap"},
	Instruction{Name: "target", Attribute: "target"},
	Instruction{Name: "template", Attribute: "template"},
	Instruction{Name: "toggle", Attribute: "toggle"},
	Instruction{Name: "toggles", Attribute: "toggle", Multi: true},
	Instruction{Name: "timeout", Attribute: "timeout", Numeric: true},
	Instruction{Name: "trigger", Attribute: "trigger"},
	Instruction{Name: "triggers", Attribute: "trigger", Multi: true},
	Instruction{Name: "value", Attribute: "value"},
)
