package diag

import (
	"fmt"
)

// Code identifies a diagnostic. Binder codes reuse the numbering of the
// TypeScript compiler so that output can be compared with tsc.
type Code uint16

const (
	UnknownCode Code = 0

	// Strict mode
	StrictInvalidUse           Code = 1100
	StrictWithStatement        Code = 1101
	StrictDeleteIdentifier     Code = 1102
	StrictDuplicateProperty    Code = 1117
	StrictOctalLiteral         Code = 1121
	StrictInvalidUseInClass    Code = 1210
	StrictReservedWord         Code = 1212
	StrictReservedWordInClass  Code = 1213
	StrictReservedWordInModule Code = 1214
	StrictInvalidUseInModule   Code = 1215

	// Declarations
	BindDuplicateIdentifier  Code = 2300
	BindRedeclareBlockScoped Code = 2451

	// Structural problems found by validation after a bind
	BindInvariant Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:                "Unknown error",
	StrictInvalidUse:           "Invalid use of a restricted name in strict mode",
	StrictWithStatement:        "'with' statement in strict mode",
	StrictDeleteIdentifier:     "'delete' of an identifier in strict mode",
	StrictDuplicateProperty:    "Duplicate object literal property in strict mode",
	StrictOctalLiteral:         "Octal literal in strict mode",
	StrictInvalidUseInClass:    "Invalid use of a restricted name in a class",
	StrictReservedWord:         "Reserved word used as identifier in strict mode",
	StrictReservedWordInClass:  "Reserved word used as identifier in a class",
	StrictReservedWordInModule: "Reserved word used as identifier in a module",
	StrictInvalidUseInModule:   "Invalid use of a restricted name in a module",
	BindDuplicateIdentifier:    "Duplicate identifier",
	BindRedeclareBlockScoped:   "Block-scoped variable redeclared",
	BindInvariant:              "Symbol table invariant violated",
}

// ID returns the stable textual form, e.g. "TS2300".
func (c Code) ID() string {
	return fmt.Sprintf("TS%04d", uint16(c))
}

func (c Code) String() string {
	return c.ID()
}

// Title returns a short human description of the code.
func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}
