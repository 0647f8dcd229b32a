package ast

import (
	"fmt"
	"strings"
)

// NodeFlags carries modifiers and syntactic facts recorded by the parser.
type NodeFlags uint32

const (
	FlagExport NodeFlags = 1 << iota
	FlagAmbient
	FlagPublic
	FlagPrivate
	FlagProtected
	FlagStatic
	FlagAbstract
	FlagAsync
	FlagDefault
	FlagLet
	FlagConst
	FlagNamespace
	// FlagExportContext is written by the binder on declarations whose
	// non-exported names still behave as exports.
	FlagExportContext
	FlagOctalLiteral
	FlagDeclarationFile
	FlagQuestionToken
	// FlagExportEquals distinguishes `export =` from `export default`.
	FlagExportEquals
)

const (
	FlagsNone                 NodeFlags = 0
	FlagsAccessibilityModifier          = FlagPublic | FlagPrivate | FlagProtected
	FlagsBlockScoped                    = FlagLet | FlagConst
	FlagsModifiers                      = FlagExport | FlagAmbient | FlagsAccessibilityModifier | FlagStatic | FlagAbstract | FlagAsync | FlagDefault
)

var nodeFlagNames = []struct {
	flag NodeFlags
	name string
}{
	{FlagExport, "export"},
	{FlagAmbient, "ambient"},
	{FlagPublic, "public"},
	{FlagPrivate, "private"},
	{FlagProtected, "protected"},
	{FlagStatic, "static"},
	{FlagAbstract, "abstract"},
	{FlagAsync, "async"},
	{FlagDefault, "default"},
	{FlagLet, "let"},
	{FlagConst, "const"},
	{FlagNamespace, "namespace"},
	{FlagExportContext, "export_context"},
	{FlagOctalLiteral, "octal"},
	{FlagDeclarationFile, "declaration_file"},
	{FlagQuestionToken, "optional"},
	{FlagExportEquals, "export_equals"},
}

func (f NodeFlags) Has(mask NodeFlags) bool { return f&mask != 0 }

// Names lists the set flags by name in declaration order.
func (f NodeFlags) Names() []string {
	var out []string
	for _, entry := range nodeFlagNames {
		if f&entry.flag != 0 {
			out = append(out, entry.name)
		}
	}
	return out
}

func (f NodeFlags) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), "|")
}

// ParseNodeFlags is the inverse of Names.
func ParseNodeFlags(names []string) (NodeFlags, error) {
	var f NodeFlags
next:
	for _, name := range names {
		for _, entry := range nodeFlagNames {
			if entry.name == name {
				f |= entry.flag
				continue next
			}
		}
		return 0, fmt.Errorf("unknown node flag %q", name)
	}
	return f, nil
}

// Operator is the token of a unary or binary expression.
type Operator uint8

const (
	OpNone Operator = iota
	OpAssign
	OpPlusAssign
	OpMinusAssign
	OpStarAssign
	OpSlashAssign
	OpPercentAssign
	OpShlAssign
	OpShrAssign
	OpUShrAssign
	OpAmpAssign
	OpPipeAssign
	OpCaretAssign
	OpPlusPlus
	OpMinusMinus
	OpPlus
	OpMinus
	OpStar
	OpSlash
	OpPercent
	OpShl
	OpShr
	OpUShr
	OpAmp
	OpPipe
	OpCaret
	OpBang
	OpTilde
	OpAmpAmp
	OpPipePipe
	OpEqEq
	OpBangEq
	OpEqEqEq
	OpBangEqEq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpComma
	OpIn
	OpInstanceOf
	operatorCount
)

var operatorText = [...]string{
	OpNone:          "",
	OpAssign:        "=",
	OpPlusAssign:    "+=",
	OpMinusAssign:   "-=",
	OpStarAssign:    "*=",
	OpSlashAssign:   "/=",
	OpPercentAssign: "%=",
	OpShlAssign:     "<<=",
	OpShrAssign:     ">>=",
	OpUShrAssign:    ">>>=",
	OpAmpAssign:     "&=",
	OpPipeAssign:    "|=",
	OpCaretAssign:   "^=",
	OpPlusPlus:      "++",
	OpMinusMinus:    "--",
	OpPlus:          "+",
	OpMinus:         "-",
	OpStar:          "*",
	OpSlash:         "/",
	OpPercent:       "%",
	OpShl:           "<<",
	OpShr:           ">>",
	OpUShr:          ">>>",
	OpAmp:           "&",
	OpPipe:          "|",
	OpCaret:         "^",
	OpBang:          "!",
	OpTilde:         "~",
	OpAmpAmp:        "&&",
	OpPipePipe:      "||",
	OpEqEq:          "==",
	OpBangEq:        "!=",
	OpEqEqEq:        "===",
	OpBangEqEq:      "!==",
	OpLt:            "<",
	OpGt:            ">",
	OpLtEq:          "<=",
	OpGtEq:          ">=",
	OpComma:         ",",
	OpIn:            "in",
	OpInstanceOf:    "instanceof",
}

func (op Operator) String() string {
	if op < operatorCount {
		return operatorText[op]
	}
	return fmt.Sprintf("Operator(%d)", uint8(op))
}

// ParseOperator maps operator text back to the Operator. The empty string is OpNone.
func ParseOperator(text string) (Operator, bool) {
	for i, t := range operatorText {
		if t == text {
			return Operator(i), true
		}
	}
	return OpNone, false
}

// IsAssignment reports whether op is `=` or a compound assignment.
func (op Operator) IsAssignment() bool {
	return op >= OpAssign && op <= OpCaretAssign
}

// IsIncDec reports whether op is `++` or `--`.
func (op Operator) IsIncDec() bool {
	return op == OpPlusPlus || op == OpMinusMinus
}
