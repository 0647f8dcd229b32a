package symbols

import (
	"strings"
)

// SymbolFlags is the set of meanings a symbol carries.
type SymbolFlags uint32

const (
	FunctionScopedVariable SymbolFlags = 1 << iota // var or parameter
	BlockScopedVariable                             // let or const
	Property
	EnumMember
	Function
	Class
	Interface
	ConstEnum
	RegularEnum
	ValueModule     // instantiated namespace
	NamespaceModule // uninstantiated namespace
	TypeLiteral
	ObjectLiteral
	Method
	Constructor
	GetAccessor
	SetAccessor
	Signature // call, construct or index signature
	TypeParameter
	TypeAlias
	ExportValue     // exported value marker on a local
	ExportType      // exported type marker on a local
	ExportNamespace // exported namespace marker on a local
	Alias           // import or export alias
	Instantiated
	Merged
	Transient
	Prototype
	SyntheticProperty
	Optional
	ExportStar
)

const (
	None SymbolFlags = 0

	Enum      = RegularEnum | ConstEnum
	Variable  = FunctionScopedVariable | BlockScopedVariable
	Value     = Variable | Property | EnumMember | Function | Class | Enum | ValueModule | Method | GetAccessor | SetAccessor
	Type      = Class | Interface | Enum | TypeLiteral | ObjectLiteral | TypeParameter | TypeAlias
	Namespace = ValueModule | NamespaceModule
	Module    = ValueModule | NamespaceModule
	Accessor  = GetAccessor | SetAccessor

	// A symbol may not be declared twice with flags intersecting these
	// exclusion sets.
	FunctionScopedVariableExcludes = Value &^ FunctionScopedVariable
	// Block-scoped declarations may not merge with anything that is a value.
	BlockScopedVariableExcludes = Value
	ParameterExcludes           = Value
	PropertyExcludes            = Value
	EnumMemberExcludes          = Value
	FunctionExcludes            = Value &^ (Function | ValueModule)
	ClassExcludes               = (Value | Type) &^ ValueModule
	InterfaceExcludes           = Type &^ Interface
	RegularEnumExcludes         = (Value | Type) &^ (RegularEnum | ValueModule)
	ConstEnumExcludes           = (Value | Type) &^ ConstEnum
	ValueModuleExcludes         = Value &^ (Function | Class | RegularEnum | ValueModule)
	NamespaceModuleExcludes     = None
	MethodExcludes              = Value &^ Method
	GetAccessorExcludes         = Value &^ SetAccessor
	SetAccessorExcludes         = Value &^ GetAccessor
	TypeParameterExcludes       = Type &^ TypeParameter
	TypeAliasExcludes           = Type
	AliasExcludes               = Alias

	ModuleMember       = Variable | Function | Class | Interface | Enum | Module | TypeAlias | Alias
	ExportHasLocal     = Function | Class | Enum | ValueModule
	HasExports         = Class | Enum | Module
	HasMembers         = Class | Interface | TypeLiteral | ObjectLiteral
	PropertyOrAccessor = Property | Accessor
	Export             = ExportNamespace | ExportType | ExportValue
	// Classifiable names are recorded per file for the checker.
	Classifiable = Class | Enum | TypeAlias | Interface | TypeParameter | Module

	// Within one module a name is either exported or local. The export
	// marker on a local excludes plain locals of that name and the reverse.
	ExportMarkerExcludes = ModuleMember
	LocalMemberExcludes  = Export
)

var flagNames = []struct {
	flag SymbolFlags
	name string
}{
	{FunctionScopedVariable, "FunctionScopedVariable"},
	{BlockScopedVariable, "BlockScopedVariable"},
	{Property, "Property"},
	{EnumMember, "EnumMember"},
	{Function, "Function"},
	{Class, "Class"},
	{Interface, "Interface"},
	{ConstEnum, "ConstEnum"},
	{RegularEnum, "RegularEnum"},
	{ValueModule, "ValueModule"},
	{NamespaceModule, "NamespaceModule"},
	{TypeLiteral, "TypeLiteral"},
	{ObjectLiteral, "ObjectLiteral"},
	{Method, "Method"},
	{Constructor, "Constructor"},
	{GetAccessor, "GetAccessor"},
	{SetAccessor, "SetAccessor"},
	{Signature, "Signature"},
	{TypeParameter, "TypeParameter"},
	{TypeAlias, "TypeAlias"},
	{ExportValue, "ExportValue"},
	{ExportType, "ExportType"},
	{ExportNamespace, "ExportNamespace"},
	{Alias, "Alias"},
	{Instantiated, "Instantiated"},
	{Merged, "Merged"},
	{Transient, "Transient"},
	{Prototype, "Prototype"},
	{SyntheticProperty, "SyntheticProperty"},
	{Optional, "Optional"},
	{ExportStar, "ExportStar"},
}

func (f SymbolFlags) Has(mask SymbolFlags) bool { return f&mask != 0 }

func (f SymbolFlags) String() string {
	if f == None {
		return "None"
	}
	var parts []string
	for _, entry := range flagNames {
		if f&entry.flag != 0 {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "|")
}

var excludesFor = map[SymbolFlags]SymbolFlags{
	FunctionScopedVariable: FunctionScopedVariableExcludes,
	BlockScopedVariable:    BlockScopedVariableExcludes,
	Property:               PropertyExcludes,
	EnumMember:             EnumMemberExcludes,
	Function:               FunctionExcludes,
	Class:                  ClassExcludes,
	Interface:              InterfaceExcludes,
	RegularEnum:            RegularEnumExcludes,
	ConstEnum:              ConstEnumExcludes,
	ValueModule:            ValueModuleExcludes,
	NamespaceModule:        NamespaceModuleExcludes,
	Method:                 MethodExcludes,
	GetAccessor:            GetAccessorExcludes,
	SetAccessor:            SetAccessorExcludes,
	TypeParameter:          TypeParameterExcludes,
	TypeAlias:              TypeAliasExcludes,
	Alias:                  AliasExcludes,
}

// ExcludesFor returns the exclusion set for a single declaration meaning.
// Meanings that never conflict (signatures, literals, constructors) map to
// None.
func ExcludesFor(meaning SymbolFlags) SymbolFlags {
	return excludesFor[meaning]
}
