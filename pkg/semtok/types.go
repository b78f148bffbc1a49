package semtok

// TokenType is an index into TokenTypes.
type TokenType uint32

const (
	TypeNamespace TokenType = iota
	TypeType
	TypeClass
	TypeEnum
	TypeInterface
	TypeStruct
	TypeTypeParameter
	TypeParameter
	TypeVariable
	TypeProperty
	TypeEnumMember
	TypeEvent
	TypeFunction
	TypeMethod
	TypeMacro
	TypeKeyword
	TypeModifier
	TypeComment
	TypeString
	TypeNumber
	TypeRegexp
	TypeOperator
	TypeDecorator
)

// TokenTypes is the legend advertised to the client, in index order.
var TokenTypes = []string{
	"namespace",
	"type",
	"class",
	"enum",
	"interface",
	"struct",
	"typeParameter",
	"parameter",
	"variable",
	"property",
	"enumMember",
	"event",
	"function",
	"method",
	"macro",
	"keyword",
	"modifier",
	"comment",
	"string",
	"number",
	"regexp",
	"operator",
	"decorator",
}

// TokenModifier is a bit position into TokenModifiers.
type TokenModifier uint32

const (
	ModifierDeclaration TokenModifier = iota
	ModifierDefinition
	ModifierReadonly
	ModifierStatic
	ModifierDeprecated
	ModifierAbstract
	ModifierAsync
	ModifierModification
	ModifierDocumentation
	ModifierDefaultLibrary
)

var TokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"static",
	"deprecated",
	"abstract",
	"async",
	"modification",
	"documentation",
	"defaultLibrary",
}

func (t TokenType) Valid() bool {
	return int(t) < len(TokenTypes)
}

func (t TokenType) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return TokenTypes[t]
}

func (m TokenModifier) Valid() bool {
	return int(m) < len(TokenModifiers)
}

func (m TokenModifier) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return TokenModifiers[m]
}
