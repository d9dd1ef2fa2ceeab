package class

import (
	"strings"

	"github.com/jvmtools/classread/cferrors"
	"github.com/jvmtools/classread/internal/bin"
)

// FieldTypeKind discriminates the FieldType variants.
type FieldTypeKind uint8

const (
	KindByte FieldTypeKind = iota
	KindChar
	KindDouble
	KindFloat
	KindInt
	KindLong
	KindShort
	KindBoolean
	KindObject
	KindArray
	KindVoid
)

// FieldType is a parsed field descriptor. ClassName is set for KindObject
// and aliases the descriptor bytes; Elem is set for KindArray.
type FieldType struct {
	Elem      *FieldType
	ClassName []byte
	Kind      FieldTypeKind
}

// Java renders the type as Java source text: slashes become dots and each
// array dimension appends "[]".
func (t FieldType) Java() string {
	switch t.Kind {
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindDouble:
		return "double"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindShort:
		return "short"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return strings.ReplaceAll(string(t.ClassName), "/", ".")
	case KindArray:
		return t.Elem.Java() + "[]"
	case KindVoid:
		return "void"
	default:
		return ""
	}
}

var baseTypes = map[byte]FieldTypeKind{
	'B': KindByte,
	'C': KindChar,
	'D': KindDouble,
	'F': KindFloat,
	'I': KindInt,
	'J': KindLong,
	'S': KindShort,
	'Z': KindBoolean,
}

// ParseFieldType parses one field descriptor from the front of input and
// returns the unconsumed remainder. Trailing bytes are not an error; callers
// that require full consumption check the remainder themselves.
func ParseFieldType(input []byte) (FieldType, []byte, error) {
	tag, rest, err := bin.U8(input)
	if err != nil {
		return FieldType{}, nil, cferrors.Wrap(cferrors.PhaseDescriptor, err, "field type tag")
	}
	if kind, ok := baseTypes[tag]; ok {
		return FieldType{Kind: kind}, rest, nil
	}
	switch tag {
	case 'L':
		name, rest, err := bin.TakeUntil(rest, []byte{';'})
		if err != nil {
			return FieldType{}, nil, cferrors.InvalidFieldDescriptor("object type missing ';'")
		}
		return FieldType{Kind: KindObject, ClassName: name}, rest, nil
	case '[':
		elem, rest, err := ParseFieldType(rest)
		if err != nil {
			return FieldType{}, nil, err
		}
		return FieldType{Kind: KindArray, Elem: &elem}, rest, nil
	}
	return FieldType{}, nil, cferrors.InvalidFieldDescriptor("unknown type tag " + string(tag))
}

// MethodDescriptor is a parsed method descriptor: the parameter types in
// order and the return type, which may be KindVoid.
type MethodDescriptor struct {
	Parameters []FieldType
	ReturnType FieldType
}

// JavaParameters renders the parameter list as Java source text.
func (d MethodDescriptor) JavaParameters() string {
	parts := make([]string, len(d.Parameters))
	for i, p := range d.Parameters {
		parts[i] = p.Java()
	}
	return strings.Join(parts, ", ")
}

// JavaReturn renders the return type as Java source text.
func (d MethodDescriptor) JavaReturn() string {
	return d.ReturnType.Java()
}

// ParseMethodDescriptor parses "(" params ")" return from the front of
// input. An empty parameter list is valid: "()V" parses to no parameters
// and a void return.
func ParseMethodDescriptor(input []byte) (MethodDescriptor, []byte, error) {
	tag, rest, err := bin.U8(input)
	if err != nil {
		return MethodDescriptor{}, nil, cferrors.Wrap(cferrors.PhaseDescriptor, err, "method descriptor")
	}
	if tag != '(' {
		return MethodDescriptor{}, nil, cferrors.InvalidFieldDescriptor("method descriptor missing '('")
	}
	var params []FieldType
	for len(rest) > 0 && rest[0] != ')' {
		var p FieldType
		p, rest, err = ParseFieldType(rest)
		if err != nil {
			return MethodDescriptor{}, nil, err
		}
		params = append(params, p)
	}
	if len(rest) == 0 {
		return MethodDescriptor{}, nil, cferrors.InvalidFieldDescriptor("method descriptor missing ')'")
	}
	rest = rest[1:]

	var ret FieldType
	if len(rest) > 0 && rest[0] == 'V' {
		ret, rest = FieldType{Kind: KindVoid}, rest[1:]
	} else {
		ret, rest, err = ParseFieldType(rest)
		if err != nil {
			return MethodDescriptor{}, nil, err
		}
	}
	return MethodDescriptor{Parameters: params, ReturnType: ret}, rest, nil
}
