package class

import (
	"unicode/utf8"

	"github.com/jvmtools/classread/cferrors"
)

// ClassFile represents a fully decoded class file. Byte-slice fields
// (constant Utf8 values, Code bytes, Unknown attribute payloads) alias the
// buffer passed to ParseClassFile; the result is valid only as long as that
// buffer is.
type ClassFile struct {
	ConstantPool ConstantPool
	Interfaces   []uint16
	Fields       []Field
	Methods      []Method
	Attributes   []Attribute
	Magic        uint32
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  ClassAccessFlags
	ThisClass    uint16
	SuperClass   uint16
}

// Field is a field_info record.
type Field struct {
	Attributes      []Attribute
	AccessFlags     FieldAccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
}

// Method is a method_info record. Structurally a Field with method flags.
type Method struct {
	Attributes      []Attribute
	AccessFlags     MethodAccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
}

// Constant is one constant pool entry: a tag plus the tag's typed info
// value (Utf8, Integer, Class, ...).
type Constant struct {
	Info any
	Tag  ConstantTag
}

// Utf8 holds a CONSTANT_Utf8_info payload. Value aliases the input buffer
// and is not validated; call Text to get a checked Go string.
type Utf8 struct {
	Value []byte
}

// Text decodes the constant's bytes as UTF-8, failing if they are not valid.
func (u Utf8) Text() (string, error) {
	if !utf8.Valid(u.Value) {
		return "", cferrors.InvalidUTF8(cferrors.PhasePool, u.Value)
	}
	return string(u.Value), nil
}

// Integer holds a CONSTANT_Integer_info value.
type Integer struct {
	Value int32
}

// Float holds a CONSTANT_Float_info value.
type Float struct {
	Value float32
}

// Long holds a CONSTANT_Long_info value.
type Long struct {
	Value int64
}

// Double holds a CONSTANT_Double_info value.
type Double struct {
	Value float64
}

// Class holds a CONSTANT_Class_info reference.
type Class struct {
	NameIndex uint16
}

// String holds a CONSTANT_String_info reference.
type String struct {
	StringIndex uint16
}

// Fieldref holds a CONSTANT_Fieldref_info reference.
type Fieldref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

// Methodref holds a CONSTANT_Methodref_info reference.
type Methodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

// InterfaceMethodref holds a CONSTANT_InterfaceMethodref_info reference.
type InterfaceMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

// NameAndType holds a CONSTANT_NameAndType_info reference.
type NameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

// MethodHandle holds a CONSTANT_MethodHandle_info reference.
type MethodHandle struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

// MethodType holds a CONSTANT_MethodType_info reference.
type MethodType struct {
	DescriptorIndex uint16
}

// Dynamic holds a CONSTANT_Dynamic_info reference.
type Dynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

// InvokeDynamic holds a CONSTANT_InvokeDynamic_info reference.
type InvokeDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

// Module holds a CONSTANT_Module_info reference.
type Module struct {
	NameIndex uint16
}

// Package holds a CONSTANT_Package_info reference.
type Package struct {
	NameIndex uint16
}

// ConstantPool is the ordered constant table. The on-disk convention is
// 1-based: entry i lives at slice position i-1, and index 0 never resolves.
//
// Long and Double entries occupy a single slot here, matching decode order;
// files produced by compilers that follow the classic two-slot convention
// will have their later indices shifted relative to javap output.
type ConstantPool []Constant

// At returns the constant at the given 1-based index.
func (p ConstantPool) At(index uint16) (Constant, bool) {
	if index == 0 || int(index) > len(p) {
		return Constant{}, false
	}
	return p[index-1], true
}

// Utf8At resolves a 1-based index that must point at a Utf8 constant.
func (p ConstantPool) Utf8At(index uint16) ([]byte, error) {
	c, ok := p.At(index)
	if !ok {
		return nil, cferrors.InvalidConstantPoolIndex(cferrors.PhasePool, index)
	}
	u, ok := c.Info.(Utf8)
	if !ok {
		return nil, cferrors.InvalidConstantPoolIndex(cferrors.PhasePool, index)
	}
	return u.Value, nil
}

// ClassNameAt resolves a 1-based index that must point at a Class constant
// and returns the referenced class name bytes.
func (p ConstantPool) ClassNameAt(index uint16) ([]byte, error) {
	c, ok := p.At(index)
	if !ok {
		return nil, cferrors.InvalidConstantPoolIndex(cferrors.PhasePool, index)
	}
	cls, ok := c.Info.(Class)
	if !ok {
		return nil, cferrors.InvalidConstantPoolIndex(cferrors.PhasePool, index)
	}
	return p.Utf8At(cls.NameIndex)
}

// Attribute is one decoded attribute. Concrete types are Unknown, Code,
// LineNumberTable and SourceFile; names without a decoder in the dispatch
// table decode as Unknown.
type Attribute interface {
	attributeName() string
}

// Unknown preserves an attribute whose name has no registered decoder.
// Data aliases the input buffer.
type Unknown struct {
	Data      []byte
	NameIndex uint16
}

func (Unknown) attributeName() string { return "" }

// Code is the method body attribute. The Code slice aliases the input
// buffer. MaxStack and MaxLocals are recorded as read, not validated.
type Code struct {
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     []Attribute
	MaxStack       uint16
	MaxLocals      uint16
}

func (Code) attributeName() string { return AttrCode }

// ExceptionTableEntry is one handler range in a Code attribute.
// CatchType 0 means the handler catches everything.
type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

// LineNumberTable maps code offsets to source line numbers.
type LineNumberTable struct {
	Entries []LineNumberEntry
}

func (LineNumberTable) attributeName() string { return AttrLineNumberTable }

// LineNumberEntry is one start_pc to line_number mapping.
type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

// SourceFile names the source file the class was compiled from.
type SourceFile struct {
	SourceFileIndex uint16
}

func (SourceFile) attributeName() string { return AttrSourceFile }
