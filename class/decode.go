package class

import (
	"go.uber.org/zap"

	"github.com/jvmtools/classread/cferrors"
	"github.com/jvmtools/classread/internal/bin"
)

// ParseClassFile decodes a class file from the front of input and returns
// the unconsumed remainder. The decoded structure borrows from input; see
// ClassFile. The magic value is recorded as read, not checked.
func ParseClassFile(input []byte) (*ClassFile, []byte, error) {
	var cf ClassFile
	var err error

	rest := input
	if cf.Magic, rest, err = bin.U32(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "magic")
	}
	if cf.MinorVersion, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "minor_version")
	}
	if cf.MajorVersion, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "major_version")
	}

	var poolCount uint16
	if poolCount, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhasePool, err, "constant_pool_count")
	}
	// The count field is one larger than the number of entries.
	for i := uint16(1); i < poolCount; i++ {
		var c Constant
		if c, rest, err = parseConstant(rest); err != nil {
			return nil, nil, err
		}
		cf.ConstantPool = append(cf.ConstantPool, c)
	}

	var flags uint16
	if flags, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "access_flags")
	}
	cf.AccessFlags = ClassAccessFlags(flags)
	if cf.ThisClass, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "this_class")
	}
	if cf.SuperClass, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "super_class")
	}

	var ifaceCount uint16
	if ifaceCount, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "interfaces_count")
	}
	for i := uint16(0); i < ifaceCount; i++ {
		var iface uint16
		if iface, rest, err = bin.U16(rest); err != nil {
			return nil, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "interface index")
		}
		cf.Interfaces = append(cf.Interfaces, iface)
	}

	var fieldCount uint16
	if fieldCount, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "fields_count")
	}
	for i := uint16(0); i < fieldCount; i++ {
		var f Field
		if f, rest, err = parseField(rest, cf.ConstantPool); err != nil {
			return nil, nil, err
		}
		cf.Fields = append(cf.Fields, f)
	}

	var methodCount uint16
	if methodCount, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "methods_count")
	}
	for i := uint16(0); i < methodCount; i++ {
		var m Method
		if m, rest, err = parseMethod(rest, cf.ConstantPool); err != nil {
			return nil, nil, err
		}
		cf.Methods = append(cf.Methods, m)
	}

	if cf.Attributes, rest, err = parseAttributes(rest, cf.ConstantPool); err != nil {
		return nil, nil, err
	}

	Logger().Debug("decoded class file",
		zap.Uint16("major_version", cf.MajorVersion),
		zap.Int("constants", len(cf.ConstantPool)),
		zap.Int("fields", len(cf.Fields)),
		zap.Int("methods", len(cf.Methods)),
		zap.Int("trailing_bytes", len(rest)))
	return &cf, rest, nil
}

func parseConstant(input []byte) (Constant, []byte, error) {
	tag, rest, err := bin.U8(input)
	if err != nil {
		return Constant{}, nil, cferrors.Wrap(cferrors.PhasePool, err, "constant tag")
	}

	fail := func(err error, detail string) (Constant, []byte, error) {
		return Constant{}, nil, cferrors.Wrap(cferrors.PhasePool, err, detail)
	}

	switch ConstantTag(tag) {
	case TagUtf8:
		length, rest, err := bin.U16(rest)
		if err != nil {
			return fail(err, "Utf8 length")
		}
		value, rest, err := bin.Bytes(rest, int(length))
		if err != nil {
			return fail(err, "Utf8 bytes")
		}
		return Constant{Tag: TagUtf8, Info: Utf8{Value: value}}, rest, nil
	case TagInteger:
		v, rest, err := bin.I32(rest)
		if err != nil {
			return fail(err, "Integer value")
		}
		return Constant{Tag: TagInteger, Info: Integer{Value: v}}, rest, nil
	case TagFloat:
		v, rest, err := bin.F32(rest)
		if err != nil {
			return fail(err, "Float value")
		}
		return Constant{Tag: TagFloat, Info: Float{Value: v}}, rest, nil
	case TagLong:
		v, rest, err := bin.I64(rest)
		if err != nil {
			return fail(err, "Long value")
		}
		return Constant{Tag: TagLong, Info: Long{Value: v}}, rest, nil
	case TagDouble:
		v, rest, err := bin.F64(rest)
		if err != nil {
			return fail(err, "Double value")
		}
		return Constant{Tag: TagDouble, Info: Double{Value: v}}, rest, nil
	case TagClass:
		idx, rest, err := bin.U16(rest)
		if err != nil {
			return fail(err, "Class name_index")
		}
		return Constant{Tag: TagClass, Info: Class{NameIndex: idx}}, rest, nil
	case TagString:
		idx, rest, err := bin.U16(rest)
		if err != nil {
			return fail(err, "String string_index")
		}
		return Constant{Tag: TagString, Info: String{StringIndex: idx}}, rest, nil
	case TagFieldref:
		ci, nti, rest, err := parseRefPair(rest)
		if err != nil {
			return fail(err, "Fieldref")
		}
		return Constant{Tag: TagFieldref, Info: Fieldref{ClassIndex: ci, NameAndTypeIndex: nti}}, rest, nil
	case TagMethodref:
		ci, nti, rest, err := parseRefPair(rest)
		if err != nil {
			return fail(err, "Methodref")
		}
		return Constant{Tag: TagMethodref, Info: Methodref{ClassIndex: ci, NameAndTypeIndex: nti}}, rest, nil
	case TagInterfaceMethodref:
		ci, nti, rest, err := parseRefPair(rest)
		if err != nil {
			return fail(err, "InterfaceMethodref")
		}
		return Constant{Tag: TagInterfaceMethodref, Info: InterfaceMethodref{ClassIndex: ci, NameAndTypeIndex: nti}}, rest, nil
	case TagNameAndType:
		ni, di, rest, err := parseRefPair(rest)
		if err != nil {
			return fail(err, "NameAndType")
		}
		return Constant{Tag: TagNameAndType, Info: NameAndType{NameIndex: ni, DescriptorIndex: di}}, rest, nil
	case TagMethodHandle:
		kind, rest, err := bin.U8(rest)
		if err != nil {
			return fail(err, "MethodHandle reference_kind")
		}
		idx, rest, err := bin.U16(rest)
		if err != nil {
			return fail(err, "MethodHandle reference_index")
		}
		return Constant{Tag: TagMethodHandle, Info: MethodHandle{ReferenceKind: kind, ReferenceIndex: idx}}, rest, nil
	case TagMethodType:
		idx, rest, err := bin.U16(rest)
		if err != nil {
			return fail(err, "MethodType descriptor_index")
		}
		return Constant{Tag: TagMethodType, Info: MethodType{DescriptorIndex: idx}}, rest, nil
	case TagDynamic:
		bi, nti, rest, err := parseRefPair(rest)
		if err != nil {
			return fail(err, "Dynamic")
		}
		return Constant{Tag: TagDynamic, Info: Dynamic{BootstrapMethodAttrIndex: bi, NameAndTypeIndex: nti}}, rest, nil
	case TagInvokeDynamic:
		bi, nti, rest, err := parseRefPair(rest)
		if err != nil {
			return fail(err, "InvokeDynamic")
		}
		return Constant{Tag: TagInvokeDynamic, Info: InvokeDynamic{BootstrapMethodAttrIndex: bi, NameAndTypeIndex: nti}}, rest, nil
	case TagModule:
		idx, rest, err := bin.U16(rest)
		if err != nil {
			return fail(err, "Module name_index")
		}
		return Constant{Tag: TagModule, Info: Module{NameIndex: idx}}, rest, nil
	case TagPackage:
		idx, rest, err := bin.U16(rest)
		if err != nil {
			return fail(err, "Package name_index")
		}
		return Constant{Tag: TagPackage, Info: Package{NameIndex: idx}}, rest, nil
	}
	return Constant{}, nil, cferrors.InvalidConstantTag(tag)
}

func parseRefPair(input []byte) (uint16, uint16, []byte, error) {
	a, rest, err := bin.U16(input)
	if err != nil {
		return 0, 0, nil, err
	}
	b, rest, err := bin.U16(rest)
	if err != nil {
		return 0, 0, nil, err
	}
	return a, b, rest, nil
}

func parseField(input []byte, pool ConstantPool) (Field, []byte, error) {
	var f Field
	flags, rest, err := bin.U16(input)
	if err != nil {
		return Field{}, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "field access_flags")
	}
	f.AccessFlags = FieldAccessFlags(flags)
	if f.NameIndex, rest, err = bin.U16(rest); err != nil {
		return Field{}, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "field name_index")
	}
	if f.DescriptorIndex, rest, err = bin.U16(rest); err != nil {
		return Field{}, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "field descriptor_index")
	}
	if f.Attributes, rest, err = parseAttributes(rest, pool); err != nil {
		return Field{}, nil, err
	}
	return f, rest, nil
}

func parseMethod(input []byte, pool ConstantPool) (Method, []byte, error) {
	var m Method
	flags, rest, err := bin.U16(input)
	if err != nil {
		return Method{}, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "method access_flags")
	}
	m.AccessFlags = MethodAccessFlags(flags)
	if m.NameIndex, rest, err = bin.U16(rest); err != nil {
		return Method{}, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "method name_index")
	}
	if m.DescriptorIndex, rest, err = bin.U16(rest); err != nil {
		return Method{}, nil, cferrors.Wrap(cferrors.PhaseClassFile, err, "method descriptor_index")
	}
	if m.Attributes, rest, err = parseAttributes(rest, pool); err != nil {
		return Method{}, nil, err
	}
	return m, rest, nil
}

// attributeDecoders maps attribute names to payload decoders. Populated in
// init to break the initialization cycle through parseAttribute.
var attributeDecoders map[string]func([]byte, ConstantPool) (Attribute, []byte, error)

func init() {
	attributeDecoders = map[string]func([]byte, ConstantPool) (Attribute, []byte, error){
		AttrCode:            parseCode,
		AttrLineNumberTable: parseLineNumberTable,
		AttrSourceFile:      parseSourceFile,
	}
}

func parseAttributes(input []byte, pool ConstantPool) ([]Attribute, []byte, error) {
	count, rest, err := bin.U16(input)
	if err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "attributes_count")
	}
	var attrs []Attribute
	for i := uint16(0); i < count; i++ {
		var a Attribute
		if a, rest, err = ParseAttribute(rest, pool); err != nil {
			return nil, nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, rest, nil
}

// ParseAttribute decodes one attribute. The name index must resolve to a
// Utf8 constant in pool; names without a dedicated decoder yield Unknown
// with the payload sliced off verbatim.
func ParseAttribute(input []byte, pool ConstantPool) (Attribute, []byte, error) {
	nameIndex, rest, err := bin.U16(input)
	if err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "attribute_name_index")
	}
	name, err := pool.Utf8At(nameIndex)
	if err != nil {
		return nil, nil, cferrors.InvalidConstantPoolIndex(cferrors.PhaseAttribute, nameIndex)
	}
	length, rest, err := bin.U32(rest)
	if err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "attribute_length")
	}

	if decode, ok := attributeDecoders[string(name)]; ok {
		return decode(rest, pool)
	}
	data, rest, err := bin.Bytes(rest, int(length))
	if err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "attribute payload")
	}
	return Unknown{NameIndex: nameIndex, Data: data}, rest, nil
}

func parseCode(input []byte, pool ConstantPool) (Attribute, []byte, error) {
	var c Code
	var err error

	rest := input
	if c.MaxStack, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "max_stack")
	}
	if c.MaxLocals, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "max_locals")
	}
	var codeLength uint32
	if codeLength, rest, err = bin.U32(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "code_length")
	}
	if c.Code, rest, err = bin.Bytes(rest, int(codeLength)); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "code bytes")
	}

	var tableLength uint16
	if tableLength, rest, err = bin.U16(rest); err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "exception_table_length")
	}
	for i := uint16(0); i < tableLength; i++ {
		var e ExceptionTableEntry
		if e.StartPC, rest, err = bin.U16(rest); err != nil {
			return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "exception start_pc")
		}
		if e.EndPC, rest, err = bin.U16(rest); err != nil {
			return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "exception end_pc")
		}
		if e.HandlerPC, rest, err = bin.U16(rest); err != nil {
			return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "exception handler_pc")
		}
		if e.CatchType, rest, err = bin.U16(rest); err != nil {
			return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "exception catch_type")
		}
		c.ExceptionTable = append(c.ExceptionTable, e)
	}

	if c.Attributes, rest, err = parseAttributes(rest, pool); err != nil {
		return nil, nil, err
	}
	return c, rest, nil
}

func parseLineNumberTable(input []byte, _ ConstantPool) (Attribute, []byte, error) {
	count, rest, err := bin.U16(input)
	if err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "line_number_table_length")
	}
	var t LineNumberTable
	for i := uint16(0); i < count; i++ {
		var e LineNumberEntry
		if e.StartPC, rest, err = bin.U16(rest); err != nil {
			return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "line number start_pc")
		}
		if e.LineNumber, rest, err = bin.U16(rest); err != nil {
			return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "line_number")
		}
		t.Entries = append(t.Entries, e)
	}
	return t, rest, nil
}

func parseSourceFile(input []byte, _ ConstantPool) (Attribute, []byte, error) {
	idx, rest, err := bin.U16(input)
	if err != nil {
		return nil, nil, cferrors.Wrap(cferrors.PhaseAttribute, err, "sourcefile_index")
	}
	return SourceFile{SourceFileIndex: idx}, rest, nil
}
