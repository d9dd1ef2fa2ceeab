package class

// Magic is the class file magic number. ParseClassFile records the value it
// read but does not reject other values.
const Magic uint32 = 0xCAFEBABE

// ConstantTag identifies a constant pool entry variant.
type ConstantTag uint8

// Constant pool tags as defined by the class file format.
const (
	TagUtf8               ConstantTag = 1
	TagInteger            ConstantTag = 3
	TagFloat              ConstantTag = 4
	TagLong               ConstantTag = 5
	TagDouble             ConstantTag = 6
	TagClass              ConstantTag = 7
	TagString             ConstantTag = 8
	TagFieldref           ConstantTag = 9
	TagMethodref          ConstantTag = 10
	TagInterfaceMethodref ConstantTag = 11
	TagNameAndType        ConstantTag = 12
	TagMethodHandle       ConstantTag = 15
	TagMethodType         ConstantTag = 16
	TagDynamic            ConstantTag = 17
	TagInvokeDynamic      ConstantTag = 18
	TagModule             ConstantTag = 19
	TagPackage            ConstantTag = 20
)

func (t ConstantTag) String() string {
	switch t {
	case TagUtf8:
		return "Utf8"
	case TagInteger:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagLong:
		return "Long"
	case TagDouble:
		return "Double"
	case TagClass:
		return "Class"
	case TagString:
		return "String"
	case TagFieldref:
		return "Fieldref"
	case TagMethodref:
		return "Methodref"
	case TagInterfaceMethodref:
		return "InterfaceMethodref"
	case TagNameAndType:
		return "NameAndType"
	case TagMethodHandle:
		return "MethodHandle"
	case TagMethodType:
		return "MethodType"
	case TagDynamic:
		return "Dynamic"
	case TagInvokeDynamic:
		return "InvokeDynamic"
	case TagModule:
		return "Module"
	case TagPackage:
		return "Package"
	default:
		return "unknown"
	}
}

// Class access and property flag bits.
const (
	ClassPublic     ClassAccessFlags = 0x0001
	ClassFinal      ClassAccessFlags = 0x0010
	ClassSuper      ClassAccessFlags = 0x0020
	ClassInterface  ClassAccessFlags = 0x0200
	ClassAbstract   ClassAccessFlags = 0x0400
	ClassSynthetic  ClassAccessFlags = 0x1000
	ClassAnnotation ClassAccessFlags = 0x2000
	ClassEnum       ClassAccessFlags = 0x4000
	ClassModule     ClassAccessFlags = 0x8000
)

// Field access and property flag bits.
const (
	FieldPublic    FieldAccessFlags = 0x0001
	FieldPrivate   FieldAccessFlags = 0x0002
	FieldProtected FieldAccessFlags = 0x0004
	FieldStatic    FieldAccessFlags = 0x0008
	FieldFinal     FieldAccessFlags = 0x0010
	FieldVolatile  FieldAccessFlags = 0x0040
	FieldTransient FieldAccessFlags = 0x0080
	FieldSynthetic FieldAccessFlags = 0x1000
	FieldEnum      FieldAccessFlags = 0x4000
)

// Method access and property flag bits.
const (
	MethodPublic       MethodAccessFlags = 0x0001
	MethodPrivate      MethodAccessFlags = 0x0002
	MethodProtected    MethodAccessFlags = 0x0004
	MethodStatic       MethodAccessFlags = 0x0008
	MethodFinal        MethodAccessFlags = 0x0010
	MethodSynchronized MethodAccessFlags = 0x0020
	MethodBridge       MethodAccessFlags = 0x0040
	MethodVarargs      MethodAccessFlags = 0x0080
	MethodNative       MethodAccessFlags = 0x0100
	MethodAbstract     MethodAccessFlags = 0x0400
	MethodStrict       MethodAccessFlags = 0x0800
	MethodSynthetic    MethodAccessFlags = 0x1000
)

// Attribute names with dedicated decoders. Anything else decodes as Unknown.
const (
	AttrCode            = "Code"
	AttrLineNumberTable = "LineNumberTable"
	AttrSourceFile      = "SourceFile"
)
