package class_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/jvmtools/classread/cferrors"
	"github.com/jvmtools/classread/class"
)

// minimalClass is the smallest useful class file: a two-entry constant pool
// (Class -> Utf8 "A"), public+super flags, and no members.
var minimalClass = []byte{
	0xca, 0xfe, 0xba, 0xbe, // magic
	0x00, 0x00, // minor_version
	0x00, 0x41, // major_version (65)
	0x00, 0x03, // constant_pool_count
	0x07, 0x00, 0x02, // #1 Class{name_index: 2}
	0x01, 0x00, 0x01, 0x41, // #2 Utf8 "A"
	0x00, 0x21, // access_flags
	0x00, 0x01, // this_class
	0x00, 0x00, // super_class
	0x00, 0x00, // interfaces_count
	0x00, 0x00, // fields_count
	0x00, 0x00, // methods_count
	0x00, 0x00, // attributes_count
}

func TestParseClassFileMinimal(t *testing.T) {
	cf, rest, err := class.ParseClassFile(minimalClass)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 0 {
		t.Errorf("trailing bytes: %v", rest)
	}
	if cf.Magic != class.Magic {
		t.Errorf("magic = 0x%08x", cf.Magic)
	}
	if cf.MajorVersion != 65 || cf.MinorVersion != 0 {
		t.Errorf("version = %d.%d", cf.MajorVersion, cf.MinorVersion)
	}
	if len(cf.ConstantPool) != 2 {
		t.Fatalf("pool size = %d", len(cf.ConstantPool))
	}
	if !cf.AccessFlags.Contains(class.ClassPublic.Union(class.ClassSuper)) {
		t.Errorf("flags = 0x%04x", uint16(cf.AccessFlags))
	}
	name, err := cf.ConstantPool.ClassNameAt(cf.ThisClass)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(name, []byte("A")) {
		t.Errorf("class name = %q", name)
	}
}

func TestParseClassFileTrailingBytes(t *testing.T) {
	input := append(append([]byte{}, minimalClass...), 0x12, 0x34)
	_, rest, err := class.ParseClassFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rest, []byte{0x12, 0x34}) {
		t.Errorf("rest = %v", rest)
	}
}

func TestParseClassFileIdempotent(t *testing.T) {
	a, _, err := class.ParseClassFile(minimalClass)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := class.ParseClassFile(minimalClass)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same input decoded to different structures")
	}
}

func TestParseClassFileTruncated(t *testing.T) {
	for n := 0; n < len(minimalClass); n++ {
		if _, _, err := class.ParseClassFile(minimalClass[:n]); !errors.Is(err, cferrors.ErrEndOfInput) {
			t.Errorf("prefix of %d bytes: got %v, want end of input", n, err)
		}
	}
}

func TestParseClassFileInvalidConstantTag(t *testing.T) {
	input := []byte{
		0xca, 0xfe, 0xba, 0xbe,
		0x00, 0x00,
		0x00, 0x41,
		0x00, 0x02, // one pool entry
		0x02, // tag 2 is unassigned
	}
	_, _, err := class.ParseClassFile(input)
	if !errors.Is(err, cferrors.ErrInvalidConstantTag) {
		t.Errorf("got %v, want invalid constant tag", err)
	}
}

func TestConstantPoolAt(t *testing.T) {
	pool := class.ConstantPool{
		{Tag: class.TagUtf8, Info: class.Utf8{Value: []byte("hello")}},
	}
	if _, ok := pool.At(0); ok {
		t.Error("index 0 must never resolve")
	}
	c, ok := pool.At(1)
	if !ok || c.Tag != class.TagUtf8 {
		t.Errorf("At(1) = %+v, %v", c, ok)
	}
	if _, ok := pool.At(2); ok {
		t.Error("index past the end must not resolve")
	}
}

func TestConstantPoolUtf8At(t *testing.T) {
	pool := class.ConstantPool{
		{Tag: class.TagUtf8, Info: class.Utf8{Value: []byte("hello")}},
		{Tag: class.TagInteger, Info: class.Integer{Value: 7}},
	}
	v, err := pool.Utf8At(1)
	if err != nil || !bytes.Equal(v, []byte("hello")) {
		t.Errorf("Utf8At(1) = %q, %v", v, err)
	}
	if _, err := pool.Utf8At(2); !errors.Is(err, cferrors.ErrInvalidPoolIndex) {
		t.Errorf("wrong variant: got %v", err)
	}
	if _, err := pool.Utf8At(0); !errors.Is(err, cferrors.ErrInvalidPoolIndex) {
		t.Errorf("index 0: got %v", err)
	}
}

func TestUtf8Text(t *testing.T) {
	s, err := (class.Utf8{Value: []byte("hello")}).Text()
	if err != nil || s != "hello" {
		t.Errorf("got %q, %v", s, err)
	}
	_, err = (class.Utf8{Value: []byte{0x41, 0x42, 0x80}}).Text()
	if !errors.Is(err, cferrors.ErrInvalidUTF8) {
		t.Errorf("invalid bytes: got %v", err)
	}
}

func TestParseAttributeUnknown(t *testing.T) {
	pool := class.ConstantPool{
		{Tag: class.TagUtf8, Info: class.Utf8{Value: []byte("Unknown_Attribute_Name")}},
	}
	input := []byte{
		0x00, 0x01, // attribute_name_index
		0x00, 0x00, 0x00, 0x04, // attribute_length
		0x00, 0x01, 0x02, 0x03, // data
		0x12, 0x34, // rest
	}
	attr, rest, err := class.ParseAttribute(input, pool)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rest, []byte{0x12, 0x34}) {
		t.Errorf("rest = %v", rest)
	}
	u, ok := attr.(class.Unknown)
	if !ok {
		t.Fatalf("got %T", attr)
	}
	if u.NameIndex != 1 || !bytes.Equal(u.Data, []byte{0x00, 0x01, 0x02, 0x03}) {
		t.Errorf("got %+v", u)
	}
}

func TestParseAttributeBadNameIndex(t *testing.T) {
	pool := class.ConstantPool{
		{Tag: class.TagInteger, Info: class.Integer{Value: 1}},
	}
	input := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x00}
	if _, _, err := class.ParseAttribute(input, pool); !errors.Is(err, cferrors.ErrInvalidPoolIndex) {
		t.Errorf("got %v, want invalid pool index", err)
	}
	input = []byte{0x00, 0x09, 0x00, 0x00, 0x00, 0x00}
	if _, _, err := class.ParseAttribute(input, pool); !errors.Is(err, cferrors.ErrInvalidPoolIndex) {
		t.Errorf("out of range index: got %v", err)
	}
}

func TestParseAttributeCode(t *testing.T) {
	pool := class.ConstantPool{
		{Tag: class.TagUtf8, Info: class.Utf8{Value: []byte("Code")}},
	}
	input := []byte{
		0x00, 0x01, // attribute_name_index
		0x00, 0x00, 0x00, 0x18, // attribute_length
		0x00, 0x01, // max_stack
		0x00, 0x02, // max_locals
		0x00, 0x00, 0x00, 0x04, // code_length
		0x40, 0x41, 0x42, 0x43, // code
		0x00, 0x01, // exception_table_length
		0x10, 0x11, // start_pc
		0x12, 0x13, // end_pc
		0x14, 0x15, // handler_pc
		0x16, 0x17, // catch_type
		0x00, 0x00, // attributes_count
		0x12, 0x34, // rest
	}
	attr, rest, err := class.ParseAttribute(input, pool)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rest, []byte{0x12, 0x34}) {
		t.Errorf("rest = %v", rest)
	}
	code, ok := attr.(class.Code)
	if !ok {
		t.Fatalf("got %T", attr)
	}
	if code.MaxStack != 1 || code.MaxLocals != 2 {
		t.Errorf("max_stack %d max_locals %d", code.MaxStack, code.MaxLocals)
	}
	if !bytes.Equal(code.Code, []byte{0x40, 0x41, 0x42, 0x43}) {
		t.Errorf("code = %v", code.Code)
	}
	want := class.ExceptionTableEntry{StartPC: 0x1011, EndPC: 0x1213, HandlerPC: 0x1415, CatchType: 0x1617}
	if len(code.ExceptionTable) != 1 || code.ExceptionTable[0] != want {
		t.Errorf("exception table = %+v", code.ExceptionTable)
	}
	if len(code.Attributes) != 0 {
		t.Errorf("attributes = %+v", code.Attributes)
	}
}

func TestParseAttributeCodeNested(t *testing.T) {
	pool := class.ConstantPool{
		{Tag: class.TagUtf8, Info: class.Utf8{Value: []byte("Code")}},
		{Tag: class.TagUtf8, Info: class.Utf8{Value: []byte("LineNumberTable")}},
	}
	input := []byte{
		0x00, 0x01, // attribute_name_index "Code"
		0x00, 0x00, 0x00, 0x19, // attribute_length
		0x00, 0x02, // max_stack
		0x00, 0x01, // max_locals
		0x00, 0x00, 0x00, 0x01, // code_length
		0xb1, // return
		0x00, 0x00, // exception_table_length
		0x00, 0x01, // attributes_count
		0x00, 0x02, // nested attribute_name_index "LineNumberTable"
		0x00, 0x00, 0x00, 0x06, // nested attribute_length
		0x00, 0x01, // line_number_table_length
		0x00, 0x00, // start_pc
		0x00, 0x07, // line_number
	}
	attr, rest, err := class.ParseAttribute(input, pool)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 0 {
		t.Errorf("rest = %v", rest)
	}
	code := attr.(class.Code)
	if len(code.Attributes) != 1 {
		t.Fatalf("nested attributes = %+v", code.Attributes)
	}
	lnt, ok := code.Attributes[0].(class.LineNumberTable)
	if !ok {
		t.Fatalf("nested attribute is %T", code.Attributes[0])
	}
	if len(lnt.Entries) != 1 || lnt.Entries[0] != (class.LineNumberEntry{StartPC: 0, LineNumber: 7}) {
		t.Errorf("entries = %+v", lnt.Entries)
	}
}

func TestParseAttributeSourceFile(t *testing.T) {
	pool := class.ConstantPool{
		{Tag: class.TagUtf8, Info: class.Utf8{Value: []byte("SourceFile")}},
		{Tag: class.TagUtf8, Info: class.Utf8{Value: []byte("A.java")}},
	}
	input := []byte{
		0x00, 0x01, // attribute_name_index
		0x00, 0x00, 0x00, 0x02, // attribute_length
		0x00, 0x02, // sourcefile_index
	}
	attr, _, err := class.ParseAttribute(input, pool)
	if err != nil {
		t.Fatal(err)
	}
	sf, ok := attr.(class.SourceFile)
	if !ok || sf.SourceFileIndex != 2 {
		t.Errorf("got %T %+v", attr, attr)
	}
}

func TestFieldAndMethodDecoding(t *testing.T) {
	// Class with one field "message" of type Ljava/lang/String; and one
	// method "run" of type ()V, no attributes anywhere.
	input := []byte{
		0xca, 0xfe, 0xba, 0xbe,
		0x00, 0x00,
		0x00, 0x41,
		0x00, 0x07, // constant_pool_count (6 entries)
		0x07, 0x00, 0x02, // #1 Class{2}
		0x01, 0x00, 0x01, 0x41, // #2 Utf8 "A"
		0x01, 0x00, 0x07, 'm', 'e', 's', 's', 'a', 'g', 'e', // #3
		0x01, 0x00, 0x12, 'L', 'j', 'a', 'v', 'a', '/', 'l', 'a', 'n', 'g', '/', 'S', 't', 'r', 'i', 'n', 'g', ';', // #4
		0x01, 0x00, 0x03, 'r', 'u', 'n', // #5
		0x01, 0x00, 0x03, '(', ')', 'V', // #6
		0x00, 0x21, // access_flags
		0x00, 0x01, // this_class
		0x00, 0x00, // super_class
		0x00, 0x00, // interfaces_count
		0x00, 0x01, // fields_count
		0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0x00, 0x00, // private message Ljava/lang/String;
		0x00, 0x01, // methods_count
		0x00, 0x01, 0x00, 0x05, 0x00, 0x06, 0x00, 0x00, // public run ()V
		0x00, 0x00, // attributes_count
	}
	cf, rest, err := class.ParseClassFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 0 {
		t.Errorf("rest = %v", rest)
	}
	if len(cf.Fields) != 1 || len(cf.Methods) != 1 {
		t.Fatalf("%d fields, %d methods", len(cf.Fields), len(cf.Methods))
	}
	f := cf.Fields[0]
	if !f.AccessFlags.Contains(class.FieldPrivate) || f.NameIndex != 3 || f.DescriptorIndex != 4 {
		t.Errorf("field = %+v", f)
	}
	m := cf.Methods[0]
	if !m.AccessFlags.Contains(class.MethodPublic) || m.NameIndex != 5 || m.DescriptorIndex != 6 {
		t.Errorf("method = %+v", m)
	}
	desc, err := cf.ConstantPool.Utf8At(m.DescriptorIndex)
	if err != nil {
		t.Fatal(err)
	}
	md, _, err := class.ParseMethodDescriptor(desc)
	if err != nil {
		t.Fatal(err)
	}
	if len(md.Parameters) != 0 || md.ReturnType.Kind != class.KindVoid {
		t.Errorf("descriptor = %+v", md)
	}
}

func TestParseConstantVariants(t *testing.T) {
	cases := []struct {
		name  string
		entry []byte
		want  class.Constant
	}{
		{"Utf8", []byte{0x01, 0x00, 0x02, 'h', 'i'},
			class.Constant{Tag: class.TagUtf8, Info: class.Utf8{Value: []byte("hi")}}},
		{"Integer", []byte{0x03, 0xff, 0xff, 0xff, 0xf9},
			class.Constant{Tag: class.TagInteger, Info: class.Integer{Value: -7}}},
		{"Float", []byte{0x04, 0x3f, 0xc0, 0x00, 0x00},
			class.Constant{Tag: class.TagFloat, Info: class.Float{Value: 1.5}}},
		{"Long", []byte{0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x64},
			class.Constant{Tag: class.TagLong, Info: class.Long{Value: 100}}},
		{"Double", []byte{0x06, 0x40, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			class.Constant{Tag: class.TagDouble, Info: class.Double{Value: 2.5}}},
		{"Class", []byte{0x07, 0x00, 0x05},
			class.Constant{Tag: class.TagClass, Info: class.Class{NameIndex: 5}}},
		{"String", []byte{0x08, 0x00, 0x06},
			class.Constant{Tag: class.TagString, Info: class.String{StringIndex: 6}}},
		{"Fieldref", []byte{0x09, 0x00, 0x02, 0x00, 0x03},
			class.Constant{Tag: class.TagFieldref, Info: class.Fieldref{ClassIndex: 2, NameAndTypeIndex: 3}}},
		{"Methodref", []byte{0x0a, 0x00, 0x02, 0x00, 0x03},
			class.Constant{Tag: class.TagMethodref, Info: class.Methodref{ClassIndex: 2, NameAndTypeIndex: 3}}},
		{"InterfaceMethodref", []byte{0x0b, 0x00, 0x02, 0x00, 0x03},
			class.Constant{Tag: class.TagInterfaceMethodref, Info: class.InterfaceMethodref{ClassIndex: 2, NameAndTypeIndex: 3}}},
		{"NameAndType", []byte{0x0c, 0x00, 0x04, 0x00, 0x05},
			class.Constant{Tag: class.TagNameAndType, Info: class.NameAndType{NameIndex: 4, DescriptorIndex: 5}}},
		{"MethodHandle", []byte{0x0f, 0x05, 0x00, 0x09},
			class.Constant{Tag: class.TagMethodHandle, Info: class.MethodHandle{ReferenceKind: 5, ReferenceIndex: 9}}},
		{"MethodType", []byte{0x10, 0x00, 0x07},
			class.Constant{Tag: class.TagMethodType, Info: class.MethodType{DescriptorIndex: 7}}},
		{"Dynamic", []byte{0x11, 0x00, 0x01, 0x00, 0x08},
			class.Constant{Tag: class.TagDynamic, Info: class.Dynamic{BootstrapMethodAttrIndex: 1, NameAndTypeIndex: 8}}},
		{"InvokeDynamic", []byte{0x12, 0x00, 0x02, 0x00, 0x09},
			class.Constant{Tag: class.TagInvokeDynamic, Info: class.InvokeDynamic{BootstrapMethodAttrIndex: 2, NameAndTypeIndex: 9}}},
		{"Module", []byte{0x13, 0x00, 0x03},
			class.Constant{Tag: class.TagModule, Info: class.Module{NameIndex: 3}}},
		{"Package", []byte{0x14, 0x00, 0x04},
			class.Constant{Tag: class.TagPackage, Info: class.Package{NameIndex: 4}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			input := []byte{
				0xca, 0xfe, 0xba, 0xbe,
				0x00, 0x00,
				0x00, 0x41,
				0x00, 0x02, // one pool entry
			}
			input = append(input, c.entry...)
			input = append(input,
				0x00, 0x21, // access_flags
				0x00, 0x00, // this_class
				0x00, 0x00, // super_class
				0x00, 0x00, // interfaces_count
				0x00, 0x00, // fields_count
				0x00, 0x00, // methods_count
				0x00, 0x00, // attributes_count
				0xee, // trailing byte
			)
			cf, rest, err := class.ParseClassFile(input)
			if err != nil {
				t.Fatal(err)
			}
			if len(cf.ConstantPool) != 1 {
				t.Fatalf("pool size = %d", len(cf.ConstantPool))
			}
			if !reflect.DeepEqual(cf.ConstantPool[0], c.want) {
				t.Errorf("constant = %+v, want %+v", cf.ConstantPool[0], c.want)
			}
			if !bytes.Equal(rest, []byte{0xee}) {
				t.Errorf("rest = %v", rest)
			}
		})
	}
}
