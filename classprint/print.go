// Package classprint renders decoded class files as javap-style text.
//
// The layout follows javap -v loosely: a header with the class modifiers
// and name, version and count lines, the numbered constant pool with
// resolved comments, then the field and method declarations in Java
// source form.
package classprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jvmtools/classread/bytecode"
	"github.com/jvmtools/classread/cferrors"
	"github.com/jvmtools/classread/class"
)

// Render produces the full text rendering of a decoded class file.
func Render(cf *class.ClassFile) (string, error) {
	var b strings.Builder

	className, err := utf8String(cf.ConstantPool, classNameIndex(cf))
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "%s %s\n", cf.AccessFlags.Modifiers(), className)
	fmt.Fprintf(&b, "  minor version: %d\n", cf.MinorVersion)
	fmt.Fprintf(&b, "  major version: %d\n", cf.MajorVersion)
	fmt.Fprintf(&b, "  interfaces: %d, fields: %d, methods: %d, attributes: %d\n",
		len(cf.Interfaces), len(cf.Fields), len(cf.Methods), len(cf.Attributes))

	b.WriteString("Constant pool:\n")
	for i, c := range cf.ConstantPool {
		line, err := FormatConstant(c, cf.ConstantPool)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  #%d = %s\n", i+1, line)
	}

	b.WriteString("{\n")
	for _, f := range cf.Fields {
		name, err := utf8String(cf.ConstantPool, f.NameIndex)
		if err != nil {
			return "", err
		}
		desc, err := fieldType(cf.ConstantPool, f.DescriptorIndex)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  %s %s %s;\n", f.AccessFlags.Modifiers(), desc.Java(), name)
	}
	b.WriteByte('\n')
	for _, m := range cf.Methods {
		name, err := utf8String(cf.ConstantPool, m.NameIndex)
		if err != nil {
			return "", err
		}
		desc, err := methodDescriptor(cf.ConstantPool, m.DescriptorIndex)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  %s %s %s(%s);\n",
			m.AccessFlags.Modifiers(), desc.JavaReturn(), name, desc.JavaParameters())
	}
	b.WriteString("}\n")

	return b.String(), nil
}

// FormatConstant renders one constant pool line: the tag name, the raw
// value, and a resolved comment where the entry references other entries.
// Trailing padding is trimmed.
func FormatConstant(c class.Constant, pool class.ConstantPool) (string, error) {
	value, err := constantValue(c, pool)
	if err != nil {
		return "", err
	}
	comment, err := constantComment(c, pool)
	if err != nil {
		return "", err
	}
	if comment != "" {
		comment = "// " + comment
	}
	return strings.TrimRight(fmt.Sprintf("%-19s%-15s%s", c.Tag, value, comment), " "), nil
}

// RenderCode renders a Code attribute as an offset-prefixed assembly
// listing followed by its exception handler ranges.
func RenderCode(code class.Code) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "  stack=%d, locals=%d\n", code.MaxStack, code.MaxLocals)
	for pc := 0; pc < len(code.Code); {
		inst, next, err := bytecode.DecodeAt(code.Code, pc)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  %4d: %s\n", pc, inst)
		pc = next
	}
	for _, e := range code.ExceptionTable {
		fmt.Fprintf(&b, "  handler: [%d, %d) -> %d (catch_type #%d)\n",
			e.StartPC, e.EndPC, e.HandlerPC, e.CatchType)
	}
	return b.String(), nil
}

func constantValue(c class.Constant, pool class.ConstantPool) (string, error) {
	switch info := c.Info.(type) {
	case class.Utf8:
		s, err := info.Text()
		if err != nil {
			return "", cferrors.Wrap(cferrors.PhasePrint, err, "Utf8 constant")
		}
		return s, nil
	case class.Integer:
		return strconv.FormatInt(int64(info.Value), 10), nil
	case class.Float:
		return strconv.FormatFloat(float64(info.Value), 'g', -1, 32) + "f", nil
	case class.Long:
		return strconv.FormatInt(info.Value, 10) + "l", nil
	case class.Double:
		return strconv.FormatFloat(info.Value, 'g', -1, 64) + "d", nil
	case class.Class:
		return fmt.Sprintf("#%d", info.NameIndex), nil
	case class.String:
		return fmt.Sprintf("#%d", info.StringIndex), nil
	case class.Fieldref:
		return fmt.Sprintf("#%d.#%d", info.ClassIndex, info.NameAndTypeIndex), nil
	case class.Methodref:
		return fmt.Sprintf("#%d.#%d", info.ClassIndex, info.NameAndTypeIndex), nil
	case class.InterfaceMethodref:
		return fmt.Sprintf("#%d.#%d", info.ClassIndex, info.NameAndTypeIndex), nil
	case class.NameAndType:
		return fmt.Sprintf("#%d:#%d", info.NameIndex, info.DescriptorIndex), nil
	case class.MethodHandle:
		return fmt.Sprintf("%d:#%d", info.ReferenceKind, info.ReferenceIndex), nil
	case class.MethodType:
		return fmt.Sprintf("#%d", info.DescriptorIndex), nil
	case class.Dynamic:
		return fmt.Sprintf("#%d:#%d", info.BootstrapMethodAttrIndex, info.NameAndTypeIndex), nil
	case class.InvokeDynamic:
		return fmt.Sprintf("#%d:#%d", info.BootstrapMethodAttrIndex, info.NameAndTypeIndex), nil
	case class.Module:
		return fmt.Sprintf("#%d", info.NameIndex), nil
	case class.Package:
		return fmt.Sprintf("#%d", info.NameIndex), nil
	}
	return "", cferrors.InvalidConstant(cferrors.PhasePrint,
		fmt.Sprintf("tag %d has no renderer", c.Tag))
}

func constantComment(c class.Constant, pool class.ConstantPool) (string, error) {
	switch info := c.Info.(type) {
	case class.Class:
		return utf8String(pool, info.NameIndex)
	case class.String:
		return utf8String(pool, info.StringIndex)
	case class.Fieldref:
		return refComment(pool, info.ClassIndex, info.NameAndTypeIndex)
	case class.Methodref:
		return refComment(pool, info.ClassIndex, info.NameAndTypeIndex)
	case class.InterfaceMethodref:
		return refComment(pool, info.ClassIndex, info.NameAndTypeIndex)
	case class.NameAndType:
		return nameAndTypeComment(pool, info)
	case class.MethodType:
		return utf8String(pool, info.DescriptorIndex)
	case class.Module:
		return utf8String(pool, info.NameIndex)
	case class.Package:
		return utf8String(pool, info.NameIndex)
	case class.Dynamic:
		return dynamicComment(pool, info.NameAndTypeIndex)
	case class.InvokeDynamic:
		return dynamicComment(pool, info.NameAndTypeIndex)
	}
	return "", nil
}

func refComment(pool class.ConstantPool, classIndex, natIndex uint16) (string, error) {
	c, ok := pool.At(classIndex)
	if !ok {
		return "", cferrors.InvalidConstantPoolIndex(cferrors.PhasePrint, classIndex)
	}
	cls, ok := c.Info.(class.Class)
	if !ok {
		return "", cferrors.InvalidConstant(cferrors.PhasePrint,
			fmt.Sprintf("#%d is not a Class constant", classIndex))
	}
	className, err := utf8String(pool, cls.NameIndex)
	if err != nil {
		return "", err
	}
	nat, err := nameAndTypeAt(pool, natIndex)
	if err != nil {
		return "", err
	}
	natText, err := nameAndTypeComment(pool, nat)
	if err != nil {
		return "", err
	}
	return className + "." + natText, nil
}

func dynamicComment(pool class.ConstantPool, natIndex uint16) (string, error) {
	nat, err := nameAndTypeAt(pool, natIndex)
	if err != nil {
		return "", err
	}
	return nameAndTypeComment(pool, nat)
}

func nameAndTypeAt(pool class.ConstantPool, index uint16) (class.NameAndType, error) {
	c, ok := pool.At(index)
	if !ok {
		return class.NameAndType{}, cferrors.InvalidConstantPoolIndex(cferrors.PhasePrint, index)
	}
	nat, ok := c.Info.(class.NameAndType)
	if !ok {
		return class.NameAndType{}, cferrors.InvalidConstant(cferrors.PhasePrint,
			fmt.Sprintf("#%d is not a NameAndType constant", index))
	}
	return nat, nil
}

func nameAndTypeComment(pool class.ConstantPool, nat class.NameAndType) (string, error) {
	name, err := utf8String(pool, nat.NameIndex)
	if err != nil {
		return "", err
	}
	desc, err := utf8String(pool, nat.DescriptorIndex)
	if err != nil {
		return "", err
	}
	return name + ":" + desc, nil
}

func utf8String(pool class.ConstantPool, index uint16) (string, error) {
	raw, err := pool.Utf8At(index)
	if err != nil {
		return "", cferrors.Wrap(cferrors.PhasePrint, err, fmt.Sprintf("resolving #%d", index))
	}
	return class.Utf8{Value: raw}.Text()
}

func classNameIndex(cf *class.ClassFile) uint16 {
	if c, ok := cf.ConstantPool.At(cf.ThisClass); ok {
		if cls, ok := c.Info.(class.Class); ok {
			return cls.NameIndex
		}
	}
	return 0
}

func fieldType(pool class.ConstantPool, index uint16) (class.FieldType, error) {
	raw, err := pool.Utf8At(index)
	if err != nil {
		return class.FieldType{}, cferrors.Wrap(cferrors.PhasePrint, err, "field descriptor")
	}
	ft, _, err := class.ParseFieldType(raw)
	if err != nil {
		return class.FieldType{}, cferrors.Wrap(cferrors.PhasePrint, err, "field descriptor")
	}
	return ft, nil
}

func methodDescriptor(pool class.ConstantPool, index uint16) (class.MethodDescriptor, error) {
	raw, err := pool.Utf8At(index)
	if err != nil {
		return class.MethodDescriptor{}, cferrors.Wrap(cferrors.PhasePrint, err, "method descriptor")
	}
	md, _, err := class.ParseMethodDescriptor(raw)
	if err != nil {
		return class.MethodDescriptor{}, cferrors.Wrap(cferrors.PhasePrint, err, "method descriptor")
	}
	return md, nil
}
