package classread

import (
	"github.com/jvmtools/classread/bytecode"
	"github.com/jvmtools/classread/cferrors"
	"github.com/jvmtools/classread/class"
)

// Parse decodes a complete class file. It is a convenience wrapper around
// class.ParseClassFile that rejects trailing bytes after the class
// structure.
func Parse(data []byte) (*class.ClassFile, error) {
	cf, rest, err := class.ParseClassFile(data)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, cferrors.Unsupported(cferrors.PhaseClassFile,
			"trailing bytes after class file")
	}
	return cf, nil
}

// Disassemble decodes every method body in a decoded class file, keyed by
// the method's index in cf.Methods. Methods without a Code attribute
// (abstract, native) are absent from the result.
func Disassemble(cf *class.ClassFile) (map[int][]bytecode.Instruction, error) {
	bodies := make(map[int][]bytecode.Instruction)
	for i, m := range cf.Methods {
		for _, a := range m.Attributes {
			code, ok := a.(class.Code)
			if !ok {
				continue
			}
			insts, err := bytecode.DecodeAll(code.Code)
			if err != nil {
				return nil, err
			}
			bodies[i] = insts
			break
		}
	}
	return bodies, nil
}
