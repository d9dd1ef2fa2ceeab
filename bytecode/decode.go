package bytecode

import (
	"go.uber.org/zap"

	"github.com/jvmtools/classread/cferrors"
	"github.com/jvmtools/classread/internal/bin"
)

// Decode decodes one instruction from the front of input and returns the
// unconsumed remainder. tableswitch and lookupswitch cannot be decoded
// without knowing the opcode's offset within the method body; Decode
// rejects them, use DecodeAt instead.
func Decode(input []byte) (Instruction, []byte, error) {
	inst, n, err := decodeAt(input, 0, false)
	if err != nil {
		return Instruction{}, nil, err
	}
	return inst, input[n:], nil
}

// DecodeAt decodes the instruction starting at offset pc within code, where
// code is a full method body starting at offset 0. It returns the offset of
// the next instruction. Knowing pc lets the switch instructions compute
// their alignment padding.
func DecodeAt(code []byte, pc int) (Instruction, int, error) {
	return decodeAt(code, pc, true)
}

// DecodeAll decodes a complete method body into its instruction sequence.
func DecodeAll(code []byte) ([]Instruction, error) {
	insts := make([]Instruction, 0, len(code)/2)
	for pc := 0; pc < len(code); {
		inst, next, err := DecodeAt(code, pc)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
		pc = next
	}
	Logger().Debug("decoded method body",
		zap.Int("bytes", len(code)),
		zap.Int("instructions", len(insts)))
	return insts, nil
}

func decodeAt(code []byte, pc int, allowSwitch bool) (Instruction, int, error) {
	fail := func(err error, detail string) (Instruction, int, error) {
		return Instruction{}, 0, cferrors.Wrap(cferrors.PhaseBytecode, err, detail)
	}
	if pc < 0 || pc >= len(code) {
		return fail(cferrors.EndOfInput(cferrors.PhaseBytecode, 1), "opcode")
	}

	op := code[pc]
	rest := code[pc+1:]
	inst := Instruction{Opcode: op}
	done := func(rest []byte) (Instruction, int, error) {
		return inst, len(code) - len(rest), nil
	}

	switch op {
	case OpBipush:
		v, rest, err := bin.I8(rest)
		if err != nil {
			return fail(err, "bipush operand")
		}
		inst.Imm = I8Imm{Value: v}
		return done(rest)

	case OpSipush:
		v, rest, err := bin.I16(rest)
		if err != nil {
			return fail(err, "sipush operand")
		}
		inst.Imm = I16Imm{Value: v}
		return done(rest)

	case OpLdc:
		idx, rest, err := bin.U8(rest)
		if err != nil {
			return fail(err, "ldc operand")
		}
		inst.Imm = NarrowPoolImm{Index: idx}
		return done(rest)

	case OpLdcW, OpLdc2W,
		OpGetstatic, OpPutstatic, OpGetfield, OpPutfield,
		OpInvokevirtual, OpInvokespecial, OpInvokestatic,
		OpNew, OpAnewarray, OpCheckcast, OpInstanceof:
		idx, rest, err := bin.U16(rest)
		if err != nil {
			return fail(err, "constant pool operand")
		}
		inst.Imm = PoolImm{Index: idx}
		return done(rest)

	case OpIload, OpLload, OpFload, OpDload, OpAload,
		OpIstore, OpLstore, OpFstore, OpDstore, OpAstore,
		OpRet:
		idx, rest, err := bin.U8(rest)
		if err != nil {
			return fail(err, "local index operand")
		}
		inst.Imm = LocalImm{Index: idx}
		return done(rest)

	case OpIinc:
		idx, rest, err := bin.U8(rest)
		if err != nil {
			return fail(err, "iinc index")
		}
		c, rest, err := bin.I8(rest)
		if err != nil {
			return fail(err, "iinc const")
		}
		inst.Imm = IincImm{Index: idx, Const: c}
		return done(rest)

	case OpIfeq, OpIfne, OpIflt, OpIfge, OpIfgt, OpIfle,
		OpIfIcmpeq, OpIfIcmpne, OpIfIcmplt, OpIfIcmpge, OpIfIcmpgt, OpIfIcmple,
		OpIfAcmpeq, OpIfAcmpne,
		OpGoto, OpJsr, OpIfnull, OpIfnonnull:
		off, rest, err := bin.I16(rest)
		if err != nil {
			return fail(err, "branch offset")
		}
		inst.Imm = BranchImm{Offset: off}
		return done(rest)

	case OpGotoW, OpJsrW:
		off, rest, err := bin.I32(rest)
		if err != nil {
			return fail(err, "wide branch offset")
		}
		inst.Imm = WideBranchImm{Offset: off}
		return done(rest)

	case OpInvokeinterface:
		idx, rest, err := bin.U16(rest)
		if err != nil {
			return fail(err, "invokeinterface index")
		}
		count, rest, err := bin.U8(rest)
		if err != nil {
			return fail(err, "invokeinterface count")
		}
		// Trailing byte is zero per the format; its value is not checked.
		if _, rest, err = bin.U8(rest); err != nil {
			return fail(err, "invokeinterface trailer")
		}
		inst.Imm = InvokeInterfaceImm{Index: idx, Count: count}
		return done(rest)

	case OpInvokedynamic:
		idx, rest, err := bin.U16(rest)
		if err != nil {
			return fail(err, "invokedynamic index")
		}
		if _, rest, err = bin.U8(rest); err != nil {
			return fail(err, "invokedynamic trailer")
		}
		if _, rest, err = bin.U8(rest); err != nil {
			return fail(err, "invokedynamic trailer")
		}
		inst.Imm = InvokeDynamicImm{Index: idx}
		return done(rest)

	case OpNewarray:
		atype, rest, err := bin.U8(rest)
		if err != nil {
			return fail(err, "newarray type")
		}
		inst.Imm = NewarrayImm{AType: atype}
		return done(rest)

	case OpMultianewarray:
		idx, rest, err := bin.U16(rest)
		if err != nil {
			return fail(err, "multianewarray index")
		}
		dims, rest, err := bin.U8(rest)
		if err != nil {
			return fail(err, "multianewarray dimensions")
		}
		inst.Imm = MultianewarrayImm{Index: idx, Dimensions: dims}
		return done(rest)

	case OpWide:
		inner, rest, err := bin.U8(rest)
		if err != nil {
			return fail(err, "wide inner opcode")
		}
		switch inner {
		case OpIload, OpFload, OpAload, OpLload, OpDload,
			OpIstore, OpFstore, OpAstore, OpLstore, OpDstore,
			OpRet:
			idx, rest, err := bin.U16(rest)
			if err != nil {
				return fail(err, "wide index")
			}
			inst.Imm = WideImm{Opcode: inner, Index: idx}
			return done(rest)
		case OpIinc:
			idx, rest, err := bin.U16(rest)
			if err != nil {
				return fail(err, "wide iinc index")
			}
			c, rest, err := bin.I16(rest)
			if err != nil {
				return fail(err, "wide iinc const")
			}
			inst.Imm = WideIincImm{Index: idx, Const: c}
			return done(rest)
		}
		return Instruction{}, 0, cferrors.UnknownInstruction(inner)

	case OpTableswitch:
		if !allowSwitch {
			return Instruction{}, 0, cferrors.Unsupported(cferrors.PhaseBytecode,
				"tableswitch needs the opcode offset for padding, use DecodeAt")
		}
		rest, err := skipSwitchPadding(rest, pc)
		if err != nil {
			return fail(err, "tableswitch padding")
		}
		var imm TableswitchImm
		if imm.Default, rest, err = bin.I32(rest); err != nil {
			return fail(err, "tableswitch default")
		}
		if imm.Low, rest, err = bin.I32(rest); err != nil {
			return fail(err, "tableswitch low")
		}
		if imm.High, rest, err = bin.I32(rest); err != nil {
			return fail(err, "tableswitch high")
		}
		if imm.High < imm.Low {
			return Instruction{}, 0, cferrors.Unsupported(cferrors.PhaseBytecode,
				"tableswitch high below low")
		}
		for k := imm.Low; ; k++ {
			var off int32
			if off, rest, err = bin.I32(rest); err != nil {
				return fail(err, "tableswitch offset")
			}
			imm.Offsets = append(imm.Offsets, off)
			if k == imm.High {
				break
			}
		}
		inst.Imm = imm
		return done(rest)

	case OpLookupswitch:
		if !allowSwitch {
			return Instruction{}, 0, cferrors.Unsupported(cferrors.PhaseBytecode,
				"lookupswitch needs the opcode offset for padding, use DecodeAt")
		}
		rest, err := skipSwitchPadding(rest, pc)
		if err != nil {
			return fail(err, "lookupswitch padding")
		}
		var imm LookupswitchImm
		if imm.Default, rest, err = bin.I32(rest); err != nil {
			return fail(err, "lookupswitch default")
		}
		var npairs int32
		if npairs, rest, err = bin.I32(rest); err != nil {
			return fail(err, "lookupswitch npairs")
		}
		if npairs < 0 {
			return Instruction{}, 0, cferrors.Unsupported(cferrors.PhaseBytecode,
				"lookupswitch negative npairs")
		}
		for k := int32(0); k < npairs; k++ {
			var p MatchOffset
			if p.Match, rest, err = bin.I32(rest); err != nil {
				return fail(err, "lookupswitch match")
			}
			if p.Offset, rest, err = bin.I32(rest); err != nil {
				return fail(err, "lookupswitch offset")
			}
			imm.Pairs = append(imm.Pairs, p)
		}
		inst.Imm = imm
		return done(rest)
	}

	if OpcodeName(op) == "" {
		return Instruction{}, 0, cferrors.UnknownInstruction(op)
	}
	return done(rest)
}

// skipSwitchPadding discards the zero bytes that align a switch's operands
// to a 4-byte boundary from the start of the method body. pc is the offset
// of the switch opcode itself.
func skipSwitchPadding(rest []byte, pc int) ([]byte, error) {
	pad := (4 - (pc+1)%4) % 4
	_, rest, err := bin.Bytes(rest, pad)
	return rest, err
}
