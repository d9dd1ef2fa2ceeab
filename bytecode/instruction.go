package bytecode

import (
	"fmt"
	"strings"
)

// Instruction represents a decoded JVM instruction. Imm holds the typed
// immediate for opcodes that carry operands; it is nil for bare opcodes.
type Instruction struct {
	Imm    interface{}
	Opcode byte
}

// LocalImm holds the local variable index for iload, istore, ret and the
// other single-byte indexed forms.
type LocalImm struct {
	Index uint8
}

// PoolImm holds a two-byte constant pool index (anewarray, checkcast,
// getfield, invokevirtual, ldc_w, new, ...).
type PoolImm struct {
	Index uint16
}

// NarrowPoolImm holds the single-byte pool index of ldc.
type NarrowPoolImm struct {
	Index uint8
}

// BranchImm holds the signed 16-bit branch offset of goto, jsr and the
// conditional branches, relative to the opcode position.
type BranchImm struct {
	Offset int16
}

// WideBranchImm holds the signed 32-bit offset of goto_w and jsr_w.
type WideBranchImm struct {
	Offset int32
}

// I8Imm holds the signed immediate of bipush.
type I8Imm struct {
	Value int8
}

// I16Imm holds the signed immediate of sipush.
type I16Imm struct {
	Value int16
}

// IincImm holds the index and signed increment of iinc.
type IincImm struct {
	Index uint8
	Const int8
}

// InvokeInterfaceImm holds the pool index and count of invokeinterface.
// The trailing zero byte is consumed but not kept.
type InvokeInterfaceImm struct {
	Index uint16
	Count uint8
}

// InvokeDynamicImm holds the pool index of invokedynamic. The two trailing
// zero bytes are consumed but not kept.
type InvokeDynamicImm struct {
	Index uint16
}

// MultianewarrayImm holds the pool index and dimension count of
// multianewarray.
type MultianewarrayImm struct {
	Index      uint16
	Dimensions uint8
}

// NewarrayImm holds the primitive array type code of newarray.
type NewarrayImm struct {
	AType uint8
}

// WideImm holds the widened form of iload, fload, aload, lload, dload,
// istore, fstore, astore, lstore, dstore and ret: the inner opcode plus a
// two-byte index.
type WideImm struct {
	Index  uint16
	Opcode byte
}

// WideIincImm holds the widened iinc form: two-byte index, two-byte signed
// increment.
type WideIincImm struct {
	Index uint16
	Const int16
}

// MatchOffset is one match/offset pair of a lookupswitch.
type MatchOffset struct {
	Match  int32
	Offset int32
}

// LookupswitchImm holds the default offset and sorted match/offset pairs of
// lookupswitch. Offsets are relative to the opcode position.
type LookupswitchImm struct {
	Pairs   []MatchOffset
	Default int32
}

// TableswitchImm holds the default offset, bounds and jump table of
// tableswitch. Offsets[i] is the target for key Low+i.
type TableswitchImm struct {
	Offsets []int32
	Default int32
	Low     int32
	High    int32
}

// Mnemonic returns the instruction's javap mnemonic.
func (i Instruction) Mnemonic() string {
	return OpcodeName(i.Opcode)
}

// String renders the instruction as javap-style assembly, e.g.
// "bipush 6", "invokevirtual #21" or "wide iload 258".
func (i Instruction) String() string {
	name := i.Mnemonic()
	switch imm := i.Imm.(type) {
	case nil:
		return name
	case LocalImm:
		return fmt.Sprintf("%s %d", name, imm.Index)
	case PoolImm:
		return fmt.Sprintf("%s #%d", name, imm.Index)
	case NarrowPoolImm:
		return fmt.Sprintf("%s #%d", name, imm.Index)
	case BranchImm:
		return fmt.Sprintf("%s %d", name, imm.Offset)
	case WideBranchImm:
		return fmt.Sprintf("%s %d", name, imm.Offset)
	case I8Imm:
		return fmt.Sprintf("%s %d", name, imm.Value)
	case I16Imm:
		return fmt.Sprintf("%s %d", name, imm.Value)
	case IincImm:
		return fmt.Sprintf("%s %d, %d", name, imm.Index, imm.Const)
	case InvokeInterfaceImm:
		return fmt.Sprintf("%s #%d, %d", name, imm.Index, imm.Count)
	case InvokeDynamicImm:
		return fmt.Sprintf("%s #%d, 0", name, imm.Index)
	case MultianewarrayImm:
		return fmt.Sprintf("%s #%d, %d", name, imm.Index, imm.Dimensions)
	case NewarrayImm:
		return fmt.Sprintf("%s %d", name, imm.AType)
	case WideImm:
		return fmt.Sprintf("%s %s %d", name, OpcodeName(imm.Opcode), imm.Index)
	case WideIincImm:
		return fmt.Sprintf("%s iinc %d, %d", name, imm.Index, imm.Const)
	case LookupswitchImm:
		var b strings.Builder
		fmt.Fprintf(&b, "%s { // %d", name, len(imm.Pairs))
		for _, p := range imm.Pairs {
			fmt.Fprintf(&b, "\n %d: %d", p.Match, p.Offset)
		}
		fmt.Fprintf(&b, "\n default: %d\n}", imm.Default)
		return b.String()
	case TableswitchImm:
		var b strings.Builder
		fmt.Fprintf(&b, "%s { // %d to %d", name, imm.Low, imm.High)
		for j, off := range imm.Offsets {
			fmt.Fprintf(&b, "\n %d: %d", imm.Low+int32(j), off)
		}
		fmt.Fprintf(&b, "\n default: %d\n}", imm.Default)
		return b.String()
	}
	return fmt.Sprintf("%s %v", name, i.Imm)
}
