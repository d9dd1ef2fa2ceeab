package cferrors

import (
	"fmt"
	"strings"
)

// Phase indicates which decoding layer produced the error
type Phase string

const (
	PhaseCursor     Phase = "cursor"     // primitive byte reads
	PhasePool       Phase = "pool"       // constant pool entries
	PhaseDescriptor Phase = "descriptor" // field/method descriptor grammar
	PhaseAttribute  Phase = "attribute"  // attribute records
	PhaseClassFile  Phase = "classfile"  // top-level class file structure
	PhaseBytecode   Phase = "bytecode"   // instruction stream
	PhasePrint      Phase = "print"      // rendering a decoded class file
)

// Kind categorizes the error
type Kind string

const (
	KindEndOfInput          Kind = "end_of_input"
	KindInvalidUTF8         Kind = "invalid_utf8"
	KindInvalidConstantTag  Kind = "invalid_constant_tag"
	KindInvalidPoolIndex    Kind = "invalid_constant_pool_index"
	KindInvalidDescriptor   Kind = "invalid_field_descriptor"
	KindUnknownInstruction  Kind = "unknown_instruction"
	KindUnsupported         Kind = "unsupported"
	KindInvalidConstantType Kind = "invalid_constant_type"
)

// Error is the structured error type used by every decoding layer.
// Value carries the offending tag, index, or opcode when the kind has one.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Value != nil {
		fmt.Fprintf(&b, " (%v)", e.Value)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// Two Errors match on Kind; a target with an empty Phase matches any phase,
// so sentinel comparisons like errors.Is(err, cferrors.ErrEndOfInput) work
// regardless of which layer ran out of bytes.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && e.Phase != t.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is matching across phases.
var (
	ErrEndOfInput         = &Error{Kind: KindEndOfInput}
	ErrInvalidUTF8        = &Error{Kind: KindInvalidUTF8}
	ErrInvalidDescriptor  = &Error{Kind: KindInvalidDescriptor}
	ErrUnknownInstruction = &Error{Kind: KindUnknownInstruction}
	ErrInvalidPoolIndex   = &Error{Kind: KindInvalidPoolIndex}
	ErrInvalidConstantTag = &Error{Kind: KindInvalidConstantTag}
	ErrUnsupported        = &Error{Kind: KindUnsupported}
	ErrInvalidConstant    = &Error{Kind: KindInvalidConstantType}
)

// EndOfInput reports that a fixed-width read needed more bytes than remain.
func EndOfInput(phase Phase, need int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEndOfInput,
		Detail: fmt.Sprintf("need %d more byte(s)", need),
	}
}

// InvalidUTF8 reports Utf8 constant bytes that are not valid UTF-8.
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidConstantTag reports an unrecognized constant pool tag byte.
func InvalidConstantTag(tag uint8) *Error {
	return &Error{
		Phase: PhasePool,
		Kind:  KindInvalidConstantTag,
		Value: tag,
	}
}

// InvalidConstantPoolIndex reports an index that points at a missing pool
// slot or at the wrong constant variant.
func InvalidConstantPoolIndex(phase Phase, index uint16) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindInvalidPoolIndex,
		Value: index,
	}
}

// InvalidFieldDescriptor reports a descriptor byte outside the grammar.
func InvalidFieldDescriptor(detail string) *Error {
	return &Error{
		Phase:  PhaseDescriptor,
		Kind:   KindInvalidDescriptor,
		Detail: detail,
	}
}

// UnknownInstruction reports an opcode (or a wide prefix's inner opcode)
// absent from the instruction table.
func UnknownInstruction(opcode byte) *Error {
	return &Error{
		Phase: PhaseBytecode,
		Kind:  KindUnknownInstruction,
		Value: fmt.Sprintf("0x%02x", opcode),
	}
}

// Unsupported reports a structurally valid input the decoder cannot handle.
func Unsupported(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: detail,
	}
}

// InvalidConstant reports a constant pool entry of the wrong variant for
// the operation at hand.
func InvalidConstant(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidConstantType,
		Detail: detail,
	}
}

// Wrap wraps a lower-layer error with this layer's phase and context.
// The cause is preserved unmodified for errors.Is/Unwrap.
func Wrap(phase Phase, cause error, detail string) error {
	if cause == nil {
		return nil
	}
	kind := KindEndOfInput
	if ce, ok := cause.(*Error); ok {
		kind = ce.Kind
	}
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
