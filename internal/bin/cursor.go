// Package bin provides the primitive decode layer: stateless functions from
// an immutable byte slice to a (value, remaining slice) pair.
//
// There is no reader object and no position state. Callers thread the
// remaining slice forward in exactly the field order the class file format
// mandates. All multi-byte values are big-endian, as the format requires.
// Bytes and TakeUntil return subslices of the input without copying.
package bin

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/jvmtools/classread/cferrors"
)

// U8 reads one unsigned byte.
func U8(input []byte) (uint8, []byte, error) {
	if len(input) < 1 {
		return 0, nil, cferrors.EndOfInput(cferrors.PhaseCursor, 1)
	}
	return input[0], input[1:], nil
}

// U16 reads a big-endian uint16.
func U16(input []byte) (uint16, []byte, error) {
	if len(input) < 2 {
		return 0, nil, cferrors.EndOfInput(cferrors.PhaseCursor, 2-len(input))
	}
	return binary.BigEndian.Uint16(input), input[2:], nil
}

// U32 reads a big-endian uint32.
func U32(input []byte) (uint32, []byte, error) {
	if len(input) < 4 {
		return 0, nil, cferrors.EndOfInput(cferrors.PhaseCursor, 4-len(input))
	}
	return binary.BigEndian.Uint32(input), input[4:], nil
}

// U64 reads a big-endian uint64.
func U64(input []byte) (uint64, []byte, error) {
	if len(input) < 8 {
		return 0, nil, cferrors.EndOfInput(cferrors.PhaseCursor, 8-len(input))
	}
	return binary.BigEndian.Uint64(input), input[8:], nil
}

// I8 reads one signed byte.
func I8(input []byte) (int8, []byte, error) {
	v, rest, err := U8(input)
	return int8(v), rest, err
}

// I16 reads a big-endian int16.
func I16(input []byte) (int16, []byte, error) {
	v, rest, err := U16(input)
	return int16(v), rest, err
}

// I32 reads a big-endian int32.
func I32(input []byte) (int32, []byte, error) {
	v, rest, err := U32(input)
	return int32(v), rest, err
}

// I64 reads a big-endian int64.
func I64(input []byte) (int64, []byte, error) {
	v, rest, err := U64(input)
	return int64(v), rest, err
}

// F32 reads a big-endian IEEE 754 float32.
func F32(input []byte) (float32, []byte, error) {
	v, rest, err := U32(input)
	return math.Float32frombits(v), rest, err
}

// F64 reads a big-endian IEEE 754 float64.
func F64(input []byte) (float64, []byte, error) {
	v, rest, err := U64(input)
	return math.Float64frombits(v), rest, err
}

// Bytes slices off exactly n bytes verbatim. The returned slice aliases the
// input; callers must not mutate it.
func Bytes(input []byte, n int) ([]byte, []byte, error) {
	if n < 0 || len(input) < n {
		return nil, nil, cferrors.EndOfInput(cferrors.PhaseCursor, n-len(input))
	}
	return input[:n], input[n:], nil
}

// TakeUntil returns the prefix before the first occurrence of delim and the
// remainder past it. Fails with end-of-input when delim is absent.
func TakeUntil(input, delim []byte) ([]byte, []byte, error) {
	i := bytes.Index(input, delim)
	if i < 0 {
		return nil, nil, cferrors.EndOfInput(cferrors.PhaseCursor, len(delim))
	}
	return input[:i], input[i+len(delim):], nil
}
