package bin_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jvmtools/classread/cferrors"
	"github.com/jvmtools/classread/internal/bin"
)

func TestU8(t *testing.T) {
	v, rest, err := bin.U8([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("U8: %v", err)
	}
	if v != 1 || !bytes.Equal(rest, []byte{2, 3}) {
		t.Errorf("got %d rest %v", v, rest)
	}
	if _, _, err := bin.U8(nil); !errors.Is(err, cferrors.ErrEndOfInput) {
		t.Errorf("empty input: got %v, want end of input", err)
	}
}

func TestU16(t *testing.T) {
	v, rest, err := bin.U16([]byte{0x12, 0x34, 0x56, 0x78})
	if err != nil {
		t.Fatalf("U16: %v", err)
	}
	if v != 0x1234 || !bytes.Equal(rest, []byte{0x56, 0x78}) {
		t.Errorf("got 0x%04x rest %v", v, rest)
	}
	if _, _, err := bin.U16([]byte{0x12}); !errors.Is(err, cferrors.ErrEndOfInput) {
		t.Errorf("1 byte: got %v, want end of input", err)
	}
}

func TestU32(t *testing.T) {
	v, rest, err := bin.U32([]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc})
	if err != nil {
		t.Fatalf("U32: %v", err)
	}
	if v != 0x12345678 || !bytes.Equal(rest, []byte{0x9a, 0xbc}) {
		t.Errorf("got 0x%08x rest %v", v, rest)
	}
	if _, _, err := bin.U32([]byte{0x12, 0x34, 0x56}); !errors.Is(err, cferrors.ErrEndOfInput) {
		t.Errorf("3 bytes: got %v, want end of input", err)
	}
}

func TestU64(t *testing.T) {
	v, rest, err := bin.U64([]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x11})
	if err != nil {
		t.Fatalf("U64: %v", err)
	}
	if v != 0x123456789abcdef0 || !bytes.Equal(rest, []byte{0x11}) {
		t.Errorf("got 0x%016x rest %v", v, rest)
	}
	if _, _, err := bin.U64(make([]byte, 7)); !errors.Is(err, cferrors.ErrEndOfInput) {
		t.Errorf("7 bytes: got %v, want end of input", err)
	}
}

func TestSignedSignExtension(t *testing.T) {
	if v, _, _ := bin.I8([]byte{0xff}); v != -1 {
		t.Errorf("I8 0xff = %d, want -1", v)
	}
	if v, _, _ := bin.I16([]byte{0xff, 0xff}); v != -1 {
		t.Errorf("I16 0xffff = %d, want -1", v)
	}
	if v, _, _ := bin.I32([]byte{0xff, 0xff, 0xff, 0xff}); v != -1 {
		t.Errorf("I32 all-ff = %d, want -1", v)
	}
	if v, _, _ := bin.I64(bytes.Repeat([]byte{0xff}, 8)); v != -1 {
		t.Errorf("I64 all-ff = %d, want -1", v)
	}
	if v, _, _ := bin.I16([]byte{0x12, 0x34}); v != 0x1234 {
		t.Errorf("I16 positive = %d, want 0x1234", v)
	}
}

func TestF32(t *testing.T) {
	v, rest, err := bin.F32([]byte{0x3f, 0x9d, 0xf3, 0xb6, 0x12, 0x34})
	if err != nil {
		t.Fatalf("F32: %v", err)
	}
	if v != 1.234 || !bytes.Equal(rest, []byte{0x12, 0x34}) {
		t.Errorf("got %v rest %v", v, rest)
	}
	if v, _, _ := bin.F32([]byte{0xbf, 0x9d, 0xf3, 0xb6}); v != -1.234 {
		t.Errorf("negative: got %v", v)
	}
}

func TestF64(t *testing.T) {
	v, _, err := bin.F64([]byte{0x3f, 0xf3, 0xc0, 0xc9, 0x53, 0x9b, 0x88, 0x87})
	if err != nil {
		t.Fatalf("F64: %v", err)
	}
	if v != 1.234567 {
		t.Errorf("got %v, want 1.234567", v)
	}
}

func TestBytes(t *testing.T) {
	input := []byte{1, 2, 3, 4, 5}
	v, rest, err := bin.Bytes(input, 3)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(v, []byte{1, 2, 3}) || !bytes.Equal(rest, []byte{4, 5}) {
		t.Errorf("got %v rest %v", v, rest)
	}

	v, rest, err = bin.Bytes(input, 5)
	if err != nil || len(rest) != 0 || !bytes.Equal(v, input) {
		t.Errorf("full take: %v %v %v", v, rest, err)
	}

	if _, _, err := bin.Bytes(input, 6); !errors.Is(err, cferrors.ErrEndOfInput) {
		t.Errorf("overrun: got %v, want end of input", err)
	}
}

func TestBytesAliasesInput(t *testing.T) {
	input := []byte{1, 2, 3, 4}
	v, _, err := bin.Bytes(input, 2)
	if err != nil {
		t.Fatal(err)
	}
	if &v[0] != &input[0] {
		t.Error("Bytes should return a subslice of the input, not a copy")
	}
}

func TestTakeUntil(t *testing.T) {
	input := []byte{1, 2, 3, 4, 5}
	v, rest, err := bin.TakeUntil(input, []byte{3, 4})
	if err != nil {
		t.Fatalf("TakeUntil: %v", err)
	}
	if !bytes.Equal(v, []byte{1, 2}) || !bytes.Equal(rest, []byte{5}) {
		t.Errorf("got %v rest %v", v, rest)
	}

	v, rest, err = bin.TakeUntil(input, []byte{1, 2})
	if err != nil || len(v) != 0 || !bytes.Equal(rest, []byte{3, 4, 5}) {
		t.Errorf("leading delim: %v %v %v", v, rest, err)
	}

	if _, _, err := bin.TakeUntil(input, []byte{6, 7}); !errors.Is(err, cferrors.ErrEndOfInput) {
		t.Errorf("absent delim: got %v, want end of input", err)
	}
}
