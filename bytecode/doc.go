// Package bytecode decodes JVM method bodies into instruction sequences.
//
// Every assigned opcode from nop (0x00) through jsr_w (0xc9) is supported,
// including the wide prefix forms. Branch offsets and switch jump tables
// are kept as the signed values read from the stream, relative to the
// opcode position; no target resolution is done. tableswitch and
// lookupswitch carry alignment padding measured from the start of the
// method body, so they are only decodable through DecodeAt or DecodeAll,
// which track that offset.
package bytecode
