// Package class decodes the JVM class file container format: the constant
// pool, access flags, fields, methods and attributes, plus the field and
// method descriptor grammars.
//
// ParseClassFile is the entry point. Decoding is strict about structure but
// permissive about content: indices and flag bits are recorded as read, and
// attributes without a dedicated decoder are kept as Unknown blobs. Decoded
// values borrow from the input buffer instead of copying.
package class
