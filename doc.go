// Package classread decodes JVM class files and bytecode.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	classread/           Root package with convenience entry points
//	├── class/           Class file container format, constant pool, descriptors
//	├── bytecode/        Method body instruction decoding
//	├── classprint/      javap-style text rendering
//	└── cferrors/        Structured error types for debugging
//
// # Quick Start
//
// Decode a class file and render it:
//
//	data, err := os.ReadFile("HelloWorld.class")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cf, err := classread.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := classprint.Render(cf)
//	fmt.Print(text)
//
// # Memory Model
//
// Decoding is zero-copy: decoded structures borrow byte slices (Utf8
// constants, Code bodies, unrecognized attribute payloads) from the input
// buffer. Keep the buffer alive and unmodified for as long as the decoded
// ClassFile is in use.
//
// # Error Handling
//
// Decoding never panics on malformed input. All failures are *cferrors.Error
// values carrying the decode phase and failure kind, and match the package's
// sentinel errors through errors.Is.
package classread
