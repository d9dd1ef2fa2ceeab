// Package cferrors provides the structured error type shared by every
// decoding layer in this module.
//
// Errors carry a Phase (which layer failed), a Kind (what went wrong) and,
// where the kind has one, the offending value: the constant tag, pool index
// or opcode. Layers wrap lower-layer errors without discarding them, so
// errors.Is against the package sentinels matches through any number of
// wrapping layers:
//
//	_, _, err := bin.U32(data)
//	if errors.Is(err, cferrors.ErrEndOfInput) {
//	    // truncated input
//	}
package cferrors
