package codec

import "fmt"

// ValidationError reports malformed or out-of-range input. The write is
// never attempted; the same input always reproduces the same error.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %q (value %q): %s", e.Field, e.Value, e.Reason)
}

// EncodingError reports a value that cannot be losslessly represented by
// its declared codec.
type EncodingError struct {
	Field  string
	Value  string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode field %q (value %q): %s", e.Field, e.Value, e.Reason)
}

// DecryptionError reports a secret-codec authentication failure: the
// ciphertext was tampered with or the passphrase is wrong. Reads fail
// closed; no default value is ever substituted.
type DecryptionError struct {
	Field  string
	Reason string
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("cannot decrypt field %q: %s", e.Field, e.Reason)
}
