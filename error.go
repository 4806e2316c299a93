// Copyright (c) 2020-2022 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoinkey

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrCryptoInit is returned when the underlying curve library is unable
	// to set up a key, for example because the random source failed during
	// key generation.
	ErrCryptoInit = ErrorKind("ErrCryptoInit")

	// ErrInvalidKey is returned when imported key material does not describe
	// a usable secp256k1 key.  This covers public keys that do not decode to
	// a point on the curve as well as private scalars that are zero or not
	// less than the group order.
	ErrInvalidKey = ErrorKind("ErrInvalidKey")

	// ErrMalformedDER is returned when a serialized EC private key structure
	// can not be parsed.
	ErrMalformedDER = ErrorKind("ErrMalformedDER")

	// ErrEncoding is returned when a key component can not be serialized.
	ErrEncoding = ErrorKind("ErrEncoding")

	// ErrPrecondition is returned when an operation is invoked on a key that
	// lacks the component the operation requires, such as signing without a
	// private key or verifying without a public key.
	ErrPrecondition = ErrorKind("ErrPrecondition")

	// ErrInvalidArgument is returned when an argument has the wrong shape,
	// such as a digest that is not exactly 32 bytes.
	ErrInvalidArgument = ErrorKind("ErrInvalidArgument")

	// ErrVerification is returned when the signature verification primitive
	// itself fails.  A signature that simply does not verify is not an
	// error.
	ErrVerification = ErrorKind("ErrVerification")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to secp256k1 key material.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
