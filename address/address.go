// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package address derives pay-to-pubkey-hash style addresses from public
// keys.
//
// A payload is 25 bytes: a version byte, the 20 byte HASH160 of the public
// key and the first four bytes of the double SHA-256 of the preceding 21
// bytes.  Its String form is the base58 encoding of those 25 bytes.
package address

import (
	"fmt"

	"github.com/ModChain/bitcoinkey/base58"
	"golang.org/x/crypto/ripemd160"
)

const (
	// ChecksumLen is the number of checksum bytes ending a payload.
	ChecksumLen = 4

	// PayloadLen is the length of a complete payload.
	PayloadLen = 1 + ripemd160.Size + ChecksumLen

	checksumOffset = PayloadLen - ChecksumLen
)

// Payload is a versioned, checksummed public key hash.
type Payload [PayloadLen]byte

// Derive returns the MainNet payload for a serialized public key.  The hash
// covers the bytes as given, so the compressed and uncompressed encodings of
// one point yield different addresses.
func Derive(pubKey []byte) Payload {
	return DeriveWithVersion(pubKey, MainNet)
}

// DeriveWithVersion is like Derive with an explicit version byte.
func DeriveWithVersion(pubKey []byte, version Version) Payload {
	return FromHash160(version, Hash160(pubKey))
}

// FromHash160 builds the payload for an already computed public key hash.
func FromHash160(version Version, hash [ripemd160.Size]byte) Payload {
	var p Payload
	p[0] = byte(version)
	copy(p[1:checksumOffset], hash[:])

	sum := Checksum(p[:checksumOffset])
	copy(p[checksumOffset:], sum[:])

	return p
}

// Decode parses the base58 form of a payload and checks its checksum.
func Decode(s string) (Payload, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Payload{}, err
	}
	if len(b) != PayloadLen {
		return Payload{}, fmt.Errorf("%w: got %d bytes, want %d",
			ErrInvalidLen, len(b), PayloadLen)
	}

	var p Payload
	copy(p[:], b)
	if Checksum(p[:checksumOffset]) != p.Checksum() {
		return Payload{}, ErrBadChecksum
	}

	return p, nil
}

// Version returns the version byte.
func (p Payload) Version() Version {
	return Version(p[0])
}

// Hash160 returns the public key hash.
func (p Payload) Hash160() [ripemd160.Size]byte {
	var h [ripemd160.Size]byte
	copy(h[:], p[1:checksumOffset])
	return h
}

// Checksum returns the trailing checksum bytes.
func (p Payload) Checksum() [ChecksumLen]byte {
	var sum [ChecksumLen]byte
	copy(sum[:], p[checksumOffset:])
	return sum
}

// Bytes returns a copy of the raw 25 bytes.
func (p Payload) Bytes() []byte {
	return append([]byte(nil), p[:]...)
}

// String returns the base58 encoded address.
func (p Payload) String() string {
	return base58.Encode(p[:])
}
