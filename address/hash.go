// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/ripemd160"
)

// Hash160 returns RIPEMD160(SHA256(b)).
func Hash160(b []byte) [ripemd160.Size]byte {
	rmd := ripemd160.New()
	rmd.Write(chainhash.HashB(b))

	var h [ripemd160.Size]byte
	copy(h[:], rmd.Sum(nil))
	return h
}

// DoubleSHA256 returns SHA256(SHA256(b)).
func DoubleSHA256(b []byte) [chainhash.HashSize]byte {
	return chainhash.DoubleHashH(b)
}

// Checksum returns the first ChecksumLen bytes of DoubleSHA256(b).
func Checksum(b []byte) [ChecksumLen]byte {
	var sum [ChecksumLen]byte
	copy(sum[:], chainhash.DoubleHashB(b))
	return sum
}
