// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package bitcoinkey manages secp256k1 key pairs the way Bitcoin style wallets
and nodes use them.

A Key holds a private scalar and a public point independently of each other.
Either component can be imported on its own, so a Key may be empty, public
only, private only or full.  The package never checks that an imported public
point matches an imported private scalar; Regenerate recomputes the public
point when that is required.

An overview of the features provided by this package are as follows:

  - Key generation from crypto/rand or a caller supplied source
  - Import and export of the private scalar as 32 big-endian bytes
  - Import of compressed, uncompressed and hybrid public keys, exported back
    in the form they were imported with
  - Serialization to and parsing from the RFC 5915 ECPrivateKey DER
    structure, including the explicit curve parameters form written by old
    wallets
  - ECDSA signing with a fresh random nonce per signature, producing DER
    signatures with a low S value
  - ECDSA verification that treats unparsable signatures as invalid and
    tolerates a trailing hash type byte
  - An AsyncVerifier that checks signatures on a bounded worker pool and
    delivers results to callbacks on a single goroutine

Errors returned by this package are of type Error and carry an ErrorKind, so
callers can match them with errors.Is:

	if _, err := key.Sign(digest); errors.Is(err, bitcoinkey.ErrPrecondition) {
		// The key has no private component.
	}

The address, base58 and midstate sub packages provide the identifier and
proof of work helpers that go along with the keys.

Logging is disabled by default.  Call UseLogger to route the package's log
output to a btclog backend.
*/
package bitcoinkey
