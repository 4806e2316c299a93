// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoinkey

import (
	"crypto"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// asn1SequenceID is the leading byte of a DER encoded signature.
const asn1SequenceID = 0x30

// Sign produces a DER encoded ECDSA signature over a 32 byte digest using a
// fresh random nonce from crypto/rand.  Two calls over the same digest yield
// different, equally valid signatures.  The S value is always in the lower
// half of the group order.
func (k *Key) Sign(digest []byte) ([]byte, error) {
	return k.SignWithRand(rand.Reader, digest)
}

// SignWithRand is like Sign but draws the nonce from the provided source of
// randomness.
func (k *Key) SignWithRand(rand io.Reader, digest []byte) ([]byte, error) {
	priv, ok := privateOf(k.current())
	if !ok {
		return nil, makeError(ErrPrecondition, "signing requires a "+
			"private key")
	}
	if err := checkDigest(digest); err != nil {
		return nil, err
	}

	sig, err := signRandomNonce(rand, priv, digest)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

// checkDigest enforces the digest length accepted by Sign and Verify.
func checkDigest(digest []byte) error {
	if len(digest) != DigestLen {
		str := fmt.Sprintf("digest must be %d bytes, got %d", DigestLen,
			len(digest))
		return makeError(ErrInvalidArgument, str)
	}
	return nil
}

// signRandomNonce computes s = k^-1 (e + r*d) mod N with a nonce k drawn from
// rand, retrying until both r and s are non-zero.
func signRandomNonce(rand io.Reader, priv *secp256k1.PrivateKey,
	hash []byte) (*ecdsa.Signature, error) {

	var e secp256k1.ModNScalar
	e.SetByteSlice(hash)

	for {
		nonce, err := secp256k1.GeneratePrivateKeyFromRand(rand)
		if err != nil {
			str := fmt.Sprintf("unable to generate signature nonce: %v",
				err)
			return nil, makeError(ErrCryptoInit, str)
		}

		// R = kG, r = R.x mod N.
		var point secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(&nonce.Key, &point)
		point.ToAffine()
		point.X.Normalize()

		var r secp256k1.ModNScalar
		r.SetBytes(point.X.Bytes())
		if r.IsZero() {
			nonce.Zero()
			continue
		}

		var kinv, s secp256k1.ModNScalar
		kinv.InverseValNonConst(&nonce.Key)
		s.Mul2(&priv.Key, &r).Add(&e).Mul(&kinv)
		nonce.Zero()
		if s.IsZero() {
			continue
		}

		return ecdsa.NewSignature(&r, &s), nil
	}
}

// Verify reports whether sig is a valid DER encoded signature over the 32 byte
// digest for the public component of the key.
//
// A signature that does not parse is reported as invalid rather than as an
// error.  A signature followed by extra bytes, such as the hash type byte
// found in scripts, is checked over the length its DER header declares.
func (k *Key) Verify(digest, sig []byte) (bool, error) {
	pub, ok := publicOf(k.current())
	if !ok {
		return false, makeError(ErrPrecondition, "verification requires "+
			"a public key")
	}
	if err := checkDigest(digest); err != nil {
		return false, err
	}

	return verifySignature(pub.key, digest, sig)
}

// verifySignature runs the verification primitive.  A failure inside the
// primitive itself is reported as ErrVerification.
func verifySignature(pub *secp256k1.PublicKey, digest,
	sig []byte) (valid bool, err error) {

	defer func() {
		if r := recover(); r != nil {
			valid = false
			err = makeError(ErrVerification, fmt.Sprintf("signature "+
				"verification failed: %v", r))
		}
	}()

	parsed, perr := parseSignature(sig)
	if perr != nil {
		log.Tracef("Treating unparsable signature as invalid: %v", perr)
		return false, nil
	}

	return parsed.Verify(digest, pub), nil
}

// parseSignature parses a DER signature, falling back to the length declared
// in the sequence header when trailing bytes follow it.
func parseSignature(sig []byte) (*ecdsa.Signature, error) {
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err == nil {
		return parsed, nil
	}

	if len(sig) < 2 || sig[0] != asn1SequenceID {
		return nil, err
	}
	declared := int(sig[1]) + 2
	if declared >= len(sig) {
		return nil, err
	}

	return ecdsa.ParseDERSignature(sig[:declared])
}

// SignOptions carries the options of a crypto.Signer call.  Only a
// pre-computed 32 byte digest is ever signed, so the hash function is
// informational.
type SignOptions struct {
	Hash crypto.Hash
}

// HashFunc returns the hash function used to compute the digest.
func (s *SignOptions) HashFunc() crypto.Hash {
	return s.Hash
}

// keySigner exposes a full key through crypto.Signer.
type keySigner struct {
	key *Key
	pub crypto.PublicKey
}

// Signer returns a crypto.Signer backed by the key.  The key must hold both
// components.
func (k *Key) Signer() (crypto.Signer, error) {
	full, ok := k.current().(fullState)
	if !ok {
		str := fmt.Sprintf("signer requires a full key, key is %v",
			k.State())
		return nil, makeError(ErrPrecondition, str)
	}

	return &keySigner{key: k, pub: full.pub.key.ToECDSA()}, nil
}

// Public returns the public key as a *crypto/ecdsa.PublicKey.
func (s *keySigner) Public() crypto.PublicKey {
	return s.pub
}

// Sign signs the provided digest, returning the DER encoded signature.  A nil
// rand falls back to crypto/rand.
func (s *keySigner) Sign(rand io.Reader, digest []byte,
	_ crypto.SignerOpts) ([]byte, error) {

	if rand == nil {
		return s.key.Sign(digest)
	}
	return s.key.SignWithRand(rand, digest)
}
