// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoinkey

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// PrivKeyBytesLen is the length of a serialized private scalar.
	PrivKeyBytesLen = 32

	// DigestLen is the only digest length accepted by Sign and Verify.
	DigestLen = 32
)

// State describes which components a Key currently holds.
type State uint8

const (
	// StateEmpty is a key with neither a private nor a public component.
	StateEmpty State = iota

	// StatePublicOnly is a key that can verify but not sign.
	StatePublicOnly

	// StatePrivateOnly is a key that can sign but has no public component
	// until Regenerate or SetPublic is called.
	StatePrivateOnly

	// StateFull is a key holding both components.
	StateFull
)

// String returns the State as a human-readable name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePublicOnly:
		return "public-only"
	case StatePrivateOnly:
		return "private-only"
	case StateFull:
		return "full"
	default:
		return fmt.Sprintf("unknown state (%d)", uint8(s))
	}
}

// pubKeyFormat is the octet encoding a public key was imported with.  It is
// kept so the key serializes back to the same form.
type pubKeyFormat uint8

const (
	pubKeyUncompressed pubKeyFormat = iota
	pubKeyCompressed
	pubKeyHybrid
)

const (
	pubKeyCompressedEven byte = 0x02
	pubKeyCompressedOdd  byte = 0x03
	pubKeyHybridEven     byte = 0x06
	pubKeyHybridOdd      byte = 0x07
)

// publicComponent is a parsed public point along with its encoding.
type publicComponent struct {
	key    *secp256k1.PublicKey
	format pubKeyFormat
}

// serialize returns the point in the octet form it was imported with.
func (p publicComponent) serialize() []byte {
	switch p.format {
	case pubKeyCompressed:
		return p.key.SerializeCompressed()

	case pubKeyHybrid:
		b := p.key.SerializeUncompressed()
		b[0] = pubKeyHybridEven | b[len(b)-1]&0x01
		return b

	default:
		return p.key.SerializeUncompressed()
	}
}

// keyState is the sealed set of states a Key can be in.  Values are never
// mutated once built, so a snapshot of one remains valid after the owning Key
// moves on to another state.
type keyState interface {
	state() State
}

type emptyState struct{}

type publicOnly struct {
	pub publicComponent
}

type privateOnly struct {
	priv *secp256k1.PrivateKey
}

// fullState holds both components.  Nothing checks that pub equals priv*G:
// a caller may combine an arbitrary private scalar with an arbitrary public
// point through SetPrivate and SetPublic.
type fullState struct {
	priv *secp256k1.PrivateKey
	pub  publicComponent
}

func (emptyState) state() State  { return StateEmpty }
func (publicOnly) state() State  { return StatePublicOnly }
func (privateOnly) state() State { return StatePrivateOnly }
func (fullState) state() State   { return StateFull }

// privateOf returns the private component of s, if any.
func privateOf(s keyState) (*secp256k1.PrivateKey, bool) {
	switch s := s.(type) {
	case privateOnly:
		return s.priv, true
	case fullState:
		return s.priv, true
	}
	return nil, false
}

// publicOf returns the public component of s, if any.
func publicOf(s keyState) (publicComponent, bool) {
	switch s := s.(type) {
	case publicOnly:
		return s.pub, true
	case fullState:
		return s.pub, true
	}
	return publicComponent{}, false
}

// withPrivate returns the state reached by installing priv into s.  Any public
// component is carried over untouched.
func withPrivate(s keyState, priv *secp256k1.PrivateKey) keyState {
	if pub, ok := publicOf(s); ok {
		return fullState{priv: priv, pub: pub}
	}
	return privateOnly{priv: priv}
}

// withPublic returns the state reached by installing pub into s.  Any private
// component is carried over untouched.
func withPublic(s keyState, pub publicComponent) keyState {
	if priv, ok := privateOf(s); ok {
		return fullState{priv: priv, pub: pub}
	}
	return publicOnly{pub: pub}
}

// Key is a secp256k1 key pair whose private and public components may be
// present independently of each other.
//
// The zero value is an empty key ready to use.  A Key must only be mutated
// from one goroutine at a time; AsyncVerifier snapshots the state at
// submission so in-flight verifications never observe later mutation.
type Key struct {
	state keyState
}

// NewKey returns an empty key.
func NewKey() *Key {
	return &Key{state: emptyState{}}
}

// NewKeyFromPrivateKey wraps an already built private key.  The public
// component is derived from it, so the returned key is full.
func NewKeyFromPrivateKey(priv *secp256k1.PrivateKey) *Key {
	return &Key{state: fullState{
		priv: priv,
		pub:  publicComponent{key: priv.PubKey()},
	}}
}

// GenerateKey returns a fresh, full key pair using crypto/rand.
func GenerateKey() (*Key, error) {
	return GenerateKeyFromRand(rand.Reader)
}

// GenerateKeyFromRand returns a fresh, full key pair using the provided
// source of randomness.
func GenerateKeyFromRand(rand io.Reader) (*Key, error) {
	priv, err := secp256k1.GeneratePrivateKeyFromRand(rand)
	if err != nil {
		str := fmt.Sprintf("unable to generate private key: %v", err)
		log.Errorf("Key generation failed: %v", err)
		return nil, makeError(ErrCryptoInit, str)
	}
	return NewKeyFromPrivateKey(priv), nil
}

// current returns the state of the key, treating the zero value as empty.
func (k *Key) current() keyState {
	if k.state == nil {
		return emptyState{}
	}
	return k.state
}

// State returns which components the key holds.
func (k *Key) State() State {
	return k.current().state()
}

// HasPrivate returns whether the key holds a private scalar.
func (k *Key) HasPrivate() bool {
	_, ok := privateOf(k.current())
	return ok
}

// HasPublic returns whether the key holds a public point.
func (k *Key) HasPublic() bool {
	_, ok := publicOf(k.current())
	return ok
}

// Private returns the private scalar left padded to PrivKeyBytesLen bytes, or
// None when the key has no private component.
func (k *Key) Private() fn.Option[[]byte] {
	priv, ok := privateOf(k.current())
	if !ok {
		return fn.None[[]byte]()
	}
	return fn.Some(priv.Serialize())
}

// SetPrivate imports a big-endian private scalar of at most PrivKeyBytesLen
// bytes.  The public component, if any, is left as is.
func (k *Key) SetPrivate(b []byte) error {
	if len(b) > PrivKeyBytesLen {
		str := fmt.Sprintf("private key is %d bytes, must be at most %d",
			len(b), PrivKeyBytesLen)
		return makeError(ErrInvalidArgument, str)
	}

	var padded [PrivKeyBytesLen]byte
	copy(padded[PrivKeyBytesLen-len(b):], b)

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetBytes(&padded); overflow != 0 {
		str := "private key is not less than the secp256k1 group order"
		return makeError(ErrInvalidKey, str)
	}
	if scalar.IsZero() {
		return makeError(ErrInvalidKey, "private key is zero")
	}

	k.state = withPrivate(k.current(), secp256k1.NewPrivateKey(&scalar))
	return nil
}

// Public returns the public point in the octet encoding it was imported with,
// or None when the key has no public component.  Generated and regenerated
// keys use the uncompressed encoding.
func (k *Key) Public() fn.Option[[]byte] {
	pub, ok := publicOf(k.current())
	if !ok {
		return fn.None[[]byte]()
	}
	return fn.Some(pub.serialize())
}

// SetPublic imports a public point in compressed, uncompressed or hybrid
// octet encoding.  The private component, if any, is left as is.
func (k *Key) SetPublic(b []byte) error {
	pub, err := parsePublicComponent(b)
	if err != nil {
		return err
	}

	k.state = withPublic(k.current(), pub)
	return nil
}

// parsePublicComponent decodes an octet encoded point and records the form it
// arrived in.
func parsePublicComponent(b []byte) (publicComponent, error) {
	key, err := secp256k1.ParsePubKey(b)
	if err != nil {
		str := fmt.Sprintf("malformed public key: %v", err)
		return publicComponent{}, makeError(ErrInvalidKey, str)
	}

	format := pubKeyUncompressed
	switch b[0] {
	case pubKeyCompressedEven, pubKeyCompressedOdd:
		format = pubKeyCompressed
	case pubKeyHybridEven, pubKeyHybridOdd:
		format = pubKeyHybrid
	}

	return publicComponent{key: key, format: format}, nil
}

// Regenerate recomputes the public point from the private scalar and leaves
// the key full.  Any public point set before is replaced.
func (k *Key) Regenerate() error {
	priv, ok := privateOf(k.current())
	if !ok {
		return makeError(ErrPrecondition, "private key required")
	}

	// Build the complete replacement before swapping it in.
	next := fullState{
		priv: priv,
		pub:  publicComponent{key: priv.PubKey()},
	}
	k.state = next

	return nil
}
