// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ModChain/bitcoinkey/base58"
	"github.com/davecgh/go-spew/spew"
	"pgregory.net/rapid"
)

// hexToBytes converts the passed hex string into bytes and will panic if
// there is an error.  This is only provided for the hard-coded constants so
// errors in the source code can be detected.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

const (
	uncompressedPubKey = "0450863ad64a87ae8a2fe83c1af1a8403cb53f53e486d8511dad8a04887e5b23522cd470243453a299fa9e77237716103abc11a1df38855ed6f2ee187e9c582ba6"
	compressedPubKey   = "0250863ad64a87ae8a2fe83c1af1a8403cb53f53e486d8511dad8a04887e5b2352"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name    string
		pubKey  string
		version Version
		payload string
		address string
	}{{
		name:    "uncompressed mainnet",
		pubKey:  uncompressedPubKey,
		version: MainNet,
		payload: "00010966776006953d5567439e5e39f86a0d273beed61967f6",
		address: "16UwLL9Risc3QfPqBUvKofHmBQ7wMtjvM",
	}, {
		name:    "compressed mainnet",
		pubKey:  compressedPubKey,
		version: MainNet,
		payload: "00f54a5851e9372b87810a8e60cdd2e7cfd80b6e31c7f18fe8",
		address: "1PMycacnJaSqwwJqjawXBErnLsZ7RkXUAs",
	}, {
		name:    "uncompressed testnet",
		pubKey:  uncompressedPubKey,
		version: TestNet,
		payload: "6f010966776006953d5567439e5e39f86a0d273bee85f8d86e",
		address: "mfcSEPR8EkJrpX91YkTJ9iscdAzppJrG9j",
	}}

	for _, test := range tests {
		p := DeriveWithVersion(hexToBytes(test.pubKey), test.version)
		if got := hex.EncodeToString(p.Bytes()); got != test.payload {
			t.Errorf("%s: unexpected payload -- got %s, want %s",
				test.name, got, test.payload)
			continue
		}
		if got := p.String(); got != test.address {
			t.Errorf("%s: unexpected address -- got %s, want %s",
				test.name, got, test.address)
			continue
		}
		if p.Version() != test.version {
			t.Errorf("%s: unexpected version -- got %v, want %v",
				test.name, p.Version(), test.version)
		}
	}

	// Derive uses the main network version.
	if Derive(hexToBytes(uncompressedPubKey)) !=
		DeriveWithVersion(hexToBytes(uncompressedPubKey), MainNet) {

		t.Errorf("Derive does not default to the main network")
	}
}

func TestHashes(t *testing.T) {
	h := Hash160(nil)
	if got := hex.EncodeToString(h[:]); got != "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb" {
		t.Errorf("unexpected hash160 of empty input: %s", got)
	}

	d := DoubleSHA256([]byte("hello"))
	want := "9595c9df90075148eb06860365df33584b75bff782a510c6cd4883a419833d50"
	if got := hex.EncodeToString(d[:]); got != want {
		t.Errorf("unexpected double sha256: got %s, want %s", got, want)
	}

	sum := Checksum([]byte("hello"))
	if !bytes.Equal(sum[:], d[:ChecksumLen]) {
		t.Errorf("checksum %x is not the prefix of %x", sum, d)
	}
}

func TestDecode(t *testing.T) {
	p, err := Decode("12c6DSiU4Rq3P4ZxziKxzrL5LmMBrzjrJX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := hexToBytes("00119b098e2e980a229e139a9ed01a469e518e6f2690afe11c")
	if !bytes.Equal(p.Bytes(), want) {
		t.Fatalf("unexpected payload -- got %x, want %x", p.Bytes(), want)
	}

	hash := p.Hash160()
	if !bytes.Equal(hash[:], want[1:21]) {
		t.Errorf("unexpected hash160 -- got %x, want %x", hash, want[1:21])
	}
	sum := p.Checksum()
	if !bytes.Equal(sum[:], want[21:]) {
		t.Errorf("unexpected checksum -- got %x, want %x", sum, want[21:])
	}
	if rebuilt := FromHash160(p.Version(), hash); rebuilt != p {
		t.Errorf("FromHash160 mismatch:\n%s", spew.Sdump(rebuilt, p))
	}
}

func TestDecodeErrors(t *testing.T) {
	good := hexToBytes("00119b098e2e980a229e139a9ed01a469e518e6f2690afe11c")

	badSum := append([]byte(nil), good...)
	badSum[len(badSum)-1] ^= 0x01

	tests := []struct {
		name string
		in   string
		err  error
	}{
		{"bad checksum", base58.Encode(badSum), ErrBadChecksum},
		{"short", base58.Encode(good[:24]), ErrInvalidLen},
		{"long", base58.Encode(append(good, 0x00)), ErrInvalidLen},
		{"empty", "", ErrInvalidLen},
		{"bad character", "12c6DSiU4Rq3P4ZxziKxzrL5LmMBrzjrJ0", base58.ErrInvalidCharacter},
	}

	for _, test := range tests {
		_, err := Decode(test.in)
		if !errors.Is(err, test.err) {
			t.Errorf("%s: mismatched err -- got %v, want %v", test.name,
				err, test.err)
		}
	}
}

// TestDecodeRoundTrip checks that every derived payload decodes back to
// itself.
func TestDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		version := Version(rapid.Byte().Draw(t, "version"))
		var hash [20]byte
		copy(hash[:], rapid.SliceOfN(rapid.Byte(), 20, 20).Draw(t, "hash"))

		p := FromHash160(version, hash)
		got, err := Decode(p.String())
		if err != nil {
			t.Fatalf("decode of %s failed: %v", p, err)
		}
		if got != p {
			t.Fatalf("round trip mismatch: got %x, want %x", got, p)
		}
	})
}
