// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package base58

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	mrbase58 "github.com/mr-tron/base58"
	"pgregory.net/rapid"
)

var hexTests = []struct {
	in  string
	out string
}{
	{"", ""},
	{"61", "2g"},
	{"626262", "a3gV"},
	{"636363", "aPEr"},
	{"73696d706c792061206c6f6e6720737472696e67", "2cFupjhnEsSn59qHXstmK2ffpLv2"},
	{"00eb15231dfceb60925886b67d065299925915aeb172c06647", "1NS17iag9jJgTHD1VXjvLCEnZuQ3rJDE9L"},
	{"516b6fcd0f", "ABnLTmg"},
	{"bf4f89001e670274dd", "3SEo3LWLoPntC"},
	{"572e4794", "3EFU7m"},
	{"ecac89cad93923c02321", "EJDM8drfXA6uyA"},
	{"10c8511e", "Rt5zm"},
	{"00000000000000000000", "1111111111"},
	{"0001", "12"},
}

func TestBase58(t *testing.T) {
	for x, test := range hexTests {
		b, err := hex.DecodeString(test.in)
		if err != nil {
			t.Fatalf("hex.DecodeString failed failed #%d: got: %s", x, test.in)
		}

		if res := Encode(b); res != test.out {
			t.Errorf("Encode test #%d failed: got %s, want: %s",
				x, res, test.out)
			continue
		}

		res, err := Decode(test.out)
		if err != nil {
			t.Errorf("Decode test #%d failed: %v", x, err)
			continue
		}
		if !bytes.Equal(res, b) {
			t.Errorf("Decode test #%d failed: got: %x want: %x",
				x, res, b)
		}
	}
}

func TestDecodeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading", " \t\n2g", "61"},
		{"trailing", "2g \r\n\v\f", "61"},
		{"both", "  a3gV  ", "626262"},
		{"zeros", " 11 ", "0000"},
		{"only whitespace", " \t ", ""},
	}

	for _, test := range tests {
		got, err := Decode(test.in)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if hex.EncodeToString(got) != test.want {
			t.Errorf("%s: got %x, want %s", test.name, got, test.want)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"zero", "0"},
		{"upper O", "O"},
		{"upper I", "I"},
		{"lower l", "l"},
		{"embedded space", "2 g"},
		{"text after trailing space", "2g x"},
		{"zeros then space", "1 1"},
		{"punctuation", "3EFU7m!"},
		{"non ascii", "2gé"},
	}

	for _, test := range tests {
		_, err := Decode(test.in)
		if !errors.Is(err, ErrInvalidCharacter) {
			t.Errorf("%s: got error %v, want %v", test.name, err,
				ErrInvalidCharacter)
		}
	}
}

// TestRoundTrip checks that Decode inverts Encode for arbitrary input,
// including leading zero bytes.
func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		zeros := rapid.IntRange(0, 4).Draw(t, "zeros")
		tail := rapid.SliceOf(rapid.Byte()).Draw(t, "tail")
		b := append(make([]byte, zeros), tail...)

		got, err := Decode(Encode(b))
		if err != nil {
			t.Fatalf("decode of %x failed: %v", b, err)
		}
		if !bytes.Equal(got, b) {
			t.Fatalf("round trip of %x gave %x", b, got)
		}
	})
}

// TestEncodeMatchesReference compares Encode against an independent
// implementation.
func TestEncodeMatchesReference(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := rapid.SliceOfN(rapid.Byte(), 1, 64).Draw(t, "b")

		if got, want := Encode(b), mrbase58.Encode(b); got != want {
			t.Fatalf("Encode(%x) = %s, want %s", b, got, want)
		}
	})
}
