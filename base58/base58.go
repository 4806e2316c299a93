// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package base58 implements the Bitcoin flavor of base58 encoding.
//
// Leading zero bytes map to leading '1' characters and back, so Decode is the
// exact inverse of Encode.  The checksum of Base58Check is left to the
// caller; see the address package.
package base58

import (
	"errors"
	"fmt"
	"math/big"
)

// Alphabet is the modified base58 alphabet used by Bitcoin.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const alphabetIdx0 = '1'

// ErrInvalidCharacter is returned by Decode when the input holds a character
// outside the alphabet anywhere but in leading or trailing whitespace.
var ErrInvalidCharacter = errors.New("invalid base58 character")

var bigRadix = big.NewInt(58)

// b58 maps an input byte to its alphabet index, or 255 when the byte is not
// part of the alphabet.
var b58 = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = 255
	}
	for i := 0; i < len(Alphabet); i++ {
		t[Alphabet[i]] = byte(i)
	}
	return t
}()

// isSpace reports whether c is ASCII whitespace: space, \t, \n, \v, \f or \r.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Encode encodes b as a base58 string.  An empty input encodes to the empty
// string and each leading zero byte encodes to one '1'.
func Encode(b []byte) string {
	x := new(big.Int).SetBytes(b)
	mod := new(big.Int)

	// log(256) / log(58) is just under 1.37.
	answer := make([]byte, 0, len(b)*137/100+1)
	for x.Sign() > 0 {
		x.DivMod(x, bigRadix, mod)
		answer = append(answer, Alphabet[mod.Int64()])
	}

	// Leading zero bytes are not part of the integer value.
	for _, i := range b {
		if i != 0 {
			break
		}
		answer = append(answer, alphabetIdx0)
	}

	for i, j := 0, len(answer)-1; i < j; i, j = i+1, j-1 {
		answer[i], answer[j] = answer[j], answer[i]
	}

	return string(answer)
}

// Decode decodes a base58 string.  Leading and trailing whitespace is
// ignored.  Any other character outside the alphabet yields an error
// wrapping ErrInvalidCharacter.
func Decode(s string) ([]byte, error) {
	start := 0
	for start < len(s) && isSpace(s[start]) {
		start++
	}

	numZeros := 0
	for start+numZeros < len(s) && s[start+numZeros] == alphabetIdx0 {
		numZeros++
	}

	answer := new(big.Int)
	scratch := new(big.Int)
	for i := start + numZeros; i < len(s); i++ {
		c := s[i]
		idx := b58[c]
		if idx == 255 {
			if isSpace(c) && trailingSpace(s[i:]) {
				break
			}
			return nil, fmt.Errorf("%w %q at offset %d",
				ErrInvalidCharacter, c, i)
		}

		answer.Mul(answer, bigRadix)
		scratch.SetInt64(int64(idx))
		answer.Add(answer, scratch)
	}

	// big.Int.Bytes yields the minimal unsigned magnitude, which never
	// carries a sign byte.
	tmp := answer.Bytes()
	val := make([]byte, numZeros+len(tmp))
	copy(val[numZeros:], tmp)

	return val, nil
}

// trailingSpace reports whether s consists of whitespace only.
func trailingSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			return false
		}
	}
	return true
}
