// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package midstate exposes the SHA-256 chaining state after the first 64 byte
// block of a message, as handed to getwork style miners that only vary the
// tail of a block header.
package midstate

import (
	"crypto/sha256"
	"encoding"
	"encoding/binary"
	"fmt"
)

const (
	// BlockSize is the SHA-256 block size in bytes.
	BlockSize = sha256.BlockSize

	// Size is the length of a midstate, eight 32 bit words.
	Size = sha256.Size

	// magic256 and marshaledSize describe the state serialization of
	// crypto/sha256: magic, eight big-endian words, the pending block and
	// the big-endian message length.
	magic256      = "sha\x03"
	marshaledSize = len(magic256) + Size + BlockSize + 8
)

// Pad appends SHA-256 padding to data: a 0x80 byte, zeros, and the message
// length in bits as a 32 bit big-endian integer in the last four bytes.  The
// result is a whole number of blocks with at least one byte to spare for the
// length.
func Pad(data []byte) []byte {
	blocks := 1 + (len(data)+8)/BlockSize
	out := make([]byte, blocks*BlockSize)
	copy(out, data)
	out[len(data)] = 0x80
	binary.BigEndian.PutUint32(out[len(out)-4:], uint32(len(data)*8))
	return out
}

// Compute pads data and runs the compression function over the first block
// only.  The eight resulting state words are returned in order, each in
// little-endian byte order.
func Compute(data []byte) [Size]byte {
	padded := Pad(data)

	h := sha256.New()
	h.Write(padded[:BlockSize])

	state, err := h.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil || len(state) != marshaledSize ||
		string(state[:len(magic256)]) != magic256 {

		panic(fmt.Sprintf("unexpected sha256 state encoding: %v", err))
	}

	var mid [Size]byte
	words := state[len(magic256) : len(magic256)+Size]
	for i := 0; i < Size; i += 4 {
		binary.LittleEndian.PutUint32(mid[i:],
			binary.BigEndian.Uint32(words[i:]))
	}
	return mid
}

// Words returns the state words of a midstate produced by Compute.
func Words(mid [Size]byte) [8]uint32 {
	var w [8]uint32
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(mid[i*4:])
	}
	return w
}

// Finish resumes hashing from a midstate produced by Compute and returns the
// SHA-256 digest of the original message, given the message bytes that
// follow its first block.
func Finish(mid [Size]byte, tail []byte) ([Size]byte, error) {
	state := make([]byte, 0, marshaledSize)
	state = append(state, magic256...)
	for _, w := range Words(mid) {
		state = binary.BigEndian.AppendUint32(state, w)
	}
	state = append(state, make([]byte, BlockSize)...)
	state = binary.BigEndian.AppendUint64(state, BlockSize)

	h := sha256.New()
	err := h.(encoding.BinaryUnmarshaler).UnmarshalBinary(state)
	if err != nil {
		return [Size]byte{}, fmt.Errorf("unable to resume sha256 "+
			"state: %w", err)
	}
	h.Write(tail)

	var digest [Size]byte
	copy(digest[:], h.Sum(nil))
	return digest, nil
}
