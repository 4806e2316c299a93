// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import "fmt"

// Version is the leading byte of an address payload.
type Version byte

const (
	MainNet Version = 0x00
	TestNet Version = 0x6f
)

// String returns the network the version belongs to.
func (v Version) String() string {
	switch v {
	case MainNet:
		return "mainnet"
	case TestNet:
		return "testnet"
	}
	return fmt.Sprintf("version 0x%02x", byte(v))
}
