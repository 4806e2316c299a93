// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"errors"
)

var (
	ErrBadChecksum = errors.New("bad address checksum")
	ErrInvalidLen  = errors.New("address payload length is invalid")
)
