// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/ripemd160"
)

// Hash160 is a 20-byte script or account identifier obtained by hashing a
// script with SHA-256 followed by RIPEMD-160.
type Hash160 [20]byte

// Hash256 is a 32-byte SHA-256 based identifier used for blocks and
// transactions.
type Hash256 [32]byte

func (h Hash160) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

func (h Hash160) MarshalText() ([]byte, error) {
	return bytesToText(h[:])
}

func (h *Hash160) UnmarshalText(data []byte) error {
	return textToBytes(h[:], data)
}

func (h Hash256) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

func (h Hash256) MarshalText() ([]byte, error) {
	return bytesToText(h[:])
}

func (h *Hash256) UnmarshalText(data []byte) error {
	return textToBytes(h[:], data)
}

func bytesToText(data []byte) ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", data)), nil
}

func textToBytes(trg []byte, data []byte) error {
	s := string(data)
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("invalid format, does not start with 0x: %v", s)
	}
	data, err := hex.DecodeString(s[2:])
	if err != nil {
		return err
	}
	if want, got := len(trg), len(data); want != got {
		return fmt.Errorf("invalid format, wanted %d bytes, got %d", want, got)
	}
	copy(trg, data)
	return nil
}

// Sha256 computes the SHA-256 hash of the given data.
func Sha256(data []byte) Hash256 {
	return sha256.Sum256(data)
}

// DoubleSha256 computes SHA-256 applied twice, as used for block and
// transaction identifiers.
func DoubleSha256(data []byte) Hash256 {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// RipeMD160 computes the RIPEMD-160 hash of the given data.
func RipeMD160(data []byte) (res Hash160) {
	h := ripemd160.New()
	h.Write(data)
	copy(res[:], h.Sum(nil))
	return res
}

// Hash160FromScript derives the identifying 20-byte hash of a script as
// RIPEMD-160 over the SHA-256 digest of the script bytes.
func Hash160FromScript(script []byte) Hash160 {
	digest := sha256.Sum256(script)
	return RipeMD160(digest[:])
}
