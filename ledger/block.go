// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/helixchain/helixvm/hash"
)

// SecondsPerBlock is the target interval between consecutive blocks. It is
// used when synthesizing a placeholder persisting block for direct script
// evaluations.
const SecondsPerBlock = 15

// Witness is an invocation/verification script pair attesting a block or
// transaction.
type Witness struct {
	Invocation   []byte
	Verification []byte
}

// Transaction is a signed script scheduled for execution.
type Transaction struct {
	Version byte
	Script  []byte
	Witness Witness
}

// Hash returns the identifying hash of the transaction.
func (t *Transaction) Hash() hash.Hash256 {
	b := bytes.Buffer{}
	b.WriteByte(t.Version)
	writeBytes(&b, t.Script)
	return hash.DoubleSha256(b.Bytes())
}

// Block is a block header together with its transactions.
type Block struct {
	Version       uint32
	PrevHash      hash.Hash256
	MerkleRoot    hash.Hash256
	Timestamp     uint64
	Index         uint32
	NextConsensus hash.Hash160
	Witness       Witness
	Transactions  []Transaction
}

// Hash returns the identifying hash of the block, computed over the header
// fields only.
func (b *Block) Hash() hash.Hash256 {
	return hash.DoubleSha256(b.headerBytes())
}

func (b *Block) headerBytes() []byte {
	buf := bytes.Buffer{}
	binary.Write(&buf, binary.LittleEndian, b.Version)
	buf.Write(b.PrevHash[:])
	buf.Write(b.MerkleRoot[:])
	binary.Write(&buf, binary.LittleEndian, b.Timestamp)
	binary.Write(&buf, binary.LittleEndian, b.Index)
	buf.Write(b.NextConsensus[:])
	return buf.Bytes()
}

// MarshalBinary encodes the block including witness and transactions.
func (b *Block) MarshalBinary() ([]byte, error) {
	buf := bytes.Buffer{}
	buf.Write(b.headerBytes())
	writeBytes(&buf, b.Witness.Invocation)
	writeBytes(&buf, b.Witness.Verification)
	binary.Write(&buf, binary.LittleEndian, uint32(len(b.Transactions)))
	for _, tx := range b.Transactions {
		buf.WriteByte(tx.Version)
		writeBytes(&buf, tx.Script)
		writeBytes(&buf, tx.Witness.Invocation)
		writeBytes(&buf, tx.Witness.Verification)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a block encoded by MarshalBinary.
func (b *Block) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &b.Version); err != nil {
		return fmt.Errorf("reading block version: %w", err)
	}
	if _, err := r.Read(b.PrevHash[:]); err != nil {
		return fmt.Errorf("reading previous hash: %w", err)
	}
	if _, err := r.Read(b.MerkleRoot[:]); err != nil {
		return fmt.Errorf("reading merkle root: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &b.Timestamp); err != nil {
		return fmt.Errorf("reading timestamp: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &b.Index); err != nil {
		return fmt.Errorf("reading index: %w", err)
	}
	if _, err := r.Read(b.NextConsensus[:]); err != nil {
		return fmt.Errorf("reading next consensus: %w", err)
	}
	var err error
	if b.Witness.Invocation, err = readBytes(r); err != nil {
		return fmt.Errorf("reading witness: %w", err)
	}
	if b.Witness.Verification, err = readBytes(r); err != nil {
		return fmt.Errorf("reading witness: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("reading transaction count: %w", err)
	}
	b.Transactions = make([]Transaction, count)
	for i := range b.Transactions {
		tx := &b.Transactions[i]
		version, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("reading transaction version: %w", err)
		}
		tx.Version = version
		if tx.Script, err = readBytes(r); err != nil {
			return fmt.Errorf("reading transaction script: %w", err)
		}
		if tx.Witness.Invocation, err = readBytes(r); err != nil {
			return fmt.Errorf("reading transaction witness: %w", err)
		}
		if tx.Witness.Verification, err = readBytes(r); err != nil {
			return fmt.Errorf("reading transaction witness: %w", err)
		}
	}
	return nil
}

func writeBytes(buf *bytes.Buffer, data []byte) {
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if int(length) > r.Len() {
		return nil, fmt.Errorf("declared length %d exceeds remaining data", length)
	}
	if length == 0 {
		return nil, nil
	}
	data := make([]byte, length)
	if _, err := r.Read(data); err != nil {
		return nil, err
	}
	return data, nil
}
