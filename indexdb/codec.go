// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package indexdb

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/evmindex/database"
	"github.com/ava-labs/evmindex/ids"
	"github.com/ava-labs/evmindex/utils/wrappers"
)

const (
	hashLen       = 32
	checkpointLen = hashLen + wrappers.LongLen
	recordLen     = 2*hashLen + wrappers.IntLen
)

// ErrDecode is returned when stored bytes don't decode exactly into the
// expected value.
var ErrDecode = errors.New("couldn't decode stored value")

type hash interface {
	~[hashLen]byte
}

func packHash[T hash](p *wrappers.Packer, h T) {
	p.PackFixedBytes(h[:])
}

func unpackHash[T hash](p *wrappers.Packer) T {
	var h T
	copy(h[:], p.UnpackFixedBytes(hashLen))
	return h
}

// finish reports the first unpacking error, or an error if [p] wasn't fully
// consumed.
func finish(p *wrappers.Packer, what string) error {
	if p.Err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, what, p.Err)
	}
	if remaining := p.Remaining(); remaining != 0 {
		return fmt.Errorf("%w: %s: %d trailing bytes", ErrDecode, what, remaining)
	}
	return nil
}

// unpackCount reads a list length and checks that [p] holds at least that
// many entries of [entryLen] bytes.
func unpackCount(p *wrappers.Packer, entryLen int) int {
	count := p.UnpackInt()
	if p.Errored() {
		return 0
	}
	if uint64(count)*uint64(entryLen) > uint64(p.Remaining()) {
		p.Add(wrappers.ErrInsufficientLength)
		return 0
	}
	return int(count)
}

func encodeHash[T hash](h T) []byte {
	b := make([]byte, hashLen)
	copy(b, h[:])
	return b
}

func decodeHash[T hash](b []byte, what string) (T, error) {
	p := wrappers.Packer{Bytes: b}
	h := unpackHash[T](&p)
	return h, finish(&p, what)
}

func encodeNumber(number uint64) []byte {
	return database.PackUInt64(number)
}

func encodeCheckpoint(c Checkpoint) []byte {
	p := wrappers.NewPacker(checkpointLen)
	packHash(p, c.Hash)
	p.PackLong(c.Number)
	return p.Bytes
}

func decodeCheckpoint(b []byte) (Checkpoint, error) {
	p := wrappers.Packer{Bytes: b}
	c := Checkpoint{
		Hash:   unpackHash[ids.ID](&p),
		Number: p.UnpackLong(),
	}
	return c, finish(&p, "checkpoint")
}

func encodeHashes[T hash](hashes []T) []byte {
	p := wrappers.NewPacker(wrappers.IntLen + len(hashes)*hashLen)
	p.PackInt(uint32(len(hashes)))
	for _, h := range hashes {
		packHash(p, h)
	}
	return p.Bytes
}

func decodeHashes[T hash](b []byte, what string) ([]T, error) {
	p := wrappers.Packer{Bytes: b}
	count := unpackCount(&p, hashLen)
	hashes := make([]T, count)
	for i := range hashes {
		hashes[i] = unpackHash[T](&p)
	}
	return hashes, finish(&p, what)
}

func encodeRecords(records []TransactionRecord) []byte {
	p := wrappers.NewPacker(wrappers.IntLen + len(records)*recordLen)
	p.PackInt(uint32(len(records)))
	for _, r := range records {
		packHash(p, r.HostHash)
		packHash(p, r.ExecBlockHash)
		p.PackInt(r.ExecIndex)
	}
	return p.Bytes
}

func decodeRecords(b []byte) ([]TransactionRecord, error) {
	p := wrappers.Packer{Bytes: b}
	count := unpackCount(&p, recordLen)
	records := make([]TransactionRecord, count)
	for i := range records {
		records[i] = TransactionRecord{
			HostHash:      unpackHash[ids.ID](&p),
			ExecBlockHash: unpackHash[common.Hash](&p),
			ExecIndex:     p.UnpackInt(),
		}
	}
	return records, finish(&p, "transaction records")
}
