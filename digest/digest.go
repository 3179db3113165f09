// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package digest decodes the execution layer's consensus log out of a host
// block header digest.
package digest

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// Kind of a digest item. The values match the host chain's digest item
// discriminants.
type Kind uint8

const (
	Other      Kind = 0
	Consensus  Kind = 4
	Seal       Kind = 5
	PreRuntime Kind = 6
)

// EngineID of the items carrying the execution layer's log.
var EngineID = [4]byte{'f', 'r', 'o', 'n'}

var (
	ErrNoLog        = errors.New("no consensus log found")
	ErrMultipleLogs = errors.New("multiple consensus logs found")
	ErrInvalidLog   = errors.New("invalid consensus log")
)

// Item is a single entry of a host header digest.
type Item struct {
	Kind   Kind
	Engine [4]byte
	Data   []byte
}

// Digest is the ordered list of items of a host header.
type Digest []Item

// Log is the execution layer's record of the block it produced while
// executing a host block.
type Log struct {
	BlockHash         common.Hash
	TransactionHashes []common.Hash
}

// IntoHashes returns the execution block hash and the ordered transaction
// hashes carried by the log.
func (l Log) IntoHashes() (common.Hash, []common.Hash) {
	return l.BlockHash, l.TransactionHashes
}

// NewItem returns the consensus item carrying [log].
func NewItem(log Log) (Item, error) {
	data, err := rlp.EncodeToBytes(&log)
	if err != nil {
		return Item{}, err
	}
	return Item{
		Kind:   Consensus,
		Engine: EngineID,
		Data:   data,
	}, nil
}

// FindLog returns the only execution layer log in [d]. Items of other kinds or
// other engines are ignored.
func FindLog(d Digest) (Log, error) {
	var (
		found *Item
		count int
	)
	for i := range d {
		item := &d[i]
		if item.Kind != Consensus || item.Engine != EngineID {
			continue
		}
		count++
		found = item
	}

	switch count {
	case 0:
		return Log{}, ErrNoLog
	case 1:
	default:
		return Log{}, fmt.Errorf("%w: %d", ErrMultipleLogs, count)
	}

	var log Log
	if err := rlp.DecodeBytes(found.Data, &log); err != nil {
		return Log{}, fmt.Errorf("%w: %v", ErrInvalidLog, err)
	}
	return log, nil
}
