// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package database

import (
	"encoding/binary"
	"errors"
)

const (
	Uint64Size = 8 // bytes
	Uint32Size = 4 // bytes
)

var errWrongSize = errors.New("value has unexpected size")

func PackUInt64(val uint64) []byte {
	bytes := make([]byte, Uint64Size)
	binary.BigEndian.PutUint64(bytes, val)
	return bytes
}

func ParseUInt64(b []byte) (uint64, error) {
	if len(b) != Uint64Size {
		return 0, errWrongSize
	}
	return binary.BigEndian.Uint64(b), nil
}

func PackUInt32(val uint32) []byte {
	bytes := make([]byte, Uint32Size)
	binary.BigEndian.PutUint32(bytes, val)
	return bytes
}

func ParseUInt32(b []byte) (uint32, error) {
	if len(b) != Uint32Size {
		return 0, errWrongSize
	}
	return binary.BigEndian.Uint32(b), nil
}
