// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ava-labs/evmindex/utils/formatting"
	"github.com/ava-labs/evmindex/utils/hashing"
	"github.com/ava-labs/evmindex/utils/wrappers"
)

const (
	IDLen   = 32
	nullStr = "null"
)

var (
	// Empty is a useful all zero value
	Empty = ID{}

	errMissingQuotes = errors.New("first and last characters should be quotes")
	errWrongLength   = errors.New("wrong ID length")
)

// ID wraps a 32 byte hash used as an identifier. Host chain block hashes are
// IDs.
type ID [IDLen]byte

// ToID attempt to convert a byte slice into an id
func ToID(bytes []byte) (ID, error) {
	if len(bytes) != IDLen {
		return ID{}, fmt.Errorf("%w: expected %d bytes but got %d", errWrongLength, IDLen, len(bytes))
	}
	var id ID
	copy(id[:], bytes)
	return id, nil
}

// FromString is the inverse of ID.String()
func FromString(idStr string) (ID, error) {
	bytes, err := formatting.Decode(formatting.CB58, idStr)
	if err != nil {
		return ID{}, err
	}
	return ToID(bytes)
}

// FromHex is the inverse of ID.Hex() with a 0x prefix.
func FromHex(idStr string) (ID, error) {
	bytes, err := formatting.Decode(formatting.HexNC, idStr)
	if err != nil {
		return ID{}, err
	}
	return ToID(bytes)
}

func (id ID) MarshalJSON() ([]byte, error) {
	str, err := formatting.Encode(formatting.CB58, id[:])
	if err != nil {
		return nil, err
	}
	return []byte(`"` + str + `"`), nil
}

func (id *ID) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == nullStr { // If "null", do nothing
		return nil
	} else if len(str) < 2 {
		return errMissingQuotes
	}

	lastIndex := len(str) - 1
	if str[0] != '"' || str[lastIndex] != '"' {
		return errMissingQuotes
	}

	// Parse CB58 formatted string to bytes
	bytes, err := formatting.Decode(formatting.CB58, str[1:lastIndex])
	if err != nil {
		return fmt.Errorf("couldn't decode ID to bytes: %w", err)
	}
	*id, err = ToID(bytes)
	return err
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	return id.UnmarshalJSON([]byte(`"` + string(text) + `"`))
}

// Prefix this id to create a more selective id. This can be used to store
// multiple values under the same key. For example:
// prefix1(id) -> confidence
// prefix2(id) -> vertex
// This will return a new id and not modify the original id.
func (id ID) Prefix(prefixes ...uint64) ID {
	p := wrappers.NewPacker(len(prefixes)*wrappers.LongLen + IDLen)
	for _, prefix := range prefixes {
		p.PackLong(prefix)
	}
	p.PackFixedBytes(id[:])
	return hashing.ComputeHash256Array(p.Bytes)
}

// Hex returns a hex encoded string of this id, without a 0x prefix.
func (id ID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id ID) String() string {
	// We assume that the maximum size of a byte slice that
	// can be stringified is at least the length of an ID
	s, _ := formatting.Encode(formatting.CB58, id[:])
	return s
}
