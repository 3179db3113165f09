// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package formatting

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58/base58"

	"github.com/ava-labs/evmindex/utils/hashing"
)

const (
	hexPrefix   = "0x"
	checksumLen = 4
	maxCB58Size = 16 * 1024 // 16 KB
)

var (
	errInvalidEncoding  = errors.New("invalid encoding")
	errMissingHexPrefix = errors.New("missing 0x prefix to hex encoding")
	errMissingChecksum  = errors.New("input string is smaller than the checksum size")
	errBadChecksum      = errors.New("invalid input checksum")
	errEncodingOverFlow = errors.New("encoding overflow")
)

// Encoding defines how bytes are converted to a string and vice versa
type Encoding uint8

const (
	// CB58 specifies the CB58 encoding format: base58 of the bytes followed
	// by a 4 byte checksum
	CB58 Encoding = iota
	// HexNC specifies a hex encoding format with no checksum
	HexNC
)

func (enc Encoding) String() string {
	switch enc {
	case CB58:
		return "cb58"
	case HexNC:
		return "hexnc"
	default:
		return errInvalidEncoding.Error()
	}
}

func (enc Encoding) valid() bool {
	switch enc {
	case CB58, HexNC:
		return true
	}
	return false
}

func (enc Encoding) MarshalJSON() ([]byte, error) {
	if !enc.valid() {
		return nil, errInvalidEncoding
	}
	return []byte(`"` + enc.String() + `"`), nil
}

func (enc *Encoding) UnmarshalJSON(b []byte) error {
	switch strings.ToLower(string(b)) {
	case `"cb58"`:
		*enc = CB58
	case `"hexnc"`:
		*enc = HexNC
	default:
		return errInvalidEncoding
	}
	return nil
}

// Encode [bytes] to a string using the given encoding format
func Encode(encoding Encoding, bytes []byte) (string, error) {
	switch encoding {
	case CB58:
		if len(bytes) > maxCB58Size {
			return "", fmt.Errorf("%w: byte slice length (%d) > maximum for cb58 (%d)", errEncodingOverFlow, len(bytes), maxCB58Size)
		}
		checked := make([]byte, len(bytes)+checksumLen)
		copy(checked, bytes)
		copy(checked[len(bytes):], hashing.Checksum(bytes, checksumLen))
		return base58.Encode(checked), nil
	case HexNC:
		return hexPrefix + hex.EncodeToString(bytes), nil
	default:
		return "", errInvalidEncoding
	}
}

// Decode [str] to bytes using the given encoding
// If [str] is the empty string, returns a nil byte slice
func Decode(encoding Encoding, str string) ([]byte, error) {
	if !encoding.valid() {
		return nil, errInvalidEncoding
	}
	if len(str) == 0 {
		return nil, nil
	}

	switch encoding {
	case HexNC:
		if !strings.HasPrefix(str, hexPrefix) {
			return nil, errMissingHexPrefix
		}
		return hex.DecodeString(str[len(hexPrefix):])
	default:
		decoded, err := base58.Decode(str)
		if err != nil {
			return nil, err
		}
		if len(decoded) < checksumLen {
			return nil, errMissingChecksum
		}
		rawBytes := decoded[:len(decoded)-checksumLen]
		checksum := decoded[len(decoded)-checksumLen:]
		if !bytes.Equal(checksum, hashing.Checksum(rawBytes, checksumLen)) {
			return nil, errBadChecksum
		}
		return rawBytes, nil
	}
}
