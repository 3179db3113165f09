// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package indexdb

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/evmindex/ids"
)

func TestCheckpointEncoding(t *testing.T) {
	require := require.New(t)

	c := Checkpoint{
		Hash:   ids.GenerateTestID(),
		Number: 258,
	}
	b := encodeCheckpoint(c)
	require.Len(b, checkpointLen)
	require.Equal(c.Hash[:], b[:hashLen])
	require.Equal([]byte{0, 0, 0, 0, 0, 0, 1, 2}, b[hashLen:])

	decoded, err := decodeCheckpoint(b)
	require.NoError(err)
	require.Equal(c, decoded)
}

func TestDecodeErrors(t *testing.T) {
	validCheckpoint := encodeCheckpoint(Checkpoint{Hash: ids.GenerateTestID()})
	validRecords := encodeRecords([]TransactionRecord{{ExecIndex: 1}})

	tests := []struct {
		name   string
		decode func() error
	}{
		{
			name: "short checkpoint",
			decode: func() error {
				_, err := decodeCheckpoint(validCheckpoint[:checkpointLen-1])
				return err
			},
		},
		{
			name: "checkpoint with trailing bytes",
			decode: func() error {
				_, err := decodeCheckpoint(append(validCheckpoint, 0))
				return err
			},
		},
		{
			name: "short hash",
			decode: func() error {
				_, err := decodeHash[common.Hash](make([]byte, hashLen-1), "hash")
				return err
			},
		},
		{
			name: "empty hash list",
			decode: func() error {
				_, err := decodeHashes[ids.ID](nil, "hashes")
				return err
			},
		},
		{
			name: "hash list count exceeds contents",
			decode: func() error {
				_, err := decodeHashes[ids.ID]([]byte{0, 0, 0, 2, 1}, "hashes")
				return err
			},
		},
		{
			name: "hash list with trailing bytes",
			decode: func() error {
				_, err := decodeHashes[ids.ID]([]byte{0, 0, 0, 0, 1}, "hashes")
				return err
			},
		},
		{
			name: "truncated record",
			decode: func() error {
				_, err := decodeRecords(validRecords[:len(validRecords)-1])
				return err
			},
		},
		{
			name: "huge record count",
			decode: func() error {
				_, err := decodeRecords([]byte{0xff, 0xff, 0xff, 0xff})
				return err
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.ErrorIs(t, test.decode(), ErrDecode)
		})
	}
}

func TestHashListEncoding(t *testing.T) {
	require := require.New(t)

	hashes := []common.Hash{
		common.HexToHash("0x01"),
		common.HexToHash("0x02"),
	}
	b := encodeHashes(hashes)
	require.Len(b, 4+2*hashLen)

	decoded, err := decodeHashes[common.Hash](b, "hashes")
	require.NoError(err)
	require.Equal(hashes, decoded)

	decoded, err = decodeHashes[common.Hash](encodeHashes[common.Hash](nil), "hashes")
	require.NoError(err)
	require.Empty(decoded)
}
