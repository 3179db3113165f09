// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wrappers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackerRoundTrip(t *testing.T) {
	require := require.New(t)

	p := NewPacker(0)
	p.PackInt(7)
	p.PackLong(1 << 40)
	p.PackFixedBytes([]byte{1, 2, 3})
	require.NoError(p.Err)
	require.Equal(IntLen+LongLen+3, len(p.Bytes))

	u := Packer{Bytes: p.Bytes}
	require.Equal(uint32(7), u.UnpackInt())
	require.Equal(uint64(1<<40), u.UnpackLong())
	require.Equal([]byte{1, 2, 3}, u.UnpackFixedBytes(3))
	require.NoError(u.Err)
	require.Zero(u.Remaining())
}

func TestPackerInsufficientLength(t *testing.T) {
	require := require.New(t)

	u := Packer{Bytes: []byte{0, 0, 1}}
	require.Zero(u.UnpackInt())
	require.ErrorIs(u.Err, ErrInsufficientLength)

	// Later reads keep the first error.
	u.UnpackLong()
	require.ErrorIs(u.Err, ErrInsufficientLength)
}

func TestPackerMaxSize(t *testing.T) {
	p := Packer{MaxSize: 3}
	p.PackInt(1)
	require.ErrorIs(t, p.Err, ErrInsufficientLength)
}

func TestErrs(t *testing.T) {
	require := require.New(t)

	errFirst := errors.New("first")
	errs := Errs{}
	require.False(errs.Errored())
	errs.Add(nil, errFirst, errors.New("second"))
	require.True(errs.Errored())
	require.Equal(errFirst, errs.Err)
}
