// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelRoundTrip(t *testing.T) {
	require := require.New(t)

	levels := []Level{Off, Fatal, Error, Warn, Info, Trace, Debug, Verbo}
	for _, l := range levels {
		parsed, err := ToLevel(l.LowerString())
		require.NoError(err)
		require.Equal(l, parsed)
	}

	_, err := ToLevel("loud")
	require.ErrorContains(err, "unknown log level")
}

func TestLevelOrdering(t *testing.T) {
	require := require.New(t)

	require.True(Verbo < Debug)
	require.True(Debug < Trace)
	require.True(Trace < Info)
	require.True(Info < Warn)
	require.True(Fatal < Off)
}

func TestLevelJSON(t *testing.T) {
	require := require.New(t)

	b, err := json.Marshal(Warn)
	require.NoError(err)
	require.Equal(`"WARN"`, string(b))

	var l Level
	require.NoError(json.Unmarshal([]byte(`"debug"`), &l))
	require.Equal(Debug, l)
}
