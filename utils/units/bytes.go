// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package units

// Byte sizes used to configure storage engines.
const (
	KiB = 1024       // 1 kibibyte
	MiB = 1024 * KiB // 1 mebibyte
	GiB = 1024 * MiB // 1 gibibyte
)
