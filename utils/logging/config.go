// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

// RotatingWriterConfig configures the files written by a Factory.
type RotatingWriterConfig struct {
	MaxSize   int    `json:"maxSize"` // in megabytes
	MaxFiles  int    `json:"maxFiles"`
	MaxAge    int    `json:"maxAge"` // in days
	Directory string `json:"directory"`
	Compress  bool   `json:"compress"`
}

// Config defines the configuration of a logger
type Config struct {
	RotatingWriterConfig
	DisableWriterDisplaying bool      `json:"disableWriterDisplaying"`
	LogLevel                Level     `json:"logLevel"`
	DisplayLevel            Level     `json:"displayLevel"`
	DisplayHighlight        Highlight `json:"displayHighlight"`
}

// DefaultConfig logs at Info to both the console and a rotating file in
// [directory].
func DefaultConfig(directory string) Config {
	return Config{
		RotatingWriterConfig: RotatingWriterConfig{
			MaxSize:   8,
			MaxFiles:  7,
			MaxAge:    0,
			Directory: directory,
			Compress:  false,
		},
		LogLevel:         Info,
		DisplayLevel:     Info,
		DisplayHighlight: Plain,
	}
}
