// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Highlighting modes available
const (
	Plain Highlight = iota
	Colors
)

var (
	errUnknownHighlight = errors.New("unknown highlight")

	levelToColor = map[Level]string{
		Fatal: "\033[31m", // red
		Error: "\033[38;5;208m",
		Warn:  "\033[33m",
		Trace: "\033[95m",
		Debug: "\033[94m",
		Verbo: "\033[92m",
	}
)

const resetColor = "\033[0m"

// Highlight mode to apply to displayed logs
type Highlight int

// ToHighlight chooses a highlighting mode
func ToHighlight(h string) (Highlight, error) {
	switch strings.ToUpper(h) {
	case "PLAIN":
		return Plain, nil
	case "COLORS":
		return Colors, nil
	default:
		return Plain, fmt.Errorf("%w: %s", errUnknownHighlight, h)
	}
}

func (h Highlight) MarshalJSON() ([]byte, error) {
	switch h {
	case Plain:
		return []byte(`"PLAIN"`), nil
	case Colors:
		return []byte(`"COLORS"`), nil
	default:
		return nil, errUnknownHighlight
	}
}

// ConsoleEncoder returns the encoder used for displayed logs.
func (h Highlight) ConsoleEncoder() zapcore.Encoder {
	config := newEncoderConfig()
	if h == Colors {
		config.EncodeLevel = colorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(config)
}

// JSONEncoder returns the encoder used for log files.
func JSONEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(newEncoderConfig())
}

func newEncoderConfig() zapcore.EncoderConfig {
	config := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    levelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	return config
}

func levelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(Level(l).String())
}

func colorLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	s := Level(l).String()
	color, ok := levelToColor[Level(l)]
	if !ok {
		enc.AppendString(s)
		return
	}
	enc.AppendString(color + s + resetColor)
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format("01-02|15:04:05.000") + "]")
}
