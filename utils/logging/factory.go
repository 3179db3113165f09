// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Factory creates new instances of different types of Logger
type Factory interface {
	// Make creates a new logger with name [name]
	Make(name string) (Logger, error)

	// SetLogLevel sets the log level of the logger named [name].
	SetLogLevel(name string, level Level) error

	// GetLoggerNames returns the names of all logs created by this factory
	GetLoggerNames() []string

	// Close stops and clears all of a Factory's instantiated loggers
	Close()
}

// stdout is never closed by a logger.
type stdout struct{}

func (stdout) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdout) Close() error {
	return nil
}

type factory struct {
	config Config
	lock   sync.RWMutex

	// For each logger created by this factory:
	// Logger name --> the logger.
	loggers map[string]Logger
}

// NewFactory returns a new instance of a Factory producing loggers configured with
// the values set in the [config] parameter
func NewFactory(config Config) Factory {
	return &factory{
		config:  config,
		loggers: make(map[string]Logger),
	}
}

// Assumes [f.lock] is held
func (f *factory) make(name string) (Logger, error) {
	if _, ok := f.loggers[name]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", name)
	}

	consoleCore := NewWrappedCore(f.config.DisplayLevel, stdout{}, f.config.DisplayHighlight.ConsoleEncoder())
	consoleCore.WriterDisabled = f.config.DisableWriterDisplaying

	rw := &lumberjack.Logger{
		Filename:   filepath.Join(f.config.Directory, name+".log"),
		MaxSize:    f.config.MaxSize,
		MaxAge:     f.config.MaxAge,
		MaxBackups: f.config.MaxFiles,
		Compress:   f.config.Compress,
	}
	fileCore := NewWrappedCore(f.config.LogLevel, rw, JSONEncoder())

	l := NewLogger(name, consoleCore, fileCore)
	f.loggers[name] = l
	return l, nil
}

func (f *factory) Make(name string) (Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.make(name)
}

func (f *factory) SetLogLevel(name string, level Level) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	logger, ok := f.loggers[name]
	if !ok {
		return fmt.Errorf("logger with name %q not found", name)
	}
	logger.SetLevel(level)
	return nil
}

func (f *factory) GetLoggerNames() []string {
	f.lock.RLock()
	defer f.lock.RUnlock()

	names := make([]string, 0, len(f.loggers))
	for name := range f.loggers {
		names = append(names, name)
	}
	return names
}

func (f *factory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, logger := range f.loggers {
		logger.Stop()
	}
	f.loggers = nil
}
