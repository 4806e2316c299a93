// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ModChain/bitcoinkey"
	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

// logWriter implements an io.Writer that outputs to standard error and, once
// a log rotator has been initialized, to the rotated log file.
type logWriter struct {
	mu      sync.Mutex
	stderr  io.Writer
	rotator *rotator.Rotator
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stderr.Write(p)
	if w.rotator != nil {
		w.rotator.Write(p)
	}
	return len(p), nil
}

// Loggers per subsystem.  A single backend logger is created and all subsystem
// loggers created from it will write to the backend.
var (
	logOutput = &logWriter{stderr: os.Stderr}

	backendLog = btclog.NewBackend(logOutput)

	btckLog = backendLog.Logger("BTCK")
	bkeyLog = backendLog.Logger(bitcoinkey.Subsystem)
)

// Initialize package-global logger variables.
func init() {
	bitcoinkey.UseLogger(bkeyLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"BTCK":               btckLog,
	bitcoinkey.Subsystem: bkeyLog,
}

// initLogRotator initializes the logging rotator to write logs to logFile and
// create roll files in the same directory.  maxLogFileSize is in megabytes.
func initLogRotator(logFile string, maxLogFileSize, maxLogFiles int) error {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		return errors.Wrap(err, "failed to create log directory")
	}
	r, err := rotator.New(logFile, int64(maxLogFileSize*1024), false,
		maxLogFiles)
	if err != nil {
		return errors.Wrap(err, "failed to create file rotator")
	}

	logOutput.mu.Lock()
	logOutput.rotator = r
	logOutput.mu.Unlock()

	return nil
}

// closeLogRotator detaches and closes the log rotator, if any.
func closeLogRotator() error {
	logOutput.mu.Lock()
	r := logOutput.rotator
	logOutput.rotator = nil
	logOutput.mu.Unlock()

	if r == nil {
		return nil
	}
	return r.Close()
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.  An invalid level leaves the loggers at info.
func setLogLevels(logLevel string) {
	level, _ := btclog.LevelFromString(logLevel)
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}
