// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"io"

	"go.uber.org/zap"
)

// Reporter receives human readable status lines while a script runs.
type Reporter interface {
	Progress(msg string)
	Warning(msg string)
	Success(msg string)
}

type nopReporter struct{}

func (nopReporter) Progress(string) {}
func (nopReporter) Warning(string)  {}
func (nopReporter) Success(string)  {}

// Config holds the session configuration.
type Config struct {
	BaudRate   int
	Opener     Opener
	Reporter   Reporter
	Logger     *zap.Logger
	Timeouts   Timeouts
	Vocabulary Vocabulary

	// RawOutput receives every chunk read from the port (optional).
	RawOutput io.Writer

	// OnError is called with every transport failure (optional).
	OnError func(error)
}

func defaultConfig() Config {
	return Config{
		BaudRate:   BaudRate,
		Opener:     OpenSerial,
		Reporter:   nopReporter{},
		Logger:     zap.NewNop(),
		Timeouts:   DefaultTimeouts(),
		Vocabulary: DefaultVocabulary,
	}
}

// Option is a functional option for configuring a Session.
type Option func(*Config)

// WithOpener replaces how the port is opened, for example with a fake
// device in tests.
func WithOpener(opener Opener) Option {
	return func(c *Config) {
		c.Opener = opener
	}
}

// WithBaudRate overrides the console baud rate.
func WithBaudRate(baud int) Option {
	return func(c *Config) {
		c.BaudRate = baud
	}
}

// WithReporter sets the sink for progress and warning lines.
func WithReporter(r Reporter) Option {
	return func(c *Config) {
		c.Reporter = r
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTimeouts replaces the wait timeouts.
func WithTimeouts(t Timeouts) Option {
	return func(c *Config) {
		c.Timeouts = t
	}
}

// WithVocabulary replaces the console literals.
func WithVocabulary(v Vocabulary) Option {
	return func(c *Config) {
		c.Vocabulary = v
	}
}

// WithRawOutput mirrors everything the device prints to w.
//
// Example:
//
//	s := console.New(port, console.WithRawOutput(os.Stdout))
func WithRawOutput(w io.Writer) Option {
	return func(c *Config) {
		c.RawOutput = w
	}
}

// WithErrorHandler registers an observer for transport failures.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Config) {
		c.OnError = fn
	}
}
