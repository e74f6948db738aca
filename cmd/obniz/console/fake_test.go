// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"
)

// fakeDevice simulates the console of a device. Every open hands out a new
// connection; what the device prints goes to the current one.
type fakeDevice struct {
	t *testing.T

	mu      sync.Mutex
	conn    *fakeConn
	opens   int
	written []string
	dtr     []bool
	dtrErr  error

	// onWrite answers text written by the host.
	onWrite func(d *fakeDevice, text string)
	// onBoot runs when the reset line is asserted.
	onBoot func(d *fakeDevice)
}

type fakeConn struct {
	dev *fakeDevice
	r   *io.PipeReader
	w   *io.PipeWriter
}

func newFakeDevice(t *testing.T) *fakeDevice {
	return &fakeDevice{t: t}
}

func (d *fakeDevice) open(name string, baud int) (Port, error) {
	r, w := io.Pipe()
	c := &fakeConn{dev: d, r: r, w: w}
	d.mu.Lock()
	d.conn = c
	d.opens++
	d.mu.Unlock()
	return c, nil
}

// print makes the device output text. It returns once the host read it.
func (d *fakeDevice) print(text string) {
	d.mu.Lock()
	c := d.conn
	d.mu.Unlock()
	if c == nil || text == "" {
		return
	}
	c.w.Write([]byte(text))
}

func (d *fakeDevice) writes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.written...)
}

func (d *fakeDevice) openCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

// resets counts how often the reset line was asserted after opening.
func (d *fakeDevice) resets() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, v := range d.dtr {
		if v {
			n++
		}
	}
	return n
}

func (c *fakeConn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}

func (c *fakeConn) Write(p []byte) (int, error) {
	d := c.dev
	text := string(p)
	d.mu.Lock()
	d.written = append(d.written, text)
	hook := d.onWrite
	d.mu.Unlock()
	if hook != nil {
		hook(d, text)
	}
	return len(p), nil
}

func (c *fakeConn) Close() error {
	c.w.Close()
	return c.r.Close()
}

func (c *fakeConn) SetDTR(dtr bool) error {
	d := c.dev
	d.mu.Lock()
	if d.dtrErr != nil {
		err := d.dtrErr
		d.mu.Unlock()
		return err
	}
	d.dtr = append(d.dtr, dtr)
	hook := d.onBoot
	d.mu.Unlock()
	if dtr && hook != nil {
		hook(d)
	}
	return nil
}

func (c *fakeConn) SetRTS(bool) error {
	return nil
}

type exchange struct {
	write string
	reply string
}

// script makes the device answer the exchanges in order. Any other write
// fails the test.
func (d *fakeDevice) script(exchanges ...exchange) {
	var mu sync.Mutex
	next := 0
	d.onWrite = func(d *fakeDevice, text string) {
		mu.Lock()
		if next >= len(exchanges) {
			mu.Unlock()
			d.t.Errorf("unexpected write %q after the script ended", text)
			return
		}
		e := exchanges[next]
		next++
		mu.Unlock()
		if e.write != text {
			d.t.Errorf("write %d: got %q, want %q", next-1, text, e.write)
			return
		}
		d.print(e.reply)
	}
}

type recordingReporter struct {
	mu       sync.Mutex
	progress []string
	warnings []string
	success  []string
}

func (r *recordingReporter) Progress(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, msg)
}

func (r *recordingReporter) Warning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

func (r *recordingReporter) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success = append(r.success, msg)
}

func (r *recordingReporter) warningCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func fastTimeouts() Timeouts {
	return Timeouts{
		Default:          200 * time.Millisecond,
		Settle:           time.Millisecond,
		Advisory:         50 * time.Millisecond,
		SettingMode:      500 * time.Millisecond,
		Step:             200 * time.Millisecond,
		Interface:        200 * time.Millisecond,
		DeviceKeyPrompt:  30 * time.Millisecond,
		DeviceKeyRetry:   5 * time.Millisecond,
		DeviceKeyConfirm: 100 * time.Millisecond,
	}
}

// openSession opens a session on dev with fast timeouts.
func openSession(t *testing.T, dev *fakeDevice, opts ...Option) (*Session, *recordingReporter) {
	t.Helper()
	reporter := &recordingReporter{}
	opts = append([]Option{
		WithOpener(dev.open),
		WithTimeouts(fastTimeouts()),
		WithReporter(reporter),
	}, opts...)
	s := New("/dev/ttyFAKE", opts...)
	if err := s.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, reporter
}
