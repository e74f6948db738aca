// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var errNotOpen = errors.New("port is not open")

// Session automates the text console of one device. Scripts run strictly
// one after the other; only the port reader runs concurrently.
type Session struct {
	name string
	cfg  Config
	log  *zap.Logger
	buf  receiveBuffer

	mu      sync.Mutex
	port    Port
	done    chan struct{}
	raw     *rawQueue
	rawDone chan struct{}
	closing atomic.Bool
}

// New returns a closed session for the named port.
func New(name string, opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Reporter == nil {
		cfg.Reporter = nopReporter{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Session{
		name: name,
		cfg:  cfg,
		log:  cfg.Logger.With(zap.String("port", name)),
	}
}

// Name is the port address of the session.
func (s *Session) Name() string {
	return s.name
}

// Open opens the port with both control lines released and starts reading.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != nil {
		return nil
	}

	port, err := s.cfg.Opener(s.name, s.cfg.BaudRate)
	if err != nil {
		return s.transportError("open", err)
	}
	if err := port.SetRTS(false); err != nil {
		port.Close()
		return s.transportError("open", err)
	}
	if err := port.SetDTR(false); err != nil {
		port.Close()
		return s.transportError("open", err)
	}

	s.port = port
	s.done = make(chan struct{})
	s.buf.attach()
	if s.cfg.RawOutput != nil {
		s.raw = newRawQueue()
		s.rawDone = make(chan struct{})
		go s.raw.drain(s.cfg.RawOutput, s.rawDone)
	}
	go s.readLoop(port, s.done, s.raw)
	s.log.Debug("port opened", zap.Int("baud", s.cfg.BaudRate))
	return nil
}

// Close closes the port and returns once the reader has stopped. An
// outstanding wait fails with a TransportError.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}

	s.closing.Store(true)
	defer s.closing.Store(false)
	err := s.port.Close()
	<-s.done
	if s.raw != nil {
		s.raw.close()
		<-s.rawDone
		s.raw = nil
	}
	s.port = nil
	s.log.Debug("port closed")
	if err != nil {
		return s.transportError("close", err)
	}
	return nil
}

// Reopen closes and opens the port again. It recovers a port that stopped
// delivering data.
func (s *Session) Reopen() error {
	if err := s.Close(); err != nil {
		return err
	}
	return s.Open()
}

// Send discards the accumulated text and writes text to the device.
// Discarding first keeps the reply of this write the only text a following
// wait can match.
func (s *Session) Send(text string) error {
	port := s.currentPort()
	if port == nil {
		return s.transportError("write", errNotOpen)
	}
	s.buf.clear()
	s.log.Debug("send", zap.String("text", text), zap.Int("bytes", len(text)))
	if _, err := io.WriteString(port, text); err != nil {
		return s.transportError("write", err)
	}
	return nil
}

// Clear discards the accumulated text.
func (s *Session) Clear() {
	s.buf.clear()
}

// Received returns the text accumulated since the last clear.
func (s *Session) Received() string {
	return s.buf.String()
}

// Contains reports whether the accumulated text contains pattern.
func (s *Session) Contains(pattern string) bool {
	return s.buf.contains(pattern)
}

// FindLine returns the first accumulated line containing substring.
func (s *Session) FindLine(substring string) (string, bool) {
	return s.buf.findLine(substring)
}

// WaitFor blocks until the accumulated text contains pattern. Text that
// arrived before the call counts. A non-positive timeout uses the default.
func (s *Session) WaitFor(pattern string, timeout time.Duration) error {
	return s.wait(newPendingWait(pattern, containsMatcher(pattern)), timeout)
}

// waitLine blocks until a complete line containing label has arrived and
// returns it.
func (s *Session) waitLine(label string, timeout time.Duration) (string, error) {
	if err := s.wait(newPendingWait(label, completeLineMatcher(label)), timeout); err != nil {
		return "", err
	}
	line, _ := s.buf.findCompleteLine(label)
	return line, nil
}

func (s *Session) wait(w *pendingWait, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = s.cfg.Timeouts.Default
	}
	start := time.Now()
	installed, err := s.buf.register(w)
	if err != nil {
		return err
	}
	if installed {
		timer := time.AfterFunc(timeout, func() {
			w.resolve(&TimeoutError{Pattern: w.pattern, Timeout: timeout})
		})
		defer timer.Stop()
		defer s.buf.unregister(w)
	}
	err = <-w.result
	s.log.Debug("wait",
		zap.String("pattern", w.pattern),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return err
}

// Reset pulses the reset line: release, settle, clear the buffer, assert.
func (s *Session) Reset() error {
	port := s.currentPort()
	if port == nil {
		return &ResetError{Step: "release", Err: errNotOpen}
	}
	s.log.Debug("reset")
	if err := port.SetDTR(false); err != nil {
		return &ResetError{Step: "release", Err: err}
	}
	time.Sleep(s.cfg.Timeouts.Settle)
	s.buf.clear()
	if err := port.SetDTR(true); err != nil {
		return &ResetError{Step: "assert", Err: err}
	}
	return nil
}

// WaitForSettingMode resets the device and waits for the setting mode
// banner. The operator is asked to press reset if the banner is slow.
func (s *Session) WaitForSettingMode() error {
	advisory := time.AfterFunc(s.cfg.Timeouts.Advisory, func() {
		s.cfg.Reporter.Warning("Could you reset your device? Can you press reset button?")
	})
	defer advisory.Stop()

	if err := s.Reset(); err != nil {
		return err
	}
	return s.WaitFor(s.cfg.Vocabulary.SettingModeBanner, s.cfg.Timeouts.SettingMode)
}

func (s *Session) currentPort() Port {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

func (s *Session) readLoop(port Port, done chan<- struct{}, raw *rawQueue) {
	defer close(done)
	data := make([]byte, 1024)
	for {
		n, err := port.Read(data)
		if n > 0 {
			chunk := data[:n]
			s.buf.append(string(chunk))
			if raw != nil {
				raw.push(chunk)
			}
		}
		if err != nil {
			var terr error
			if s.closing.Load() {
				terr = &TransportError{Op: "read", Port: s.name, Err: errNotOpen}
			} else {
				terr = s.transportError("read", err)
			}
			s.buf.fail(terr)
			return
		}
	}
}

// rawQueue hands received chunks to the raw output writer. It never blocks
// the reader and never drops a chunk.
type rawQueue struct {
	mu     sync.Mutex
	chunks [][]byte
	closed bool
	ready  chan struct{}
}

func newRawQueue() *rawQueue {
	return &rawQueue{ready: make(chan struct{}, 1)}
}

func (q *rawQueue) push(chunk []byte) {
	c := make([]byte, len(chunk))
	copy(c, chunk)
	q.mu.Lock()
	if !q.closed {
		q.chunks = append(q.chunks, c)
	}
	q.mu.Unlock()
	q.signal()
}

// close lets drain return once the queued chunks are written.
func (q *rawQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *rawQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *rawQueue) drain(w io.Writer, done chan<- struct{}) {
	defer close(done)
	for {
		q.mu.Lock()
		chunks, closed := q.chunks, q.closed
		q.chunks = nil
		q.mu.Unlock()

		for _, c := range chunks {
			w.Write(c)
		}
		if len(chunks) == 0 {
			if closed {
				return
			}
			<-q.ready
		}
	}
}

func (s *Session) transportError(op string, err error) error {
	terr := &TransportError{Op: op, Port: s.name, Err: err}
	s.log.Debug("transport error", zap.String("op", op), zap.Error(err))
	if s.cfg.OnError != nil {
		s.cfg.OnError(terr)
	}
	return terr
}
