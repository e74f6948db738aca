// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"errors"
	"strings"
	"sync"
)

var errWaitOutstanding = errors.New("a wait is already outstanding on this console")

// receiveBuffer accumulates console text between explicit clears and holds
// the single outstanding wait.
type receiveBuffer struct {
	mu     sync.Mutex
	text   strings.Builder
	waiter *pendingWait
	// broken is set when the reader stopped, so later waits fail instead of
	// timing out.
	broken error
}

// pendingWait is resolved exactly once, by whichever of match, deadline or
// reader failure gets there first.
type pendingWait struct {
	pattern string
	match   func(text string) bool
	once    sync.Once
	result  chan error
}

func newPendingWait(pattern string, match func(string) bool) *pendingWait {
	return &pendingWait{
		pattern: pattern,
		match:   match,
		result:  make(chan error, 1),
	}
}

func (w *pendingWait) resolve(err error) {
	w.once.Do(func() {
		w.result <- err
	})
}

func (b *receiveBuffer) append(chunk string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text.WriteString(chunk)
	if b.waiter != nil && b.waiter.match(b.text.String()) {
		b.waiter.resolve(nil)
	}
}

func (b *receiveBuffer) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text.Reset()
}

func (b *receiveBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text.String()
}

func (b *receiveBuffer) contains(pattern string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Contains(b.text.String(), pattern)
}

func (b *receiveBuffer) findLine(substring string) (string, bool) {
	return b.findLineFunc(func(line string) bool {
		return strings.Contains(line, substring)
	})
}

// findLineFunc returns the first line, without its line ending, for which
// match is true.
func (b *receiveBuffer) findLineFunc(match func(line string) bool) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range strings.Split(b.text.String(), "\n") {
		line = strings.TrimRight(line, "\r")
		if match(line) {
			return line, true
		}
	}
	return "", false
}

func (b *receiveBuffer) findCompleteLine(substring string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return completeLine(b.text.String(), substring)
}

// register installs w unless the text already satisfies it. The returned
// bool reports whether w is installed and has to be removed with
// unregister.
func (b *receiveBuffer) register(w *pendingWait) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.waiter != nil {
		return false, errWaitOutstanding
	}
	if w.match(b.text.String()) {
		w.resolve(nil)
		return false, nil
	}
	if b.broken != nil {
		w.resolve(b.broken)
		return false, nil
	}
	b.waiter = w
	return true, nil
}

func (b *receiveBuffer) unregister(w *pendingWait) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.waiter == w {
		b.waiter = nil
	}
}

// fail marks the buffer as no longer fed and fails the outstanding wait.
func (b *receiveBuffer) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broken = err
	if b.waiter != nil {
		b.waiter.resolve(err)
	}
}

func (b *receiveBuffer) attach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broken = nil
}

func containsMatcher(pattern string) func(string) bool {
	return func(text string) bool {
		return strings.Contains(text, pattern)
	}
}

func completeLineMatcher(substring string) func(string) bool {
	return func(text string) bool {
		_, ok := completeLine(text, substring)
		return ok
	}
}

// completeLine returns the first newline terminated line of text containing
// substring.
func completeLine(text, substring string) (string, bool) {
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			return "", false
		}
		line := strings.TrimRight(text[:i], "\r")
		if strings.Contains(line, substring) {
			return line, true
		}
		text = text[i+1:]
	}
}
