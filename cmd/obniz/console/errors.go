// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"fmt"
	"time"
)

// TransportError is an open, close, read or write failure of the port.
type TransportError struct {
	Op   string
	Port string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("serial %s on '%s' failed: %v", e.Op, e.Port, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates that an expected prompt never appeared.
type TimeoutError struct {
	Pattern string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s waiting for %q", e.Timeout, e.Pattern)
}

// ResetError indicates that a control line could not be set during reset.
type ResetError struct {
	Step string
	Err  error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("reset failed at %s: %v", e.Step, e.Err)
}

func (e *ResetError) Unwrap() error {
	return e.Err
}

// ConflictError indicates that the device is already configured with a
// different obniz id. The device has to be erased before it can take a new
// device key.
type ConflictError struct {
	Want string
	Have string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("this device is already configured as obnizID %s, not %s. Erase the device to write a new device key", e.Have, e.Want)
}

// UnconfirmedWriteError indicates that the device key was sent but the
// device never reported the new id. The write may still have succeeded.
type UnconfirmedWriteError struct {
	ObnizID string
	Err     error
}

func (e *UnconfirmedWriteError) Error() string {
	return fmt.Sprintf("written obniz id %s not confirmed, it may have succeeded: %v", e.ObnizID, e.Err)
}

func (e *UnconfirmedWriteError) Unwrap() error {
	return e.Err
}

// ParseError indicates that a console line did not have the expected shape.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse serial console: %s. LINE=%q", e.Reason, e.Line)
}

// ValidationError indicates that a caller supplied field was missing or not
// recognized.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// DeviceUnresponsiveError is returned after all device key retries failed.
type DeviceUnresponsiveError struct {
	Attempts int
	Err      error
}

func (e *DeviceUnresponsiveError) Error() string {
	return fmt.Sprintf("device seems not launched after %d attempts. Reset the connected device to wake up as Normal Mode: %v", e.Attempts, e.Err)
}

func (e *DeviceUnresponsiveError) Unwrap() error {
	return e.Err
}
