// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// resetRetries is how many prompt timeouts are answered with a reset
// before the port is reopened once.
const resetRetries = 2

// ObnizID returns the id part of a device key of the form "id&secret".
func ObnizID(deviceKey string) (string, error) {
	id, _, found := strings.Cut(deviceKey, "&")
	id = strings.TrimSpace(id)
	if !found || id == "" {
		return "", &ValidationError{Field: "devicekey", Value: id, Reason: "expected '<obniz id>&<secret>'"}
	}
	return id, nil
}

// ConfiguredID returns the obniz id the device reported since the last
// clear, if any.
func (s *Session) ConfiguredID() (string, bool) {
	label := s.cfg.Vocabulary.IDLabel
	line, ok := s.buf.findCompleteLine(label)
	if !ok {
		return "", false
	}
	return idFromLine(line, label)
}

// idFromLine returns the first word after label in line.
func idFromLine(line, label string) (string, bool) {
	i := strings.Index(line, label)
	if i < 0 {
		return "", false
	}
	fields := strings.Fields(line[i+len(label):])
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// SetDeviceKey writes deviceKey to the device. A device that already
// reports the same id is left alone; a device with another id is refused.
//
// If the device doesn't offer the DeviceKey prompt it is reset twice, then
// the port is reopened once, before the device is given up on.
func (s *Session) SetDeviceKey(deviceKey string) error {
	obnizID, err := ObnizID(deviceKey)
	if err != nil {
		return err
	}
	v, t := s.cfg.Vocabulary, s.cfg.Timeouts
	s.cfg.Reporter.Progress(fmt.Sprintf("Setting Devicekey obnizID=%s", obnizID))

	failures := 0
	for {
		if have, ok := s.ConfiguredID(); ok {
			if have != obnizID {
				return &ConflictError{Want: obnizID, Have: have}
			}
			s.cfg.Reporter.Warning(fmt.Sprintf("This device is already configured as obnizID %s", obnizID))
			return nil
		}

		if err := s.Send("\n"); err != nil {
			return err
		}
		err := s.WaitFor(v.DeviceKeyLabel, t.DeviceKeyPrompt)
		if err == nil {
			break
		}
		var timeout *TimeoutError
		if !errors.As(err, &timeout) {
			return err
		}

		failures++
		s.log.Debug("devicekey prompt missing", zap.Int("failures", failures))
		switch {
		case failures <= resetRetries:
			s.cfg.Reporter.Warning(fmt.Sprintf("Failed Setting devicekey %d times. Device seems not launched. Reset the connected device to wake up as Normal Mode", failures))
			if err := s.Reset(); err != nil {
				return err
			}
			time.Sleep(t.DeviceKeyRetry)
		case failures == resetRetries+1:
			s.cfg.Reporter.Warning(fmt.Sprintf("Failed Setting devicekey %d times. Device seems not launched. Trying ReOpening Serial Port", failures))
			if err := s.Reopen(); err != nil {
				return err
			}
		default:
			return &DeviceUnresponsiveError{Attempts: failures, Err: err}
		}
	}

	if err := s.Send(deviceKey + "\n"); err != nil {
		return err
	}
	line, err := s.waitLine(v.IDLabel, t.DeviceKeyConfirm)
	if err != nil {
		var timeout *TimeoutError
		if errors.As(err, &timeout) {
			return &UnconfirmedWriteError{ObnizID: obnizID, Err: err}
		}
		return err
	}
	if have, _ := idFromLine(line, v.IDLabel); have != obnizID {
		return &UnconfirmedWriteError{ObnizID: obnizID, Err: &ConflictError{Want: obnizID, Have: have}}
	}
	s.cfg.Reporter.Success(fmt.Sprintf("Devicekey written obnizID=%s", obnizID))
	return nil
}
