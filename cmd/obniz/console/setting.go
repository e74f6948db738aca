// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"strconv"
	"strings"
)

// openSettingMenu enters setting mode and opens the setting menu.
func (s *Session) openSettingMenu() error {
	v, t := s.cfg.Vocabulary, s.cfg.Timeouts
	if err := s.WaitForSettingMode(); err != nil {
		return err
	}
	if err := s.WaitFor(v.InputChar, t.Step); err != nil {
		return err
	}
	if err := s.Send("s"); err != nil {
		return err
	}
	return s.prompt(v.SelectSetting, v.InputNumber)
}

// prompt waits for a dialog banner followed by its input marker.
func (s *Session) prompt(banner string, input string) error {
	if err := s.WaitFor(banner, s.cfg.Timeouts.Step); err != nil {
		return err
	}
	return s.WaitFor(input, s.cfg.Timeouts.Step)
}

func (s *Session) resetSetting(entry string, banner string) error {
	v, t := s.cfg.Vocabulary, s.cfg.Timeouts
	if err := s.openSettingMenu(); err != nil {
		return err
	}
	if err := s.Send(entry); err != nil {
		return err
	}
	if err := s.prompt(banner, v.InputChar); err != nil {
		return err
	}
	if err := s.Send(v.Confirm); err != nil {
		return err
	}
	return s.WaitFor(v.Rebooting, t.Step)
}

// ResetWiFiSetting erases the network settings and reboots the device.
func (s *Session) ResetWiFiSetting() error {
	s.cfg.Reporter.Progress("Resetting All Network Setting")
	return s.resetSetting(s.cfg.Vocabulary.MenuWiFiReset, s.cfg.Vocabulary.WirelessLANReset)
}

// ResetAllSetting erases every setting and reboots the device.
func (s *Session) ResetAllSetting() error {
	s.cfg.Reporter.Progress("Resetting All Setting")
	return s.resetSetting(s.cfg.Vocabulary.MenuAllReset, s.cfg.Vocabulary.AllReset)
}

// SetNetworkType selects the network interface, one of
// Vocabulary.NetworkTypes.
func (s *Session) SetNetworkType(kind string) error {
	v := s.cfg.Vocabulary
	s.cfg.Reporter.Progress("Setting Network Type")
	if err := s.openSettingMenu(); err != nil {
		return err
	}
	if err := s.Send(v.MenuInterface); err != nil {
		return err
	}
	index, err := s.networkTypeIndex(kind)
	if err != nil {
		return err
	}
	if err := s.prompt(v.SelectInterface, v.InputNumber); err != nil {
		return err
	}
	return s.Send(strconv.Itoa(index))
}

func (s *Session) networkTypeIndex(kind string) (int, error) {
	for i, t := range s.cfg.Vocabulary.NetworkTypes {
		if strings.EqualFold(t, kind) {
			return i, nil
		}
	}
	return -1, &ValidationError{
		Field:  "network type",
		Value:  kind,
		Reason: "must be one of " + strings.Join(s.cfg.Vocabulary.NetworkTypes, ", "),
	}
}
