// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	settingBoot = "obniz ver: 3.5.0\r\nPress 's' to setting mode\r\nInput char >>"
	settingMenu = "-----Select Setting-----\r\n1: Interface\r\n2: All Reset\r\n3: Wireless LAN Reset\r\nInput number >>"
)

func settingDevice(t *testing.T, exchanges ...exchange) *fakeDevice {
	dev := newFakeDevice(t)
	dev.onBoot = func(d *fakeDevice) {
		d.print(settingBoot)
	}
	dev.script(exchanges...)
	return dev
}

func TestResetWiFiSetting(t *testing.T) {
	dev := settingDevice(t,
		exchange{"s", settingMenu},
		exchange{"3", "-----Wireless LAN Reset-----\r\nAre you sure? (y/n)\r\nInput char >>"},
		exchange{"y", "Rebooting...\r\n"},
	)
	s, _ := openSession(t, dev)

	require.NoError(t, s.ResetWiFiSetting())
	assert.Equal(t, []string{"s", "3", "y"}, dev.writes())
	assert.Equal(t, 1, dev.resets())
}

func TestResetAllSetting(t *testing.T) {
	dev := settingDevice(t,
		exchange{"s", settingMenu},
		exchange{"2", "-----All Reset-----\r\nAre you sure? (y/n)\r\nInput char >>"},
		exchange{"y", "Rebooting...\r\n"},
	)
	s, _ := openSession(t, dev)

	require.NoError(t, s.ResetAllSetting())
	assert.Equal(t, []string{"s", "2", "y"}, dev.writes())
}

func TestResetWithoutReboot(t *testing.T) {
	dev := settingDevice(t,
		exchange{"s", settingMenu},
		exchange{"2", "-----All Reset-----\r\nInput char >>"},
		exchange{"y", ""},
	)
	s, _ := openSession(t, dev)

	err := s.ResetAllSetting()
	var timeout *TimeoutError
	require.True(t, errors.As(err, &timeout), "got %v", err)
	assert.Equal(t, "Rebooting", timeout.Pattern)
}

func TestSetNetworkType(t *testing.T) {
	tests := []struct {
		kind  string
		index string
	}{
		{kind: "wifi", index: "0"},
		{kind: "ethernet", index: "1"},
		{kind: "Cellular", index: "2"},
	}

	for _, test := range tests {
		t.Run(test.kind, func(t *testing.T) {
			dev := settingDevice(t,
				exchange{"s", settingMenu},
				exchange{"1", interfaceMenu},
				exchange{test.index, ""},
			)
			s, _ := openSession(t, dev)

			require.NoError(t, s.SetNetworkType(test.kind))
			assert.Equal(t, []string{"s", "1", test.index}, dev.writes())
		})
	}
}

func TestSetNetworkTypeUnknown(t *testing.T) {
	dev := settingDevice(t,
		exchange{"s", settingMenu},
		exchange{"1", interfaceMenu},
	)
	s, _ := openSession(t, dev)

	err := s.SetNetworkType("lora")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, "lora", verr.Value)
	assert.Equal(t, []string{"s", "1"}, dev.writes())
}
