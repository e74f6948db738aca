// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode"

	"github.com/coreos/go-semver/semver"
)

// WiFiSetting is the network configuration entered by SetWiFi.
type WiFiSetting struct {
	SSID     string `mapstructure:"ssid" json:"ssid" yaml:"ssid"`
	Password string `mapstructure:"password" json:"password" yaml:"password"`
	// Hidden is only asked by firmware older than the interface menu.
	Hidden bool `mapstructure:"hidden" json:"hidden" yaml:"hidden"`
	// DHCP defaults to true when unset.
	DHCP           *bool  `mapstructure:"dhcp" json:"dhcp,omitempty" yaml:"dhcp,omitempty"`
	StaticIP       string `mapstructure:"static_ip" json:"static_ip,omitempty" yaml:"static_ip,omitempty"`
	DefaultGateway string `mapstructure:"default_gateway" json:"default_gateway,omitempty" yaml:"default_gateway,omitempty"`
	SubnetMask     string `mapstructure:"subnetmask" json:"subnetmask,omitempty" yaml:"subnetmask,omitempty"`
	DNS            string `mapstructure:"dns" json:"dns,omitempty" yaml:"dns,omitempty"`
	Proxy          bool   `mapstructure:"proxy" json:"proxy,omitempty" yaml:"proxy,omitempty"`
	ProxyAddress   string `mapstructure:"proxy_address" json:"proxy_address,omitempty" yaml:"proxy_address,omitempty"`
	ProxyPort      int    `mapstructure:"proxy_port" json:"proxy_port,omitempty" yaml:"proxy_port,omitempty"`
}

// UseDHCP reports whether the address is obtained by DHCP.
func (w WiFiSetting) UseDHCP() bool {
	return w.DHCP == nil || *w.DHCP
}

// SetWiFi runs the Wi-Fi dialog the device shows after a network reset.
func (s *Session) SetWiFi(setting WiFiSetting) error {
	v, t := s.cfg.Vocabulary, s.cfg.Timeouts
	s.cfg.Reporter.Progress("Setting Wi-Fi")

	version, err := s.firmwareVersion()
	if err != nil {
		return err
	}
	legacy := version.LessThan(*v.InterfaceSelection)

	if !legacy {
		if err := s.WaitFor(v.SelectInterface, t.Interface); err != nil {
			return err
		}
		if err := s.WaitFor(v.InputNumber, t.Step); err != nil {
			return err
		}
		// Wi-Fi is the first interface.
		if err := s.Send("0"); err != nil {
			return err
		}
	}

	if err := s.WaitFor(v.SelectSSID, t.Interface); err != nil {
		return err
	}
	if err := s.WaitFor(v.InputNumber, t.Step); err != nil {
		return err
	}
	line, ok := s.buf.findLineFunc(func(l string) bool {
		return menuLabel(l) == v.OtherNetwork
	})
	if !ok {
		return &ParseError{Line: s.Received(), Reason: "no '" + v.OtherNetwork + "' entry, the firmware is not supported"}
	}
	index, err := ParseMenuIndex(line)
	if err != nil {
		return err
	}
	if err := s.Send(fmt.Sprintf("%d\n", index)); err != nil {
		return err
	}

	if legacy {
		if err := s.prompt(v.HiddenSSID, v.InputNumber); err != nil {
			return err
		}
		if err := s.Send(choice(setting.Hidden)); err != nil {
			return err
		}
	}

	if err := s.prompt(v.SSID, v.InputText); err != nil {
		return err
	}
	if strings.TrimSpace(setting.SSID) == "" {
		return &ValidationError{Field: "ssid", Value: setting.SSID, Reason: "must not be empty"}
	}
	if err := s.Send(setting.SSID + "\n"); err != nil {
		return err
	}

	if err := s.prompt(v.Password, v.InputText); err != nil {
		return err
	}
	if err := s.Send(setting.Password + "\n"); err != nil {
		return err
	}

	if err := s.prompt(v.SelectNetwork, v.InputNumber); err != nil {
		return err
	}
	if err := s.Send(choice(!setting.UseDHCP())); err != nil {
		return err
	}
	if !setting.UseDHCP() {
		addresses := []struct {
			banner string
			field  string
			value  string
		}{
			{v.IPAddress, "static_ip", setting.StaticIP},
			{v.DefaultGateway, "default_gateway", setting.DefaultGateway},
			{v.SubnetMask, "subnetmask", setting.SubnetMask},
			{v.DNSAddress, "dns", setting.DNS},
		}
		for _, a := range addresses {
			if err := s.prompt(a.banner, v.InputAddress); err != nil {
				return err
			}
			if net.ParseIP(a.value).To4() == nil {
				return &ValidationError{Field: a.field, Value: a.value, Reason: "must be an IPv4 address"}
			}
			if err := s.Send(a.value + "\n"); err != nil {
				return err
			}
		}
	}

	if err := s.prompt(v.ProxySetting, v.InputNumber); err != nil {
		return err
	}
	if err := s.Send(choice(setting.Proxy)); err != nil {
		return err
	}
	if setting.Proxy {
		if err := s.prompt(v.ProxyConfig, v.InputText); err != nil {
			return err
		}
		if strings.TrimSpace(setting.ProxyAddress) == "" {
			return &ValidationError{Field: "proxy_address", Value: setting.ProxyAddress, Reason: "must not be empty"}
		}
		if err := s.Send(setting.ProxyAddress + "\n"); err != nil {
			return err
		}
		if err := s.prompt(v.ProxyPort, v.InputNumber); err != nil {
			return err
		}
		if setting.ProxyPort <= 0 || setting.ProxyPort > 65535 {
			return &ValidationError{Field: "proxy_port", Value: strconv.Itoa(setting.ProxyPort), Reason: "must be between 1 and 65535"}
		}
		if err := s.Send(strconv.Itoa(setting.ProxyPort) + "\n"); err != nil {
			return err
		}
	}

	if err := s.WaitFor(v.WiFiConnecting, t.Step); err != nil {
		return err
	}
	s.cfg.Reporter.Success("Succeeded")
	return nil
}

// firmwareVersion reads the version the device prints while booting. A
// missing or unreadable version falls back to UnknownVersion.
func (s *Session) firmwareVersion() (*semver.Version, error) {
	label := s.cfg.Vocabulary.VersionLabel
	line, err := s.waitLine(label, s.cfg.Timeouts.Step)
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		s.cfg.Reporter.Warning("Failed to check obnizOS version. Subsequent flows can be failed.")
		return &UnknownVersion, nil
	}
	if err != nil {
		return nil, err
	}
	version, err := ParseFirmwareVersion(line, label)
	if err != nil {
		s.cfg.Reporter.Warning(fmt.Sprintf("Failed to check obnizOS version (%v). Subsequent flows can be failed.", err))
		return &UnknownVersion, nil
	}
	return version, nil
}

// ParseMenuIndex extracts the number in front of a menu entry such as
// "- 2: Other Network".
func ParseMenuIndex(line string) (int, error) {
	left, _, _ := strings.Cut(line, ":")
	left = strings.TrimSpace(strings.Replace(left, "-", "", 1))
	end := strings.IndexFunc(left, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(left)
	}
	if end == 0 {
		return 0, &ParseError{Line: line, Reason: "menu index is not a number"}
	}
	index, err := strconv.Atoi(left[:end])
	if err != nil {
		return 0, &ParseError{Line: line, Reason: err.Error()}
	}
	return index, nil
}

func choice(yes bool) string {
	if yes {
		return "1"
	}
	return "0"
}

// menuLabel returns the text of a menu entry such as "- 2: Other Network"
// without its index and decoration.
func menuLabel(line string) string {
	if _, after, found := strings.Cut(line, ":"); found {
		line = after
	}
	return strings.Trim(line, "- \t\r")
}
