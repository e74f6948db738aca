// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"time"

	"github.com/coreos/go-semver/semver"
)

// Vocabulary is the set of literal strings the obnizOS console prints.
// The scripts only branch on these, so a firmware text change is a change
// to this table.
type Vocabulary struct {
	SettingModeBanner string
	InputChar         string
	InputNumber       string
	InputText         string
	InputAddress      string

	SelectSetting    string
	WirelessLANReset string
	AllReset         string
	Rebooting        string

	VersionLabel   string
	IDLabel        string
	DeviceKeyLabel string

	SelectInterface string
	SelectSSID      string
	OtherNetwork    string
	HiddenSSID      string
	SSID            string
	Password        string
	SelectNetwork   string
	IPAddress       string
	DefaultGateway  string
	SubnetMask      string
	DNSAddress      string
	ProxySetting    string
	ProxyConfig     string
	ProxyPort       string
	WiFiConnecting  string

	// Setting menu entries and the confirmation key.
	MenuInterface string
	MenuAllReset  string
	MenuWiFiReset string
	Confirm       string
	// NetworkTypes lists the interface menu in order.
	NetworkTypes []string

	// InterfaceSelection is the first firmware version with the interface
	// menu in front of the SSID list. Older firmware asks for hidden SSIDs
	// instead.
	InterfaceSelection *semver.Version
}

// DefaultVocabulary matches obnizOS 3.x.
var DefaultVocabulary = Vocabulary{
	SettingModeBanner: "Press 's' to setting mode",
	InputChar:         "Input char >>",
	InputNumber:       "Input number >>",
	InputText:         "Input text >>",
	InputAddress:      "Input address >>",

	SelectSetting:    "-----Select Setting-----",
	WirelessLANReset: "-----Wireless LAN Reset-----",
	AllReset:         "-----All Reset",
	Rebooting:        "Rebooting",

	VersionLabel:   "obniz ver:",
	IDLabel:        "obniz id:",
	DeviceKeyLabel: "DeviceKey",

	SelectInterface: "-----Select Interface-----",
	SelectSSID:      "--- Select SSID Number ---",
	OtherNetwork:    "Other Network",
	HiddenSSID:      "--- Hidden SSID ---",
	SSID:            "--- SSID ---",
	Password:        "--- Password ---",
	SelectNetwork:   "--- select Network ---",
	IPAddress:       "--- IP Address ---",
	DefaultGateway:  "--- Default Gateway ---",
	SubnetMask:      "--- Subnet Mask ---",
	DNSAddress:      "--- DNS Address ---",
	ProxySetting:    "--- Proxy Setting ---",
	ProxyConfig:     "--- Proxy Config ---",
	ProxyPort:       "--- Proxy Port ---",
	WiFiConnecting:  "Wi-Fi Connecting SSID",

	MenuInterface: "1",
	MenuAllReset:  "2",
	MenuWiFiReset: "3",
	Confirm:       "y",
	NetworkTypes:  []string{"wifi", "ethernet", "cellular"},

	InterfaceSelection: semver.New("3.4.2"),
}

// Timeouts bounds every wait the scripts perform.
type Timeouts struct {
	// Default applies to waitFor calls that don't name a step.
	Default time.Duration
	// Settle is held between releasing and asserting the reset line.
	Settle time.Duration
	// Advisory is how long to wait for the setting banner before asking the
	// operator for a manual reset.
	Advisory    time.Duration
	SettingMode time.Duration
	// Step applies to menu navigation prompts.
	Step      time.Duration
	Interface time.Duration

	DeviceKeyPrompt  time.Duration
	DeviceKeyRetry   time.Duration
	DeviceKeyConfirm time.Duration
}

// DefaultTimeouts returns the timeouts tuned for obnizOS on ESP32 boards.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Default:          20 * time.Second,
		Settle:           10 * time.Millisecond,
		Advisory:         3 * time.Second,
		SettingMode:      60 * time.Second,
		Step:             10 * time.Second,
		Interface:        30 * time.Second,
		DeviceKeyPrompt:  3 * time.Second,
		DeviceKeyRetry:   2 * time.Second,
		DeviceKeyConfirm: 10 * time.Second,
	}
}
