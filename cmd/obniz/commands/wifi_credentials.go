// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	WifiCfgKey         = "wifi"
	WifiSSIDCfgKey     = "ssid"
	WifiPasswordCfgKey = "password"
)

// wifiCredential is the default network stored in the user config.
type wifiCredential struct {
	SSID     string `mapstructure:"ssid" json:"ssid" yaml:"ssid"`
	Password string `mapstructure:"password" json:"password" yaml:"password"`
}

func (c wifiCredential) isValid() bool {
	return strings.TrimSpace(c.SSID) != ""
}

func loadWifiCredential(cfg *viper.Viper) (wifiCredential, bool) {
	if cfg == nil || !cfg.IsSet(WifiCfgKey) {
		return wifiCredential{}, false
	}
	var res wifiCredential
	if err := cfg.UnmarshalKey(WifiCfgKey, &res); err != nil || !res.isValid() {
		return wifiCredential{}, false
	}
	res.SSID = strings.TrimSpace(res.SSID)
	return res, true
}

// saveWifiCredential stores cred, or clears the stored entry when cred is nil.
func saveWifiCredential(cfg *viper.Viper, cred *wifiCredential) {
	if cred == nil || !cred.isValid() {
		cfg.Set(WifiCfgKey, "")
		return
	}
	cfg.Set(WifiCfgKey, map[string]string{
		WifiSSIDCfgKey:     strings.TrimSpace(cred.SSID),
		WifiPasswordCfgKey: cred.Password,
	})
}
