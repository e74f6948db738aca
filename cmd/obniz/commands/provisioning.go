// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/obniz/obniz-cli-go/cmd/obniz/console"
	"github.com/obniz/obniz-cli-go/cmd/obniz/directory"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Provisioning is the content of an 'os config --config' file.
type Provisioning struct {
	Net  string               `mapstructure:"net" json:"net" yaml:"net"`
	WiFi *console.WiFiSetting `mapstructure:"wifi" json:"wifi" yaml:"wifi"`
}

// ConfiguresWiFi is true when a Wi-Fi network should be entered, which is
// also the case when no network type is given.
func (p Provisioning) ConfiguresWiFi() bool {
	return p.WiFi != nil && (p.Net == "" || strings.EqualFold(p.Net, "wifi"))
}

func loadProvisioning(path string) (Provisioning, error) {
	var res Provisioning
	cfg, err := directory.ReadConfigFile(path)
	if err != nil {
		return res, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &res,
	})
	if err != nil {
		return res, err
	}
	if err := decoder.Decode(cfg.AllSettings()); err != nil {
		return res, fmt.Errorf("invalid config file '%s': %w", path, err)
	}
	return res, nil
}

// provisioningFromFlags loads the --config file, if any, and applies the
// Wi-Fi flags on top of it.
func provisioningFromFlags(cmd *cobra.Command) (Provisioning, error) {
	var res Provisioning
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return res, err
	}
	if path != "" {
		if res, err = loadProvisioning(path); err != nil {
			return res, err
		}
	}

	ssid, err := cmd.Flags().GetString("wifi-ssid")
	if err != nil {
		return res, err
	}
	password, err := cmd.Flags().GetString("wifi-password")
	if err != nil {
		return res, err
	}

	if ssid != "" {
		if res.WiFi == nil {
			res.WiFi = &console.WiFiSetting{}
		}
		res.WiFi.SSID = ssid
	}
	if password != "" && res.WiFi != nil {
		res.WiFi.Password = password
	}
	return res, nil
}

// completeWiFi fills in a missing ssid or password from the stored default,
// prompting for them as a last resort.
func completeWiFi(setting *console.WiFiSetting, stored wifiCredential, hasStored bool, readLine func() (string, error), readPassword func() ([]byte, error)) error {
	if setting.SSID == "" && hasStored {
		setting.SSID = stored.SSID
		if setting.Password == "" {
			setting.Password = stored.Password
		}
	}
	if setting.SSID == "" && readLine != nil {
		fmt.Print("Enter Wi-Fi network name: ")
		ssid, err := readLine()
		if err != nil && ssid == "" {
			return err
		}
		setting.SSID = ssid
	}
	if setting.SSID == "" {
		return fmt.Errorf("no Wi-Fi network given. Use --wifi-ssid, $%s or 'obniz config wifi set'", directory.WifiSSIDEnv)
	}
	if setting.Password == "" && hasStored && stored.SSID == setting.SSID {
		setting.Password = stored.Password
	}
	if setting.Password == "" && readPassword != nil {
		fmt.Printf("Enter Wi-Fi password for '%s': ", setting.SSID)
		pw, err := readPassword()
		if err != nil {
			return err
		}
		setting.Password = string(pw)
	}
	return nil
}

func addWiFiFlags(flags *pflag.FlagSet) {
	flags.String("wifi-ssid", os.Getenv(directory.WifiSSIDEnv), "Wi-Fi network name")
	flags.String("wifi-password", os.Getenv(directory.WifiPasswordEnv), "Wi-Fi password")
}
