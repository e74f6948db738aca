// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"
	"strings"

	"github.com/obniz/obniz-cli-go/cmd/obniz/analytics"
	"github.com/obniz/obniz-cli-go/cmd/obniz/directory"
	"github.com/spf13/cobra"
)

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configure obniz",
		Long:  "Configure the obniz command line tool.",
	}

	cmd.AddCommand(
		ConfigAnalyticsCmd(),
		ConfigWifiCmd(),
	)
	return cmd
}

func ConfigAnalyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Configure reporting of anonymous tool usage statistics",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Enable reporting of anonymous tool usage statistics",
			Args:  cobra.NoArgs,
			RunE:  configAnalytics(true),
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Disable reporting of anonymous tool usage statistics",
			Args:  cobra.NoArgs,
			RunE:  configAnalytics(false),
		},
	)
	return cmd
}

func ConfigWifiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wifi",
		Short: "Configure the default Wi-Fi network for obnizOS devices",
		Long: `Sets the default Wi-Fi credentials used by 'obniz os config'.

They are used when neither the config file nor the command line names a
Wi-Fi network. Without stored credentials the network must be given
explicitly.`,
		Args: cobra.NoArgs,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Deletes the stored Wi-Fi credentials",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, err := directory.GetUserConfig()
				if err != nil {
					return err
				}
				saveWifiCredential(cfg, nil)
				return directory.WriteConfig(cfg)
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Shows the stored Wi-Fi credentials",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := directory.GetUserConfig()
				if err != nil {
					return err
				}
				cred, ok := loadWifiCredential(cfg)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No stored Wi-Fi credentials.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "SSID: %s\tPassword: %s\n", cred.SSID, maskPassword(cred.Password))
				return nil
			},
		},
	)

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Sets the default Wi-Fi network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := directory.GetUserConfig()
			if err != nil {
				return err
			}

			ssid, err := cmd.Flags().GetString("wifi-ssid")
			if err != nil {
				return err
			}

			pass, err := cmd.Flags().GetString("wifi-password")
			if err != nil {
				return err
			}
			saveWifiCredential(cfg, &wifiCredential{SSID: ssid, Password: pass})
			return directory.WriteConfig(cfg)
		},
	}
	addWiFiFlags(setCmd.Flags())
	setCmd.MarkFlagRequired("wifi-ssid")
	cmd.AddCommand(setCmd)
	return cmd
}

func maskPassword(password string) string {
	if password == "" {
		return "(empty)"
	}
	n := len(password)
	if n > 8 {
		n = 8
	}
	return strings.Repeat("*", n)
}

func configAnalytics(enable bool) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		cfg, err := directory.GetUserConfig()
		if err != nil {
			return err
		}

		res, err := analytics.Load(cfg)
		if err != nil {
			return err
		}
		res.Enabled = enable
		cfg.Set(analytics.ConfigKey, res)
		return directory.WriteConfig(cfg)
	}
}
