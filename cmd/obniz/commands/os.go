// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/obniz/obniz-cli-go/cmd/obniz/console"
	"github.com/obniz/obniz-cli-go/cmd/obniz/directory"
	"github.com/obniz/obniz-cli-go/cmd/obniz/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func OSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "os",
		Short: "Configure the obnizOS running on a device",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		OSConfigCmd(),
		OSResetWiFiCmd(),
		OSResetAllCmd(),
		OSNetworkTypeCmd(),
	)
	return cmd
}

func OSConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the device key and network settings to a device",
		Long: `Writes settings to an obnizOS device over its serial setting console.

The device key is written first when --devicekey is given. A device that
already carries the same obniz id is left untouched, a different one is
refused.

Network settings come from the --config file (JSON or YAML). Wi-Fi
settings are entered after the stored Wi-Fi settings have been reset. The
ssid and password can also be given with --wifi-ssid and --wifi-password.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceKey, err := cmd.Flags().GetString("devicekey")
			if err != nil {
				return err
			}
			if deviceKey != "" {
				if _, err := console.ObnizID(deviceKey); err != nil {
					return err
				}
			}

			prov, err := provisioningFromFlags(cmd)
			if err != nil {
				return err
			}
			if prov.WiFi != nil {
				cfg, err := directory.GetUserConfig()
				if err != nil {
					return err
				}
				stored, ok := loadWifiCredential(cfg)
				if err := completeWiFi(prov.WiFi, stored, ok, ReadLine, ReadPassword); err != nil {
					return err
				}
			}
			if deviceKey == "" && prov.Net == "" && prov.WiFi == nil {
				return fmt.Errorf("nothing to configure. Use --devicekey, --config or --wifi-ssid")
			}

			s, err := openConsole(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if deviceKey != "" {
				if err := s.SetDeviceKey(deviceKey); err != nil {
					return err
				}
			}
			if prov.Net != "" && !prov.ConfiguresWiFi() {
				if err := s.SetNetworkType(prov.Net); err != nil {
					return err
				}
			}
			if prov.ConfiguresWiFi() {
				if err := s.ResetWiFiSetting(); err != nil {
					return err
				}
				if err := s.SetWiFi(*prov.WiFi); err != nil {
					return err
				}
			}
			return nil
		},
	}

	addConsoleFlags(cmd.Flags())
	addWiFiFlags(cmd.Flags())
	cmd.Flags().StringP("devicekey", "d", "", "device key to write, in the form obnizID&secret")
	cmd.Flags().StringP("config", "c", "", "JSON or YAML file with the network settings")
	return cmd
}

func OSResetWiFiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "reset-wifi",
		Short:        "Reset the Wi-Fi settings stored on a device",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, (*console.Session).ResetWiFiSetting)
		},
	}
	addConsoleFlags(cmd.Flags())
	return cmd
}

func OSResetAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "reset-all",
		Short:        "Reset all settings stored on a device",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, err := cmd.Flags().GetBool("yes")
			if err != nil {
				return err
			}
			if !yes {
				prompt := promptui.Prompt{
					Label:     "Reset all settings stored on the device, including the device key",
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					return fmt.Errorf("reset aborted")
				}
			}
			return withConsole(cmd, (*console.Session).ResetAllSetting)
		},
	}
	addConsoleFlags(cmd.Flags())
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	return cmd
}

func OSNetworkTypeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "network-type [wifi|ethernet|cellular]",
		Short:        "Select the network interface a device uses",
		Long:         "Selects the network interface a device uses. Without an argument the interface is chosen interactively.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind string
			if len(args) == 1 {
				kind = args[0]
			} else {
				var err error
				if kind, err = pickNetworkType(console.DefaultVocabulary.NetworkTypes); err != nil {
					return err
				}
			}
			return withConsole(cmd, func(s *console.Session) error {
				return s.SetNetworkType(kind)
			})
		},
	}
	addConsoleFlags(cmd.Flags())
	return cmd
}

func pickNetworkType(types []string) (string, error) {
	prompt := promptui.Select{
		Label: "Choose the network interface",
		Items: types,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("you didn't select anything")
	}
	return types[i], nil
}

func addConsoleFlags(flags *pflag.FlagSet) {
	flags.StringP("port", "p", ConfiguredPort(), "serial port the device is connected to")
	flags.Int("baud", console.BaudRate, "the baud rate of the setting console")
	flags.BoolP("verbose", "v", false, "echo the raw console output")
}

func withConsole(cmd *cobra.Command, fn func(*console.Session) error) error {
	s, err := openConsole(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func openConsole(cmd *cobra.Command) (*console.Session, error) {
	port, err := cmd.Flags().GetString("port")
	if err != nil {
		return nil, err
	}
	baud, err := cmd.Flags().GetInt("baud")
	if err != nil {
		return nil, err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	if port, err = CheckPort(port); err != nil {
		return nil, err
	}

	opts := []console.Option{
		console.WithBaudRate(baud),
		console.WithReporter(newColorReporter(cmd.OutOrStdout())),
		console.WithLogger(logging.GetLogger().Named("console")),
	}
	if verbose {
		opts = append(opts, console.WithRawOutput(cmd.ErrOrStderr()))
	}

	s := console.New(port, opts...)
	if err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}
