// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/obniz/obniz-cli-go/cmd/obniz/directory"
	"github.com/spf13/cobra"
)

const portCfgKey = "port"

func PortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "port",
		Short: "Manage the default serial port obnizOS devices are connected to",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		SetPortCmd(),
		ShowPortCmd(),
	)
	return cmd
}

func SetPortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "set <port>",
		Short:        "Store the serial port to use when --port is not given",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			port := strings.TrimSpace(args[0])
			if port == "" {
				return fmt.Errorf("the port name must not be empty")
			}

			cfg, err := directory.GetUserConfig()
			if err != nil {
				return err
			}
			cfg.Set(portCfgKey, port)
			if err := directory.WriteConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Using serial port '%s'.\n", port)
			return nil
		},
	}
	return cmd
}

func ShowPortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "show",
		Short:        "Print the serial port used when --port is not given",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := parseOutputFlag(cmd)
			if err != nil {
				return err
			}
			return enc.Encode(PortInfo{Name: ConfiguredPort(), Source: configuredPortSource()})
		},
	}
	cmd.Flags().StringP("output", "o", "short", "set output format to json, yaml or short")
	return cmd
}

type PortInfo struct {
	Name   string `yaml:"name" json:"name"`
	Source string `yaml:"source" json:"source"`
}

func (p PortInfo) Short() string {
	if p.Name == "" {
		return "No serial port configured."
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Source)
}

// ConfiguredPort is the port from OBNIZ_PORT or the user config.
func ConfiguredPort() string {
	if port := os.Getenv(directory.PortEnv); port != "" {
		return port
	}
	cfg, err := directory.GetUserConfig()
	if err != nil {
		return ""
	}
	return cfg.GetString(portCfgKey)
}

func configuredPortSource() string {
	if os.Getenv(directory.PortEnv) != "" {
		return "$" + directory.PortEnv
	}
	return "user config"
}

// CheckPort returns port, failing when no port was given or configured.
func CheckPort(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		return "", fmt.Errorf("no serial port given. Use --port, $%s or 'obniz port set <port>'", directory.PortEnv)
	}
	return port, nil
}
