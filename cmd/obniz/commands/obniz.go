// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"context"
	"runtime"

	"github.com/obniz/obniz-cli-go/cmd/obniz/analytics"
	"github.com/obniz/obniz-cli-go/cmd/obniz/logging"
	segment "github.com/segmentio/analytics-go/v3"
	"github.com/spf13/cobra"
)

type ctxKey string

const (
	ctxKeyInfo ctxKey = "info"
)

type Info struct {
	Version string `mapstructure:"version" yaml:"version" json:"version"`
	Date    string `mapstructure:"date" yaml:"date" json:"date"`
}

func SetInfo(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, ctxKeyInfo, info)
}

// GetInfo returns the build info stored with SetInfo, or the zero Info.
func GetInfo(ctx context.Context) Info {
	info, _ := ctx.Value(ctxKeyInfo).(Info)
	return info
}

func ObnizCmd(info Info, isReleaseBuild bool) *cobra.Command {
	analyticsClient, err := analytics.GetClient()
	if err != nil {
		panic(err)
	}

	cmd := &cobra.Command{
		Use:   "obniz",
		Short: "Configure obnizOS devices over serial",
		Long: "obniz talks to the setting console of an obnizOS device connected over USB serial.\n\n" +
			"It writes the device key, selects the network interface, enters Wi-Fi settings\n" +
			"and resets stored settings by driving the device's interactive menus.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := cmd.Flags().GetString("log-level")
			if err != nil {
				return err
			}
			if err := logging.Initialize(level); err != nil {
				return err
			}

			properties := segment.Properties{
				"obniz":    true,
				"command":  cmd.UseLine(),
				"platform": runtime.GOOS,
			}

			if isReleaseBuild {
				properties.Set("version", info.Version)
			} else {
				properties.Set("version", "development")
			}

			go analyticsClient.Enqueue(segment.Page{
				Name:       "CLI Execute",
				Properties: properties,
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			analyticsClient.Close()
			logging.Sync()
		},
	}

	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error (default $"+logging.LogLevelEnv+")")

	cmd.AddCommand(
		OSCmd(),
		MonitorCmd(),
		PortCmd(),
		ConfigCmd(),
		VersionCmd(isReleaseBuild),
	)
	return cmd
}
