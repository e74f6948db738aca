// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/obniz/obniz-cli-go/cmd/obniz/console"
	"github.com/obniz/obniz-cli-go/cmd/obniz/logging"
	"github.com/spf13/cobra"
)

func MonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "monitor",
		Short:        "Monitor the serial output of an obnizOS device",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := cmd.Flags().GetString("port")
			if err != nil {
				return err
			}

			if port, err = CheckPort(port); err != nil {
				return err
			}

			baud, err := cmd.Flags().GetInt("baud")
			if err != nil {
				return err
			}

			attach, err := cmd.Flags().GetBool("attach")
			if err != nil {
				return err
			}

			failed := make(chan error, 1)
			s := console.New(port,
				console.WithBaudRate(baud),
				console.WithLogger(logging.GetLogger().Named("monitor")),
				console.WithRawOutput(cmd.OutOrStdout()),
				console.WithErrorHandler(func(err error) {
					select {
					case failed <- err:
					default:
					}
				}),
			)

			fmt.Fprintf(cmd.ErrOrStderr(), "Starting serial monitor of port '%s' ...\n", s.Name())
			if err := s.Open(); err != nil {
				return err
			}
			defer s.Close()

			if !attach {
				if err := s.Reset(); err != nil {
					return err
				}
			}

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)
			defer signal.Stop(interrupt)

			select {
			case <-interrupt:
				return nil
			case err := <-failed:
				return err
			}
		},
	}

	cmd.Flags().StringP("port", "p", ConfiguredPort(), "port to monitor")
	cmd.Flags().BoolP("attach", "a", false, "attach to the serial output without resetting the device")
	cmd.Flags().Int("baud", console.BaudRate, "the baud rate for serial monitoring")
	return cmd
}
