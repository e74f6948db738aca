// Copyright (C) 2021 Toitware ApS. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func VersionCmd(isReleaseBuild bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "version",
		Short:        "Print the version of obniz",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			info := GetInfo(cmd.Context())
			version := info.Version
			if !isReleaseBuild {
				version = "development"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Version:\t%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build date:\t%s\n", info.Date)
		},
	}
	return cmd
}
