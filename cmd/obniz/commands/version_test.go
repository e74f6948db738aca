// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	ctx := SetInfo(context.Background(), Info{Version: "v1.2.3", Date: "2024-01-01"})

	t.Run("release", func(t *testing.T) {
		var out bytes.Buffer
		cmd := VersionCmd(true)
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.ExecuteContext(ctx))
		assert.Contains(t, out.String(), "Version:\tv1.2.3\n")
		assert.Contains(t, out.String(), "Build date:\t2024-01-01\n")
	})

	t.Run("development", func(t *testing.T) {
		var out bytes.Buffer
		cmd := VersionCmd(false)
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.ExecuteContext(ctx))
		assert.Contains(t, out.String(), "Version:\tdevelopment\n")
	})
}

func TestGetInfoMissing(t *testing.T) {
	assert.Equal(t, Info{}, GetInfo(context.Background()))
}
