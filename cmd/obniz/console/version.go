// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"strings"

	"github.com/coreos/go-semver/semver"
)

// UnknownVersion is assumed when the firmware doesn't report a usable
// version. It selects the oldest dialogs.
var UnknownVersion = semver.Version{}

// ParseFirmwareVersion extracts the version following label from a console
// line such as "obniz ver: 3.5.0".
func ParseFirmwareVersion(line string, label string) (*semver.Version, error) {
	i := strings.Index(line, label)
	if i < 0 {
		return nil, &ParseError{Line: line, Reason: "no '" + label + "' label"}
	}
	fields := strings.Fields(line[i+len(label):])
	if len(fields) == 0 {
		return nil, &ParseError{Line: line, Reason: "no version after '" + label + "'"}
	}
	raw := strings.TrimLeft(fields[0], "=v")
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, &ParseError{Line: line, Reason: err.Error()}
	}
	return v, nil
}
