// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// colorReporter prints provisioning progress for humans.
type colorReporter struct {
	w       io.Writer
	warn    *color.Color
	success *color.Color
}

func newColorReporter(w io.Writer) *colorReporter {
	return &colorReporter{
		w:       w,
		warn:    color.New(color.FgYellow),
		success: color.New(color.FgGreen),
	}
}

func (r *colorReporter) Progress(text string) {
	fmt.Fprintln(r.w, text)
}

func (r *colorReporter) Warning(text string) {
	r.warn.Fprintln(r.w, text)
}

func (r *colorReporter) Success(text string) {
	r.success.Fprintln(r.w, text)
}
