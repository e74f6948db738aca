// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package console

import (
	"fmt"
	"io"
	"os"

	"go.bug.st/serial"
)

// BaudRate is the symbol rate of the obnizOS console.
const BaudRate = 115200

// Port is the byte stream the console is attached to. DTR drives the reset
// line of the device.
type Port interface {
	io.ReadWriteCloser
	SetDTR(dtr bool) error
	SetRTS(rts bool) error
}

// Opener opens the named port at the given baud rate.
type Opener func(name string, baud int) (Port, error)

// OpenSerial opens a serial port with go.bug.st/serial.
func OpenSerial(name string, baud int) (Port, error) {
	dev, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
	})
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("the port '%s' was not found", name)
	}
	if err != nil {
		return nil, err
	}
	return &serialPort{dev}, nil
}

type serialPort struct {
	serial.Port
}

func (s serialPort) Read(buf []byte) (n int, err error) {
	n, err = s.Port.Read(buf)
	if err == nil && n == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	return n, err
}
