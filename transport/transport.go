// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package transport defines the bus transport used by device drivers to
// address a SPI slave, regardless of whether the bus is a dedicated SPI
// controller or a USART in master SPI mode.
//
// A transaction is Prepare, any number of SendBytes, TransceiveBytes and
// GetBytes, then Finish. addr is an optional register or command byte sent
// before the payload; 0 means there is no address phase.
//
// Callers sharing a Transport must serialize complete transactions.
package transport

import (
	"errors"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/spi"
)

// Transport is a SPI bus with a selected slave.
type Transport interface {
	// Prepare asserts chip select.
	Prepare() error
	// SendBytes sends addr unless it is 0, then b. The bytes received are
	// discarded.
	SendBytes(addr byte, b []byte) error
	// TransceiveBytes sends addr unless it is 0, then exchanges b in place.
	TransceiveBytes(addr byte, b []byte) error
	// GetBytes sends addr unless it is 0, then reads len(b) bytes while
	// sending zeros.
	GetBytes(addr byte, b []byte) error
	// Finish deasserts chip select.
	Finish() error
}

// Write runs a complete transaction sending addr then b.
func Write(t Transport, addr byte, b []byte) error {
	return run(t, func() error { return t.SendBytes(addr, b) })
}

// Read runs a complete transaction sending addr then reading len(b) bytes.
func Read(t Transport, addr byte, b []byte) error {
	return run(t, func() error { return t.GetBytes(addr, b) })
}

// Exchange runs a complete transaction sending addr then exchanging b in
// place.
func Exchange(t Transport, addr byte, b []byte) error {
	return run(t, func() error { return t.TransceiveBytes(addr, b) })
}

// SPI is a Transport over a periph SPI connection and a chip select pin
// driven as a GPIO.
//
// The connection is expected to be connected with spi.NoCS.
type SPI struct {
	c         spi.Conn
	cs        gpio.PinOut
	activeLow bool
}

// NewSPI returns a Transport over c with chip select cs.
//
// cs is driven to its deasserted level.
func NewSPI(c spi.Conn, cs gpio.PinOut, activeLow bool) (*SPI, error) {
	if c == nil {
		return nil, errors.New("transport: connection is required")
	}
	if cs == nil || cs == gpio.INVALID {
		return nil, errors.New("transport: chip select pin is required")
	}
	s := &SPI{c: c, cs: cs, activeLow: activeLow}
	if err := s.Finish(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SPI) String() string {
	return s.c.String()
}

// Prepare implements Transport.
func (s *SPI) Prepare() error {
	return s.cs.Out(gpio.Level(!s.activeLow))
}

// SendBytes implements Transport.
func (s *SPI) SendBytes(addr byte, b []byte) error {
	if err := s.address(addr); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return s.c.Tx(b, nil)
}

// TransceiveBytes implements Transport.
func (s *SPI) TransceiveBytes(addr byte, b []byte) error {
	if err := s.address(addr); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	r := make([]byte, len(b))
	if err := s.c.Tx(b, r); err != nil {
		return err
	}
	copy(b, r)
	return nil
}

// GetBytes implements Transport.
func (s *SPI) GetBytes(addr byte, b []byte) error {
	if err := s.address(addr); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return s.c.Tx(make([]byte, len(b)), b)
}

// Finish implements Transport.
func (s *SPI) Finish() error {
	return s.cs.Out(gpio.Level(s.activeLow))
}

//

func (s *SPI) address(addr byte) error {
	if addr == 0 {
		return nil
	}
	return s.c.Tx([]byte{addr}, nil)
}

// run wraps f between Prepare and Finish. Finish is always called once
// Prepare succeeded.
func run(t Transport, f func() error) error {
	if err := t.Prepare(); err != nil {
		return err
	}
	err := f()
	if err1 := t.Finish(); err == nil {
		err = err1
	}
	return err
}

var _ Transport = &SPI{}
