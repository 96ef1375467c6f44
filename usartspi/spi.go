// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usartspi

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"tinygo.org/x/drivers"
)

// SPI returns a SPI port over the USART.
//
// XCK is the clock, TXD the output (MOSI), RXD the input (MISO) and the chip
// select mask set via SetPort or Opts.CS is CS.
func (m *Master) SPI() (spi.PortCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.usingSPI {
		return nil, errors.New("usartspi: already using SPI")
	}
	if m.usart.R == nil {
		return nil, errors.New("usartspi: USART is not initialized")
	}
	// Don't mark it as being used yet. It only become used once Connect() is
	// called.
	m.initPins()
	m.s.c.m = m
	m.s.c.connected = false
	return &m.s, nil
}

// spiPort is a SPI port over a USART in master SPI mode.
type spiPort struct {
	c spiConn

	// Mutable.
	maxFreq physic.Frequency
}

// Close implements spi.PortCloser.
//
// Chip select is deasserted if the last packet kept it asserted.
func (s *spiPort) Close() error {
	s.c.mu.Lock()
	err := s.c.release()
	s.c.mu.Unlock()
	s.c.m.mu.Lock()
	s.c.m.usingSPI = false
	s.c.connected = false
	s.c.m.mu.Unlock()
	return err
}

func (s *spiPort) String() string {
	return s.c.m.String()
}

// Connect implements spi.Port.
//
// Only Mode0 is supported, optionally with LSBFirst or NoCS. A frequency
// above what the peripheral clock allows is lowered to the maximum. 0 keeps
// the divider configured at initialization.
func (s *spiPort) Connect(f physic.Frequency, m spi.Mode, bits int) (spi.Conn, error) {
	if f < 0 {
		return nil, fmt.Errorf("usartspi: invalid speed %s", f)
	}
	if bits != 8 {
		return nil, errors.New("usartspi: bits must be 8")
	}
	if m&spi.HalfDuplex != 0 {
		return nil, errors.New("usartspi: half duplex is not supported")
	}
	if m&spi.Mode3 != spi.Mode0 {
		return nil, fmt.Errorf("usartspi: %s is not supported; only Mode0 is", m&spi.Mode3)
	}
	if m&^(spi.Mode3|spi.NoCS|spi.LSBFirst) != 0 {
		return nil, fmt.Errorf("usartspi: unknown mode %s", m)
	}

	s.c.m.mu.Lock()
	defer s.c.m.mu.Unlock()
	if s.c.connected {
		return nil, errors.New("usartspi: Connect() can only be called once")
	}
	s.c.f = f
	if err := s.c.setSpeed(s.maxFreq); err != nil {
		return nil, err
	}
	if m&spi.LSBFirst != 0 {
		s.c.m.SetBitOrder(LSBFirst)
	} else {
		s.c.m.SetBitOrder(MSBFirst)
	}
	s.c.noCS = m&spi.NoCS != 0
	s.c.connected = true
	s.c.m.usingSPI = true
	return &s.c, nil
}

// LimitSpeed implements spi.PortCloser.
func (s *spiPort) LimitSpeed(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("usartspi: invalid speed %s", f)
	}
	s.c.m.mu.Lock()
	defer s.c.m.mu.Unlock()
	s.maxFreq = f
	if !s.c.connected {
		return nil
	}
	return s.c.setSpeed(f)
}

// CLK returns the XCK (clock) pin.
func (s *spiPort) CLK() gpio.PinOut {
	return s.c.CLK()
}

// MOSI returns the TXD (master out, slave in) pin.
func (s *spiPort) MOSI() gpio.PinOut {
	return s.c.MOSI()
}

// MISO returns the RXD (master in, slave out) pin.
func (s *spiPort) MISO() gpio.PinIn {
	return s.c.MISO()
}

// CS returns the chip select pin.
func (s *spiPort) CS() gpio.PinOut {
	return s.c.CS()
}

// spiConn is a connection over the USART.
//
// spiConn implements spi.Conn and drivers.SPI.
type spiConn struct {
	// Immutable.
	m *Master

	// Initialized at Connect().
	f         physic.Frequency
	noCS      bool
	connected bool

	mu       sync.Mutex
	asserted bool
}

func (s *spiConn) String() string {
	return s.m.String()
}

func (s *spiConn) Duplex() conn.Duplex {
	return conn.Full
}

func (s *spiConn) Tx(w, r []byte) error {
	var p = [1]spi.Packet{{W: w, R: r}}
	return s.TxPackets(p[:])
}

// Transfer implements drivers.SPI.
//
// It does not touch chip select.
func (s *spiConn) Transfer(b byte) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Transfer(b)
}

func (s *spiConn) TxPackets(pkts []spi.Packet) error {
	for _, p := range pkts {
		if p.BitsPerWord != 0 && p.BitsPerWord != 8 {
			return errors.New("usartspi: bits must be 8")
		}
		if err := verifyBuffers(p.W, p.R); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pkts {
		if len(p.W) == 0 && len(p.R) == 0 {
			if !p.KeepCS {
				if err := s.release(); err != nil {
					return err
				}
			}
			continue
		}
		if !s.noCS && !s.asserted {
			if err := s.m.Prepare(); err != nil {
				return err
			}
			s.asserted = true
		}
		if err := s.tx(p.W, p.R); err != nil {
			_ = s.release()
			return err
		}
		if !p.KeepCS {
			if err := s.release(); err != nil {
				return err
			}
		}
	}
	return nil
}

// CLK returns the XCK (clock) pin.
func (s *spiConn) CLK() gpio.PinOut {
	return &s.m.pins.clk
}

// MOSI returns the TXD (master out, slave in) pin.
func (s *spiConn) MOSI() gpio.PinOut {
	return &s.m.pins.mosi
}

// MISO returns the RXD (master in, slave out) pin.
func (s *spiConn) MISO() gpio.PinIn {
	return &s.m.pins.miso
}

// CS returns the chip select pin.
func (s *spiConn) CS() gpio.PinOut {
	return &s.m.pins.cs
}

// tx exchanges bytes; missing output bytes are sent as zeros and extra input
// bytes are discarded.
func (s *spiConn) tx(w, r []byte) error {
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		var out byte
		if i < len(w) {
			out = w[i]
		}
		in, err := s.m.Transfer(out)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = in
		}
	}
	return nil
}

// release deasserts chip select if it is asserted.
func (s *spiConn) release() error {
	if !s.asserted {
		return nil
	}
	s.asserted = false
	return s.m.Finish()
}

// setSpeed reprograms the baud rate generator for the lowest of the device
// speed and limit. Must be called with s.m.mu held.
func (s *spiConn) setSpeed(limit physic.Frequency) error {
	f := s.f
	if limit != 0 && (f == 0 || limit < f) {
		f = limit
	}
	if f == 0 {
		return nil
	}
	if hi := s.m.fPer / 2; s.m.fPer > 0 && f > hi {
		f = hi
	}
	bsel, _, err := BaudFor(s.m.fPer, f)
	if err != nil {
		return err
	}
	s.m.SetClockDivider(0, bsel, false)
	return nil
}

//

func verifyBuffers(w, r []byte) error {
	if len(w) != 0 && len(r) != 0 && len(w) != len(r) {
		return errors.New("usartspi: both buffers must have the same size")
	}
	return nil
}

var _ spi.PortCloser = &spiPort{}
var _ spi.Pins = &spiPort{}
var _ spi.Conn = &spiConn{}
var _ spi.Pins = &spiConn{}
var _ drivers.SPI = &spiConn{}
