// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package usartspismoketest is leveraged by smoke test runners to verify that
// a USART in master SPI mode is working as expected.
//
// MOSI (TXD) must be wired to MISO (RXD). Without -port, the test runs
// against a simulated USARTC0.
package usartspismoketest

import (
	"bytes"
	"errors"
	"flag"
	"fmt"

	"periph.io/x/avr/transport"
	"periph.io/x/avr/usartspi"
	"periph.io/x/avr/xmega"
	"periph.io/x/avr/xmega/xmegasim"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"tinygo.org/x/drivers"
)

// SmokeTest is imported by smoke test runners.
type SmokeTest struct {
}

// Name implements the SmokeTest interface.
func (s *SmokeTest) Name() string {
	return "usartspi"
}

// Description implements the SmokeTest interface.
func (s *SmokeTest) Description() string {
	return "Tests a USART in master SPI mode with MOSI wired to MISO"
}

// Run implements the SmokeTest interface.
func (s *SmokeTest) Run(f *flag.FlagSet, args []string) (err error) {
	name := f.String("port", "", "SPI port to test; a simulated USARTC0 when empty")
	hz := physic.MegaHertz
	f.Var(&hz, "hz", "SPI clock")
	if err := f.Parse(args); err != nil {
		return err
	}
	if f.NArg() != 0 {
		f.Usage()
		return errors.New("unrecognized arguments")
	}

	var p spi.PortCloser
	if *name == "" {
		m, err1 := simulated()
		if err1 != nil {
			return err1
		}
		defer func() {
			if err2 := m.Close(); err == nil {
				err = err2
			}
		}()
		if err := testTransport(m); err != nil {
			return err
		}
		if p, err = m.SPI(); err != nil {
			return err
		}
	} else if p, err = spireg.Open(*name); err != nil {
		return err
	}
	defer func() {
		if err2 := p.Close(); err == nil {
			err = err2
		}
	}()
	c, err := p.Connect(hz, spi.Mode0, 8)
	if err != nil {
		return err
	}
	return testLoopback(c)
}

// simulated returns a master over a simulated USARTC0 clocked at 32MHz.
func simulated() (*usartspi.Master, error) {
	opts := usartspi.DefaultOpts
	opts.Name = "USARTC0"
	opts.PeripheralClock = 32 * physic.MegaHertz
	opts.SpinLimit = 1000
	u := xmegasim.NewUSART("USARTC0", nil)
	u.Latency = 3
	return usartspi.New(xmega.USART{R: u}, xmega.Port{R: xmegasim.NewPort("PORTC", nil)}, &opts)
}

func testTransport(t transport.Transport) error {
	b := []byte{0xA5, 0x5A}
	if err := transport.Exchange(t, 0x10, b); err != nil {
		return err
	}
	if !bytes.Equal(b, []byte{0xA5, 0x5A}) {
		return fmt.Errorf("loopback failed: got %#v", b)
	}
	return nil
}

func testLoopback(c spi.Conn) error {
	w := make([]byte, 256)
	for i := range w {
		w[i] = byte(i)
	}
	r := make([]byte, len(w))
	if err := c.Tx(w, r); err != nil {
		return err
	}
	if !bytes.Equal(w, r) {
		return fmt.Errorf("loopback failed: got %#v", r)
	}

	r = make([]byte, 2)
	pkts := []spi.Packet{{W: []byte{0x01}, KeepCS: true}, {W: []byte{0x02, 0x03}, R: r}}
	if err := c.TxPackets(pkts); err != nil {
		return err
	}
	if !bytes.Equal(r, []byte{0x02, 0x03}) {
		return fmt.Errorf("loopback failed: got %#v", r)
	}

	d, ok := c.(drivers.SPI)
	if !ok {
		return fmt.Errorf("%T doesn't implement drivers.SPI", c)
	}
	v, err := d.Transfer(0x42)
	if err != nil {
		return err
	}
	if v != 0x42 {
		return fmt.Errorf("loopback failed: got %#x", v)
	}
	return nil
}
