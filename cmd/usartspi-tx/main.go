// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// usartspi-tx runs one SPI transaction and prints the bytes read.
//
// By default the transaction runs against a simulated USART in master SPI
// mode with MOSI wired to MISO, and the register accesses are printed. With
// -port, it runs on a SPI port of the host with a GPIO as chip select.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"periph.io/x/avr/avrextra"
	"periph.io/x/avr/trace"
	"periph.io/x/avr/transport"
	"periph.io/x/avr/usartspi"
	"periph.io/x/avr/xmega"
	"periph.io/x/avr/xmega/xmegasim"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
)

// run sends addr, then w when set, then reads n bytes.
func run(t transport.Transport, addr byte, w []byte, n int) ([]byte, error) {
	if err := t.Prepare(); err != nil {
		return nil, err
	}
	r := make([]byte, n)
	err := t.SendBytes(addr, w)
	if err == nil && n != 0 {
		// The address was already sent.
		err = t.GetBytes(0, r)
	}
	if err1 := t.Finish(); err == nil {
		err = err1
	}
	return r, err
}

func simulated(hz physic.Frequency, fPer physic.Frequency) (*usartspi.Master, *xmegasim.Log, error) {
	l := &xmegasim.Log{}
	opts := usartspi.DefaultOpts
	opts.Name = "USARTC0"
	opts.PeripheralClock = fPer
	opts.SpinLimit = 1000
	m, err := usartspi.New(xmega.USART{R: xmegasim.NewUSART("USARTC0", l)}, xmega.Port{R: xmegasim.NewPort("PORTC", l)}, &opts)
	if err != nil {
		return nil, nil, err
	}
	if hz != 0 {
		bsel, actual, err := usartspi.BaudFor(fPer, hz)
		if err != nil {
			m.Close()
			return nil, nil, err
		}
		log.Printf("BSEL %d for %s", bsel, actual)
		m.SetClockDivider(0, bsel, false)
	}
	return m, l, nil
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode")
	port := flag.String("port", "", "host SPI port; the simulated USARTC0 when empty")
	cs := flag.String("cs", "", "host GPIO used as chip select, with -port")
	activeHigh := flag.Bool("activehigh", false, "chip select is active high")
	addr := flag.Uint("addr", 0, "address or command byte; 0 for none")
	n := flag.Int("r", 0, "number of bytes to read after writing")
	var hz physic.Frequency
	flag.Var(&hz, "hz", "SPI clock")
	fPer := 32 * physic.MegaHertz
	flag.Var(&fPer, "fper", "simulated peripheral clock")
	flag.Parse()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() > 1 {
		return errors.New("specify at most one hex encoded payload, try -help")
	}
	if *addr > 0xFF {
		return errors.New("-addr must fit in a byte")
	}
	if *n < 0 {
		return errors.New("-r must be positive or 0")
	}
	var w []byte
	if flag.NArg() == 1 {
		var err error
		if w, err = hex.DecodeString(flag.Arg(0)); err != nil {
			return err
		}
	}

	if *port == "" {
		m, l, err := simulated(hz, fPer)
		if err != nil {
			return err
		}
		defer m.Close()
		l.Reset()
		r, err := run(m, byte(*addr), w, *n)
		if err != nil {
			return err
		}
		d := trace.New()
		if _, err := d.Write(l.Accesses); err != nil {
			return err
		}
		if err := d.Halt(); err != nil {
			return err
		}
		fmt.Printf("%s\n", hex.EncodeToString(r))
		return nil
	}

	if *cs == "" {
		return errors.New("-cs is required with -port")
	}
	if _, err := avrextra.Init(); err != nil {
		return err
	}
	p, err := spireg.Open(*port)
	if err != nil {
		return err
	}
	defer p.Close()
	c, err := p.Connect(hz, spi.Mode0|spi.NoCS, 8)
	if err != nil {
		return err
	}
	pin := gpioreg.ByName(*cs)
	if pin == nil {
		return fmt.Errorf("unknown pin %q", *cs)
	}
	t, err := transport.NewSPI(c, pin, !*activeHigh)
	if err != nil {
		return err
	}
	log.Printf("Using %s with %s as chip select", t, pin)
	r, err := run(t, byte(*addr), w, *n)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", hex.EncodeToString(r))
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "usartspi-tx: %s.\n", err)
		os.Exit(1)
	}
}
