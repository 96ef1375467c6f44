// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// usartspi prints the register configuration of a USART in master SPI mode.
//
// The configuration is applied to a simulated USART, so it can be checked
// before flashing a board. With -hz, the divider is derived from the requested
// SPI clock the way spi.Port.Connect does.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"periph.io/x/avr/trace"
	"periph.io/x/avr/usartspi"
	"periph.io/x/avr/xmega"
	"periph.io/x/avr/xmega/xmegasim"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
)

func printConfig(u *xmegasim.USART, inst xmega.USARTInstance, fPer physic.Frequency) {
	p, _ := xmega.LookupPort(inst.Port)
	ctrlB, ctrlC, a, b := u.Config()
	bsel := uint16(b&xmega.BSELHighMask)<<8 | uint16(a)
	fmt.Printf("%s @ %#04x (XCK %s, RXD %s, TXD %s)\n", inst.Name, inst.Base, p.Pin(inst.XCK), p.Pin(inst.RXD), p.Pin(inst.TXD))
	fmt.Printf("  CTRLB:     %#04x\n", ctrlB)
	fmt.Printf("  CTRLC:     %#04x\n", ctrlC)
	fmt.Printf("  BAUDCTRLA: %#04x\n", a)
	fmt.Printf("  BAUDCTRLB: %#04x\n", b)
	fmt.Printf("  BSCALE:    %d\n", int8(b)>>xmega.BSCALEShift)
	fmt.Printf("  BSEL:      %d\n", bsel)
	if ctrlC&xmega.UDORD != 0 {
		fmt.Printf("  Order:     %s\n", usartspi.LSBFirst)
	} else {
		fmt.Printf("  Order:     %s\n", usartspi.MSBFirst)
	}
	if fPer != 0 {
		fmt.Printf("  SPI clock: %s\n", spiClock(fPer, ctrlB, b, bsel))
	}
}

// spiClock describes the SPI clock for the given CTRLB, BAUDCTRLB and BSEL
// values.
//
// The clock is only computed for BSCALE 0 with CLK2X cleared, the
// configuration spi.Port.Connect programs.
func spiClock(fPer physic.Frequency, ctrlB, baudB uint8, bsel uint16) string {
	bscale := int8(baudB) >> xmega.BSCALEShift
	if bscale != 0 || ctrlB&xmega.CLK2X != 0 {
		return fmt.Sprintf("unknown with BSCALE %d and CLK2X %t; use -hz", bscale, ctrlB&xmega.CLK2X != 0)
	}
	return usartspi.Frequency(fPer, bsel).String()
}

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode")
	name := flag.String("usart", "USARTC0", "USART instance")
	csPort := flag.String("cs", "", "chip select port; defaults to the USART's port")
	csMask := flag.Uint("csmask", 1<<4, "chip select pin mask")
	activeHigh := flag.Bool("activehigh", false, "chip select is active high")
	fPer := 2 * physic.MegaHertz
	flag.Var(&fPer, "fper", "peripheral clock")
	var hz physic.Frequency
	flag.Var(&hz, "hz", "SPI clock; overrides -bscale and -bsel")
	bscale := flag.Int("bscale", 0, "BSCALE, -8 to 7")
	bsel := flag.Uint("bsel", 0, "BSEL, 0 to 4095")
	lsb := flag.Bool("lsb", false, "shift the least significant bit first")
	showTrace := flag.Bool("trace", false, "print the register accesses")
	flag.Parse()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *bscale < -8 || *bscale > 7 {
		return errors.New("-bscale must be between -8 and 7")
	}
	if *bsel > uint(xmega.BSELMax) {
		return fmt.Errorf("-bsel must be at most %d", xmega.BSELMax)
	}
	if *csMask == 0 || *csMask > 0xFF {
		return errors.New("-csmask must be a non-empty 8 bits mask")
	}

	inst, ok := xmega.LookupUSART(*name)
	if !ok {
		return fmt.Errorf("unknown USART %q", *name)
	}
	if *csPort == "" {
		*csPort = inst.Port
	}
	if _, ok := xmega.LookupPort(*csPort); !ok {
		return fmt.Errorf("unknown port %q", *csPort)
	}

	l := &xmegasim.Log{}
	u := xmegasim.NewUSART(inst.Name, l)
	opts := usartspi.Opts{
		Name:            inst.Name,
		PeripheralClock: fPer,
		BScale:          int8(*bscale),
		BSel:            uint16(*bsel),
		DoubleSpeed:     true,
		CS:              uint8(*csMask),
		ActiveLow:       !*activeHigh,
	}
	if *lsb {
		opts.Order = usartspi.LSBFirst
	}
	log.Printf("New(%s, %s, %+v)", inst.Name, *csPort, opts)
	m, err := usartspi.New(xmega.USART{R: u}, xmega.Port{R: xmegasim.NewPort(*csPort, l)}, &opts)
	if err != nil {
		return err
	}
	defer m.Close()
	if hz != 0 {
		p, err := m.SPI()
		if err != nil {
			return err
		}
		defer p.Close()
		mode := spi.Mode0
		if *lsb {
			mode |= spi.LSBFirst
		}
		log.Printf("Connect(%s, %s, 8)", hz, mode)
		if _, err := p.Connect(hz, mode, 8); err != nil {
			return err
		}
	}
	printConfig(u, inst, fPer)
	if *showTrace {
		d := trace.New()
		if _, err := d.Write(l.Accesses); err != nil {
			return err
		}
		return d.Halt()
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "usartspi: %s.\n", err)
		os.Exit(1)
	}
}
