// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Emulate a GPIO over a PORT register block.

package usartspi

import (
	"errors"
	"math/bits"
	"time"

	"periph.io/x/avr/xmega"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
)

// portPin is one or more pins of a PORT driven together, as the chip select
// mask can span multiple pins.
//
// portPin implements gpio.PinIO.
//
// It is stateless; the state lives in the port registers.
type portPin struct {
	p    xmega.Port
	mask uint8
	n    string
}

// String implements conn.Resource.
func (g *portPin) String() string {
	return g.n
}

// Halt implements conn.Resource.
func (g *portPin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (g *portPin) Name() string {
	return g.n
}

// Number implements pin.Pin.
//
// It returns -1 when the pin spans multiple port bits.
func (g *portPin) Number() int {
	if bits.OnesCount8(g.mask) != 1 {
		return -1
	}
	return bits.TrailingZeros8(g.mask)
}

// Function implements pin.Pin.
func (g *portPin) Function() string {
	if g.p.R == nil {
		return ""
	}
	if g.p.Dir()&g.mask == 0 {
		return "In/" + g.Read().String()
	}
	return "Out/" + gpio.Level(g.p.Out()&g.mask != 0).String()
}

// In implements gpio.PinIn.
func (g *portPin) In(pull gpio.Pull, e gpio.Edge) error {
	if g.p.R == nil {
		return errNoPort
	}
	if e != gpio.NoEdge {
		return errors.New("usartspi: edge triggering is not supported")
	}
	if pull != gpio.Float && pull != gpio.PullNoChange {
		// Pulls are configured through PINnCTRL, one pin at a time.
		return errors.New("usartspi: pull is not supported")
	}
	g.p.DirClr(g.mask)
	return nil
}

// Read implements gpio.PinIn.
func (g *portPin) Read() gpio.Level {
	if g.p.R == nil {
		return gpio.Low
	}
	return gpio.Level(g.p.In()&g.mask != 0)
}

// WaitForEdge implements gpio.PinIn.
func (g *portPin) WaitForEdge(t time.Duration) bool {
	return false
}

// DefaultPull implements gpio.PinIn.
func (g *portPin) DefaultPull() gpio.Pull {
	return gpio.Float
}

// Pull implements gpio.PinIn.
func (g *portPin) Pull() gpio.Pull {
	return gpio.PullNoChange
}

// Out implements gpio.PinOut.
//
// The level is set before the direction so the line does not glitch.
func (g *portPin) Out(l gpio.Level) error {
	if g.p.R == nil {
		return errNoPort
	}
	if l {
		g.p.OutSet(g.mask)
	} else {
		g.p.OutClr(g.mask)
	}
	g.p.DirSet(g.mask)
	return nil
}

// PWM implements gpio.PinOut.
func (g *portPin) PWM(d gpio.Duty, f physic.Frequency) error {
	return errors.New("usartspi: not implemented")
}

var _ gpio.PinIO = &portPin{}
