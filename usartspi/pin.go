// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usartspi

import (
	"errors"
	"time"

	"periph.io/x/avr/xmega"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
)

// pins are the pins reported through spi.Pins.
type pins struct {
	clk  usartPin
	mosi usartPin
	miso usartPin
	cs   portPin
}

// initPins names the pins. The USART pins are named after the XMEGA pinout
// when the master is named after a known USART instance.
//
// Must be called with m.mu held.
func (m *Master) initPins() {
	n := m.String()
	m.pins.clk = usartPin{n: n + ".XCK", f: "XCK", num: -1}
	m.pins.mosi = usartPin{n: n + ".TXD", f: "TXD", num: -1}
	m.pins.miso = usartPin{n: n + ".RXD", f: "RXD", num: -1}
	if u, ok := xmega.LookupUSART(n); ok {
		if p, ok := xmega.LookupPort(u.Port); ok {
			m.pins.clk.n, m.pins.clk.num = p.Pin(u.XCK), u.XCK
			m.pins.mosi.n, m.pins.mosi.num = p.Pin(u.TXD), u.TXD
			m.pins.miso.n, m.pins.miso.num = p.Pin(u.RXD), u.RXD
		}
	}
	m.pins.cs = portPin{p: m.port, mask: m.cs, n: n + ".CS"}
}

// usartPin is a pin driven by the USART while in master SPI mode.
//
// It cannot be used as a GPIO.
//
// usartPin implements gpio.PinIO.
type usartPin struct {
	n   string
	f   string
	num int
}

// String implements conn.Resource.
func (p *usartPin) String() string {
	return p.n
}

// Halt implements conn.Resource.
func (p *usartPin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *usartPin) Name() string {
	return p.n
}

// Number implements pin.Pin.
func (p *usartPin) Number() int {
	return p.num
}

// Function implements pin.Pin.
func (p *usartPin) Function() string {
	return p.f
}

// In implements gpio.PinIn.
func (p *usartPin) In(pull gpio.Pull, e gpio.Edge) error {
	return errors.New("usartspi: pin is used by the USART")
}

// Read implements gpio.PinIn.
func (p *usartPin) Read() gpio.Level {
	return gpio.Low
}

// WaitForEdge implements gpio.PinIn.
func (p *usartPin) WaitForEdge(t time.Duration) bool {
	return false
}

// DefaultPull implements gpio.PinIn.
func (p *usartPin) DefaultPull() gpio.Pull {
	return gpio.Float
}

// Pull implements gpio.PinIn.
func (p *usartPin) Pull() gpio.Pull {
	return gpio.PullNoChange
}

// Out implements gpio.PinOut.
func (p *usartPin) Out(l gpio.Level) error {
	return errors.New("usartspi: pin is used by the USART")
}

// PWM implements gpio.PinOut.
func (p *usartPin) PWM(d gpio.Duty, f physic.Frequency) error {
	return errors.New("usartspi: pin is used by the USART")
}

var _ gpio.PinIO = &usartPin{}
