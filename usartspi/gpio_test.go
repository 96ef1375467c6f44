// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usartspi

import (
	"testing"

	"periph.io/x/avr/xmega"
	"periph.io/x/avr/xmega/xmegasim"
	"periph.io/x/periph/conn/gpio"
)

func TestPortPin(t *testing.T) {
	l := &xmegasim.Log{}
	p := xmegasim.NewPort("PORTD", l)
	g := portPin{p: xmega.Port{R: p}, mask: 1 << 5, n: "PD5"}
	if s := g.String(); s != "PD5" {
		t.Fatal(s)
	}
	if n := g.Number(); n != 5 {
		t.Fatal(n)
	}
	if err := g.In(gpio.Float, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	p.Pins = 1 << 5
	if s := g.Function(); s != "In/High" {
		t.Fatal(s)
	}
	if l := g.Read(); l != gpio.High {
		t.Fatal(l)
	}
	if err := g.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if s := g.Function(); s != "Out/Low" {
		t.Fatal(s)
	}
	if l := g.Read(); l != gpio.Low {
		t.Fatal(l)
	}
	// The level is set before the direction.
	checkLog(t, l.Filter("PORTD", xmegasim.Write), []string{
		"PORTD W DIRCLR=0x20",
		"PORTD W OUTCLR=0x20",
		"PORTD W DIRSET=0x20",
	})
	if err := g.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if dir, out := p.State(); dir != 0x20 || out != 0x20 {
		t.Fatalf("%#x %#x", dir, out)
	}
}

func TestPortPin_err(t *testing.T) {
	g := portPin{p: xmega.Port{R: xmegasim.NewPort("PORTD", nil)}, mask: 3, n: "CS"}
	if n := g.Number(); n != -1 {
		t.Fatal(n)
	}
	if err := g.In(gpio.PullUp, gpio.NoEdge); err == nil {
		t.Fatal("pull is not supported")
	}
	if err := g.In(gpio.Float, gpio.RisingEdge); err == nil {
		t.Fatal("edges are not supported")
	}
	if err := g.PWM(gpio.DutyHalf, 0); err == nil {
		t.Fatal("PWM is not supported")
	}
	if g.WaitForEdge(0) {
		t.Fatal("no edge")
	}

	var z portPin
	if err := z.Out(gpio.High); err != errNoPort {
		t.Fatal(err)
	}
	if err := z.In(gpio.Float, gpio.NoEdge); err != errNoPort {
		t.Fatal(err)
	}
	if s := z.Function(); s != "" {
		t.Fatal(s)
	}
	if l := z.Read(); l != gpio.Low {
		t.Fatal(l)
	}
}

func TestUSARTPin(t *testing.T) {
	p := usartPin{n: "PC1", f: "XCK", num: 1}
	if s := p.String(); s != "PC1" {
		t.Fatal(s)
	}
	if err := p.In(gpio.Float, gpio.NoEdge); err == nil {
		t.Fatal("pin is used by the USART")
	}
	if err := p.Out(gpio.High); err == nil {
		t.Fatal("pin is used by the USART")
	}
	if err := p.PWM(gpio.DutyMax, 0); err == nil {
		t.Fatal("pin is used by the USART")
	}
	if err := p.Halt(); err != nil {
		t.Fatal(err)
	}
}
