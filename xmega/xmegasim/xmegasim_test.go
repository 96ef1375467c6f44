// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package xmegasim

import (
	"testing"

	"periph.io/x/avr/xmega"
)

func TestUSART_loopback(t *testing.T) {
	u := NewUSART("USARTC0", nil)
	u.Store(xmega.USARTCtrlB, xmega.RXEN|xmega.TXEN)
	if s := u.Load(xmega.USARTStatus); s&xmega.DREIF == 0 {
		t.Fatalf("DREIF must be set at reset: %#02x", s)
	}
	u.Store(xmega.USARTData, 0x5A)
	if s := u.Load(xmega.USARTStatus); s&xmega.RXCIF == 0 || s&xmega.TXCIF == 0 {
		t.Fatalf("status = %#02x", s)
	}
	if v := u.Load(xmega.USARTData); v != 0x5A {
		t.Fatalf("DATA = %#02x", v)
	}
	if s := u.Load(xmega.USARTStatus); s&xmega.RXCIF != 0 {
		t.Fatalf("RXCIF must be cleared by reading DATA: %#02x", s)
	}
	u.Store(xmega.USARTStatus, xmega.TXCIF)
	if s := u.Load(xmega.USARTStatus); s != xmega.DREIF {
		t.Fatalf("status = %#02x", s)
	}
}

func TestUSART_latency(t *testing.T) {
	u := NewUSART("USARTC0", nil)
	u.Store(xmega.USARTCtrlB, xmega.RXEN|xmega.TXEN)
	u.Latency = 2
	u.Respond = func(w byte) byte { return ^w }
	u.Store(xmega.USARTData, 0x0F)
	for i := 0; i < 2; i++ {
		if s := u.Load(xmega.USARTStatus); s&(xmega.DREIF|xmega.RXCIF) != 0 {
			t.Fatalf("#%d: status = %#02x", i, s)
		}
	}
	if s := u.Load(xmega.USARTStatus); s&(xmega.DREIF|xmega.RXCIF) != xmega.DREIF|xmega.RXCIF {
		t.Fatalf("status = %#02x", s)
	}
	if v := u.Load(xmega.USARTData); v != 0xF0 {
		t.Fatalf("DATA = %#02x", v)
	}
	if u.Overruns != 0 {
		t.Fatalf("Overruns = %d", u.Overruns)
	}
	u.Busy(1)
	u.Store(xmega.USARTData, 0)
	if u.Overruns != 1 {
		t.Fatalf("Overruns = %d", u.Overruns)
	}
}

func TestUSART_disabled(t *testing.T) {
	u := NewUSART("USARTC0", nil)
	u.Store(xmega.USARTData, 1)
	for i := 0; i < 10; i++ {
		if s := u.Load(xmega.USARTStatus); s != 0 {
			t.Fatalf("status = %#02x", s)
		}
	}
}

func TestPort(t *testing.T) {
	l := &Log{}
	p := NewPort("PORTC", l)
	p.Pins = 0x81
	p.Store(xmega.PortDirSet, 0x10)
	p.Store(xmega.PortOutSet, 0x11)
	if dir, out := p.State(); dir != 0x10 || out != 0x11 {
		t.Fatalf("State() = %#02x, %#02x", dir, out)
	}
	if v := p.Load(xmega.PortIn); v != 0x91 {
		t.Fatalf("IN = %#02x", v)
	}
	p.Store(xmega.PortOutClr, 0x10)
	p.Store(xmega.PortOutTgl, 0x02)
	p.Store(xmega.PortDirClr, 0x10)
	if dir, out := p.State(); dir != 0 || out != 0x03 {
		t.Fatalf("State() = %#02x, %#02x", dir, out)
	}
	p.Store(xmega.PortPinCtrl+4, 0x18)
	w := l.Filter("PORTC", Write)
	want := []string{"DIRSET", "OUTSET", "OUTCLR", "OUTTGL", "DIRCLR", "PIN4CTRL"}
	if len(w) != len(want) {
		t.Fatalf("writes = %v", w)
	}
	for i := range want {
		if w[i].Reg != want[i] {
			t.Fatalf("write #%d = %s; expected %s", i, w[i].Reg, want[i])
		}
	}
	if s := w[1].String(); s != "PORTC W OUTSET=0x11" {
		t.Fatalf("String() = %q", s)
	}
	if r := l.Filter("PORTC", Read, "IN"); len(r) != 1 {
		t.Fatalf("reads = %v", r)
	}
}

func TestAccess_String(t *testing.T) {
	data := []struct {
		a        Access
		expected string
	}{
		{Access{Block: "USARTC0", Op: Write, Reg: "CTRLA"}, "USARTC0 W CTRLA=0x00"},
		{Access{Block: "USARTC0", Op: Write, Reg: "BAUDCTRLA", Value: 1}, "USARTC0 W BAUDCTRLA=0x01"},
		{Access{Block: "PORTC", Op: Read, Reg: "IN", Value: 0xA5}, "PORTC R IN=0xa5"},
	}
	for i, line := range data {
		if s := line.a.String(); s != line.expected {
			t.Fatalf("#%d: %q != %q", i, s, line.expected)
		}
	}
}
