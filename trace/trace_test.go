// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
	"periph.io/x/avr/xmega/xmegasim"
)

func TestWrite(t *testing.T) {
	buf := bytes.Buffer{}
	d := NewWriter(&buf, false)
	if s := d.String(); s != "Trace" {
		t.Fatal(s)
	}
	a := []xmegasim.Access{
		{Block: "USARTC0", Op: xmegasim.Write, Off: 0, Value: 0xA5, Reg: "DATA"},
		{Block: "PORTC", Op: xmegasim.Read, Off: 8, Value: 0x10, Reg: "IN"},
	}
	n, err := d.Write(a)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatal(n)
	}
	expected := "USARTC0  W DATA      0xa5 10100101\n" +
		"PORTC    R IN        0x10 00010000\n"
	if s := buf.String(); s != expected {
		t.Fatalf("%q != %q", s, expected)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != len(expected) {
		t.Fatal("Halt must not write without colors")
	}
}

func TestWrite_color(t *testing.T) {
	buf := bytes.Buffer{}
	d := NewWriter(&buf, true)
	if _, err := d.Write([]xmegasim.Access{{Block: "PORTC", Op: xmegasim.Write, Value: 0x80, Reg: "OUTSET"}}); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	on := ansi256.Default.Block(bitColor(xmegasim.Write, true))
	off := ansi256.Default.Block(bitColor(xmegasim.Write, false))
	bits := on + strings.Repeat(off, 7) + "\033[0m\n"
	if !strings.HasSuffix(s, bits) {
		t.Fatalf("unexpected output %q", s)
	}
	if !strings.HasPrefix(s, "PORTC    W OUTSET    0x80 ") {
		t.Fatalf("unexpected output %q", s)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\033[0m") {
		t.Fatal("Halt must reset the colors")
	}
}
