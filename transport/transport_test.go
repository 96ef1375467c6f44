// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"errors"
	"testing"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/conntest"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spitest"
)

func TestNewSPI_err(t *testing.T) {
	if _, err := NewSPI(nil, &gpiotest.Pin{N: "CS"}, true); err == nil {
		t.Fatal("nil connection")
	}
	c := connect(t, &spitest.Playback{})
	if _, err := NewSPI(c, nil, true); err == nil {
		t.Fatal("nil pin")
	}
	if _, err := NewSPI(c, gpio.INVALID, true); err == nil {
		t.Fatal("invalid pin")
	}
}

func TestSPI(t *testing.T) {
	p := &spitest.Playback{
		Playback: conntest.Playback{
			Ops: []conntest.IO{
				// SendBytes(0x10, {0xAA, 0xBB})
				{W: []byte{0x10}},
				{W: []byte{0xAA, 0xBB}},
				// TransceiveBytes(0, {1, 2})
				{W: []byte{1, 2}, R: []byte{3, 4}},
				// GetBytes(0x80, 3 bytes)
				{W: []byte{0x80}},
				{W: []byte{0, 0, 0}, R: []byte{5, 6, 7}},
			},
			DontPanic: true,
		},
	}
	cs := &gpiotest.Pin{N: "CS"}
	s, err := NewSPI(connect(t, p), cs, true)
	if err != nil {
		t.Fatal(err)
	}
	if cs.L != gpio.High {
		t.Fatal("chip select must start deasserted")
	}
	if err := s.Prepare(); err != nil {
		t.Fatal(err)
	}
	if cs.L != gpio.Low {
		t.Fatal("chip select must be asserted low")
	}
	buf := []byte{0xAA, 0xBB}
	if err := s.SendBytes(0x10, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{0xAA, 0xBB}) {
		t.Fatalf("SendBytes modified the buffer: %#v", buf)
	}
	buf = []byte{1, 2}
	if err := s.TransceiveBytes(0, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{3, 4}) {
		t.Fatalf("TransceiveBytes: %#v", buf)
	}
	buf = make([]byte, 3)
	if err := s.GetBytes(0x80, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{5, 6, 7}) {
		t.Fatalf("GetBytes: %#v", buf)
	}
	if err := s.Finish(); err != nil {
		t.Fatal(err)
	}
	if cs.L != gpio.High {
		t.Fatal("chip select must be deasserted")
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSPI_activeHigh(t *testing.T) {
	cs := &gpiotest.Pin{N: "CS"}
	s, err := NewSPI(connect(t, &spitest.Playback{}), cs, false)
	if err != nil {
		t.Fatal(err)
	}
	if cs.L != gpio.Low {
		t.Fatal("chip select must start deasserted")
	}
	if err := s.Prepare(); err != nil {
		t.Fatal(err)
	}
	if cs.L != gpio.High {
		t.Fatal("chip select must be asserted high")
	}
	// Empty payloads don't touch the bus.
	if err := s.SendBytes(0, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.GetBytes(0, nil); err != nil {
		t.Fatal(err)
	}
}

func TestHelpers(t *testing.T) {
	data := []struct {
		name string
		f    func(t Transport, addr byte, b []byte) error
		want string
	}{
		{"Write", Write, "P S F "},
		{"Read", Read, "P G F "},
		{"Exchange", Exchange, "P T F "},
	}
	for _, line := range data {
		r := &record{}
		if err := line.f(r, 1, nil); err != nil {
			t.Fatalf("%s: %v", line.name, err)
		}
		if r.calls != line.want {
			t.Fatalf("%s: %q != %q", line.name, r.calls, line.want)
		}
	}
}

func TestHelpers_err(t *testing.T) {
	r := &record{err: errors.New("bus")}
	if err := Write(r, 1, nil); err == nil || err.Error() != "bus" {
		t.Fatalf("unexpected error %v", err)
	}
	if r.calls != "P S F " {
		t.Fatalf("Finish must run after a failure: %q", r.calls)
	}
	r = &record{prepareErr: errors.New("cs")}
	if err := Read(r, 1, nil); err == nil {
		t.Fatal("expected Prepare error")
	}
	if r.calls != "P " {
		t.Fatalf("nothing must run after Prepare failed: %q", r.calls)
	}
}

//

func connect(t *testing.T, p *spitest.Playback) spi.Conn {
	c, err := p.Connect(physic.MegaHertz, spi.Mode0|spi.NoCS, 8)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

type record struct {
	calls      string
	err        error
	prepareErr error
}

func (r *record) Prepare() error {
	r.calls += "P "
	return r.prepareErr
}

func (r *record) SendBytes(addr byte, b []byte) error {
	r.calls += "S "
	return r.err
}

func (r *record) TransceiveBytes(addr byte, b []byte) error {
	r.calls += "T "
	return r.err
}

func (r *record) GetBytes(addr byte, b []byte) error {
	r.calls += "G "
	return r.err
}

func (r *record) Finish() error {
	r.calls += "F "
	return nil
}

func TestConn(t *testing.T) {
	r := &record{}
	c := &Conn{T: r}
	if s := c.String(); s != "transport" {
		t.Fatal(s)
	}
	if d := c.Duplex(); d != conn.Half {
		t.Fatal(d)
	}
	if err := c.Tx([]byte{1}, make([]byte, 2)); err != nil {
		t.Fatal(err)
	}
	if r.calls != "P S G F " {
		t.Fatalf("unexpected calls %q", r.calls)
	}
}
