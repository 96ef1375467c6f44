// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"testing"

	"periph.io/x/avr/xmega"
	"periph.io/x/periph/conn/physic"
)

func TestSPIClock(t *testing.T) {
	data := []struct {
		ctrlB    uint8
		baudB    uint8
		bsel     uint16
		expected string
	}{
		{xmega.RXEN | xmega.TXEN, 0, 7, (2 * physic.MegaHertz).String()},
		{xmega.RXEN | xmega.TXEN, 0x01, 0x107, (32 * physic.MegaHertz / (2 * 0x108)).String()},
		{xmega.RXEN | xmega.TXEN | xmega.CLK2X, 0, 7, "unknown with BSCALE 0 and CLK2X true; use -hz"},
		{xmega.RXEN | xmega.TXEN, 0xF0, 7, "unknown with BSCALE -1 and CLK2X false; use -hz"},
		{xmega.RXEN | xmega.TXEN, 0x30, 7, "unknown with BSCALE 3 and CLK2X false; use -hz"},
	}
	for i, line := range data {
		if s := spiClock(32*physic.MegaHertz, line.ctrlB, line.baudB, line.bsel); s != line.expected {
			t.Fatalf("#%d: %q != %q", i, s, line.expected)
		}
	}
}
