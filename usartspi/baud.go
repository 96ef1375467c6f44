// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usartspi

import (
	"errors"
	"fmt"

	"periph.io/x/avr/xmega"
	"periph.io/x/periph/conn/physic"
)

// BaudFor returns the BSEL value giving the fastest SPI clock not above f for
// a peripheral clock fPer, along with the resulting clock.
//
// In master SPI mode the clock is fPER / (2 * (BSEL + 1)) with BSCALE 0 and
// CLK2X cleared.
func BaudFor(fPer, f physic.Frequency) (uint16, physic.Frequency, error) {
	if fPer <= 0 {
		return 0, 0, errors.New("usartspi: peripheral clock is not set")
	}
	if f <= 0 {
		return 0, 0, fmt.Errorf("usartspi: invalid speed %s", f)
	}
	if hi := fPer / 2; f > hi {
		return 0, 0, fmt.Errorf("usartspi: invalid speed %s; maximum supported clock is %s", f, hi)
	}
	// div is BSEL+1, rounded up so the clock never exceeds f.
	div := (fPer + 2*f - 1) / (2 * f)
	if div > physic.Frequency(xmega.BSELMax)+1 {
		return 0, 0, fmt.Errorf("usartspi: invalid speed %s; minimum supported clock is %s", f, Frequency(fPer, xmega.BSELMax))
	}
	return uint16(div - 1), fPer / (2 * div), nil
}

// Frequency returns the SPI clock for a peripheral clock fPer and a BSEL
// value, with BSCALE 0 and CLK2X cleared.
func Frequency(fPer physic.Frequency, bsel uint16) physic.Frequency {
	return fPer / (2 * (physic.Frequency(bsel&xmega.BSELMax) + 1))
}
