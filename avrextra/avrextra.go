// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package avrextra loads the drivers of this module along with the host
// drivers.
//
// On a TinyGo XMEGA build, the usartspi driver registers the SPI ports of the
// USARTs queued with usartspi.Configure. On a regular host it skips itself and
// only the periph.io/x/periph/host drivers are loaded.
package avrextra

import (
	_ "periph.io/x/avr/usartspi"
	"periph.io/x/periph"
	"periph.io/x/periph/host"
)

// Init calls host.Init(), which calls periph.Init() and returns it as-is.
//
// Call usartspi.Configure before Init to have the USART SPI ports registered
// in spireg.
func Init() (*periph.State, error) {
	return host.Init()
}
