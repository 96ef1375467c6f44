// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package avr is for documentation only. Explains how to build for an AVR
// XMEGA target.
//
// # Building
//
// The drivers in this module access memory mapped registers through
// runtime/volatile, which is only available with TinyGo. Build with:
//
//	tinygo build -target=<your xmega target> ./...
//
// # Host
//
// On a regular Go toolchain, every package builds and tests against the
// simulated peripherals in periph.io/x/avr/xmega/xmegasim. The commands in
// cmd/ also run against the simulation, which is useful to check the register
// configuration for a given SPI clock before flashing.
//
// # Wiring
//
// A USART in master SPI mode drives XCK as the clock, TXD as MOSI and reads
// RXD as MISO. The XCK and TXD pins must be configured as outputs by the
// board code. Chip select is any GPIO pin, driven by the driver.
package avr
