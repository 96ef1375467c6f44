// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package xmega describes the AVR XMEGA USART and PORT register blocks.
//
// A register block is accessed through the Registers interface so drivers
// can run unchanged against the real hardware (Mapped, TinyGo only) or a
// simulation (package xmegasim).
//
// # Datasheets
//
// http://ww1.microchip.com/downloads/en/DeviceDoc/Atmel-8331-8-and-16-bit-AVR-Microcontroller-XMEGA-AU_Manual.pdf
//
// http://ww1.microchip.com/downloads/en/DeviceDoc/ATxmega64A1U-128A1U-Data-Sheet-DS40002058A.pdf
package xmega
