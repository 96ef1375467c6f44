// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package usartspi implements a SPI master over an AVR XMEGA USART running
// in master SPI mode.
//
// The USART shift register clocks one byte out on TXD while clocking one byte
// in on RXD, with XCK as the clock. Chip select is a GPIO pin driven through
// the OUTSET and OUTCLR registers of its port.
//
// A Master can be used in three ways:
//
//   - Directly, through Transfer and the transaction methods Prepare,
//     SendBytes, TransceiveBytes, GetBytes and Finish. These match
//     transport.Transport, the capability set shared with dedicated SPI
//     controllers.
//   - As a periph spi.Port via SPI(), for device drivers written against
//     periph.io/x/periph/conn/spi.
//   - As a tinygo.org/x/drivers.SPI via the spi.Conn returned by Connect().
//
// # Concurrency
//
// The Master itself does no locking. Only one transaction, from Prepare to
// Finish, may be in flight at a time and the caller must serialize access.
// The spi.Conn returned by Connect serializes TxPackets.
//
// Transfers poll the status flags and never yield. By default they wait
// forever; set Opts.SpinLimit to give up with ErrTimeout.
//
// # Datasheets
//
// http://ww1.microchip.com/downloads/en/DeviceDoc/Atmel-8331-8-and-16-bit-AVR-Microcontroller-XMEGA-AU_Manual.pdf
package usartspi
