// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package xmega

// USART register offsets.
const (
	USARTData      uintptr = 0x00
	USARTStatus    uintptr = 0x01
	USARTCtrlA     uintptr = 0x03
	USARTCtrlB     uintptr = 0x04
	USARTCtrlC     uintptr = 0x05
	USARTBaudCtrlA uintptr = 0x06
	USARTBaudCtrlB uintptr = 0x07

	// USARTSize is the span of the register block.
	USARTSize uintptr = 0x08
)

// STATUS flags.
const (
	RXCIF  uint8 = 0x80 // Receive complete; cleared by reading DATA
	TXCIF  uint8 = 0x40 // Transmit complete; write one to clear
	DREIF  uint8 = 0x20 // Data register empty; read only
	FERR   uint8 = 0x10 // Frame error, not used in master SPI mode
	BUFOVF uint8 = 0x08 // Receive buffer overflow
	PERR   uint8 = 0x04 // Parity error, not used in master SPI mode
	RXB8   uint8 = 0x01
)

// CTRLB bits.
const (
	RXEN  uint8 = 0x10
	TXEN  uint8 = 0x08
	CLK2X uint8 = 0x04 // Double transmission speed
	MPCM  uint8 = 0x02
	TXB8  uint8 = 0x01
)

// CTRLC bits.
//
// In master SPI mode the frame format bits are reused: bit 2 is UDORD (data
// order) and bit 1 is UCPHA (clock phase).
const (
	CMODEMask  uint8 = 0xC0
	CMODEAsync uint8 = 0x00
	CMODESync  uint8 = 0x40
	CMODEIRDA  uint8 = 0x80
	CMODEMSPI  uint8 = 0xC0
	UDORD      uint8 = 0x04 // LSB first when set
	UCPHA      uint8 = 0x02
)

// BAUDCTRLB layout: BSCALE in the high nibble, BSEL[11:8] in the low nibble.
const (
	BSCALEShift         = 4
	BSCALEMask   uint8  = 0xF0
	BSELHighMask uint8  = 0x0F
	BSELMax      uint16 = 0x0FFF
)

// PORT register offsets.
const (
	PortDir     uintptr = 0x00
	PortDirSet  uintptr = 0x01
	PortDirClr  uintptr = 0x02
	PortDirTgl  uintptr = 0x03
	PortOut     uintptr = 0x04
	PortOutSet  uintptr = 0x05
	PortOutClr  uintptr = 0x06
	PortOutTgl  uintptr = 0x07
	PortIn      uintptr = 0x08
	PortIntCtrl uintptr = 0x09
	// PortPinCtrl is the offset of PIN0CTRL; PINnCTRL follow.
	PortPinCtrl uintptr = 0x10

	// PortSize is the span of the register block.
	PortSize uintptr = 0x18
)
