// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// This file is the abstraction layer against the memory mapped register
// blocks.
//
// XMEGA AU manual; chapter 23 "USART" and chapter 13 "I/O Ports".
// http://ww1.microchip.com/downloads/en/DeviceDoc/Atmel-8331-8-and-16-bit-AVR-Microcontroller-XMEGA-AU_Manual.pdf

package xmega

// Registers is a block of 8 bits registers addressed by their offset from the
// start of the block.
//
// Implementations must be comparable, since the block identity is used to
// track ownership.
type Registers interface {
	// Load reads the register at off.
	Load(off uintptr) uint8
	// Store writes v to the register at off.
	Store(off uintptr, v uint8)
}

// USART is a typed view of a USART register block.
//
// It holds no state besides the block reference and can be copied freely.
type USART struct {
	R Registers
}

// Data reads the receive buffer.
func (u USART) Data() uint8 {
	return u.R.Load(USARTData)
}

// SetData writes the transmit buffer, which starts a transmission.
func (u USART) SetData(v uint8) {
	u.R.Store(USARTData, v)
}

// Status returns the status flags.
func (u USART) Status() uint8 {
	return u.R.Load(USARTStatus)
}

// ClearStatus clears the flags set in mask. The flags are write one to clear.
func (u USART) ClearStatus(mask uint8) {
	u.R.Store(USARTStatus, mask)
}

// CtrlA returns the interrupt level control register.
func (u USART) CtrlA() uint8 {
	return u.R.Load(USARTCtrlA)
}

// SetCtrlA sets the interrupt level control register.
func (u USART) SetCtrlA(v uint8) {
	u.R.Store(USARTCtrlA, v)
}

// CtrlB returns the receiver/transmitter enable register.
func (u USART) CtrlB() uint8 {
	return u.R.Load(USARTCtrlB)
}

// SetCtrlB sets the receiver/transmitter enable register.
func (u USART) SetCtrlB(v uint8) {
	u.R.Store(USARTCtrlB, v)
}

// CtrlC returns the mode control register.
func (u USART) CtrlC() uint8 {
	return u.R.Load(USARTCtrlC)
}

// SetCtrlC sets the mode control register.
func (u USART) SetCtrlC(v uint8) {
	u.R.Store(USARTCtrlC, v)
}

// Baud returns BAUDCTRLA and BAUDCTRLB.
func (u USART) Baud() (a, b uint8) {
	return u.R.Load(USARTBaudCtrlA), u.R.Load(USARTBaudCtrlB)
}

// SetBaud writes BAUDCTRLA then BAUDCTRLB.
//
// BAUDCTRLB must be written last; the baud rate generator is updated on that
// write.
func (u USART) SetBaud(a, b uint8) {
	u.R.Store(USARTBaudCtrlA, a)
	u.R.Store(USARTBaudCtrlB, b)
}

// Port is a typed view of a GPIO port register block.
type Port struct {
	R Registers
}

// Dir returns the direction register; 1 means output.
func (p Port) Dir() uint8 {
	return p.R.Load(PortDir)
}

// DirSet configures the pins in mask as outputs.
func (p Port) DirSet(mask uint8) {
	p.R.Store(PortDirSet, mask)
}

// DirClr configures the pins in mask as inputs.
func (p Port) DirClr(mask uint8) {
	p.R.Store(PortDirClr, mask)
}

// Out returns the output register.
func (p Port) Out() uint8 {
	return p.R.Load(PortOut)
}

// OutSet drives the pins in mask high.
func (p Port) OutSet(mask uint8) {
	p.R.Store(PortOutSet, mask)
}

// OutClr drives the pins in mask low.
func (p Port) OutClr(mask uint8) {
	p.R.Store(PortOutClr, mask)
}

// OutTgl toggles the pins in mask.
func (p Port) OutTgl(mask uint8) {
	p.R.Store(PortOutTgl, mask)
}

// In returns the sampled pin levels.
func (p Port) In() uint8 {
	return p.R.Load(PortIn)
}
