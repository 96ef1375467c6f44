// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package xmegasim simulates the XMEGA USART and PORT register blocks.
//
// The simulation is enough to exercise a master SPI driver: writing DATA
// shifts a byte out, computes the byte shifted in and raises the status flags,
// optionally after a number of STATUS polls. Every access can be recorded in
// a Log shared between blocks to assert the order of operations.
package xmegasim

import (
	"fmt"

	"periph.io/x/avr/xmega"
)

// Op is the kind of a register access.
type Op uint8

// Register access kinds.
const (
	Read Op = iota
	Write
)

func (o Op) String() string {
	if o == Write {
		return "W"
	}
	return "R"
}

// Access is one recorded register access.
type Access struct {
	Block string
	Op    Op
	Off   uintptr
	Value uint8
	// Reg is the register name, e.g. "OUTSET".
	Reg string
}

func (a Access) String() string {
	return fmt.Sprintf("%s %s %s=%#04x", a.Block, a.Op, a.Reg, a.Value)
}

// Log records register accesses in order.
//
// The zero value is ready to use.
type Log struct {
	Accesses []Access
}

// Reset discards all recorded accesses.
func (l *Log) Reset() {
	l.Accesses = l.Accesses[:0]
}

// Filter returns the accesses matching block, op and one of regs. An empty
// regs matches every register.
func (l *Log) Filter(block string, op Op, regs ...string) []Access {
	var out []Access
	for _, a := range l.Accesses {
		if a.Block != block || a.Op != op {
			continue
		}
		if len(regs) == 0 {
			out = append(out, a)
			continue
		}
		for _, r := range regs {
			if a.Reg == r {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

func (l *Log) add(a Access) {
	if l != nil {
		l.Accesses = append(l.Accesses, a)
	}
}

//

// USART is a USART register block in master SPI mode.
//
// USART implements xmega.Registers.
type USART struct {
	// Name identifies the block in the Log.
	Name string
	// Log, when set, records every access.
	Log *Log
	// Respond returns the byte shifted in while w is shifted out. When nil, the
	// output is looped back to the input, as with MOSI wired to MISO.
	Respond func(w byte) byte
	// Latency is the number of STATUS reads during which DREIF and RXCIF stay
	// cleared after a write to DATA.
	Latency int

	// Sent lists every byte written to DATA.
	Sent []byte
	// Overruns counts the writes to DATA done while DREIF was cleared.
	Overruns int

	regs    [xmega.USARTSize]uint8
	rx      byte
	pending int
	done    uint8
}

// NewUSART returns a USART block in its reset state.
func NewUSART(name string, l *Log) *USART {
	u := &USART{Name: name, Log: l}
	u.regs[xmega.USARTStatus] = xmega.DREIF
	return u
}

// Busy clears DREIF for the next n STATUS reads, as if a transmission was in
// flight.
func (u *USART) Busy(n int) {
	u.regs[xmega.USARTStatus] &^= xmega.DREIF
	u.pending = n
	u.done = xmega.DREIF
}

// Load implements xmega.Registers.
func (u *USART) Load(off uintptr) uint8 {
	var v uint8
	switch off {
	case xmega.USARTData:
		v = u.rx
		u.regs[xmega.USARTStatus] &^= xmega.RXCIF
	case xmega.USARTStatus:
		v = u.regs[off]
		if u.pending > 0 {
			u.pending--
			if u.pending == 0 {
				u.regs[off] |= u.done
			}
		}
	default:
		if off < xmega.USARTSize {
			v = u.regs[off]
		}
	}
	u.Log.add(Access{Block: u.Name, Op: Read, Off: off, Value: v, Reg: usartReg(off)})
	return v
}

// Store implements xmega.Registers.
func (u *USART) Store(off uintptr, v uint8) {
	u.Log.add(Access{Block: u.Name, Op: Write, Off: off, Value: v, Reg: usartReg(off)})
	switch off {
	case xmega.USARTData:
		u.shift(v)
	case xmega.USARTStatus:
		u.regs[off] &^= v & xmega.TXCIF
	default:
		if off < xmega.USARTSize {
			u.regs[off] = v
		}
	}
}

// Config returns CTRLB, CTRLC, BAUDCTRLA and BAUDCTRLB without recording an
// access.
func (u *USART) Config() (ctrlB, ctrlC, baudA, baudB uint8) {
	return u.regs[xmega.USARTCtrlB], u.regs[xmega.USARTCtrlC], u.regs[xmega.USARTBaudCtrlA], u.regs[xmega.USARTBaudCtrlB]
}

func (u *USART) shift(w byte) {
	status := &u.regs[xmega.USARTStatus]
	if *status&xmega.DREIF == 0 {
		u.Overruns++
	}
	u.Sent = append(u.Sent, w)
	if u.regs[xmega.USARTCtrlB]&xmega.TXEN == 0 {
		// The transmitter is off; nothing is clocked and no flag is ever raised.
		*status &^= xmega.DREIF
		u.pending = 0
		return
	}
	if u.Respond != nil {
		u.rx = u.Respond(w)
	} else {
		u.rx = w
	}
	u.done = xmega.DREIF | xmega.TXCIF
	if u.regs[xmega.USARTCtrlB]&xmega.RXEN != 0 {
		u.done |= xmega.RXCIF
	}
	if u.Latency > 0 {
		*status &^= xmega.DREIF | xmega.RXCIF
		u.pending = u.Latency
		return
	}
	*status |= u.done
}

var usartNames = [...]string{"DATA", "STATUS", "0x02", "CTRLA", "CTRLB", "CTRLC", "BAUDCTRLA", "BAUDCTRLB"}

func usartReg(off uintptr) string {
	if off < uintptr(len(usartNames)) {
		return usartNames[off]
	}
	return fmt.Sprintf("%#02x", off)
}

//

// Port is a GPIO port register block.
//
// Port implements xmega.Registers.
type Port struct {
	// Name identifies the block in the Log.
	Name string
	// Log, when set, records every access.
	Log *Log
	// Pins are the levels applied externally, read back through IN for the
	// pins configured as inputs.
	Pins uint8

	regs [xmega.PortSize]uint8
}

// NewPort returns a port block in its reset state, all pins as inputs.
func NewPort(name string, l *Log) *Port {
	return &Port{Name: name, Log: l}
}

// Load implements xmega.Registers.
func (p *Port) Load(off uintptr) uint8 {
	var v uint8
	switch off {
	case xmega.PortDir, xmega.PortDirSet, xmega.PortDirClr, xmega.PortDirTgl:
		v = p.regs[xmega.PortDir]
	case xmega.PortOut, xmega.PortOutSet, xmega.PortOutClr, xmega.PortOutTgl:
		v = p.regs[xmega.PortOut]
	case xmega.PortIn:
		dir := p.regs[xmega.PortDir]
		v = p.regs[xmega.PortOut]&dir | p.Pins&^dir
	default:
		if off < xmega.PortSize {
			v = p.regs[off]
		}
	}
	p.Log.add(Access{Block: p.Name, Op: Read, Off: off, Value: v, Reg: portReg(off)})
	return v
}

// Store implements xmega.Registers.
func (p *Port) Store(off uintptr, v uint8) {
	p.Log.add(Access{Block: p.Name, Op: Write, Off: off, Value: v, Reg: portReg(off)})
	dir := &p.regs[xmega.PortDir]
	out := &p.regs[xmega.PortOut]
	switch off {
	case xmega.PortDir:
		*dir = v
	case xmega.PortDirSet:
		*dir |= v
	case xmega.PortDirClr:
		*dir &^= v
	case xmega.PortDirTgl:
		*dir ^= v
	case xmega.PortOut:
		*out = v
	case xmega.PortOutSet:
		*out |= v
	case xmega.PortOutClr:
		*out &^= v
	case xmega.PortOutTgl:
		*out ^= v
	case xmega.PortIn:
	default:
		if off < xmega.PortSize {
			p.regs[off] = v
		}
	}
}

// State returns DIR and OUT without recording an access.
func (p *Port) State() (dir, out uint8) {
	return p.regs[xmega.PortDir], p.regs[xmega.PortOut]
}

var portNames = [...]string{"DIR", "DIRSET", "DIRCLR", "DIRTGL", "OUT", "OUTSET", "OUTCLR", "OUTTGL", "IN", "INTCTRL"}

func portReg(off uintptr) string {
	if off < uintptr(len(portNames)) {
		return portNames[off]
	}
	if off >= xmega.PortPinCtrl && off < xmega.PortSize {
		return fmt.Sprintf("PIN%dCTRL", off-xmega.PortPinCtrl)
	}
	return fmt.Sprintf("%#02x", off)
}

var _ xmega.Registers = &USART{}
var _ xmega.Registers = &Port{}
