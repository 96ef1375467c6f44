// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usartspi

import (
	"errors"
	"sync"

	"periph.io/x/avr/transport"
	"periph.io/x/avr/xmega"
	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi/spireg"
)

// BitOrder is the order in which the bits of a byte are shifted.
type BitOrder uint8

// Bit orders.
const (
	MSBFirst BitOrder = 0 // Default
	LSBFirst BitOrder = 1
)

func (b BitOrder) String() string {
	if b == LSBFirst {
		return "LSBFirst"
	}
	return "MSBFirst"
}

// ErrTimeout is returned by Transfer when the USART did not raise the
// expected status flag within Opts.SpinLimit polls.
var ErrTimeout = errors.New("usartspi: timed out waiting for the USART")

var errNoPort = errors.New("usartspi: chip select port is not configured")

// Opts holds the configuration applied by New.
type Opts struct {
	// Name identifies the master in the registries. Using the USART instance
	// name, e.g. "USARTC0", also names the pins after the XMEGA pinout.
	Name string
	// PeripheralClock is fPER. It is used to convert a frequency into a BSEL
	// value in Connect and LimitSpeed.
	PeripheralClock physic.Frequency
	// BScale and BSel program the baud rate generator. Only the low 4 bits of
	// BScale and the low 12 bits of BSel are used.
	BScale int8
	BSel   uint16
	// DoubleSpeed sets CLK2X.
	DoubleSpeed bool
	Order       BitOrder
	// CS is the mask of the chip select pin(s) on the port.
	CS uint8
	// ActiveLow is true when asserting chip select drives the line low.
	ActiveLow bool
	// SpinLimit is the number of unsuccessful status polls after which a
	// transfer fails with ErrTimeout. 0 means to wait forever.
	SpinLimit int
}

// DefaultOpts is the recommended default options.
//
// It matches the reset clock of 2MHz, giving a 1MHz SPI clock, with an active
// low chip select on pin 4.
var DefaultOpts = Opts{
	PeripheralClock: 2 * physic.MegaHertz,
	DoubleSpeed:     true,
	Order:           MSBFirst,
	CS:              1 << 4,
	ActiveLow:       true,
}

// New returns a Master that owns the USART u and drives chip select on p.
//
// The USART is configured in master SPI mode and chip select is set as an
// output, deasserted.
//
// The USART cannot be used by another Master until Close is called.
func New(u xmega.USART, p xmega.Port, opts *Opts) (*Master, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if u.R == nil {
		return nil, errors.New("usartspi: USART registers are required")
	}
	if p.R == nil {
		return nil, errNoPort
	}
	if opts.CS == 0 {
		return nil, errors.New("usartspi: chip select mask is empty")
	}
	if opts.SpinLimit < 0 {
		return nil, errors.New("usartspi: SpinLimit must be positive or 0")
	}
	if opts.PeripheralClock < 0 {
		return nil, errors.New("usartspi: PeripheralClock must be positive or 0")
	}
	name := opts.Name
	if name == "" {
		name = "usartspi"
	}
	if err := claim(u.R, name); err != nil {
		return nil, err
	}
	m := &Master{name: name, fPer: opts.PeripheralClock, spinLimit: opts.SpinLimit, owned: true}
	m.Init(u, opts.BScale, opts.BSel)
	if !opts.DoubleSpeed {
		m.SetClockDivider(opts.BScale, opts.BSel, false)
	}
	m.SetBitOrder(opts.Order)
	m.SetPort(p, opts.CS, opts.ActiveLow)
	// Deassert before switching the pin to output to avoid a glitch.
	_ = m.Finish()
	p.DirSet(opts.CS)
	return m, nil
}

// Master is a SPI master over a USART in master SPI mode.
//
// A zero Master can be configured with Init and SetPort instead of New, in
// which case it does not claim ownership of the USART.
//
// Master implements transport.Transport.
type Master struct {
	usart     xmega.USART
	port      xmega.Port
	cs        uint8
	activeLow bool

	// Set by New.
	name      string
	fPer      physic.Frequency
	spinLimit int
	owned     bool

	mu         sync.Mutex
	usingSPI   bool
	registered bool
	s          spiPort
	pins       pins
}

// Init configures u in master SPI mode, clears a stale transmit complete
// flag, enables the receiver and the transmitter with CLK2X and programs the
// baud rate generator.
func (m *Master) Init(u xmega.USART, bscale int8, bsel uint16) {
	m.usart = u
	u.SetCtrlC(xmega.CMODEMSPI)
	u.SetCtrlA(0)
	u.ClearStatus(xmega.TXCIF)
	u.SetCtrlB(xmega.RXEN | xmega.TXEN | xmega.CLK2X)
	u.SetBaud(baudCtrl(bscale, bsel))
}

// SetPort sets the chip select port, pin mask and polarity.
//
// It has no effect on the hardware.
func (m *Master) SetPort(p xmega.Port, cs uint8, activeLow bool) {
	m.port = p
	m.cs = cs
	m.activeLow = activeLow
}

// SetBitOrder sets or clears UDORD.
func (m *Master) SetBitOrder(b BitOrder) {
	if b != MSBFirst {
		m.usart.SetCtrlC(m.usart.CtrlC() | xmega.UDORD)
	} else {
		m.usart.SetCtrlC(m.usart.CtrlC() &^ xmega.UDORD)
	}
}

// SetClockDivider reprograms the receiver/transmitter enable register and the
// baud rate generator, leaving the mode and status registers untouched.
func (m *Master) SetClockDivider(bscale int8, bsel uint16, doubleSpeed bool) {
	v := xmega.RXEN | xmega.TXEN
	if doubleSpeed {
		v |= xmega.CLK2X
	}
	m.usart.SetCtrlB(v)
	m.usart.SetBaud(baudCtrl(bscale, bsel))
}

// Transfer shifts b out and returns the byte shifted in at the same time.
//
// It busy waits for the data register to be empty, writes b, then busy waits
// for the reception to complete.
func (m *Master) Transfer(b byte) (byte, error) {
	if err := m.wait(xmega.DREIF); err != nil {
		return 0, err
	}
	m.usart.SetData(b)
	if err := m.wait(xmega.RXCIF); err != nil {
		return 0, err
	}
	return m.usart.Data(), nil
}

// Prepare asserts chip select.
func (m *Master) Prepare() error {
	if m.port.R == nil {
		return errNoPort
	}
	if m.activeLow {
		m.port.OutClr(m.cs)
	} else {
		m.port.OutSet(m.cs)
	}
	return nil
}

// SendBytes sends addr unless it is 0, then b. The bytes received are
// discarded.
func (m *Master) SendBytes(addr byte, b []byte) error {
	if err := m.address(addr); err != nil {
		return err
	}
	for _, v := range b {
		if _, err := m.Transfer(v); err != nil {
			return err
		}
	}
	return nil
}

// TransceiveBytes sends addr unless it is 0, then exchanges b in place: each
// byte is replaced with the byte received while it was sent.
func (m *Master) TransceiveBytes(addr byte, b []byte) error {
	if err := m.address(addr); err != nil {
		return err
	}
	for i := range b {
		v, err := m.Transfer(b[i])
		if err != nil {
			return err
		}
		b[i] = v
	}
	return nil
}

// GetBytes sends addr unless it is 0, then reads len(b) bytes while sending
// zeros.
func (m *Master) GetBytes(addr byte, b []byte) error {
	if err := m.address(addr); err != nil {
		return err
	}
	for i := range b {
		v, err := m.Transfer(0)
		if err != nil {
			return err
		}
		b[i] = v
	}
	return nil
}

// Finish deasserts chip select.
func (m *Master) Finish() error {
	if m.port.R == nil {
		return errNoPort
	}
	if m.activeLow {
		m.port.OutSet(m.cs)
	} else {
		m.port.OutClr(m.cs)
	}
	return nil
}

// String implements conn.Resource.
func (m *Master) String() string {
	if m.name == "" {
		return "usartspi"
	}
	return m.name
}

// Halt implements conn.Resource.
//
// It deasserts chip select, leaving any slave idle. A transaction kept open
// on the SPI connection with spi.Packet.KeepCS is ended.
func (m *Master) Halt() error {
	m.s.c.mu.Lock()
	defer m.s.c.mu.Unlock()
	m.s.c.asserted = false
	if m.port.R == nil {
		return nil
	}
	return m.Finish()
}

// Close halts the master, unregisters its port and releases the USART.
func (m *Master) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.usingSPI {
		return errors.New("usartspi: SPI port is still open")
	}
	err := m.Halt()
	if m.registered {
		if err1 := spireg.Unregister(m.String()); err == nil {
			err = err1
		}
		forget(m)
		m.registered = false
	}
	if m.owned {
		release(m.usart.R)
		m.owned = false
	}
	return err
}

//

// address runs the optional address/command phase. 0 means no address.
func (m *Master) address(addr byte) error {
	if addr == 0 {
		return nil
	}
	_, err := m.Transfer(addr)
	return err
}

// wait polls STATUS until flag is set.
func (m *Master) wait(flag uint8) error {
	for n := 0; m.usart.Status()&flag == 0; {
		n++
		if m.spinLimit > 0 && n >= m.spinLimit {
			return ErrTimeout
		}
	}
	return nil
}

// baudCtrl packs BSCALE and BSEL into BAUDCTRLA and BAUDCTRLB.
func baudCtrl(bscale int8, bsel uint16) (uint8, uint8) {
	return uint8(bsel), uint8(bscale&0x0F)<<xmega.BSCALEShift | uint8((bsel&0xF00)>>8)
}

var _ transport.Transport = &Master{}
var _ conn.Resource = &Master{}
