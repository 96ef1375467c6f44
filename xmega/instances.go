// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package xmega

import "strconv"

// PortInstance is a GPIO port as found in the data memory map.
type PortInstance struct {
	Name string // e.g. "PORTC"
	Base uintptr
}

// Pin returns the conventional name of pin n on the port, e.g. "PC4".
func (p PortInstance) Pin(n int) string {
	return "P" + p.Name[len(p.Name)-1:] + strconv.Itoa(n)
}

// USARTInstance is a USART as found in the data memory map, along with the
// port pins it uses.
type USARTInstance struct {
	Name string // e.g. "USARTC0"
	Base uintptr
	Port string // Port carrying the XCK, RXD and TXD pins
	XCK  int
	RXD  int
	TXD  int
}

// Ports lists the GPIO ports of the ATxmega A1U family. Smaller packages
// expose a subset.
var Ports = []PortInstance{
	{"PORTA", 0x0600},
	{"PORTB", 0x0620},
	{"PORTC", 0x0640},
	{"PORTD", 0x0660},
	{"PORTE", 0x0680},
	{"PORTF", 0x06A0},
	{"PORTH", 0x06E0},
	{"PORTJ", 0x0700},
	{"PORTK", 0x0720},
	{"PORTQ", 0x07C0},
	{"PORTR", 0x07E0},
}

// USARTs lists the USARTs of the ATxmega A1U family.
//
// USARTx0 uses pins 1 to 3 of its port, USARTx1 uses pins 5 to 7.
var USARTs = []USARTInstance{
	{"USARTC0", 0x08A0, "PORTC", 1, 2, 3},
	{"USARTC1", 0x08B0, "PORTC", 5, 6, 7},
	{"USARTD0", 0x09A0, "PORTD", 1, 2, 3},
	{"USARTD1", 0x09B0, "PORTD", 5, 6, 7},
	{"USARTE0", 0x0AA0, "PORTE", 1, 2, 3},
	{"USARTE1", 0x0AB0, "PORTE", 5, 6, 7},
	{"USARTF0", 0x0BA0, "PORTF", 1, 2, 3},
	{"USARTF1", 0x0BB0, "PORTF", 5, 6, 7},
}

// LookupPort returns the port named name.
func LookupPort(name string) (PortInstance, bool) {
	for _, p := range Ports {
		if p.Name == name {
			return p, true
		}
	}
	return PortInstance{}, false
}

// LookupUSART returns the USART named name.
func LookupUSART(name string) (USARTInstance, bool) {
	for _, u := range USARTs {
		if u.Name == name {
			return u, true
		}
	}
	return USARTInstance{}, false
}
