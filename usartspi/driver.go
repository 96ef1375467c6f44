// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usartspi

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/avr/xmega"
	"periph.io/x/periph"
	"periph.io/x/periph/conn/spi/spireg"
)

// All returns the masters registered with Register, including the ones
// created by the driver at periph.Init().
func All() []*Master {
	mu.Lock()
	defer mu.Unlock()
	out := make([]*Master, len(all))
	copy(out, all)
	return out
}

// Register registers the SPI port of m in spireg under m.String().
//
// Close unregisters it.
func Register(m *Master) error {
	if err := spireg.Register(m.String(), nil, -1, m.SPI); err != nil {
		return err
	}
	mu.Lock()
	all = append(all, m)
	mu.Unlock()
	m.mu.Lock()
	m.registered = true
	m.mu.Unlock()
	return nil
}

// Config describes a master to be created by the driver at periph.Init().
type Config struct {
	// USART is the instance name, e.g. "USARTC0".
	USART string
	// CSPort is the chip select port name, e.g. "PORTC".
	CSPort string
	// Opts is applied with New. Opts.Name defaults to USART.
	Opts Opts
}

// Configure queues a master for creation at periph.Init().
//
// It must be called before periph.Init().
func Configure(c Config) error {
	if _, ok := xmega.LookupUSART(c.USART); !ok {
		return fmt.Errorf("usartspi: unknown USART %q", c.USART)
	}
	if _, ok := xmega.LookupPort(c.CSPort); !ok {
		return fmt.Errorf("usartspi: unknown port %q", c.CSPort)
	}
	mu.Lock()
	defer mu.Unlock()
	configs = append(configs, c)
	return nil
}

//

var (
	mu      sync.Mutex
	all     []*Master
	configs []Config

	// owners maps the claimed USART register blocks to the name of their
	// master.
	owners = map[xmega.Registers]string{}
)

// claim marks the USART register block r as owned by name.
func claim(r xmega.Registers, name string) error {
	mu.Lock()
	defer mu.Unlock()
	if o, ok := owners[r]; ok {
		return fmt.Errorf("usartspi: USART is already owned by %q", o)
	}
	owners[r] = name
	return nil
}

// release is the inverse of claim.
func release(r xmega.Registers) {
	mu.Lock()
	defer mu.Unlock()
	delete(owners, r)
}

// forget removes m from all.
func forget(m *Master) {
	mu.Lock()
	defer mu.Unlock()
	for i := range all {
		if all[i] == m {
			copy(all[i:], all[i+1:])
			all = all[:len(all)-1]
			return
		}
	}
}

// open creates the master described by c, mapping the register blocks with
// mapBlock.
func open(c Config) (*Master, error) {
	u, ok := xmega.LookupUSART(c.USART)
	if !ok {
		return nil, fmt.Errorf("usartspi: unknown USART %q", c.USART)
	}
	p, ok := xmega.LookupPort(c.CSPort)
	if !ok {
		return nil, fmt.Errorf("usartspi: unknown port %q", c.CSPort)
	}
	ur, ok := mapBlock(u.Base)
	if !ok {
		return nil, errors.New("usartspi: registers are not memory mapped on this platform")
	}
	pr, ok := mapBlock(p.Base)
	if !ok {
		return nil, errors.New("usartspi: registers are not memory mapped on this platform")
	}
	opts := c.Opts
	if opts.Name == "" {
		opts.Name = u.Name
	}
	return New(xmega.USART{R: ur}, xmega.Port{R: pr}, &opts)
}

// driver implements periph.Driver.
type driver struct {
}

func (d *driver) String() string {
	return "usartspi"
}

func (d *driver) Prerequisites() []string {
	return nil
}

func (d *driver) After() []string {
	return nil
}

func (d *driver) Init() (bool, error) {
	if !mapped {
		return false, errors.New("usartspi: registers are not memory mapped on this platform")
	}
	mu.Lock()
	c := make([]Config, len(configs))
	copy(c, configs)
	mu.Unlock()
	if len(c) == 0 {
		return false, errors.New("usartspi: no USART configured")
	}
	for i := range c {
		m, err := open(c[i])
		if err != nil {
			return true, err
		}
		if err := Register(m); err != nil {
			_ = m.Close()
			return true, err
		}
	}
	return true, nil
}

func init() {
	periph.MustRegister(&driver{})
}

var _ periph.Driver = &driver{}
