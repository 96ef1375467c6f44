// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package transport

import (
	"periph.io/x/periph/conn"
)

// Conn exposes a Transport as a half-duplex conn.Conn.
//
// Each Tx is one transaction: w is sent, then len(r) bytes are read. This is
// the protocol of register based slaves, so a Conn can be wrapped in a
// mmr.Dev8.
type Conn struct {
	T    Transport
	Name string
}

// String implements conn.Conn.
func (c *Conn) String() string {
	if c.Name == "" {
		return "transport"
	}
	return c.Name
}

// Duplex implements conn.Conn.
func (c *Conn) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements conn.Conn.
func (c *Conn) Tx(w, r []byte) error {
	return run(c.T, func() error {
		if err := c.T.SendBytes(0, w); err != nil {
			return err
		}
		return c.T.GetBytes(0, r)
	})
}

var _ conn.Conn = &Conn{}
