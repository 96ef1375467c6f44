// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package trace prints simulated register accesses to the terminal.
//
// Each access is printed on its own line, with the value as 8 bits, most
// significant first. On a color terminal the bits are drawn as ANSI color
// blocks, red for writes and green for reads.
package trace

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"periph.io/x/avr/xmega/xmegasim"
)

// Dev writes register accesses to a console.
type Dev struct {
	w     io.Writer
	color bool
	buf   bytes.Buffer
}

// New returns a Dev that prints to stdout, with colors when stdout is a
// terminal.
func New() *Dev {
	return &Dev{
		w:     colorable.NewColorableStdout(),
		color: isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// NewWriter returns a Dev that prints to w.
func NewWriter(w io.Writer, color bool) *Dev {
	return &Dev{w: w, color: color}
}

func (d *Dev) String() string {
	return "Trace"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	if !d.color {
		return nil
	}
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}

// Write prints the accesses and returns the number of accesses printed.
func (d *Dev) Write(accesses []xmegasim.Access) (int, error) {
	d.buf.Reset()
	for _, a := range accesses {
		fmt.Fprintf(&d.buf, "%-8s %s %-9s %#04x ", a.Block, a.Op, a.Reg, a.Value)
		for i := 7; i >= 0; i-- {
			on := a.Value&(1<<uint(i)) != 0
			if d.color {
				_, _ = io.WriteString(&d.buf, ansi256.Default.Block(bitColor(a.Op, on)))
			} else if on {
				_ = d.buf.WriteByte('1')
			} else {
				_ = d.buf.WriteByte('0')
			}
		}
		if d.color {
			_, _ = d.buf.WriteString("\033[0m")
		}
		_ = d.buf.WriteByte('\n')
	}
	if _, err := d.buf.WriteTo(d.w); err != nil {
		return 0, err
	}
	return len(accesses), nil
}

//

func bitColor(op xmegasim.Op, on bool) color.NRGBA {
	if !on {
		return color.NRGBA{0x30, 0x30, 0x30, 255}
	}
	if op == xmegasim.Write {
		return color.NRGBA{0xFF, 0x40, 0x40, 255}
	}
	return color.NRGBA{0x40, 0xFF, 0x40, 255}
}

var _ fmt.Stringer = &Dev{}
