// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build tinygo

package usartspi

import "periph.io/x/avr/xmega"

var mapped = true

func mapBlock(base uintptr) (xmega.Registers, bool) {
	return xmega.Mapped(base), true
}
