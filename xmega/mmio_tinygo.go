// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build tinygo

package xmega

import (
	"runtime/volatile"
	"unsafe"
)

// Mapped returns the register block starting at base in the data memory
// space.
func Mapped(base uintptr) Registers {
	return mapped(base)
}

// mapped is the base address of a register block. Each access is volatile.
type mapped uintptr

func (m mapped) Load(off uintptr) uint8 {
	return (*volatile.Register8)(unsafe.Pointer(uintptr(m) + off)).Get()
}

func (m mapped) Store(off uintptr, v uint8) {
	(*volatile.Register8)(unsafe.Pointer(uintptr(m) + off)).Set(v)
}
