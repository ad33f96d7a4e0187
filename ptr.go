// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cscell

import "unsafe"

// PtrCell is a proof-gated slot for a single unsafe.Pointer.
//
// PtrCell trades the closure-based view discipline of Cell for raw
// pointer handover: Load returns the stored pointer itself, so the
// caller owns whatever it points to and the cell does no borrow
// tracking. Useful for sharing an opaque handle with a handler without
// instantiating the generic Cell.
//
// A nil pointer means empty; storing nil is therefore indistinguishable
// from never initializing. Use Cell[unsafe.Pointer] if nil must be a
// representable value.
//
// The zero value is an empty cell. All access requires a Token; the
// token discipline is the only synchronization, as with Cell.
type PtrCell struct {
	p unsafe.Pointer
}

// Init stores p in the cell, overwriting any previous pointer.
func (c *PtrCell) Init(cs Token, p unsafe.Pointer) {
	c.p = p
}

// Load returns the stored pointer, or nil if the cell is empty.
func (c *PtrCell) Load(cs Token) unsafe.Pointer {
	return c.p
}

// Swap stores p and returns the previously stored pointer (nil if the
// cell was empty).
func (c *PtrCell) Swap(cs Token, p unsafe.Pointer) unsafe.Pointer {
	old := c.p
	c.p = p
	return old
}

// Present reports whether the cell holds a non-nil pointer.
func (c *PtrCell) Present(cs Token) bool {
	return c.p != nil
}
