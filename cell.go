// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cscell

// Cell is a proof-gated optional value slot.
//
// The zero value is an empty cell, so a Cell can be declared directly as
// a package-level var and populated later with Init — no code runs at
// program start and T needs no constant initializer:
//
//	var shared cscell.Cell[DeviceState]
//
// Every accessor takes a Token, tying each access to a live critical
// section. The cell itself performs no locking and no atomics; the token
// discipline serializes all access (see the package documentation for
// the full safety contract).
//
// Borrow tracking within a critical section follows the usual dynamic
// borrow rules: any number of shared views may nest, a mutable view is
// exclusive, and Init requires no outstanding view. Violations panic.
//
// Memory: one T plus a presence flag and a borrow counter. Cells are not
// padded; they are expected to be touched only under their domain.
type Cell[T any] struct {
	value   T
	present bool
	borrows int32 // 0 = free, >0 = shared views, -1 = mutable view
}

// NewCell creates an empty cell.
//
// Equivalent to the zero value; provided for composite literals and
// call-site symmetry with NewDomain.
func NewCell[T any]() Cell[T] {
	return Cell[T]{}
}

// Init stores v in the cell, overwriting any previous value.
//
// The previous value, if any, is released to the garbage collector with
// no further cleanup; callers whose values own external resources must
// release them before re-initializing. Panics if called while a borrow
// obtained under the same token is still live.
func (c *Cell[T]) Init(cs Token, v T) {
	if c.borrows != 0 {
		panic("cscell: Init during live borrow")
	}
	c.value = v
	c.present = true
}

// Present reports whether the cell holds a value.
func (c *Cell[T]) Present(cs Token) bool {
	return c.present
}

// Get returns a copy of the contained value and true, or the zero value
// and false if the cell is empty.
func (c *Cell[T]) Get(cs Token) (T, bool) {
	if !c.present {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Update applies f to the contained value in place and returns true, or
// returns false without calling f if the cell is empty.
//
// Shorthand for BorrowMut when no result and no fallback are needed.
func (c *Cell[T]) Update(cs Token, f func(*T)) bool {
	return BorrowMut(c, cs,
		func(v *T) bool { f(v); return true },
		func() bool { return false })
}

// Borrow applies f to a shared view of the contained value and returns
// its result, or returns none() if the cell is empty.
//
// The *T passed to f is a read view; mutation belongs to BorrowMut. The
// pointer must not escape f. Shared borrows may nest within a critical
// section; panics if a mutable view is live.
//
// Borrow is a package-level function because the result type R is a
// free type parameter, which Go methods cannot carry.
func Borrow[T, R any](c *Cell[T], cs Token, f func(*T) R, none func() R) R {
	if c.borrows < 0 {
		panic("cscell: Borrow during live mutable borrow")
	}
	if !c.present {
		return none()
	}
	c.borrows++
	defer func() { c.borrows-- }()
	return f(&c.value)
}

// BorrowMut applies f to an exclusive mutable view of the contained
// value and returns its result, or returns none() if the cell is empty.
//
// The *T passed to f must not escape f. Panics if any other view of the
// same cell is live within the critical section.
func BorrowMut[T, R any](c *Cell[T], cs Token, f func(*T) R, none func() R) R {
	if c.borrows != 0 {
		panic("cscell: BorrowMut during live borrow")
	}
	if !c.present {
		return none()
	}
	c.borrows = -1
	defer func() { c.borrows = 0 }()
	return f(&c.value)
}

// InitOnce stores f() in the cell only if it is still empty.
// Returns true if the cell was populated by this call.
//
// f runs only when needed, so construction cost is paid at most once.
func InitOnce[T any](c *Cell[T], cs Token, f func() T) bool {
	if c.present {
		return false
	}
	c.Init(cs, f())
	return true
}
