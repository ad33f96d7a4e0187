// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cscell

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Domain is an exclusion domain: the scope within which at most one
// logical context executes a critical section at a time.
//
// The zero value is a ready-to-use, unheld domain, so domains can be
// declared as package-level vars. All access sites for a given cell must
// agree on one domain; the cells themselves do not verify this.
//
// Domains are not reentrant. A context that already holds a domain and
// enters With/Do on the same domain again deadlocks.
type Domain struct {
	_    pad
	lock atomix.Uint64 // 0 = free, 1 = held
	_    padShort
}

// defaultDomain backs the package-level With/Do/TryWith functions.
var defaultDomain Domain

// NewDomain creates an independent exclusion domain.
func NewDomain() *Domain {
	return &Domain{}
}

// Token is proof that the bearer holds an exclusion domain.
//
// A Token has no public constructor; the only way to obtain one is
// inside the closure passed to With, Do or TryWith, and it is only valid
// for that closure's dynamic extent. Do not store a Token or pass it to
// another goroutine.
type Token struct {
	d *Domain
}

// acquire spins until the lock word is won.
func (d *Domain) acquire() {
	sw := spin.Wait{}
	for !d.lock.CompareAndSwapAcqRel(0, 1) {
		sw.Once()
	}
}

// tryAcquire attempts a single lock-word handover.
func (d *Domain) tryAcquire() bool {
	return d.lock.CompareAndSwapAcqRel(0, 1)
}

func (d *Domain) release() {
	d.lock.StoreRelease(0)
}

// Do runs f as a critical section on the domain.
//
// The domain is held for f's dynamic extent and released afterward even
// if f panics.
func (d *Domain) Do(f func(Token)) {
	d.acquire()
	defer d.release()
	f(Token{d: d})
}

// Do runs f as a critical section on the default domain.
func Do(f func(Token)) {
	defaultDomain.Do(f)
}

// WithDomain runs f as a critical section on d and returns f's result.
func WithDomain[R any](d *Domain, f func(Token) R) R {
	d.acquire()
	defer d.release()
	return f(Token{d: d})
}

// With runs f as a critical section on the default domain and returns
// f's result.
func With[R any](f func(Token) R) R {
	return WithDomain(&defaultDomain, f)
}

// TryWithDomain runs f as a critical section on d if the domain is free.
// Returns (zero-value, ErrWouldBlock) without running f if the domain is
// already held.
func TryWithDomain[R any](d *Domain, f func(Token) R) (R, error) {
	if !d.tryAcquire() {
		var zero R
		return zero, ErrWouldBlock
	}
	defer d.release()
	return f(Token{d: d}), nil
}

// TryWith runs f as a critical section on the default domain if it is
// free. Returns (zero-value, ErrWouldBlock) without running f otherwise.
func TryWith[R any](f func(Token) R) (R, error) {
	return TryWithDomain(&defaultDomain, f)
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte
