// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cscell provides a proof-gated optional value cell for sharing
// mutable state between a foreground control flow and asynchronous
// handlers.
//
// The package offers one storage primitive in two flavors plus the
// exclusion mechanism that guards it:
//
//   - Cell[T]:  generic optional slot, access gated by a Token
//   - PtrCell:  unsafe.Pointer slot for zero-copy handle sharing
//   - Domain:   exclusion domain issuing Tokens via With/Do/TryWith
//
// A Cell starts empty, is populated exactly once per logical lifecycle
// with Init, and is thereafter read and mutated in place. Every access
// requires a Token, and a Token is only obtainable inside a critical
// section, so the type system makes it impossible to reach the value
// without holding exclusivity. Absence is not an error: accessors fold
// the empty case into a caller-supplied fallback closure.
//
// # Quick Start
//
// Declare the cell as a package-level var. The zero value is an empty,
// ready-to-use cell — no constructor call, no init function:
//
//	var sensor cscell.Cell[SensorState]
//
//	func main() {
//	    cscell.Do(func(cs cscell.Token) {
//	        sensor.Init(cs, NewSensorState())
//	    })
//	    startHandlers() // handlers may fire only after Init
//	    // ...
//	}
//
// # Basic Usage
//
// Read access applies a closure to a shared view of the value, or calls
// the fallback when the cell is still empty:
//
//	reading := cscell.With(func(cs cscell.Token) float64 {
//	    return cscell.Borrow(&sensor, cs,
//	        func(s *SensorState) float64 { return s.Last },
//	        func() float64 { return 0 })
//	})
//
// Mutation goes through BorrowMut. For the common copy-out and
// mutate-in-place shapes, the Cell methods Get, Update and Present avoid
// the two-closure ceremony:
//
//	cscell.Do(func(cs cscell.Token) {
//	    sensor.Update(cs, func(s *SensorState) { s.Count++ })
//	})
//
// # Common Patterns
//
// Foreground + handler sharing a device handle:
//
//	var uart cscell.Cell[*UART]
//
//	// foreground
//	cscell.Do(func(cs cscell.Token) { uart.Init(cs, OpenUART(0)) })
//
//	// handler (interrupt, signal, timer callback, ...)
//	func onRxReady() {
//	    cscell.Do(func(cs cscell.Token) {
//	        uart.Update(cs, func(u **UART) { (*u).DrainRx() })
//	    })
//	}
//
// Populate-once guard when several call sites race to initialize:
//
//	cscell.Do(func(cs cscell.Token) {
//	    cscell.InitOnce(&cfg, cs, loadConfig)
//	})
//
// # Safety Contract
//
// The cell performs no locking of its own. Correctness rests entirely on
// the Token discipline:
//
//   - A Token is only obtainable inside With/Do/TryWith, which hold the
//     issuing Domain for the closure's dynamic extent.
//   - Interior references (*T) are only ever visible inside the access
//     closures, so they cannot outlive the critical section.
//   - All access sites for a given cell must use the same Domain.
//     Guarding one cell through two different domains is a caller error
//     this package cannot detect.
//
// Within one critical section the cell tracks borrows dynamically:
// shared borrows may nest, a mutable borrow is exclusive, and Init
// requires no outstanding borrow. A conflicting nested borrow is API
// misuse and panics.
//
// Critical sections are not reentrant. Calling With/Do on a domain the
// caller already holds deadlocks; use TryWith where re-entry cannot be
// ruled out structurally.
//
// # Domains
//
// Package-level With/Do/TryWith operate on a single process-wide default
// domain, which is the right granularity when one exclusion scope covers
// every handler. Independent groups of cells can use dedicated domains:
//
//	var netDomain = cscell.NewDomain()
//	var netConns cscell.Cell[ConnTable]
//
//	netDomain.Do(func(cs cscell.Token) {
//	    netConns.Init(cs, NewConnTable())
//	})
//
// # Error Handling
//
// The empty-cell case is never surfaced as an error; it flows through
// the fallback closures. The only error in the package is
// [ErrWouldBlock], returned by the TryWith variants when the domain is
// already held. The error is sourced from [code.hybscloud.com/iox] for
// ecosystem consistency:
//
//	backoff := iox.Backoff{}
//	for {
//	    v, err := cscell.TryWith(read)
//	    if err == nil {
//	        backoff.Reset()
//	        return v
//	    }
//	    backoff.Wait()
//	}
//
// # Race Detection
//
// The domain lock word uses atomix atomics with acquire-release
// ordering. Go's race detector tracks explicit synchronization
// primitives but cannot observe happens-before relationships established
// through these orderings, so it may report false positives on code
// synchronized by a Domain. Stress tests incompatible with race
// detection are gated on [RaceEnabled].
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for the domain lock word
// with explicit memory ordering, [code.hybscloud.com/spin] for CPU pause
// instructions while contending, and [code.hybscloud.com/iox] for
// semantic errors.
package cscell
