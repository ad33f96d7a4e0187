// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cscell_test

import (
	"errors"
	"sync"
	"testing"

	"code.hybscloud.com/cscell"
	"code.hybscloud.com/iox"
)

// =============================================================================
// Domain - Critical Section Basics
// =============================================================================

// TestWithResultPropagation verifies that With returns the closure's
// result unchanged.
func TestWithResultPropagation(t *testing.T) {
	got := cscell.With(func(cs cscell.Token) string {
		return "inside"
	})
	if got != "inside" {
		t.Fatalf("With: got %q, want %q", got, "inside")
	}

	d := cscell.NewDomain()
	n := cscell.WithDomain(d, func(cs cscell.Token) int {
		return 41 + 1
	})
	if n != 42 {
		t.Fatalf("WithDomain: got %d, want 42", n)
	}
}

// TestTryWithWouldBlock verifies that TryWith refuses to enter a held
// domain and succeeds once it is free again.
func TestTryWithWouldBlock(t *testing.T) {
	if cscell.RaceEnabled {
		t.Skip("skip: domain lock word uses atomix memory ordering")
	}

	d := cscell.NewDomain()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		d.Do(func(cs cscell.Token) {
			close(entered)
			<-release
		})
		close(done)
	}()

	<-entered
	if _, err := cscell.TryWithDomain(d, func(cs cscell.Token) int { return 1 }); !errors.Is(err, cscell.ErrWouldBlock) {
		t.Fatalf("TryWithDomain on held domain: got %v, want ErrWouldBlock", err)
	}
	if _, err := cscell.TryWithDomain(d, func(cs cscell.Token) int { return 1 }); !cscell.IsWouldBlock(err) {
		t.Fatal("IsWouldBlock on held domain: got false, want true")
	}

	close(release)
	<-done

	// Retry with adaptive backoff until the domain is free.
	backoff := iox.Backoff{}
	for {
		v, err := cscell.TryWithDomain(d, func(cs cscell.Token) int { return 7 })
		if err == nil {
			if v != 7 {
				t.Fatalf("TryWithDomain after release: got %d, want 7", v)
			}
			break
		}
		if !cscell.IsNonFailure(err) {
			t.Fatalf("TryWithDomain: unexpected error %v", err)
		}
		backoff.Wait()
	}
}

// TestIndependentDomains verifies that holding one domain does not
// affect entry into another.
func TestIndependentDomains(t *testing.T) {
	d1 := cscell.NewDomain()
	d2 := cscell.NewDomain()

	got := cscell.WithDomain(d1, func(outer cscell.Token) int {
		v, err := cscell.TryWithDomain(d2, func(inner cscell.Token) int { return 5 })
		if err != nil {
			t.Fatalf("TryWithDomain on free domain: %v", err)
		}
		return v
	})
	if got != 5 {
		t.Fatalf("nested independent domains: got %d, want 5", got)
	}
}

// TestDoReleasesOnPanic verifies that a panic inside the critical
// section still releases the domain.
func TestDoReleasesOnPanic(t *testing.T) {
	d := cscell.NewDomain()

	func() {
		defer func() { _ = recover() }()
		d.Do(func(cs cscell.Token) {
			panic("handler fault")
		})
	}()

	if _, err := cscell.TryWithDomain(d, func(cs cscell.Token) int { return 1 }); err != nil {
		t.Fatalf("TryWithDomain after panic: got %v, want nil", err)
	}
}

// =============================================================================
// Domain - Mutual Exclusion Stress
// =============================================================================

// TestDomainMutualExclusionStress hammers one cell from many goroutines.
// Every increment must survive; a lost update means two contexts were
// inside the critical section at once.
func TestDomainMutualExclusionStress(t *testing.T) {
	if cscell.RaceEnabled {
		t.Skip("skip: domain lock word uses atomix memory ordering")
	}

	const (
		numWorkers = 8
		iterations = 20000
	)

	d := cscell.NewDomain()
	var c cscell.Cell[int]
	cscell.WithDomain(d, func(cs cscell.Token) struct{} {
		c.Init(cs, 0)
		return struct{}{}
	})

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				d.Do(func(cs cscell.Token) {
					c.Update(cs, func(v *int) { *v++ })
				})
			}
		}()
	}
	wg.Wait()

	got := cscell.WithDomain(d, func(cs cscell.Token) int {
		v, _ := c.Get(cs)
		return v
	})
	if got != numWorkers*iterations {
		t.Fatalf("final count: got %d, want %d", got, numWorkers*iterations)
	}
}

// TestDefaultDomainStress exercises the package-level Do path under
// contention.
func TestDefaultDomainStress(t *testing.T) {
	if cscell.RaceEnabled {
		t.Skip("skip: domain lock word uses atomix memory ordering")
	}

	const (
		numWorkers = 4
		iterations = 10000
	)

	var c cscell.Cell[uint64]
	cscell.Do(func(cs cscell.Token) { c.Init(cs, 0) })

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				cscell.Do(func(cs cscell.Token) {
					c.Update(cs, func(v *uint64) { *v++ })
				})
			}
		}()
	}
	wg.Wait()

	got := cscell.With(func(cs cscell.Token) uint64 {
		v, _ := c.Get(cs)
		return v
	})
	if got != numWorkers*iterations {
		t.Fatalf("final count: got %d, want %d", got, numWorkers*iterations)
	}
}
