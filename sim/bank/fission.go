package bank

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// FissionBank is a fixed-capacity buffer of sites shared by all transport workers of a session.
//
// Slots are claimed by an atomic fetch-and-add on the length counter; the claiming goroutine then
// owns its slot and writes it without further synchronization. The capacity never changes between
// Allocate and Release, so claimed indices stay valid for the whole transport phase.
type FissionBank struct {
	sites    []Site
	length   atomic.Int64 // slots claimed, may run past len(sites) once the bank is full
	overflow atomic.Int64 // appends rejected for lack of capacity
}

// Allocate replaces any existing buffer with one of exactly capacity sites and resets the length.
// It must not be called while transport workers are appending.
func (b *FissionBank) Allocate(capacity int64) (err error) {
	if capacity < 0 {
		return newBankError(ErrCodeInvalidSize, nil, "fission bank capacity must be >= 0, got %d", capacity)
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); !ok {
				panic(r)
			}
			b.sites = nil
			b.length.Store(0)
			b.overflow.Store(0)
			err = newBankError(ErrCodeAllocate, nil, "could not allocate fission bank of %d sites: %v", capacity, r)
		}
	}()
	b.sites = nil
	b.sites = make([]Site, capacity)
	b.length.Store(0)
	b.overflow.Store(0)
	return nil
}

// Append claims the next free slot and writes site into it, returning the slot index.
// Safe for concurrent use. When the bank is full nothing is written and the returned error
// wraps ErrCapacityExceeded.
func (b *FissionBank) Append(site Site) (int64, error) {
	idx := b.length.Add(1) - 1
	if idx >= int64(len(b.sites)) {
		b.overflow.Add(1)
		return -1, newBankError(ErrCodeOutOfBounds, ErrCapacityExceeded,
			"fission bank full: slot %d requested, capacity %d", idx, len(b.sites))
	}
	b.sites[idx] = site
	return idx, nil
}

// Len returns the number of valid sites. Rejected appends are not counted.
func (b *FissionBank) Len() int64 {
	n := b.length.Load()
	if c := int64(len(b.sites)); n > c {
		return c
	}
	return n
}

// Cap returns the capacity fixed by the last Allocate.
func (b *FissionBank) Cap() int64 {
	return int64(len(b.sites))
}

// Overflowed returns how many appends were rejected since the last Allocate.
func (b *FissionBank) Overflowed() int64 {
	return b.overflow.Load()
}

// Sites returns the live region [0, Len()).
// The slice aliases the bank's storage; it is only meaningful outside the transport phase.
func (b *FissionBank) Sites() []Site {
	return b.sites[:b.Len()]
}

// Release drops the buffer and resets the length to zero.
func (b *FissionBank) Release() {
	b.sites = nil
	b.length.Store(0)
	b.overflow.Store(0)
}

func (b *FissionBank) String() string {
	return fmt.Sprintf("FissionBank{len=%d cap=%d overflow=%d}", b.Len(), b.Cap(), b.Overflowed())
}
