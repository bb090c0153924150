// Package modlocate resolves the base load address of a module already
// mapped into the current process. It wraps exactly one platform capability
// behind the Locator interface; nothing else in the pipeline is
// platform-aware.
package modlocate

import "errors"

// Locator answers "where is the named module mapped in this process". It
// must be consulted from the process whose module table is being queried;
// this is not a cross-process operation.
type Locator interface {
	BaseAddress(module string) (uint64, error)
}

// ErrModuleNotFound occurs when the named module is not currently loaded.
var ErrModuleNotFound = errors.New("module not loaded")

// Host returns the locator for the running platform.
func Host() Locator {
	return hostLocator{}
}

// Fixed answers every query with one address. Used by tooling and tests
// where the host module is not mapped into this process.
type Fixed uint64

func (f Fixed) BaseAddress(string) (uint64, error) {
	return uint64(f), nil
}
