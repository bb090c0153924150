package detour

import (
	"fmt"
	"sync"

	"github.com/ZenLiuCN/detour/modlocate"
	"github.com/ZenLiuCN/detour/symtab"
)

// Cache resolves mangled function names to absolute in-process addresses.
// The symbol table and the host module base are built together exactly once,
// on first use; a construction failure is sticky and reported identically to
// every later caller, without touching the file system again.
//
// A Cache is an explicit per-run context object. Construct it once at the
// start of an injection run and pass it to everything that resolves.
type Cache struct {
	build func() (symtab.Table, uint64, error)
	once  sync.Once
	table symtab.Table
	base  uint64
	err   error
}

// NewCache create a cache over the debug-symbol file at symbolFile and the
// base address of module, located through loc. Nothing is read until the
// first call to Ready or Get.
func NewCache(symbolFile, module string, loc modlocate.Locator) *Cache {
	return &Cache{build: func() (symtab.Table, uint64, error) {
		t, err := symtab.Build(symbolFile)
		if err != nil {
			return symtab.Table{}, 0, fmt.Errorf("build symbol table from %s: %w", symbolFile, err)
		}
		base, err := loc.BaseAddress(module)
		if err != nil {
			return symtab.Table{}, 0, err
		}
		return t, base, nil
	}}
}

// FixedCache wraps an already built table and base address. Used by tooling
// and tests where the module is not actually mapped into this process.
func FixedCache(table symtab.Table, base uint64) *Cache {
	return &Cache{build: func() (symtab.Table, uint64, error) {
		return table, base, nil
	}}
}

// Ready performs the one-time construction and returns its result. The first
// caller wins; every other caller, including ones racing the winner, observes
// the same instance or the identical cached error. Construction is never
// repeated within the process lifetime.
func (c *Cache) Ready() error {
	c.once.Do(func() {
		c.table, c.base, c.err = c.build()
	})
	return c.err
}

// Get returns base+rva for name, or false when name is absent from the
// table. The first call triggers construction; after a construction failure
// every Get answers false, and Ready carries the cause.
func (c *Cache) Get(name string) (addr uint64, ok bool) {
	if c.Ready() != nil {
		return 0, false
	}
	rva, ok := c.table.RVA(name)
	if !ok {
		return 0, false
	}
	return c.base + uint64(rva), true
}

// Base returns the located module base. Zero before Ready succeeds.
func (c *Cache) Base() uint64 {
	return c.base
}
