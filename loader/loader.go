/*
Package loader opens plugin libraries and retrieves their exported hook
lists through the one fixed entry point.

Two plugin artifact kinds are supported: native shared libraries loaded
through the platform linker ([Native]) and relocatable Go object files
linked into the running process ([GoObject]).

A loaded plugin is never released. Installed patches may reference code
inside it for the remaining life of the process, so every handle and code
module is retained in a process-lifetime registry. As with the rest of the
pipeline, nothing here is safe to call from more than one goroutine.
*/
package loader

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/ZenLiuCN/detour"
)

type (
	//Loader turns a plugin artifact on disk into its list of hook
	//descriptors, in the order the plugin declared them.
	Loader interface {
		LoadHooks(path string) ([]detour.Hook, error)
	}
	//Native loads platform shared libraries (.so, .dylib, .dll) and calls
	//the exported [detour.EntryPoint] symbol.
	Native struct{}
)

var (
	// ErrNoEntryPoint occurs when a plugin library loads but lacks the fixed
	// exported entry point. Distinct from an entry point that returns zero
	// hooks, which is a valid empty result.
	ErrNoEntryPoint = errors.New("missing plugin entry point")
)

func (Native) LoadHooks(path string) (hooks []detour.Hook, err error) {
	h, ok := kept(path)
	if !ok {
		if h, err = open(path); err != nil {
			return nil, fmt.Errorf("open library %s: %w", path, err)
		}
		keep(path, h)
	}
	fn, err := lookup(h, detour.EntryPoint)
	if err != nil {
		return nil, fmt.Errorf("%w %s in %s: %v", ErrNoEntryPoint, detour.EntryPoint, path, err)
	}
	if fn == 0 {
		return nil, fmt.Errorf("%w %s in %s", ErrNoEntryPoint, detour.EntryPoint, path)
	}
	list := call0(fn)
	if hooks, err = detour.Decode(unsafe.Pointer(list)); err != nil {
		return nil, fmt.Errorf("entry point of %s: %w", path, err)
	}
	return hooks, nil
}
