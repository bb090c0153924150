package loader

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/ZenLiuCN/detour"
	"github.com/pkujhd/goloader"
)

// GoEntryPoint is the entry symbol of a Go object plugin: a niladic function
// returning the plugin's hook list. Package-qualified on lookup, default
// package main.
const GoEntryPoint = "DetourHooks"

type entryFunc = func() []detour.Hook

// GoObject loads plugins compiled as relocatable Go object files and links
// them into the running process. All plugins loaded through one GoObject
// share a symbol space seeded from the running executable, so a later plugin
// may depend on symbols an earlier one brought in. Linked modules are never
// unloaded once their hooks are handed out.
type GoObject struct {
	//Pkg is the package import path inside the object files, default main.
	Pkg  string
	syms map[string]uintptr
}

// NewGoObject create a Go object loader. Extra types shared between host and
// plugins may be registered up front.
func NewGoObject(pkg string, types ...any) (g *GoObject, err error) {
	g = &GoObject{Pkg: pkg, syms: make(map[string]uintptr)}
	if err = goloader.RegSymbol(g.syms); err != nil {
		return nil, fmt.Errorf("register runtime symbols: %w", err)
	}
	goloader.RegTypes(g.syms, detour.Hook{}, entryFunc(nil))
	if len(types) > 0 {
		goloader.RegTypes(g.syms, types...)
	}
	return
}

func (g *GoObject) LoadHooks(path string) (hooks []detour.Hook, err error) {
	linker, err := goloader.ReadObj(path, g.pkg())
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", path, err)
	}
	module, err := goloader.Load(linker, g.syms)
	if err != nil {
		return nil, fmt.Errorf("link object %s: %w", path, err)
	}
	p, ok := module.Syms[g.qualify(GoEntryPoint)]
	if !ok {
		return nil, fmt.Errorf("%w %s in %s", ErrNoEntryPoint, g.qualify(GoEntryPoint), path)
	}
	keepModule(path, module)
	g.adopt(module)
	fv := uintptr(unsafe.Pointer(&p))
	entry := *(*entryFunc)(unsafe.Pointer(&fv))
	return entry(), nil
}

// Missing dump the unresolved symbols of an object file without linking it,
// for diagnostics.
func (g *GoObject) Missing(path string) ([]string, error) {
	linker, err := goloader.ReadObj(path, g.pkg())
	if err != nil {
		return nil, err
	}
	return goloader.UnresolvedSymbols(linker, g.syms), nil
}

func (g *GoObject) pkg() string {
	if g.Pkg == "" {
		return "main"
	}
	return g.Pkg
}

func (g *GoObject) qualify(sym string) string {
	if strings.IndexByte(sym, '.') < 0 {
		return g.pkg() + "." + sym
	}
	return sym
}

// adopt publishes the module's symbols to later plugins. Existing entries
// win: the executable's own symbols stay authoritative.
func (g *GoObject) adopt(m *goloader.CodeModule) {
	for s, u := range m.Syms {
		if _, ok := g.syms[s]; !ok {
			g.syms[s] = u
		}
	}
}
