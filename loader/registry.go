package loader

import "github.com/pkujhd/goloader"

// Library handles and linked code modules live until the process exits;
// unloading anything a patch may point into would leave the host executing
// freed memory.
var (
	handles = make(map[string]uintptr)
	modules = make(map[string]*goloader.CodeModule)
)

func kept(path string) (uintptr, bool) {
	h, ok := handles[path]
	return h, ok
}

func keep(path string, h uintptr) {
	handles[path] = h
}

func keepModule(path string, m *goloader.CodeModule) {
	modules[path] = m
}
