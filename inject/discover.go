package inject

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discoverer supplies the ordered plugin list for a pair of roots.
// Load-order policy lives with the caller; implementations only map names to
// artifacts.
type Discoverer interface {
	Plugins(readRoot, writeRoot string) ([]Plugin, error)
}

// Ordered maps an already resolved name order onto extracted libraries under
// readRoot. A name providing no artifact under the platform naming
// convention is simply absent from the result, not an error.
type Ordered struct {
	Names []string
}

func (o Ordered) Plugins(readRoot, _ string) (out []Plugin, err error) {
	for _, name := range o.Names {
		p, ok := artifact(readRoot, name)
		if !ok {
			continue
		}
		out = append(out, Plugin{Name: name, Path: p})
	}
	return
}

// DirOrder discovers plugins from the subdirectories of readRoot in lexical
// name order. A deterministic default for deployments that do not carry an
// explicit order.
type DirOrder struct{}

func (DirOrder) Plugins(readRoot, writeRoot string) ([]Plugin, error) {
	entries, err := os.ReadDir(readRoot)
	if err != nil {
		return nil, fmt.Errorf("read plugin root %s: %w", readRoot, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return Ordered{Names: names}.Plugins(readRoot, writeRoot)
}

var libPatterns = []string{"%s.dll", "lib%s.so", "%s.so", "lib%s.dylib", "%s.dylib", "%s.o"}

func artifact(root, name string) (string, bool) {
	for _, pat := range libPatterns {
		p := filepath.Join(root, name, fmt.Sprintf(pat, name))
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, true
		}
	}
	return "", false
}
