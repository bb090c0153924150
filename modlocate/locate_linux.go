//go:build linux

package modlocate

import "os"

type hostLocator struct{}

// BaseAddress scans /proc/self/maps for the first mapping backed by module.
func (hostLocator) BaseAddress(module string) (uint64, error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return scanMaps(f, module)
}
