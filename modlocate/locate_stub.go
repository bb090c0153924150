//go:build !linux && !windows

package modlocate

import "errors"

type hostLocator struct{}

func (hostLocator) BaseAddress(string) (uint64, error) {
	return 0, errors.New("module locator: unsupported platform")
}
