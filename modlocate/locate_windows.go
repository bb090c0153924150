//go:build windows

package modlocate

import (
	"fmt"

	"golang.org/x/sys/windows"
)

type hostLocator struct{}

// BaseAddress asks the loader for the handle of an already mapped module; on
// Windows a module handle is its base load address.
func (hostLocator) BaseAddress(module string) (uint64, error) {
	name, err := windows.UTF16PtrFromString(module)
	if err != nil {
		return 0, err
	}
	h, err := windows.GetModuleHandle(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrModuleNotFound, module, err)
	}
	return uint64(h), nil
}
