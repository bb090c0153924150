//go:build windows

package loader

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func open(path string) (uintptr, error) {
	h, err := windows.LoadLibrary(path)
	return uintptr(h), err
}

func lookup(h uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(h), name)
}

func call0(fn uintptr) uintptr {
	r, _, _ := syscall.SyscallN(fn)
	return r
}
