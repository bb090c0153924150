//go:build !(linux || darwin || freebsd || windows)

package loader

import "errors"

var errUnsupported = errors.New("shared library loading unsupported on this platform")

func open(string) (uintptr, error) {
	return 0, errUnsupported
}

func lookup(uintptr, string) (uintptr, error) {
	return 0, errUnsupported
}

func call0(uintptr) uintptr {
	return 0
}
