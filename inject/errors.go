package inject

import "fmt"

// PluginError names the plugin whose library failed to load or yielded an
// unusable hook list.
type PluginError struct {
	Plugin string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s: %v", e.Plugin, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// SymbolError names a target the resolver does not know.
type SymbolError struct {
	Name string
}

func (e *SymbolError) Error() string {
	return "failed to find " + e.Name + " address"
}

// HookError names the plugin and symbol whose installation failed,
// propagating the installer's own error.
type HookError struct {
	Plugin string
	Symbol string
	Err    error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("plugin %s: install hook for %s: %v", e.Plugin, e.Symbol, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}
