package detour

type (
	//Hook is one patch request: the mangled name of a host function and the
	//plugin-owned installer invoked with its absolute in-process address.
	//
	//The installer returns nil once the patch is applied; any error aborts
	//the whole injection run.
	Hook struct {
		Target  string
		Install func(addr uint64) error
	}
	//Registry accumulates hooks in registration order. Plugin code calls
	//[Registry.Register] once per target and returns [Registry.Hooks] (or its
	//[Export] rendering) from the fixed entry point.
	Registry struct {
		hooks []Hook
	}
)

// NewRegistry create an empty hook registry.
func NewRegistry() *Registry {
	return new(Registry)
}

// Register append one hook for target. Registration order is installation
// order and is preserved exactly.
func (r *Registry) Register(target string, install func(addr uint64) error) *Registry {
	r.hooks = append(r.hooks, Hook{Target: target, Install: install})
	return r
}

// Hooks returns the accumulated list in registration order.
func (r *Registry) Hooks() []Hook {
	return r.hooks
}
