/*
Package inject drives one injection run: for every plugin in the supplied
load order, load its hook list, resolve each target through the address
cache and call back into the plugin to install the patch.

The run is strictly fail-fast and sequential. The first failure aborts
everything still pending; hooks installed before the failure stay installed,
there is no rollback. One run per process, single-threaded by contract.
*/
package inject

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ZenLiuCN/detour"
	"github.com/ZenLiuCN/detour/loader"
)

type (
	//Plugin pairs a plugin name with its extracted library artifact. Slice
	//order is load order and is preserved exactly.
	Plugin struct {
		Name string
		Path string
	}
	//Injector applies every plugin's hooks against one address cache.
	Injector struct {
		cache  *detour.Cache
		loader loader.Loader
		log    zerolog.Logger
	}
	Option func(*Injector)
)

// WithLoader replaces the plugin loader, default [loader.Native].
func WithLoader(l loader.Loader) Option {
	return func(i *Injector) { i.loader = l }
}

// WithLogger sets the run logger, default a no-op.
func WithLogger(l zerolog.Logger) Option {
	return func(i *Injector) { i.log = l }
}

func New(cache *detour.Cache, opts ...Option) *Injector {
	i := &Injector{cache: cache, loader: loader.Native{}, log: zerolog.Nop()}
	for _, o := range opts {
		o(i)
	}
	return i
}

// InjectAll loads and installs every plugin's hooks in order. The address
// cache is consulted only after a plugin library has loaded and yielded its
// descriptor list; a target that does not resolve is fatal for the whole
// run, not a skip.
func (i *Injector) InjectAll(plugins []Plugin) error {
	return i.run(plugins, true)
}

// Validate resolves every plugin's targets without installing anything: a
// dry pre-pass for callers that want all-or-nothing semantics before
// touching the host.
func (i *Injector) Validate(plugins []Plugin) error {
	return i.run(plugins, false)
}

func (i *Injector) run(plugins []Plugin, install bool) error {
	for _, p := range plugins {
		hooks, err := i.loader.LoadHooks(p.Path)
		if err != nil {
			return &PluginError{Plugin: p.Name, Err: err}
		}
		i.log.Debug().Str("plugin", p.Name).Int("hooks", len(hooks)).Msg("plugin loaded")
		for _, h := range hooks {
			if err = i.cache.Ready(); err != nil {
				return fmt.Errorf("address resolver: %w", err)
			}
			addr, ok := i.cache.Get(h.Target)
			if !ok {
				return &SymbolError{Name: h.Target}
			}
			i.log.Info().
				Str("plugin", p.Name).
				Str("symbol", h.Target).
				Str("address", fmt.Sprintf("%#x", addr)).
				Msg("resolved")
			if !install {
				continue
			}
			if err = h.Install(addr); err != nil {
				return &HookError{Plugin: p.Name, Symbol: h.Target, Err: err}
			}
		}
	}
	return nil
}
