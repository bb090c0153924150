package inject

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ZenLiuCN/detour"
	"github.com/ZenLiuCN/detour/loader"
	"github.com/ZenLiuCN/detour/logging"
	"github.com/ZenLiuCN/detour/modlocate"
)

// Config assembles one injection run. Zero values derive defaults from the
// running process.
type Config struct {
	SymbolFile string            // debug-symbol file, default "<executable>.pdb" beside the host binary
	Module     string            // host module file name, default the executable's
	Locator    modlocate.Locator // default the platform locator
	Loader     loader.Loader     // default [loader.Native]
	Mods       Discoverer        // ordered plugin supply, default [DirOrder]
	Logger     zerolog.Logger
}

func (c Config) withDefaults() (Config, error) {
	if c.SymbolFile == "" || c.Module == "" {
		exe, err := os.Executable()
		if err != nil {
			return c, fmt.Errorf("locate host executable: %w", err)
		}
		if c.Module == "" {
			c.Module = filepath.Base(exe)
		}
		if c.SymbolFile == "" {
			c.SymbolFile = strings.TrimSuffix(exe, filepath.Ext(exe)) + ".pdb"
		}
	}
	if c.Locator == nil {
		c.Locator = modlocate.Host()
	}
	if c.Loader == nil {
		c.Loader = loader.Native{}
	}
	if c.Mods == nil {
		c.Mods = DirOrder{}
	}
	return c, nil
}

// Run executes one injection run over the plugins discovered under readRoot.
func Run(cfg Config, readRoot, writeRoot string) error {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return err
	}
	plugins, err := cfg.Mods.Plugins(readRoot, writeRoot)
	if err != nil {
		return err
	}
	cfg.Logger.Info().
		Str("symbols", cfg.SymbolFile).
		Str("module", cfg.Module).
		Int("plugins", len(plugins)).
		Msg("injection run")
	cache := detour.NewCache(cfg.SymbolFile, cfg.Module, cfg.Locator)
	return New(cache, WithLoader(cfg.Loader), WithLogger(cfg.Logger)).InjectAll(plugins)
}

// Payload is the transport entry contract: executed inside the host process
// with a read root and a write root, it returns "" on success or one
// human-readable message naming the offending plugin or symbol. Callers
// beyond the transport see only this string.
func Payload(readPath, writePath string) string {
	log := logging.NewWithComponent(logging.DefaultConfig(), "inject")
	if err := Run(Config{Logger: log}, readPath, writePath); err != nil {
		log.Error().Err(err).Msg("injection failed")
		return err.Error()
	}
	return ""
}
