package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZenLiuCN/detour"
)

func TestLoadHooksWithoutEntryPoint(t *testing.T) {
	// libc loads fine but exports no hook list, so the linker diagnostic
	// must survive inside the sentinel.
	_, err := Native{}.LoadHooks("libc.so.6")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoEntryPoint)
	assert.Contains(t, err.Error(), detour.EntryPoint)
	assert.Contains(t, strings.ToLower(err.Error()), "symbol")
}

func TestLoadHooksOpenFailure(t *testing.T) {
	_, err := Native{}.LoadHooks("no-such-library.so")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoEntryPoint)
}
