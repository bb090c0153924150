package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoObjectQualify(t *testing.T) {
	g := &GoObject{}
	assert.Equal(t, "main.DetourHooks", g.qualify(GoEntryPoint))
	assert.Equal(t, "mods/demo.DetourHooks", (&GoObject{Pkg: "mods/demo"}).qualify(GoEntryPoint))
	assert.Equal(t, "other.Sym", g.qualify("other.Sym"), "qualified names pass through")
}

func TestGoObjectMissingAbsentFile(t *testing.T) {
	g := &GoObject{syms: map[string]uintptr{}}
	_, err := g.Missing(filepath.Join(t.TempDir(), "absent.o"))
	require.Error(t, err)
}
