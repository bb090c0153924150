package modlocate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMaps = `00400000-00452000 r-xp 00000000 08:02 173521 /opt/game/bin/x64/game
00652000-00655000 rw-p 00052000 08:02 173521 /opt/game/bin/x64/game
7f1bc0000000-7f1bc0021000 r--p 00000000 103:02 393232 /usr/lib/libc.so.6
7f1bc0021000-7f1bc0199000 r-xp 00021000 103:02 393232 /usr/lib/libc.so.6
7ffc04b54000-7ffc04b76000 rw-p 00000000 00:00 0 [stack]
`

func TestScanMaps(t *testing.T) {
	base, err := scanMaps(strings.NewReader(sampleMaps), "libc.so.6")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7f1bc0000000), base, "first mapping is the base")

	base, err = scanMaps(strings.NewReader(sampleMaps), "game")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x00400000), base)
}

func TestScanMapsNotFound(t *testing.T) {
	_, err := scanMaps(strings.NewReader(sampleMaps), "other.so")
	require.ErrorIs(t, err, ErrModuleNotFound)
	assert.Contains(t, err.Error(), "other.so")
}

func TestScanMapsSkipsAnonymous(t *testing.T) {
	_, err := scanMaps(strings.NewReader("7ffc04b54000-7ffc04b76000 rw-p 00000000 00:00 0\n"), "game")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestFixed(t *testing.T) {
	base, err := Fixed(0x140000000).BaseAddress("anything")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x140000000), base)
}
