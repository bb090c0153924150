package symtab

import (
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/jtang613/gopdb/pkg/pdb/codeview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pubRec encodes one S_PUB32 record: flags u32, offset u32, segment u16,
// NUL-terminated name.
func pubRec(flags, off uint32, seg uint16, name string) codeview.SymbolRecord {
	data := make([]byte, 10+len(name)+1)
	binary.LittleEndian.PutUint32(data[0:], flags)
	binary.LittleEndian.PutUint32(data[4:], off)
	binary.LittleEndian.PutUint16(data[8:], seg)
	copy(data[10:], name)
	return codeview.SymbolRecord{Kind: codeview.S_PUB32, Data: data}
}

var testSecs = []section{
	{va: 0x1000, size: 0x4000},
	{va: 0x5000, size: 0x1000},
}

func TestBuildTable(t *testing.T) {
	tbl, err := build([]codeview.SymbolRecord{
		pubRec(pubFunction, 0x10, 1, "?run@Game@@QEAAXXZ"),
		pubRec(pubFunction, 0x20, 2, "?tick@Game@@QEAAXXZ"),
		pubRec(0, 0x30, 1, "?gData@@3HA"),
		pubRec(pubFunction, 0x40, 9, "?orphan@@YAXXZ"),
	}, testSecs)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	rva, ok := tbl.RVA("?run@Game@@QEAAXXZ")
	require.True(t, ok)
	assert.Equal(t, uint32(0x1010), rva)

	rva, ok = tbl.RVA("?tick@Game@@QEAAXXZ")
	require.True(t, ok)
	assert.Equal(t, uint32(0x5020), rva)

	_, ok = tbl.RVA("?gData@@3HA")
	assert.False(t, ok, "data records stay out of the table")
	_, ok = tbl.RVA("?orphan@@YAXXZ")
	assert.False(t, ok, "records outside the address map are absent, not errors")
}

func TestBuildDuplicateOverwrites(t *testing.T) {
	tbl, err := build([]codeview.SymbolRecord{
		pubRec(pubFunction, 0x10, 1, "Foo"),
		pubRec(pubFunction, 0x20, 1, "Foo"),
	}, testSecs)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 1, tbl.Dups())
	rva, _ := tbl.RVA("Foo")
	assert.Equal(t, uint32(0x1020), rva, "later record wins")
}

func TestBuildMalformedRecordAborts(t *testing.T) {
	_, err := build([]codeview.SymbolRecord{
		pubRec(pubFunction, 0x10, 1, "Foo"),
		{Kind: codeview.S_PUB32, Data: []byte{1, 2}},
	}, testSecs)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestBuildSkipsOtherKinds(t *testing.T) {
	tbl, err := build([]codeview.SymbolRecord{
		{Kind: codeview.S_UDT, Data: []byte{0}},
		pubRec(pubFunction, 0x10, 1, "Foo"),
	}, testSecs)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestToRVA(t *testing.T) {
	_, ok := toRVA(testSecs, 0, 0x10)
	assert.False(t, ok)
	_, ok = toRVA(testSecs, 3, 0x10)
	assert.False(t, ok)
	rva, ok := toRVA(testSecs, 2, 0x8)
	require.True(t, ok)
	assert.Equal(t, uint32(0x5008), rva)
}

func TestParseSections(t *testing.T) {
	data := make([]byte, 80)
	copy(data[0:], ".text")
	binary.LittleEndian.PutUint32(data[8:], 0x4000)  // virtual size
	binary.LittleEndian.PutUint32(data[12:], 0x1000) // virtual address
	copy(data[40:], ".rdata")
	binary.LittleEndian.PutUint32(data[48:], 0x1000)
	binary.LittleEndian.PutUint32(data[52:], 0x5000)

	secs, err := parseSections(data)
	require.NoError(t, err)
	require.Len(t, secs, 2)
	assert.Equal(t, uint32(0x1000), secs[0].va)
	assert.Equal(t, uint32(0x5000), secs[1].va)
	assert.Equal(t, uint32(0x1000), secs[1].size)
}

func TestParseSectionsBadLength(t *testing.T) {
	_, err := parseSections(make([]byte, 41))
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = parseSections(nil)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBuildMissingFile(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "absent.pdb"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestBuildCorruptContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pdb")
	require.NoError(t, os.WriteFile(path, []byte("not a program database"), 0o644))
	_, err := Build(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}

func TestNamesSorted(t *testing.T) {
	tbl := New(map[string]uint32{"b": 2, "a": 1, "c": 3})
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names())
}
