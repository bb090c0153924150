/*
Package symtab builds an immutable function-name to RVA mapping from the
program-database file shipped beside a host binary.

Only public records flagged as functions enter the table. A record whose
segment cannot be converted through the file's section headers is treated as
absent; a record that fails to parse aborts the whole build.
*/
package symtab

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jtang613/gopdb/pkg/pdb/codeview"
	"github.com/jtang613/gopdb/pkg/pdb/msf"
	"github.com/jtang613/gopdb/pkg/pdb/streams"
)

const (
	streamDBI = 3
	// slot of the section-header stream in the DBI optional debug header
	dbgSectionHdr = 5
	// S_PUB32 flag: record refers to a function
	pubFunction = 0x2

	noStream = 0xFFFF
)

var (
	// ErrMalformed occurs when the symbol file or one of its records cannot
	// be parsed.
	ErrMalformed = errors.New("malformed symbol file")
	// ErrNoSectionMap occurs when the symbol file carries no section headers
	// to convert segment offsets into module-relative addresses.
	ErrNoSectionMap = errors.New("symbol file carries no section headers")
)

// Table maps mangled function names to 32-bit relative virtual addresses.
// Immutable after Build.
type Table struct {
	rva  map[string]uint32
	dups int
}

// New wraps an existing name to RVA mapping, for tooling and tests.
func New(rva map[string]uint32) Table {
	return Table{rva: rva}
}

// RVA returns the module-relative address of name.
func (t Table) RVA(name string) (uint32, bool) {
	v, ok := t.rva[name]
	return v, ok
}

// Len returns the number of distinct names in the table.
func (t Table) Len() int {
	return len(t.rva)
}

// Dups counts records whose name was already present during the build; the
// later record silently won. Surfaced so an operator can spot ambiguous
// symbol files.
func (t Table) Dups() int {
	return t.dups
}

// Names returns every name in the table, sorted.
func (t Table) Names() []string {
	out := make([]string, 0, len(t.rva))
	for n := range t.rva {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Build parses the debug-symbol file at path once and returns the completed
// table. Errors distinguish a missing file (unwraps to fs.ErrNotExist), a
// malformed container or record (ErrMalformed) and an absent section map
// (ErrNoSectionMap).
func Build(path string) (Table, error) {
	m, err := msf.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Table{}, err
		}
		return Table{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer m.Close()
	raw, err := readStream(m, streamDBI)
	if err != nil {
		return Table{}, fmt.Errorf("%w: debug info stream: %v", ErrMalformed, err)
	}
	dbi, err := streams.ReadDBIStream(raw)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	secs, err := sectionHeaders(m, raw, &dbi.Header)
	if err != nil {
		return Table{}, err
	}
	if dbi.Header.SymRecordStream == noStream {
		return Table{}, fmt.Errorf("%w: no symbol record stream", ErrMalformed)
	}
	recs, err := readStream(m, int(dbi.Header.SymRecordStream))
	if err != nil {
		return Table{}, fmt.Errorf("%w: symbol record stream: %v", ErrMalformed, err)
	}
	parsed, err := codeview.ParseSymbols(recs)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return build(parsed, secs)
}

func build(recs []codeview.SymbolRecord, secs []section) (Table, error) {
	t := Table{rva: make(map[string]uint32, len(recs))}
	for _, rec := range recs {
		if rec.Kind != codeview.S_PUB32 {
			continue
		}
		pub, err := codeview.ParsePubSym(rec.Data)
		if err != nil {
			return Table{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if pub.Flags&pubFunction == 0 {
			continue
		}
		rva, ok := toRVA(secs, pub.Segment, pub.Offset)
		if !ok {
			continue
		}
		if _, seen := t.rva[pub.Name]; seen {
			t.dups++
		}
		t.rva[pub.Name] = rva
	}
	return t, nil
}

// section is one entry of the file's address map: the RVA base and length of
// a segment.
type section struct {
	va   uint32
	size uint32
}

func toRVA(secs []section, seg uint16, off uint32) (uint32, bool) {
	if seg == 0 || int(seg) > len(secs) {
		return 0, false
	}
	return secs[seg-1].va + off, true
}

// sectionHeaders locates the section-header stream through the DBI optional
// debug header, which trails every other substream.
func sectionHeaders(m *msf.MSF, dbi []byte, h *streams.DBIHeader) ([]section, error) {
	off := 64 +
		int(h.ModInfoSize) +
		int(h.SectionContributionSize) +
		int(h.SectionMapSize) +
		int(h.SourceInfoSize) +
		int(h.TypeServerMapSize) +
		int(h.ECSubstreamSize)
	if h.OptionalDbgHeaderSize < (dbgSectionHdr+1)*2 || off < 64 || off+int(h.OptionalDbgHeaderSize) > len(dbi) {
		return nil, ErrNoSectionMap
	}
	idx := binary.LittleEndian.Uint16(dbi[off+dbgSectionHdr*2:])
	if idx == noStream {
		return nil, ErrNoSectionMap
	}
	data, err := readStream(m, int(idx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSectionMap, err)
	}
	return parseSections(data)
}

// parseSections decodes IMAGE_SECTION_HEADER records: 40 bytes each, virtual
// size at +8, virtual address at +12.
func parseSections(data []byte) ([]section, error) {
	const hdrLen = 40
	if len(data) == 0 || len(data)%hdrLen != 0 {
		return nil, fmt.Errorf("%w: section header stream length %d", ErrMalformed, len(data))
	}
	secs := make([]section, 0, len(data)/hdrLen)
	for o := 0; o+hdrLen <= len(data); o += hdrLen {
		secs = append(secs, section{
			size: binary.LittleEndian.Uint32(data[o+8:]),
			va:   binary.LittleEndian.Uint32(data[o+12:]),
		})
	}
	return secs, nil
}

func readStream(m *msf.MSF, idx int) ([]byte, error) {
	s, err := m.Stream(idx)
	if err != nil {
		return nil, err
	}
	if s.Size() == 0 {
		return nil, fmt.Errorf("stream %d is empty", idx)
	}
	return s.ReadAll()
}
