package modlocate

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// scanMaps finds the lowest mapping backed by module in a /proc/*/maps
// listing. Lines look like
//
//	7f1bc0000000-7f1bc0021000 r--p 00000000 103:02 393232  /usr/lib/libc.so.6
//
// and the kernel emits them in ascending address order, so the first match
// is the module base.
func scanMaps(r io.Reader, module string) (uint64, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 6 {
			continue
		}
		if path.Base(fields[5]) != module {
			continue
		}
		dash := strings.IndexByte(fields[0], '-')
		if dash < 0 {
			continue
		}
		start, err := strconv.ParseUint(fields[0][:dash], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("parse maps entry %q: %w", fields[0], err)
		}
		return start, nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
}
