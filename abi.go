package detour

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ABIVersion is the version of the descriptor layout crossing the plugin
// boundary. A plugin whose list carries another version is rejected before
// any of its hooks run.
const ABIVersion = 1

// EntryPoint is the one fixed exported symbol every native plugin provides:
// no arguments, returns a pointer to a hook list in the layout below.
const EntryPoint = "detour_hooks"

// faultCap bounds installer failure messages copied across the boundary.
const faultCap = 512

/*
Boundary layout, identical regardless of the producing compiler or its
version. No dynamically sized container, error type or closure of either
side appears in it; names are length-prefixed buffers and installers are
plain function pointers paired with an opaque context word.

	struct hook {
	        const char *name;       // not NUL-dependent, name_len bytes
	        uint32_t    name_len;
	        uint32_t    pad;
	        int32_t   (*install)(uint64_t addr, void *ctx,
	                             char *err, uint32_t err_cap);
	        void       *ctx;
	};
	struct hook_list {
	        uint32_t           version;
	        uint32_t           count;
	        const struct hook *hooks;
	};

install returns 0 on success. Any other value is a failure tag; the installer
copies a NUL-terminated message into the caller-supplied err buffer instead
of letting any unwind mechanism cross the boundary.
*/
type (
	rawHook struct {
		name    *byte
		nameLen uint32
		_       uint32
		install uintptr
		ctx     unsafe.Pointer
	}
	rawList struct {
		version uint32
		count   uint32
		hooks   *rawHook
	}
)

// ErrBadHookList occurs when a plugin entry point yields a list the host
// cannot accept: nil, wrong layout version, or a hook without name or
// installer.
var ErrBadHookList = errors.New("bad hook list")

// InstallFault is a failure an installer reported across the boundary.
type InstallFault struct {
	Tag int32
	Msg string
}

func (e *InstallFault) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("install fault %d", e.Tag)
	}
	return e.Msg
}

// Decode converts the raw list returned by a plugin entry point into hooks
// whose installers call back through the plugin's function pointers. The
// pointed-to memory must stay valid for as long as the hooks are used, which
// the loader guarantees by never releasing plugin libraries.
func Decode(p unsafe.Pointer) ([]Hook, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil list", ErrBadHookList)
	}
	l := (*rawList)(p)
	if l.version != ABIVersion {
		return nil, fmt.Errorf("%w: layout version %d, host speaks %d", ErrBadHookList, l.version, ABIVersion)
	}
	if l.count == 0 {
		return nil, nil
	}
	if l.hooks == nil {
		return nil, fmt.Errorf("%w: %d hooks but nil array", ErrBadHookList, l.count)
	}
	raw := unsafe.Slice(l.hooks, l.count)
	hooks := make([]Hook, 0, l.count)
	for i := range raw {
		h := raw[i]
		if h.name == nil || h.nameLen == 0 {
			return nil, fmt.Errorf("%w: hook %d has no target name", ErrBadHookList, i)
		}
		if h.install == 0 {
			return nil, fmt.Errorf("%w: hook %d has no installer", ErrBadHookList, i)
		}
		hooks = append(hooks, Hook{
			Target:  string(unsafe.Slice(h.name, h.nameLen)),
			Install: bind(h.install, h.ctx),
		})
	}
	return hooks, nil
}

func bind(install uintptr, ctx unsafe.Pointer) func(uint64) error {
	return func(addr uint64) error {
		buf := make([]byte, faultCap)
		r, _, _ := purego.SyscallN(install,
			uintptr(addr), uintptr(ctx),
			uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		runtime.KeepAlive(buf)
		tag := int32(r)
		if tag == 0 {
			return nil
		}
		return &InstallFault{Tag: tag, Msg: cstr(buf)}
	}
}

func cstr(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

type exportedList struct {
	list  rawList
	hooks []rawHook
	names [][]byte
}

// exported pins every list handed across the boundary; a consumer may hold
// the pointer for the remaining life of the process.
var exported []*exportedList

// Export renders hooks into the fixed boundary layout. Plugin code written in
// Go returns the result from its entry point; the host side uses it in tests
// to exercise the boundary without a second compile unit. Not thread-safe,
// as with the rest of the pipeline.
func Export(hooks []Hook) unsafe.Pointer {
	e := &exportedList{
		hooks: make([]rawHook, len(hooks)),
		names: make([][]byte, len(hooks)),
	}
	for i, h := range hooks {
		install := h.Install
		name := append([]byte(h.Target), 0)
		e.names[i] = name
		e.hooks[i] = rawHook{
			name:    &name[0],
			nameLen: uint32(len(h.Target)),
			install: purego.NewCallback(func(addr, ctx, errBuf, errCap uintptr) uintptr {
				if install == nil {
					writeFault("no installer bound", errBuf, errCap)
					return 1
				}
				err := install(uint64(addr))
				if err == nil {
					return 0
				}
				writeFault(err.Error(), errBuf, errCap)
				return 1
			}),
		}
	}
	e.list = rawList{version: ABIVersion, count: uint32(len(hooks))}
	if len(hooks) > 0 {
		e.list.hooks = &e.hooks[0]
	}
	exported = append(exported, e)
	return unsafe.Pointer(&e.list)
}

func writeFault(msg string, buf, size uintptr) {
	if buf == 0 || size == 0 {
		return
	}
	out := unsafe.Slice((*byte)(unsafe.Pointer(buf)), size)
	n := copy(out[:size-1], msg)
	out[n] = 0
}
