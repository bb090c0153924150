/*
Package detour patches compiled functions of a running, closed-source host
process at runtime.

The host ships no headers and no link-time symbols; function addresses are
recovered from the program-database file that ships beside the host binary.
Plugins are independently compiled shared libraries that hand the host a list
of hook descriptors through one fixed entry point; the injector resolves each
target name to an absolute address and calls back into the plugin to install
the patch.

# Use Steps

 1. Build a [Cache] with NewCache, pointing at the symbol file and the host
    module name.
 2. Load plugin hook lists through [github.com/ZenLiuCN/detour/loader].
 3. Drive the run with [github.com/ZenLiuCN/detour/inject], which resolves
    and installs every hook in load order, stopping at the first failure.

# Notes

 1. The whole pipeline is synchronous and single-threaded by contract. The
    Cache performs one-winner initialization and may be shared afterwards,
    but loader and injector must not be called from more than one goroutine.
 2. A loaded plugin library is never released: installed patches may point
    into it for the remaining life of the process.
 3. The descriptor layout crossing the library boundary is versioned and
    fixed; see [Export] and [Decode]. It does not depend on either side's
    compiler or its representation of strings, closures or errors.

# Address rule

An absolute address is the base load address of the host module plus the
32-bit relative virtual address recorded in the symbol file:

	addr = base + rva
*/
package detour
