package extended

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Sources cross the C boundary as integer handles; the module passes the
// handle back into the read callbacks. Handles start at 1 so 0 stays invalid.
var (
	sourceHandles    sync.Map // uintptr -> Source
	sourceHandleNext atomic.Uintptr
)

// pinSource registers src and returns its handle.
func pinSource(src Source) uintptr {
	h := sourceHandleNext.Add(1)
	sourceHandles.Store(h, src)
	return h
}

// unpinSource drops the handle. Unknown handles are ignored.
func unpinSource(h uintptr) {
	sourceHandles.Delete(h)
}

// lookupSource resolves a handle passed back by the module.
func lookupSource(h uintptr) (Source, bool) {
	v, ok := sourceHandles.Load(h)
	if !ok {
		return nil, false
	}
	return v.(Source), true
}

// pinnedSources reports the number of live handles.
func pinnedSources() int {
	n := 0
	sourceHandles.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// sourceReadAt backs the module's read_at callback. It returns the number of
// bytes read, 0 at end of source, or -1 on error.
func sourceReadAt(ctx uintptr, off int64, buf uintptr, n int64) int64 {
	src, ok := lookupSource(ctx)
	if !ok || buf == 0 || n < 0 || off < 0 {
		return -1
	}
	if n == 0 {
		return 0
	}
	p := unsafe.Slice((*byte)(unsafe.Pointer(buf)), n)
	read, err := src.ReadAt(p, off)
	if read > 0 {
		return int64(read)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return -1
	}
	return 0
}

// sourceSize backs the module's size callback; -1 means unknown.
func sourceSize(ctx uintptr) int64 {
	src, ok := lookupSource(ctx)
	if !ok {
		return -1
	}
	size, err := src.Size()
	if err != nil {
		return -1
	}
	return size
}
