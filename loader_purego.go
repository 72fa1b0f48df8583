//go:build darwin || linux

// Native loader for the extended module via purego.
//
// The module is opened with dlopen at runtime, so neither cgo nor the module
// itself is needed at build time. Sources are exposed to the module as an
// ext_data_source struct whose read callbacks resolve a handle back to the
// Go Source.

package extended

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/hashicorp/go-multierror"
)

// Out-parameter buffer sizes handed to the module's sniff entry points.
const (
	nativeMIMECapacity = 256
	nativeMetaCapacity = 4096
)

// nativeSniffFunc matches ext_sniffer_fn / SniffExtendedExtractor.
type nativeSniffFunc func(src, mime uintptr, mimeCap int32, confidence, meta uintptr, metaCap int32) bool

// nativeCreateFunc matches CreateExtractor / createExtractor.
type nativeCreateFunc func(src uintptr, mime string) uintptr

// nativeSnifferArrayFunc matches MediaSnifferArray.
type nativeSnifferArrayFunc func(outArray, outCount uintptr)

// nativeDataSourceC matches ext_data_source in C.
// Must be heap-allocated; the module may keep the pointer for the lifetime
// of an extractor.
type nativeDataSourceC struct {
	Ctx    uintptr
	ReadAt uintptr
	Size   uintptr
}

var (
	dataSourceCallbacksOnce sync.Once
	dataSourceReadAtCB      uintptr
	dataSourceSizeCB        uintptr
)

// dataSourceCallbacks returns the C-callable read callbacks. purego callbacks
// are never freed, so exactly one of each exists per process.
func dataSourceCallbacks() (readAt, size uintptr) {
	dataSourceCallbacksOnce.Do(func() {
		dataSourceReadAtCB = purego.NewCallback(sourceReadAt)
		dataSourceSizeCB = purego.NewCallback(sourceSize)
	})
	return dataSourceReadAtCB, dataSourceSizeCB
}

// nativeDataSource binds a Source to its C representation.
type nativeDataSource struct {
	c      *nativeDataSourceC
	handle uintptr
}

func newNativeDataSource(src Source) *nativeDataSource {
	readAt, size := dataSourceCallbacks()
	h := pinSource(src)
	return &nativeDataSource{
		c:      &nativeDataSourceC{Ctx: h, ReadAt: readAt, Size: size},
		handle: h,
	}
}

func (d *nativeDataSource) addr() uintptr {
	return uintptr(unsafe.Pointer(d.c))
}

func (d *nativeDataSource) release() {
	unpinSource(d.handle)
}

// NativeExtractor is an extractor instance returned by a native module.
type NativeExtractor struct {
	handle   uintptr
	mimeHint string
	source   *nativeDataSource
	once     sync.Once
}

// Handle returns the module's instance pointer.
func (e *NativeExtractor) Handle() uintptr { return e.handle }

// MIMEHint returns the hint the extractor was created with.
func (e *NativeExtractor) MIMEHint() string { return e.mimeHint }

// Close detaches the Go source from the module. Call it only after the
// native instance has been destroyed through the module's own API; reads
// issued afterwards fail.
func (e *NativeExtractor) Close() error {
	e.once.Do(e.source.release)
	return nil
}

// nativeLoader opens modules with dlopen over the configured search paths.
type nativeLoader struct {
	cfg Config
}

// NewNativeLoader returns the purego-backed Loader.
func NewNativeLoader(cfg Config) Loader {
	return &nativeLoader{cfg: cfg}
}

func (l *nativeLoader) Open(name string) (Library, error) {
	errs := &multierror.Error{ErrorFormat: joinErrors}
	for _, path := range l.cfg.LibraryPaths(name) {
		handle, err := purego.Dlopen(path, purego.RTLD_LAZY|purego.RTLD_LOCAL)
		if err == nil {
			return &nativeLibrary{path: path, handle: handle}, nil
		}
		// dlerror already names the path.
		errs = multierror.Append(errs, err)
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrModuleUnavailable, name, errs.ErrorOrNil())
}

// joinErrors keeps aggregated dlopen failures on one diagnostic line.
func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// nativeLibrary is a module opened with dlopen. It is never closed.
type nativeLibrary struct {
	path   string
	handle uintptr
}

func (l *nativeLibrary) Path() string { return l.path }

func (l *nativeLibrary) lookup(symbol string) (uintptr, error) {
	sym, err := purego.Dlsym(l.handle, symbol)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSymbolUnavailable, err)
	}
	if sym == 0 {
		return 0, fmt.Errorf("%w: %s: null address", ErrSymbolUnavailable, symbol)
	}
	return sym, nil
}

func (l *nativeLibrary) CreateFunc(symbol string) (CreateFunc, error) {
	sym, err := l.lookup(symbol)
	if err != nil {
		return nil, err
	}
	var create nativeCreateFunc
	purego.RegisterFunc(&create, sym)
	return bindNativeCreate(create), nil
}

func (l *nativeLibrary) SniffFunc(symbol string) (SniffFunc, error) {
	sym, err := l.lookup(symbol)
	if err != nil {
		return nil, err
	}
	return registerNativeSniff(sym), nil
}

func (l *nativeLibrary) SnifferArrayFunc(symbol string) (SnifferArrayFunc, error) {
	sym, err := l.lookup(symbol)
	if err != nil {
		return nil, err
	}
	var getArray nativeSnifferArrayFunc
	purego.RegisterFunc(&getArray, sym)
	return bindNativeSnifferArray(getArray, registerNativeSniff), nil
}

// registerNativeSniff binds the sniffer at address sym.
func registerNativeSniff(sym uintptr) SniffFunc {
	var sniff nativeSniffFunc
	purego.RegisterFunc(&sniff, sym)
	return bindNativeSniff(sniff)
}

// bindNativeCreate adapts a native factory to CreateFunc. The source stays
// pinned for as long as the returned extractor is open.
func bindNativeCreate(create nativeCreateFunc) CreateFunc {
	return func(src Source, mimeHint string) Extractor {
		ds := newNativeDataSource(src)
		ptr := create(ds.addr(), mimeHint)
		runtime.KeepAlive(ds)
		if ptr == 0 {
			ds.release()
			return nil
		}
		return &NativeExtractor{handle: ptr, mimeHint: mimeHint, source: ds}
	}
}

// bindNativeSnifferArray adapts the bulk export. A null array yields nil,
// null entries are skipped and the rest keep their order.
func bindNativeSnifferArray(getArray nativeSnifferArrayFunc, bind func(sym uintptr) SniffFunc) SnifferArrayFunc {
	return func() []SniffFunc {
		arr := new(uintptr)
		count := new(int32)
		getArray(uintptr(unsafe.Pointer(arr)), uintptr(unsafe.Pointer(count)))
		if *arr == 0 {
			return nil
		}
		if *count <= 0 {
			return []SniffFunc{}
		}
		ptrs := unsafe.Slice((*uintptr)(unsafe.Pointer(*arr)), int(*count))
		sniffers := make([]SniffFunc, 0, len(ptrs))
		for _, p := range ptrs {
			if p == 0 {
				continue
			}
			sniffers = append(sniffers, bind(p))
		}
		return sniffers
	}
}

// bindNativeSniff adapts a native sniffer to SniffFunc. The source is only
// pinned for the duration of the call.
func bindNativeSniff(fn nativeSniffFunc) SniffFunc {
	return func(src Source) (SniffResult, bool) {
		ds := newNativeDataSource(src)
		defer ds.release()

		mime := make([]byte, nativeMIMECapacity)
		meta := make([]byte, nativeMetaCapacity)
		confidence := new(float32)

		ok := fn(ds.addr(),
			uintptr(unsafe.Pointer(&mime[0])), int32(len(mime)),
			uintptr(unsafe.Pointer(confidence)),
			uintptr(unsafe.Pointer(&meta[0])), int32(len(meta)))
		runtime.KeepAlive(ds)
		runtime.KeepAlive(mime)
		runtime.KeepAlive(meta)

		if !ok {
			return SniffResult{}, false
		}
		return SniffResult{
			MIMEType:   cString(mime),
			Confidence: *confidence,
			Meta:       parseMetadata(cString(meta)),
		}, true
	}
}
