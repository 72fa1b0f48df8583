//go:build darwin || linux

package extended

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCString fills a module out-buffer the way a C sniffer would.
func writeCString(ptr uintptr, capacity int32, s string) {
	buf := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), capacity)
	n := copy(buf[:capacity-1], s)
	buf[n] = 0
}

// readNative reads through the data source callbacks' Go side, as the module
// would through read_at.
func readNative(t *testing.T, src uintptr, off int64, n int) string {
	t.Helper()
	ds := (*nativeDataSourceC)(unsafe.Pointer(src))
	require.NotZero(t, ds.ReadAt)
	require.NotZero(t, ds.Size)

	buf := make([]byte, n)
	got := sourceReadAt(ds.Ctx, off, uintptr(unsafe.Pointer(&buf[0])), int64(n))
	if got < 0 {
		return ""
	}
	return string(buf[:got])
}

func TestBindNativeSniff(t *testing.T) {
	before := pinnedSources()

	var seen string
	sniff := bindNativeSniff(func(src, mime uintptr, mimeCap int32, confidence, meta uintptr, metaCap int32) bool {
		assert.EqualValues(t, nativeMIMECapacity, mimeCap)
		assert.EqualValues(t, nativeMetaCapacity, metaCap)
		assert.Equal(t, before+1, pinnedSources())

		seen = readNative(t, src, 4, 4)
		writeCString(mime, mimeCap, "video/mp4")
		*(*float32)(unsafe.Pointer(confidence)) = 0.42
		writeCString(meta, metaCap, "brand=isom\nduration=1200\n")
		return true
	})

	res, ok := sniff(NewBytesSource([]byte("\x00\x00\x00\x20ftypisom")))
	require.True(t, ok)
	assert.Equal(t, "ftyp", seen)
	assert.Equal(t, "video/mp4", res.MIMEType)
	assert.Equal(t, float32(0.42), res.Confidence)
	assert.Equal(t, Metadata{"brand": "isom", "duration": "1200"}, res.Meta)
	assert.Equal(t, before, pinnedSources())
}

func TestBindNativeSniff_NoMatchDiscardsOutputs(t *testing.T) {
	before := pinnedSources()

	sniff := bindNativeSniff(func(src, mime uintptr, mimeCap int32, confidence, meta uintptr, metaCap int32) bool {
		writeCString(mime, mimeCap, "video/mp4")
		*(*float32)(unsafe.Pointer(confidence)) = 0.9
		writeCString(meta, metaCap, "a=b")
		return false
	})

	res, ok := sniff(NewBytesSource(nil))
	assert.False(t, ok)
	assert.Equal(t, SniffResult{}, res)
	assert.Equal(t, before, pinnedSources())
}

func TestBindNativeSniff_TerminatorEndsStrings(t *testing.T) {
	sniff := bindNativeSniff(func(src, mime uintptr, mimeCap int32, confidence, meta uintptr, metaCap int32) bool {
		buf := unsafe.Slice((*byte)(unsafe.Pointer(mime)), mimeCap)
		copy(buf, "audio/x-wav\x00stale")
		metaBuf := unsafe.Slice((*byte)(unsafe.Pointer(meta)), metaCap)
		copy(metaBuf, "rate=8000\x00junk=1")
		*(*float32)(unsafe.Pointer(confidence)) = 0.3
		return true
	})

	res, ok := sniff(NewBytesSource(nil))
	require.True(t, ok)
	assert.Equal(t, "audio/x-wav", res.MIMEType)
	assert.Equal(t, Metadata{"rate": "8000"}, res.Meta)
}

func TestBindNativeCreate(t *testing.T) {
	before := pinnedSources()

	var gotHint, seen string
	create := bindNativeCreate(func(src uintptr, mime string) uintptr {
		gotHint = mime
		seen = readNative(t, src, 0, 4)
		return 0xBEEF
	})

	src := NewBytesSource([]byte("RIFF\x24\x00\x00\x00WAVE"))
	ex := create(src, "audio/x-wav")
	require.NotNil(t, ex)
	assert.Equal(t, "audio/x-wav", gotHint)
	assert.Equal(t, "RIFF", seen)

	native, ok := ex.(*NativeExtractor)
	require.True(t, ok)
	assert.EqualValues(t, 0xBEEF, native.Handle())
	assert.Equal(t, "audio/x-wav", native.MIMEHint())

	// The source stays readable for the extractor's lifetime.
	assert.Equal(t, before+1, pinnedSources())
	assert.Equal(t, "WAVE", readNative(t, native.source.addr(), 8, 4))

	require.NoError(t, native.Close())
	require.NoError(t, native.Close())
	assert.Equal(t, before, pinnedSources())
	assert.Empty(t, readNative(t, native.source.addr(), 0, 4))
}

func TestBindNativeCreate_NullReleasesSource(t *testing.T) {
	before := pinnedSources()

	create := bindNativeCreate(func(src uintptr, mime string) uintptr { return 0 })
	assert.Nil(t, create(NewBytesSource([]byte("data")), ""))
	assert.Equal(t, before, pinnedSources())
}

// fakeSnifferArray returns a nativeSnifferArrayFunc reporting ptrs, or a null
// array when ptrs is nil.
func fakeSnifferArray(ptrs []uintptr, count int32) nativeSnifferArrayFunc {
	return func(outArray, outCount uintptr) {
		if ptrs != nil {
			*(*uintptr)(unsafe.Pointer(outArray)) = uintptr(unsafe.Pointer(&ptrs[0]))
		}
		*(*int32)(unsafe.Pointer(outCount)) = count
	}
}

func TestBindNativeSnifferArray(t *testing.T) {
	table := map[uintptr]SniffFunc{
		0x10: constSniffer("video/mp4", 0.6),
		0x20: constSniffer("video/x-matroska", 0.4),
	}
	var bound []uintptr
	bind := func(sym uintptr) SniffFunc {
		bound = append(bound, sym)
		return table[sym]
	}

	ptrs := []uintptr{0x10, 0, 0x20}
	sniffers := bindNativeSnifferArray(fakeSnifferArray(ptrs, int32(len(ptrs))), bind)()
	runtime.KeepAlive(ptrs)

	require.Len(t, sniffers, 2)
	assert.Equal(t, []uintptr{0x10, 0x20}, bound)
	res, ok := sniffers[0](NewBytesSource(nil))
	require.True(t, ok)
	assert.Equal(t, "video/mp4", res.MIMEType)
	res, ok = sniffers[1](NewBytesSource(nil))
	require.True(t, ok)
	assert.Equal(t, "video/x-matroska", res.MIMEType)
}

func TestBindNativeSnifferArray_Empty(t *testing.T) {
	bind := func(uintptr) SniffFunc {
		t.Fatal("bind called for an empty array")
		return nil
	}

	assert.Nil(t, bindNativeSnifferArray(fakeSnifferArray(nil, 3), bind)())

	ptrs := []uintptr{0x10}
	got := bindNativeSnifferArray(fakeSnifferArray(ptrs, 0), bind)()
	runtime.KeepAlive(ptrs)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNativeLoader_MissingLibrary(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "libExtendedExtractor-missing.so")
	loader := NewNativeLoader(Config{LibPath: libPath})

	lib, err := loader.Open("libExtendedExtractor-missing.so")
	require.Error(t, err)
	assert.Nil(t, lib)
	assert.ErrorIs(t, err, ErrModuleUnavailable)
	assert.Equal(t, 1, strings.Count(err.Error(), libPath), "path repeated in %q", err)
}

func TestNativeLoader_MissingSymbol(t *testing.T) {
	name := "libc.so.6"
	if runtime.GOOS == "darwin" {
		name = "/usr/lib/libSystem.B.dylib"
	}
	lib, err := NewNativeLoader(Config{}).Open(name)
	if err != nil {
		t.Skipf("system C library not loadable: %v", err)
	}

	_, err = lib.SniffFunc("SniffExtendedExtractor")
	assert.ErrorIs(t, err, ErrSymbolUnavailable)
	_, err = lib.CreateFunc("CreateExtractor")
	assert.ErrorIs(t, err, ErrSymbolUnavailable)
	_, err = lib.SnifferArrayFunc("MediaSnifferArray")
	assert.ErrorIs(t, err, ErrSymbolUnavailable)
}
