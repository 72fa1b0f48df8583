package extended

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pion/logging"
)

// syncBuffer collects log output from concurrent goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Count(substr string) int {
	return strings.Count(b.String(), substr)
}

// newTestLoggerFactory logs every level to the returned buffer.
func newTestLoggerFactory() (logging.LoggerFactory, *syncBuffer) {
	out := &syncBuffer{}
	return &logging.DefaultLoggerFactory{
		Writer:          out,
		DefaultLogLevel: logging.LogLevelTrace,
		ScopeLevels:     map[string]logging.LogLevel{},
	}, out
}

// fakeExtractor is what fake modules hand back from create.
type fakeExtractor struct {
	id       uintptr
	mimeHint string
}

func (e *fakeExtractor) Handle() uintptr { return e.id }

// fakeLibrary is an in-process module. Nil entry points behave as missing
// symbols. Every lookup and call is counted.
type fakeLibrary struct {
	create   CreateFunc
	sniff    SniffFunc
	sniffers SnifferArrayFunc

	mu      sync.Mutex
	lookups map[string]int

	creates atomic.Int32
	sniffs  atomic.Int32
}

func (l *fakeLibrary) Path() string { return "/fake/" + SchemeStandard.Library() }

func (l *fakeLibrary) countLookup(symbol string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lookups == nil {
		l.lookups = make(map[string]int)
	}
	l.lookups[symbol]++
}

func (l *fakeLibrary) Lookups(symbol string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lookups[symbol]
}

func missingSymbol(symbol string) error {
	return fmt.Errorf("%w: %s: undefined symbol: %s", ErrSymbolUnavailable, symbol, symbol)
}

func (l *fakeLibrary) CreateFunc(symbol string) (CreateFunc, error) {
	l.countLookup(symbol)
	if l.create == nil {
		return nil, missingSymbol(symbol)
	}
	return func(src Source, mimeHint string) Extractor {
		l.creates.Add(1)
		return l.create(src, mimeHint)
	}, nil
}

func (l *fakeLibrary) SniffFunc(symbol string) (SniffFunc, error) {
	l.countLookup(symbol)
	if l.sniff == nil {
		return nil, missingSymbol(symbol)
	}
	return func(src Source) (SniffResult, bool) {
		l.sniffs.Add(1)
		return l.sniff(src)
	}, nil
}

func (l *fakeLibrary) SnifferArrayFunc(symbol string) (SnifferArrayFunc, error) {
	l.countLookup(symbol)
	if l.sniffers == nil {
		return nil, missingSymbol(symbol)
	}
	return l.sniffers, nil
}

// countingLoader opens lib, or fails with err when lib is nil.
type countingLoader struct {
	lib   Library
	err   error
	opens atomic.Int32
	names chan string
}

func (l *countingLoader) Open(name string) (Library, error) {
	l.opens.Add(1)
	if l.names != nil {
		l.names <- name
	}
	if l.lib == nil {
		return nil, l.err
	}
	return l.lib, nil
}

func newTestBridge(t *testing.T, scheme Scheme, loader Loader) (*dynamicBridge, *syncBuffer) {
	t.Helper()
	factory, out := newTestLoggerFactory()
	b, ok := newBridge(true, Options{Scheme: scheme, Loader: loader, LoggerFactory: factory}).(*dynamicBridge)
	if !ok {
		t.Fatal("enabled bridge is not dynamic")
	}
	return b, out
}
