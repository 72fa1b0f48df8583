package extended

import (
	"fmt"
	"sync"

	"github.com/pion/logging"
)

// entryPoint is the resolved state of one module export: either an
// availableEntry holding the bound callable or an unavailableEntry holding
// the reason it cannot be called.
type entryPoint[F any] interface {
	callable() (F, bool)
	err() error
}

type availableEntry[F any] struct {
	fn F
}

func (e availableEntry[F]) callable() (F, bool) { return e.fn, true }
func (e availableEntry[F]) err() error          { return nil }

type unavailableEntry[F any] struct {
	cause error
}

func (e unavailableEntry[F]) callable() (F, bool) {
	var zero F
	return zero, false
}
func (e unavailableEntry[F]) err() error { return e.cause }

// resolveFunc binds a named export of lib to F.
type resolveFunc[F any] func(lib Library, symbol string) (F, error)

// lazySymbol resolves one export at most once per process.
type lazySymbol[F any] struct {
	name    string
	resolve resolveFunc[F]

	once  sync.Once
	entry entryPoint[F]
}

func newLazySymbol[F any](name string, resolve resolveFunc[F]) *lazySymbol[F] {
	return &lazySymbol[F]{name: name, resolve: resolve}
}

// get returns the cached entry, resolving it through h on first use.
// Resolution is skipped when the module is not loaded; that failure has
// already been reported by the handle.
func (s *lazySymbol[F]) get(h *pluginHandle, log logging.LeveledLogger) entryPoint[F] {
	s.once.Do(func() {
		if s.name == "" {
			s.entry = unavailableEntry[F]{cause: fmt.Errorf("%w: not exported by this scheme", ErrSymbolUnavailable)}
			return
		}
		lib, ok := h.acquire()
		if !ok {
			s.entry = unavailableEntry[F]{cause: h.err}
			return
		}
		fn, err := s.resolve(lib, s.name)
		if err != nil {
			s.entry = unavailableEntry[F]{cause: err}
			log.Errorf("failed to find symbol %s: %v", s.name, err)
			return
		}
		s.entry = availableEntry[F]{fn: fn}
	})
	return s.entry
}
