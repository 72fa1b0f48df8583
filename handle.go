package extended

import (
	"sync"
	"sync/atomic"

	"github.com/pion/logging"
)

// pluginHandle owns the single attempt to open the extended module.
//
// The outcome, success or failure, is permanent for the life of the handle:
// a module that appears on disk after a failed attempt is not picked up.
type pluginHandle struct {
	name   string
	loader Loader
	log    logging.LeveledLogger

	once     sync.Once
	lib      Library
	err      error
	attempts atomic.Int32
}

func newPluginHandle(name string, loader Loader, log logging.LeveledLogger) *pluginHandle {
	return &pluginHandle{name: name, loader: loader, log: log}
}

// acquire returns the loaded module, opening it on first use.
func (h *pluginHandle) acquire() (Library, bool) {
	h.once.Do(h.load)
	return h.lib, h.lib != nil
}

func (h *pluginHandle) load() {
	h.attempts.Add(1)
	lib, err := h.loader.Open(h.name)
	if err == nil && lib == nil {
		err = ErrModuleUnavailable
	}
	if err != nil {
		h.err = err
		h.log.Debugf("failed to load %s: %v", h.name, err)
		return
	}
	h.lib = lib
	h.log.Infof("loaded %s from %s", h.name, lib.Path())
}

// loadErr returns the cached load failure; it triggers the load if needed.
func (h *pluginHandle) loadErr() error {
	h.once.Do(h.load)
	return h.err
}
