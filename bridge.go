package extended

import (
	"sync"

	"github.com/pion/logging"
)

// Bridge dispatches sniff and create requests to the extended module.
//
// Every failure (module missing, symbol missing, module call reporting
// nothing) degrades to an empty result; nothing is returned as an error and
// nothing is retried. Implementations are safe for concurrent use.
type Bridge interface {
	// Create instantiates an extractor for src. mimeHint may be empty.
	// Returns nil when the module cannot provide one.
	Create(src Source, mimeHint string) Extractor

	// Sniff probes src. A false return means no match; the result then has
	// zero confidence.
	Sniff(src Source) (SniffResult, bool)

	// RegisterSniffers forwards the module's bulk sniffers to reg. It only
	// does anything for legacy schemes and is meant to be called once at
	// host initialization.
	RegisterSniffers(reg Registrar)

	// Available reports whether the module is loaded, loading it if needed.
	Available() bool

	// Err returns why the module is unavailable, or nil.
	Err() error

	// Scheme returns the naming scheme the bridge resolves.
	Scheme() Scheme
}

// Options configures a Bridge.
type Options struct {
	// Scheme is the naming scheme to resolve. The zero value is
	// SchemeStandard; pass DefaultScheme to follow the build tags.
	Scheme Scheme

	// Loader defaults to NewNativeLoader with Config.
	Loader Loader

	// Config is used by the default Loader. Defaults to LoadConfig.
	Config *Config

	// LoggerFactory defaults to logging.NewDefaultLoggerFactory.
	LoggerFactory logging.LoggerFactory
}

const loggerScope = "extended"

// New returns a Bridge following the build configuration: the dynamic
// bridge, or the degraded one when compiled with the noextended tag.
func New(opts Options) Bridge {
	return newBridge(extendedEnabled, opts)
}

func newBridge(enabled bool, opts Options) Bridge {
	if opts.LoggerFactory == nil {
		opts.LoggerFactory = logging.NewDefaultLoggerFactory()
	}
	log := opts.LoggerFactory.NewLogger(loggerScope)

	if !enabled {
		return &disabledBridge{scheme: opts.Scheme}
	}

	if opts.Loader == nil {
		cfg := Config{}
		if opts.Config != nil {
			cfg = *opts.Config
		} else if envCfg, err := LoadConfig(); err != nil {
			log.Warnf("ignoring invalid %s_* environment: %v", envPrefix, err)
		} else {
			cfg = envCfg
		}
		opts.Loader = NewNativeLoader(cfg)
	}
	return newDynamicBridge(opts.Scheme, opts.Loader, log)
}

var defaultBridge = sync.OnceValue(func() Bridge {
	return New(Options{Scheme: DefaultScheme})
})

// Default returns the process-wide Bridge. It is created on first use and
// lives for the rest of the process.
func Default() Bridge {
	return defaultBridge()
}

// Create calls Default().Create.
func Create(src Source, mimeHint string) Extractor {
	return Default().Create(src, mimeHint)
}

// Sniff calls Default().Sniff.
func Sniff(src Source) (SniffResult, bool) {
	return Default().Sniff(src)
}

// RegisterSniffers calls Default().RegisterSniffers.
func RegisterSniffers(reg Registrar) {
	Default().RegisterSniffers(reg)
}

// IsExtendedAvailable reports whether the process-wide bridge has a loaded
// module.
func IsExtendedAvailable() bool {
	return Default().Available()
}

// dynamicBridge loads the module lazily and caches every outcome.
type dynamicBridge struct {
	scheme Scheme
	log    logging.LeveledLogger

	plugin   *pluginHandle
	create   *lazySymbol[CreateFunc]
	sniff    *lazySymbol[SniffFunc]
	sniffers *lazySymbol[SnifferArrayFunc]
}

func newDynamicBridge(scheme Scheme, loader Loader, log logging.LeveledLogger) *dynamicBridge {
	return &dynamicBridge{
		scheme: scheme,
		log:    log,
		plugin: newPluginHandle(scheme.Library(), loader, log),

		create:   newLazySymbol[CreateFunc](scheme.CreateSymbol(), Library.CreateFunc),
		sniff:    newLazySymbol[SniffFunc](scheme.SniffSymbol(), Library.SniffFunc),
		sniffers: newLazySymbol[SnifferArrayFunc](scheme.SnifferArraySymbol(), Library.SnifferArrayFunc),
	}
}

func (b *dynamicBridge) Create(src Source, mimeHint string) Extractor {
	create, ok := b.create.get(b.plugin, b.log).callable()
	if !ok {
		return nil
	}
	ex := create(src, mimeHint)
	if ex == nil {
		b.log.Errorf("failed to instantiate extractor (mime hint %q): %v", mimeHint, ErrCallFailed)
		return nil
	}
	return ex
}

func (b *dynamicBridge) Sniff(src Source) (SniffResult, bool) {
	sniff, ok := b.sniff.get(b.plugin, b.log).callable()
	if !ok {
		return SniffResult{}, false
	}
	res, ok := sniff(src)
	if !ok {
		b.log.Debugf("sniff failed: %v", ErrCallFailed)
		return SniffResult{}, false
	}
	return res, true
}

func (b *dynamicBridge) Available() bool {
	_, ok := b.plugin.acquire()
	return ok
}

func (b *dynamicBridge) Err() error {
	return b.plugin.loadErr()
}

func (b *dynamicBridge) Scheme() Scheme { return b.scheme }
