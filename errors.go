package extended

import "errors"

// Failure classes of the bridge. None of them reach Create or Sniff callers;
// they are cached for the life of the process and reported through Err and
// the diagnostics logger.
var (
	// ErrModuleUnavailable means the extended module could not be opened.
	ErrModuleUnavailable = errors.New("extended: module unavailable")

	// ErrSymbolUnavailable means the module is loaded but an entry point is missing.
	ErrSymbolUnavailable = errors.New("extended: symbol unavailable")

	// ErrCallFailed means an entry point ran and reported no result.
	ErrCallFailed = errors.New("extended: call failed")

	// ErrDisabled is reported by builds compiled with the noextended tag.
	ErrDisabled = errors.New("extended: support compiled out")
)
