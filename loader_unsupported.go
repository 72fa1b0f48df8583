//go:build !(darwin || linux)

package extended

import (
	"fmt"
	"runtime"
)

// NewNativeLoader returns a Loader that always fails: dynamic loading is not
// available on this platform.
func NewNativeLoader(Config) Loader {
	return LoaderFunc(func(name string) (Library, error) {
		return nil, fmt.Errorf("%w: %s: dynamic loading not supported on %s", ErrModuleUnavailable, name, runtime.GOOS)
	})
}
