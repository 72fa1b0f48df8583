package extended

// Loader opens the extended module by file name.
type Loader interface {
	Open(name string) (Library, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(name string) (Library, error)

// Open calls f(name).
func (f LoaderFunc) Open(name string) (Library, error) { return f(name) }

// Library is an opened extended module. Each method looks up one entry point
// by name and binds it to its typed contract; a missing symbol is reported
// as an error wrapping ErrSymbolUnavailable.
type Library interface {
	// Path returns the location the module was opened from.
	Path() string

	CreateFunc(symbol string) (CreateFunc, error)
	SniffFunc(symbol string) (SniffFunc, error)
	SnifferArrayFunc(symbol string) (SnifferArrayFunc, error)
}
