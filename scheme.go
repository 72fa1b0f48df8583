package extended

import (
	"runtime"
	"strings"
)

// Scheme identifies the naming convention of the extended module: which
// library file to open and which entry points to look up in it.
type Scheme uint8

const (
	SchemeStandard Scheme = iota // libExtendedExtractor, CreateExtractor
	SchemeLegacy                 // libmmparser, createExtractor + sniffer array
	schemeCount
)

// schemeMeta contains the fixed names for a scheme.
type schemeMeta struct {
	Name         string
	Library      string
	Create       string
	Sniff        string
	SnifferArray string // empty when the scheme has no bulk sniffer export
}

// Static naming table - indexed by Scheme.
var schemeInfo = [schemeCount]schemeMeta{
	SchemeStandard: {"standard", "libExtendedExtractor.so", "CreateExtractor", "SniffExtendedExtractor", ""},
	SchemeLegacy:   {"legacy", "libmmparser.so", "createExtractor", "SniffExtendedExtractor", "MediaSnifferArray"},
}

// String returns the scheme name.
func (s Scheme) String() string {
	if s >= schemeCount {
		return "unknown"
	}
	return schemeInfo[s].Name
}

// Library returns the module file name for the current platform.
func (s Scheme) Library() string {
	if s >= schemeCount {
		return ""
	}
	name := schemeInfo[s].Library
	if runtime.GOOS == "darwin" {
		name = strings.TrimSuffix(name, ".so") + ".dylib"
	}
	return name
}

// CreateSymbol returns the name of the create-extractor entry point.
func (s Scheme) CreateSymbol() string {
	if s >= schemeCount {
		return ""
	}
	return schemeInfo[s].Create
}

// SniffSymbol returns the name of the sniff entry point.
func (s Scheme) SniffSymbol() string {
	if s >= schemeCount {
		return ""
	}
	return schemeInfo[s].Sniff
}

// SnifferArraySymbol returns the name of the bulk sniffer export, or "" if
// the scheme has none.
func (s Scheme) SnifferArraySymbol() string {
	if s >= schemeCount {
		return ""
	}
	return schemeInfo[s].SnifferArray
}

// Legacy reports whether the scheme exports its sniffers in bulk.
func (s Scheme) Legacy() bool { return s.SnifferArraySymbol() != "" }
