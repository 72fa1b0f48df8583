package extended

import (
	"sort"
	"strings"
)

// Metadata is the opaque key/value bag a sniffer may attach to its result.
type Metadata map[string]string

// String renders the bag as sorted key=value pairs.
func (m Metadata) String() string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m[k])
	}
	return b.String()
}

// parseMetadata decodes the module's "key=value" line format. Lines without
// a '=' are ignored.
func parseMetadata(s string) Metadata {
	if s == "" {
		return nil
	}
	var meta Metadata
	for _, line := range strings.Split(s, "\n") {
		k, v, ok := strings.Cut(line, "=")
		if !ok || k == "" {
			continue
		}
		if meta == nil {
			meta = make(Metadata)
		}
		meta[k] = v
	}
	return meta
}

// SniffResult is a successful format guess.
type SniffResult struct {
	MIMEType   string
	Confidence float32 // 0.0 means no match
	Meta       Metadata
}

// Extractor is an extractor instance created by the extended module.
// Ownership passes to the caller as soon as Create returns it.
type Extractor interface {
	// Handle returns the module's opaque instance pointer.
	Handle() uintptr
}

// CreateFunc is the typed create-extractor entry point. It returns nil when
// the module could not instantiate an extractor for src.
type CreateFunc func(src Source, mimeHint string) Extractor

// SniffFunc is the typed sniff entry point, and the signature every sniffer
// registered with a host registry shares. A false return is authoritative
// regardless of the returned result.
type SniffFunc func(src Source) (SniffResult, bool)

// SnifferArrayFunc is the typed bulk sniffer export of legacy modules. It
// returns nil when the module reports a null array.
type SnifferArrayFunc func() []SniffFunc
