package extended

import "sync"

// SnifferEntry is one registered sniffer.
type SnifferEntry struct {
	Sniff   SniffFunc
	Primary bool
}

// SnifferRegistry is a host-side sniffer registry. Sniff runs every
// registered sniffer and keeps the most confident answer.
type SnifferRegistry struct {
	mu           sync.RWMutex
	entries      []SnifferEntry
	primaryCount int
}

// NewSnifferRegistry returns an empty registry.
func NewSnifferRegistry() *SnifferRegistry {
	return &SnifferRegistry{}
}

// RegisterSniffer adds fn. Primary sniffers are placed after earlier primary
// sniffers and ahead of every non-primary one; others are appended.
func (r *SnifferRegistry) RegisterSniffer(fn SniffFunc, primary bool) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := SnifferEntry{Sniff: fn, Primary: primary}
	if !primary {
		r.entries = append(r.entries, entry)
		return
	}
	r.entries = append(r.entries, SnifferEntry{})
	copy(r.entries[r.primaryCount+1:], r.entries[r.primaryCount:])
	r.entries[r.primaryCount] = entry
	r.primaryCount++
}

// Entries returns a snapshot of the registered sniffers in consultation order.
func (r *SnifferRegistry) Entries() []SnifferEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SnifferEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered sniffers.
func (r *SnifferRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sniff consults every sniffer in order and returns the result with the
// strictly highest confidence. Zero-confidence answers never match, and an
// earlier sniffer wins a tie.
func (r *SnifferRegistry) Sniff(src Source) (SniffResult, bool) {
	entries := r.Entries()

	var best SniffResult
	for _, e := range entries {
		res, ok := e.Sniff(src)
		if !ok {
			continue
		}
		if res.Confidence > best.Confidence {
			best = res
		}
	}
	if best.Confidence <= 0 {
		return SniffResult{}, false
	}
	return best, true
}

// RegisterDefaultSniffers registers the built-in sniffers with reg, then the
// extended module's: a legacy module contributes its bulk sniffer array, a
// standard one its single sniff entry point.
func RegisterDefaultSniffers(reg Registrar, b Bridge) {
	for _, fn := range builtinSniffers {
		reg.RegisterSniffer(fn, false)
	}
	if b == nil {
		return
	}
	if b.Scheme().Legacy() {
		b.RegisterSniffers(reg)
		return
	}
	reg.RegisterSniffer(b.Sniff, false)
}
