package extended

// disabledBridge is the bridge of builds without extended support. It never
// loads anything and never logs.
type disabledBridge struct {
	scheme Scheme
}

func (*disabledBridge) Create(Source, string) Extractor { return nil }

// Sniff reports no match with confidence explicitly zero: the module could
// not even be asked.
func (*disabledBridge) Sniff(Source) (SniffResult, bool) {
	return SniffResult{Confidence: 0}, false
}

func (*disabledBridge) RegisterSniffers(Registrar) {}

func (*disabledBridge) Available() bool { return false }

func (*disabledBridge) Err() error { return ErrDisabled }

func (b *disabledBridge) Scheme() Scheme { return b.scheme }
