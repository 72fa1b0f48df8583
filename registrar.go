package extended

// Registrar is the host's central sniffer registry as seen by the bridge.
//
// A primary sniffer is one the registry consults ahead of sniffers
// registered without the flag, so it wins confidence ties.
type Registrar interface {
	RegisterSniffer(fn SniffFunc, primary bool)
}

// RegisterSniffers pulls the bulk sniffer array from a legacy module and
// registers each entry with reg in array order. Only the first entry is
// flagged primary.
func (b *dynamicBridge) RegisterSniffers(reg Registrar) {
	if !b.scheme.Legacy() {
		return
	}
	getArray, ok := b.sniffers.get(b.plugin, b.log).callable()
	if !ok {
		return
	}

	sniffers := getArray()
	if sniffers == nil {
		b.log.Error("module returned a null sniffer array")
		return
	}

	primary := true
	for _, fn := range sniffers {
		reg.RegisterSniffer(fn, primary)
		primary = false
	}
	b.log.Debugf("registered %d sniffers from %s", len(sniffers), b.scheme.Library())
}
