package extended

// VideoCodec identifies a video codec found inside a container.
type VideoCodec int

const (
	VideoCodecUnknown VideoCodec = iota
	VideoCodecVP8
	VideoCodecVP9
	VideoCodecH264
	VideoCodecH265
	VideoCodecAV1
)

// AudioCodec identifies an audio codec found inside a container.
type AudioCodec int

const (
	AudioCodecUnknown AudioCodec = iota
	AudioCodecOpus
	AudioCodecG711A // A-law (PCMA)
	AudioCodecG711U // μ-law (PCMU)
	AudioCodecAAC
	AudioCodecMP3
	AudioCodecFLAC
)

type codecInfo struct {
	name string
	mime string
	// pt is the typical RTP payload type. Dynamic ones are only a
	// convention; real sessions negotiate them.
	pt    uint8
	hasPT bool
}

var videoCodecs = [...]codecInfo{
	VideoCodecVP8:  {"VP8", "video/VP8", 96, true},
	VideoCodecVP9:  {"VP9", "video/VP9", 98, true},
	VideoCodecH264: {"H264", "video/H264", 102, true},
	VideoCodecH265: {"H265", "video/H265", 104, true},
	VideoCodecAV1:  {"AV1", "video/AV1", 35, true},
}

var audioCodecs = [...]codecInfo{
	AudioCodecOpus:  {"Opus", "audio/opus", 111, true},
	AudioCodecG711A: {"PCMA", "audio/PCMA", 8, true},
	AudioCodecG711U: {"PCMU", "audio/PCMU", 0, true},
	AudioCodecAAC:   {"AAC", "audio/AAC", 97, true},
	AudioCodecMP3:   {"MP3", "audio/mpeg", 14, true},
	AudioCodecFLAC:  {"FLAC", "audio/flac", 0, false},
}

func (c VideoCodec) info() codecInfo {
	if c <= VideoCodecUnknown || int(c) >= len(videoCodecs) {
		return codecInfo{name: "Unknown"}
	}
	return videoCodecs[c]
}

func (c VideoCodec) String() string { return c.info().name }

// MimeType returns the RTP-style MIME type, or "" for unknown codecs.
func (c VideoCodec) MimeType() string { return c.info().mime }

func (c AudioCodec) info() codecInfo {
	if c <= AudioCodecUnknown || int(c) >= len(audioCodecs) {
		return codecInfo{name: "Unknown"}
	}
	return audioCodecs[c]
}

func (c AudioCodec) String() string { return c.info().name }

// MimeType returns the MIME type, or "" for unknown codecs.
func (c AudioCodec) MimeType() string { return c.info().mime }

// codecMimeForPayloadType guesses the codec carried by an RTP payload type
// from the typical assignments above. Returns "" when no codec claims pt.
func codecMimeForPayloadType(pt uint8) string {
	for _, info := range audioCodecs {
		if info.hasPT && info.pt == pt {
			return info.mime
		}
	}
	for _, info := range videoCodecs {
		if info.hasPT && info.pt == pt {
			return info.mime
		}
	}
	return ""
}

// ivfFourCCs maps the fourCC at offset 8 of an IVF file header to its codec.
var ivfFourCCs = map[string]VideoCodec{
	"VP80": VideoCodecVP8,
	"VP90": VideoCodecVP9,
	"AV01": VideoCodecAV1,
	"H264": VideoCodecH264,
	"H265": VideoCodecH265,
	"HEVC": VideoCodecH265,
}

// ivfCodec returns the codec named by an IVF fourCC, or VideoCodecUnknown.
func ivfCodec(fourCC string) VideoCodec {
	return ivfFourCCs[fourCC]
}
