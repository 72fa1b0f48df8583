package extended

import "bytes"

// Stream-start checks used by the built-in sniffers. They only look at the
// first bytes of a source and never scan for resynchronisation.

const (
	ivfHeaderSize   = 32
	ivfFourCCOffset = 8

	// Fixed part of an Ogg page header; the segment table follows.
	oggPageHeaderSize = 27
)

var (
	ivfSignature  = []byte("DKIF")
	flacSignature = []byte("fLaC")
	oggCapture    = []byte("OggS")
	opusHeadMagic = []byte("OpusHead")
	id3Signature  = []byte("ID3")

	annexBStartCode4 = []byte{0x00, 0x00, 0x00, 0x01}
	annexBStartCode3 = []byte{0x00, 0x00, 0x01}
)

// ivfHeaderCodec parses an IVF file header. ok is false when data does not
// start with one; the codec may still be unknown for an unlisted fourCC.
func ivfHeaderCodec(data []byte) (codec VideoCodec, ok bool) {
	if len(data) < ivfHeaderSize || !bytes.HasPrefix(data, ivfSignature) {
		return VideoCodecUnknown, false
	}
	return ivfCodec(string(data[ivfFourCCOffset : ivfFourCCOffset+4])), true
}

// oggFirstPacket returns the payload of the first Ogg page.
func oggFirstPacket(data []byte) ([]byte, bool) {
	if len(data) < oggPageHeaderSize || !bytes.HasPrefix(data, oggCapture) {
		return nil, false
	}
	off := oggPageHeaderSize + int(data[oggPageHeaderSize-1])
	if off > len(data) {
		return nil, false
	}
	return data[off:], true
}

// annexBNALType returns the type of the NAL unit behind a leading 3- or
// 4-byte start code. The forbidden bit must be clear.
func annexBNALType(data []byte) (byte, bool) {
	var nal []byte
	switch {
	case bytes.HasPrefix(data, annexBStartCode4):
		nal = data[len(annexBStartCode4):]
	case bytes.HasPrefix(data, annexBStartCode3):
		nal = data[len(annexBStartCode3):]
	default:
		return 0, false
	}
	if len(nal) == 0 || nal[0]&0x80 != 0 {
		return 0, false
	}
	return nal[0] & 0x1F, true
}

// isH264NALType reports whether t is a defined H.264 NAL unit type
// (ITU-T H.264 Table 7-1).
func isH264NALType(t byte) bool {
	return (t >= 1 && t <= 12) || (t >= 19 && t <= 21)
}

// isADTSHeader checks the 12-bit syncword, layer 0 and a valid sampling
// frequency index of an AAC ADTS header (ISO/IEC 14496-3).
func isADTSHeader(data []byte) bool {
	if len(data) < 7 {
		return false
	}
	if data[0] != 0xFF || data[1]&0xF6 != 0xF0 {
		return false
	}
	return (data[2]>>2)&0x0F < 13
}

// isMP3FrameHeader checks the 11-bit frame sync and Layer III, and rejects
// the reserved bitrate and sample rate indexes (ISO/IEC 11172-3).
func isMP3FrameHeader(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	if data[0] != 0xFF || data[1]&0xE0 != 0xE0 {
		return false
	}
	if (data[1]>>1)&0x03 != 0x01 || (data[1]>>3)&0x03 == 0x01 {
		return false
	}
	return data[2]>>4 != 0x0F && (data[2]>>2)&0x03 != 0x03
}
