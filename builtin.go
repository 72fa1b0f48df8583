package extended

import (
	"bytes"
	"encoding/binary"
	"strconv"

	"github.com/pion/rtp"
)

// sniffPeekSize is how much of a source the built-in sniffers look at.
const sniffPeekSize = 4096

// Confidence levels of the built-in sniffers. A magic-number match is
// stronger than a frame-sync heuristic; bare Annex-B is the weakest guess.
const (
	confidenceMagic = 0.5
	confidenceSync  = 0.2
	confidenceWeak  = 0.1
)

// builtinSniffers are registered by RegisterDefaultSniffers, in order.
var builtinSniffers = []SniffFunc{
	SniffIVF,
	SniffFLAC,
	SniffOgg,
	SniffRTPDump,
	SniffADTS,
	SniffMP3,
	SniffAnnexB,
}

// peekSniff adapts a byte-level detector to SniffFunc.
func peekSniff(src Source, detect func(data []byte) (SniffResult, bool)) (SniffResult, bool) {
	data, err := peek(src, sniffPeekSize)
	if err != nil || len(data) == 0 {
		return SniffResult{}, false
	}
	return detect(data)
}

// SniffIVF recognises IVF files and reports the carried codec.
func SniffIVF(src Source) (SniffResult, bool) {
	return peekSniff(src, func(data []byte) (SniffResult, bool) {
		codec, ok := ivfHeaderCodec(data)
		if !ok {
			return SniffResult{}, false
		}
		res := SniffResult{MIMEType: "video/x-ivf", Confidence: confidenceMagic}
		if codec != VideoCodecUnknown {
			res.Meta = Metadata{"codec": codec.MimeType()}
		}
		return res, true
	})
}

// SniffFLAC recognises native FLAC streams.
func SniffFLAC(src Source) (SniffResult, bool) {
	return peekSniff(src, func(data []byte) (SniffResult, bool) {
		if !bytes.HasPrefix(data, flacSignature) {
			return SniffResult{}, false
		}
		return SniffResult{MIMEType: AudioCodecFLAC.MimeType(), Confidence: confidenceMagic}, true
	})
}

// SniffOgg recognises Ogg containers, noting Opus when the first page
// carries an OpusHead.
func SniffOgg(src Source) (SniffResult, bool) {
	return peekSniff(src, func(data []byte) (SniffResult, bool) {
		packet, ok := oggFirstPacket(data)
		if !ok {
			return SniffResult{}, false
		}
		res := SniffResult{MIMEType: "application/ogg", Confidence: confidenceSync}
		if bytes.HasPrefix(packet, opusHeadMagic) {
			res.Meta = Metadata{"codec": AudioCodecOpus.MimeType()}
		}
		return res, true
	})
}

// SniffADTS recognises AAC in ADTS framing.
func SniffADTS(src Source) (SniffResult, bool) {
	return peekSniff(src, func(data []byte) (SniffResult, bool) {
		if !isADTSHeader(data) {
			return SniffResult{}, false
		}
		return SniffResult{MIMEType: "audio/aac-adts", Confidence: confidenceSync}, true
	})
}

// SniffMP3 recognises MPEG audio layer III, with or without a leading ID3v2 tag.
func SniffMP3(src Source) (SniffResult, bool) {
	return peekSniff(src, func(data []byte) (SniffResult, bool) {
		if !bytes.HasPrefix(data, id3Signature) && !isMP3FrameHeader(data) {
			return SniffResult{}, false
		}
		return SniffResult{MIMEType: AudioCodecMP3.MimeType(), Confidence: confidenceSync}, true
	})
}

// SniffAnnexB recognises a raw H.264 Annex-B elementary stream.
func SniffAnnexB(src Source) (SniffResult, bool) {
	return peekSniff(src, func(data []byte) (SniffResult, bool) {
		nalType, ok := annexBNALType(data)
		if !ok || !isH264NALType(nalType) {
			return SniffResult{}, false
		}
		return SniffResult{MIMEType: "video/avc", Confidence: confidenceWeak}, true
	})
}

// rtpdump framing (rtptools): a text line "#!rtpplay1.0 address/port\n",
// a 16-byte binary file header, then records of an 8-byte header
// (length, packet length, offset) followed by the RTP packet.
const (
	rtpDumpMagic       = "#!rtpplay1.0 "
	rtpDumpFileHeader  = 16
	rtpDumpRecordHdr   = 8
	rtpVersion         = 2
	rtpMinHeaderLength = 12
)

// SniffRTPDump recognises rtpdump captures and reports the first packet's
// payload type and SSRC.
func SniffRTPDump(src Source) (SniffResult, bool) {
	return peekSniff(src, func(data []byte) (SniffResult, bool) {
		if !bytes.HasPrefix(data, []byte(rtpDumpMagic)) {
			return SniffResult{}, false
		}
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			return SniffResult{}, false
		}
		rec := data[nl+1:]
		if len(rec) < rtpDumpFileHeader+rtpDumpRecordHdr {
			return SniffResult{}, false
		}
		rec = rec[rtpDumpFileHeader:]

		recLen := int(binary.BigEndian.Uint16(rec[0:2]))
		if recLen < rtpDumpRecordHdr+rtpMinHeaderLength || recLen > len(rec) {
			return SniffResult{}, false
		}

		var pkt rtp.Packet
		if err := pkt.Unmarshal(rec[rtpDumpRecordHdr:recLen]); err != nil {
			return SniffResult{}, false
		}
		if pkt.Version != rtpVersion {
			return SniffResult{}, false
		}

		meta := Metadata{
			"payload-type": strconv.Itoa(int(pkt.PayloadType)),
			"ssrc":         strconv.FormatUint(uint64(pkt.SSRC), 10),
		}
		if codec := codecMimeForPayloadType(pkt.PayloadType); codec != "" {
			meta["codec"] = codec
		}
		return SniffResult{MIMEType: "application/x-rtp", Confidence: confidenceMagic, Meta: meta}, true
	})
}
