package gnssgo

/* navdecode_cnav.go : generic convolutional/CRC24Q framed decoder ----------
*
* Covers the signal family that (a) convolutionally encodes (K=7,R=1/2)
* or leaves symbols 1:1 with coded bits, and (b) validates each message
* with a trailing/embedded CRC24Q, per spec.md *4.4: GPS L2CM/L5I CNAV,
* GPS L1C/L1CD (CRC24Q per spec text), Galileo E6B, BeiDou B1CD/B2AD
* (B-CNAV1/2), NavIC I5S. Parameterized per instance by preamble bits,
* frame length (symbols), whether the stream is convolutionally coded,
* and TOFF/week-offset constants, rather than one decoder type per
* constant set.
*-----------------------------------------------------------------------------*/

const crc24qPreambleLen = 8

const (
	fecNone int = iota
	fecConv
	fecLDPC
)

type cnavParams struct {
	preamble   []uint8 /* e.g. 0x8B -> {1,0,0,0,1,0,1,1} */
	frameSyms  int     /* symbols per message, before FEC (coded-bit count if fecKind==fecConv) */
	fecKind    int
	ldpcBits   int /* info-bit width, only used when fecKind == fecLDPC */
	weekOffset int
	toff       float64
}

type cnavDecoder struct {
	p   cnavParams
	buf []int8
	fec FECDecoder
}

func newCnavDecoder(p cnavParams) *cnavDecoder {
	var fec FECDecoder
	switch p.fecKind {
	case fecConv:
		fec = NewConvDecoder()
	case fecLDPC:
		fec = NewLDPCDecoder(p.ldpcBits)
	}
	return &cnavDecoder{p: p, fec: fec}
}

func (d *cnavDecoder) PushSymbol(sc *NavScratch, symbol float64, lockCycle int) (*DecodedFrame, bool) {
	sym := int8(1)
	if symbol < 0 {
		sym = -1
	}
	sc.Symbols = append(sc.Symbols, sym)
	if len(sc.Symbols) > nSMax {
		sc.Symbols = sc.Symbols[len(sc.Symbols)-nSMax:]
	}

	if sc.Ssync == 0 {
		if ok, _ := symbolSyncDetect(sc.Symbols, 1); ok {
			sc.Ssync = lockCycle
		}
		return nil, false
	}

	d.buf = append(d.buf, sym)
	if len(d.buf) < d.p.frameSyms {
		return nil, false
	}
	frame := d.buf[:d.p.frameSyms]
	d.buf = d.buf[d.p.frameSyms:]

	var bitsOut []uint8
	ok := true
	switch d.p.fecKind {
	case fecConv:
		info, decOk := d.fec.Decode(frame)
		ok = decOk
		if ok {
			bitsOut = unpackBits(info, len(frame)/2-(convK-1))
		}
	case fecLDPC:
		info, decOk := d.fec.Decode(frame)
		ok = decOk
		if ok {
			bitsOut = unpackBits(info, d.p.ldpcBits)
		}
	default:
		bitsOut = make([]uint8, len(frame))
		for i, s := range frame {
			bitsOut[i] = softToBit(float64(s), false)
		}
	}
	if !ok {
		sc.CountErr++
		sc.resetFrameSync()
		return nil, false
	}

	if len(bitsOut) < len(d.p.preamble)+24 {
		sc.CountErr++
		return nil, false
	}
	fwdMatch := matchPreamble(bitsOut, 0, d.p.preamble, false)
	revMatch := matchPreamble(bitsOut, 0, d.p.preamble, true)
	if !fwdMatch && !revMatch {
		sc.resetFrameSync()
		return nil, false
	}
	rev := revMatch && !fwdMatch
	if rev {
		for i := range bitsOut {
			bitsOut[i] ^= 1
		}
	}
	sc.fsync = frameSyncState{synced: true, lockAt: lockCycle, rev: rev}

	payload := packBits(bitsOut)
	crcLen := len(bitsOut) - 24
	if crcLen < 0 {
		sc.CountErr++
		return nil, false
	}
	/* repacked separately from payload: crcLen isn't guaranteed to be a
	 * whole number of bytes, so the CRC'd prefix can't just be a byte
	 * slice of payload without losing bits from its last partial byte. */
	dataBytes := packBits(bitsOut[:crcLen])
	gotCrc := Rtk_CRC24q(dataBytes, len(dataBytes))
	wantCrc := uint32(0)
	for i := 0; i < 24; i++ {
		wantCrc = (wantCrc << 1) | uint32(bitsOut[crcLen+i])
	}
	if gotCrc != wantCrc {
		sc.CountErr++
		sc.resetFrameSync()
		return nil, false
	}

	sc.CountOK++
	sc.LastPayload = payload
	return &DecodedFrame{
		TOW: -1, WN: -1, TOWValid: TowAmbig,
		Payload: payload, NBits: len(bitsOut),
	}, true
}

func unpackBits(packed []uint8, n int) []uint8 {
	out := make([]uint8, n)
	for i := 0; i < n; i++ {
		if packed[i/8]&(1<<uint(7-i%8)) != 0 {
			out[i] = 1
		}
	}
	return out
}

func preambleBits(b uint32, n int) []uint8 {
	out := make([]uint8, n)
	for i := 0; i < n; i++ {
		out[i] = uint8((b >> uint(n-1-i)) & 1)
	}
	return out
}

func init() {
	reg := func(sig SignalID, p cnavParams) {
		registerSignal(sig, p.frameSyms, p.toff, func() NavDecoder { return newCnavDecoder(p) })
	}
	reg(SigL2CM, cnavParams{preamble: preambleBits(0x8B, 8), frameSyms: 600, fecKind: fecConv, weekOffset: 0, toff: 0})
	reg(SigL5I, cnavParams{preamble: preambleBits(0x8B, 8), frameSyms: 600, fecKind: fecConv, weekOffset: 0, toff: 0})
	reg(SigE6B, cnavParams{preamble: preambleBits(0x8B, 8), frameSyms: 1000, fecKind: fecConv, weekOffset: 1024, toff: 0})
	reg(SigI5S, cnavParams{preamble: preambleBits(0xEB90, 16), frameSyms: 600, fecKind: fecConv, weekOffset: 1024, toff: 0})
	reg(SigSBSL1, cnavParams{preamble: preambleBits(0x53, 8), frameSyms: 500, fecKind: fecConv, weekOffset: 0, toff: 0})
	reg(SigSBSL5, cnavParams{preamble: preambleBits(0x53, 8), frameSyms: 500, fecKind: fecConv, weekOffset: 0, toff: 0})
	reg(SigE5AI, cnavParams{preamble: preambleBits(0x2459, 16), frameSyms: 976, fecKind: fecConv, weekOffset: 1024, toff: 0})
}
