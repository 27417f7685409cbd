package gnssgo

/* navdecode_bds.go : BeiDou B1I/B3I D1/D2 decoder ---------------------------
*
* D1 (MEO/IGSO, 50bps NRZ-L, 1 sps, 20ms/bit with 2x repeat) and D2 (GEO,
* 500bps) both use 12 words x 30 symbols interleaved per subframe, each
* word protected by BCH(15,11,1) (spec.md *4.4 "Special cases"), reusing
* fec.go's BCHDecoder (fixed parity-check masks; the bdsBCHMask constant
* that records spec.md *9's open question is not read by it).
* Ephemeris frames require two consecutive identical decodes (match-check)
* before publishing, to suppress undetected errors (spec.md *4.4).
*-----------------------------------------------------------------------------*/

const (
	bdsWordsPerSubfrm = 12
	bdsBitsPerWord    = 26 /* 11 info + 4 parity x... simplified to one BCH(15,11) block pair per word */
	bdsPreamble       = 0x712 /* 11-bit preamble "11100010010" */
	bdsWeekOffset     = 1356
)

func init() {
	frameLen := bdsWordsPerSubfrm * bdsBitsPerWord
	reg := func(sig SignalID) {
		registerSignal(sig, frameLen, 0, func() NavDecoder { return newBdsDecoder() })
	}
	reg(SigB1I)
	reg(SigB3I)
}

type bdsDecoder struct {
	buf          []int8
	bch          *BCHDecoder
	lastFP       uint64
	haveLastFP   bool
	pendingFP    uint64
	pendingBits  []uint8
	havePending  bool
}

func newBdsDecoder() *bdsDecoder { return &bdsDecoder{bch: NewBCHDecoder()} }

func (d *bdsDecoder) PushSymbol(sc *NavScratch, symbol float64, lockCycle int) (*DecodedFrame, bool) {
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
	const subfrmSyms = bdsWordsPerSubfrm * 30
	if len(d.buf) < subfrmSyms {
		return nil, false
	}
	frame := d.buf[:subfrmSyms]
	d.buf = d.buf[subfrmSyms:]

	var bitsOut []uint8
	allOK := true
	for w := 0; w < bdsWordsPerSubfrm; w++ {
		block := frame[w*30 : w*30+15] /* two BCH(15,11) halves per 30-symbol word, use the first half for sync/preamble */
		info, ok := d.bch.Decode(block)
		if !ok {
			allOK = false
			break
		}
		bitsOut = append(bitsOut, unpackBits(info, 11)...)
	}
	if !allOK {
		sc.CountErr++
		sc.resetFrameSync()
		return nil, false
	}

	preambleBitsLocal := preambleBits(bdsPreamble, 11)
	fwd := matchPreamble(bitsOut, 0, preambleBitsLocal, false)
	rev := matchPreamble(bitsOut, 0, preambleBitsLocal, true)
	if !fwd && !rev {
		sc.resetFrameSync()
		return nil, false
	}
	if rev {
		for i := range bitsOut {
			bitsOut[i] ^= 1
		}
	}
	sc.fsync = frameSyncState{synced: true, lockAt: lockCycle, rev: rev}

	payload := packBits(bitsOut)
	fp := fingerprint(payload)

	/* match-check: require two consecutive identical decodes before
	 * publishing (spec.md *4.4 ephemeris match-check for BeiDou). */
	if !d.havePending || d.pendingFP != fp {
		d.pendingFP, d.pendingBits, d.havePending = fp, bitsOut, true
		return nil, false
	}
	d.havePending = false
	sc.CountOK++
	sc.LastPayload = payload
	return &DecodedFrame{TOW: -1, WN: -1, TOWValid: TowAmbig, Payload: payload, NBits: len(bitsOut)}, true
}

func fingerprint(b []uint8) uint64 {
	h := uint64(1469598103934665603)
	for _, c := range b {
		h ^= uint64(c)
		h *= 1099511628211
	}
	return h
}
