package gnssgo

/* navdecode_l6.go : QZSS L6D/L6E CSK (256-ary code-shift-keying) decoder ---
*
* Symbols here are code-phase offsets (0-255), not bits (spec.md *4.4
* "Special cases"): the observed offset is differenced against the
* canonical 4-symbol preamble to "restore" symbol values, then RS(255,223)
* CCSDS (fec.go's placeholder) recovers the message bytes.
*-----------------------------------------------------------------------------*/

var l6Preamble = []int{0, 64, 128, 192} /* canonical 4-symbol CSK preamble offsets */

const l6FrameSyms = 2000 /* approx one RS-coded L6 frame length in CSK symbols */

func init() {
	reg := func(sig SignalID) {
		registerSignal(sig, l6FrameSyms, 0, func() NavDecoder { return newL6Decoder() })
	}
	reg(SigL6D)
	reg(SigL6E)
}

type l6Decoder struct {
	buf []int /* raw observed CSK code-phase offsets */
	rs  FECDecoder
}

func newL6Decoder() *l6Decoder { return &l6Decoder{rs: NewRSDecoder()} }

/* PushSymbol for CSK signals receives the observed code-phase offset
 * (0-255) encoded into symbol's integer value, since the tracking engine
 * reports a code-phase peak for CSK rather than a +-1 bit decision. */
func (d *l6Decoder) PushSymbol(sc *NavScratch, symbol float64, lockCycle int) (*DecodedFrame, bool) {
	offset := int(symbol) & 0xFF
	d.buf = append(d.buf, offset)
	if sc.Ssync == 0 {
		if len(d.buf) >= len(l6Preamble) && csk4SymbolMatch(d.buf[len(d.buf)-len(l6Preamble):]) {
			sc.Ssync = lockCycle
		}
		return nil, false
	}
	if len(d.buf) < l6FrameSyms {
		return nil, false
	}
	frame := d.buf[:l6FrameSyms]
	d.buf = d.buf[l6FrameSyms:]

	restored := restoreCSKSymbols(frame)
	coded := make([]int8, len(restored)*8)
	for i, b := range restored {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<uint(7-bit)) != 0 {
				coded[i*8+bit] = 1
			} else {
				coded[i*8+bit] = -1
			}
		}
	}
	_, ok := d.rs.Decode(coded)
	if !ok {
		sc.CountErr++
		return nil, false
	}
	sc.fsync = frameSyncState{synced: true, lockAt: lockCycle}
	sc.CountOK++
	payload := restored
	sc.LastPayload = payload
	return &DecodedFrame{TOW: -1, WN: -1, TOWValid: TowAmbig, Payload: payload, NBits: len(payload) * 8}, true
}

/* csk4SymbolMatch reports whether the last 4 observed offsets differ from
 * the canonical preamble by a single constant shift (the code-phase
 * ambiguity spec.md describes as "symbol restored by subtracting the
 * observed offset from the canonical preamble"). */
func csk4SymbolMatch(last []int) bool {
	shift := (last[0] - l6Preamble[0] + 256) % 256
	for i, v := range last {
		s := (v - l6Preamble[i] + 256) % 256
		if s != shift {
			return false
		}
	}
	return true
}

/* restoreCSKSymbols subtracts the frame's inferred constant offset shift
 * (derived from the first 4 symbols matching the preamble) from every
 * observed symbol, then packs each restored 0-255 value as one byte. */
func restoreCSKSymbols(frame []int) []uint8 {
	shift := 0
	if len(frame) >= len(l6Preamble) {
		shift = (frame[0] - l6Preamble[0] + 256) % 256
	}
	out := make([]uint8, len(frame))
	for i, v := range frame {
		out[i] = uint8((v - shift + 256) % 256)
	}
	return out
}
