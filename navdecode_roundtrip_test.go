package gnssgo

/* navdecode_roundtrip_test.go : clean-channel frame round-trip tests --------
*
* One representative per nav-data FEC family (spec.md *8 property 4: a
* synthesized, error-free coded stream must decode with zero CRC errors):
* convolutional (cnavDecoder/fecConv), LDPC passthrough (cnavDecoder/
* fecLDPC), BCH (bdsDecoder), and GLONASS Hamming (gloHammingDecoder).
* Each test builds its own encoder mirroring the matching decode path in
* fec.go/navdecode_*.go exactly, rather than hand-computing expected
* constants, so the assertions are self-verifying against the real decode
* functions.
*-----------------------------------------------------------------------------*/

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* pushPriming feeds the two symbols (-1,+1) every PushSymbol state machine
 * in this package needs to declare symbol sync (symbolSyncDetect, n=1),
 * without contributing to the decoder's frame buffer. */
func pushPriming(t *testing.T, dec NavDecoder, sc *NavScratch) {
	t.Helper()
	if _, ok := dec.PushSymbol(sc, -1, 0); ok {
		t.Fatal("unexpected frame during priming")
	}
	if _, ok := dec.PushSymbol(sc, 1, 1); ok {
		t.Fatal("unexpected frame during priming")
	}
	require.NotZero(t, sc.Ssync, "priming symbols must establish symbol sync")
}

/* convEncode mirrors ConvDecoder.Decode's exact trellis transition
 * (fec.go), so the produced coded stream is guaranteed error-free under
 * Viterbi decoding. */
func convEncode(bits []uint8) []int8 {
	state := 0
	out := make([]int8, 0, len(bits)*2)
	for _, bit := range bits {
		reg := (state << 1) | int(bit)
		o1 := parity(uint32(reg) & convG1)
		o2 := parity(uint32(reg) & convG2)
		e1, e2 := int8(1), int8(1)
		if o1 == 1 {
			e1 = -1
		}
		if o2 == 1 {
			e2 = -1
		}
		out = append(out, e1, e2)
		state = reg & ((1 << (convK - 1)) - 1)
	}
	return out
}

func Test_cnavDecoder_convolutional_roundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	p := cnavParams{preamble: preambleBits(0x8B, 8), frameSyms: 600, fecKind: fecConv}
	dec := newCnavDecoder(p)
	sc := &NavScratch{}

	nSym := p.frameSyms / 2
	nMsgBits := nSym - (convK - 1) /* 294: preamble + data + crc24 */
	crcLen := nMsgBits - 24
	require.True(crcLen >= len(p.preamble))

	msgBits := make([]uint8, nMsgBits)
	copy(msgBits, p.preamble)
	/* data payload: an arbitrary but fixed pattern */
	for i := len(p.preamble); i < crcLen; i++ {
		msgBits[i] = uint8((i * 3) % 2)
	}
	dataBytes := packBits(msgBits[:crcLen])
	crc := Rtk_CRC24q(dataBytes, len(dataBytes))
	for i := 0; i < 24; i++ {
		msgBits[crcLen+i] = uint8((crc >> uint(23-i)) & 1)
	}

	infoBits := append(append([]uint8{}, msgBits...), make([]uint8, convK-1)...) /* tail flush */
	coded := convEncode(infoBits)
	require.Equal(p.frameSyms, len(coded))

	pushPriming(t, dec, sc)
	var frame *DecodedFrame
	var ok bool
	for i, sym := range coded {
		frame, ok = dec.PushSymbol(sc, float64(sym), 2+i)
	}
	require.True(ok, "expected a decoded frame on the final symbol")
	require.NotNil(frame)
	assert.Equal(nMsgBits, frame.NBits)
	assert.Equal(0, sc.CountErr)
	assert.Equal(1, sc.CountOK)
}

func Test_cnavDecoder_ldpcPassthrough_roundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	p := cnavParams{preamble: preambleBits(0x8B, 8), frameSyms: 1800, fecKind: fecLDPC, ldpcBits: 600}
	dec := newCnavDecoder(p)
	sc := &NavScratch{}

	msgBits := make([]uint8, p.ldpcBits)
	copy(msgBits, p.preamble)
	crcLen := p.ldpcBits - 24
	for i := len(p.preamble); i < crcLen; i++ {
		msgBits[i] = uint8((i * 5) % 2)
	}
	dataBytes := packBits(msgBits[:crcLen])
	crc := Rtk_CRC24q(dataBytes, len(dataBytes))
	for i := 0; i < 24; i++ {
		msgBits[crcLen+i] = uint8((crc >> uint(23-i)) & 1)
	}

	coded := make([]int8, p.frameSyms)
	for i := range coded {
		if i < len(msgBits) {
			if msgBits[i] != 0 {
				coded[i] = 1
			} else {
				coded[i] = -1
			}
		} else {
			coded[i] = 1 /* passthroughFEC never reads past ldpcBits */
		}
	}

	pushPriming(t, dec, sc)
	var frame *DecodedFrame
	var ok bool
	for i, sym := range coded {
		frame, ok = dec.PushSymbol(sc, float64(sym), 2+i)
	}
	require.True(ok, "expected a decoded frame on the final symbol")
	require.NotNil(frame)
	assert.Equal(p.ldpcBits, frame.NBits)
	assert.Equal(0, sc.CountErr)
}

/* bchEncodeWord brute-forces the 4 parity bits for an 11-bit info word by
 * checking the real bchSyndrome function, rather than hand-deriving the
 * parity-check algebra (fec.go's fixed parity-check masks). */
func bchEncodeWord(t *testing.T, info [11]uint8) []int8 {
	t.Helper()
	for p := 0; p < 16; p++ {
		var bits [15]uint8
		copy(bits[:11], info[:])
		bits[11] = uint8((p >> 3) & 1)
		bits[12] = uint8((p >> 2) & 1)
		bits[13] = uint8((p >> 1) & 1)
		bits[14] = uint8(p & 1)
		var word uint16
		for i, b := range bits {
			if b != 0 {
				word |= 1 << uint(14-i)
			}
		}
		if bchSyndrome(word) == 0 {
			out := make([]int8, 15)
			for i, b := range bits {
				if b != 0 {
					out[i] = 1
				} else {
					out[i] = -1
				}
			}
			return out
		}
	}
	t.Fatal("no valid BCH(15,11) parity found for info word")
	return nil
}

func Test_bdsDecoder_roundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	dec := newBdsDecoder()
	sc := &NavScratch{}

	preambleInfo11 := [11]uint8{}
	copy(preambleInfo11[:], preambleBits(bdsPreamble, 11))

	var subframe []int8
	for w := 0; w < bdsWordsPerSubfrm; w++ {
		var info [11]uint8
		if w == 0 {
			info = preambleInfo11
		}
		word := bchEncodeWord(t, info)
		subframe = append(subframe, word...)
		subframe = append(subframe, make([]int8, 15)...) /* second half of the 30-symbol word, ignored by the decoder */
	}
	require.Equal(bdsWordsPerSubfrm*30, len(subframe))

	pushPriming(t, dec, sc)
	cycle := 2
	var frame *DecodedFrame
	var ok bool
	for rep := 0; rep < 2; rep++ { /* match-check needs two identical consecutive subframes */
		for _, sym := range subframe {
			frame, ok = dec.PushSymbol(sc, float64(sym), cycle)
			cycle++
		}
	}
	require.True(ok, "expected a published frame after the second identical subframe")
	require.NotNil(frame)
	assert.Equal(bdsWordsPerSubfrm*11, frame.NBits)
	assert.Equal(1, sc.CountOK)
}

func Test_gloHammingDecoder_roundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	dec := newGloHammingDecoder()
	sc := &NavScratch{}

	var data [gloDataBits]uint8
	for i := range data {
		data[i] = uint8((i * 7) % 2)
	}
	checks := [8]uint32{0x5555555, 0x6666666, 0x7878787, 0x7F80F80, 0x7FF0000, 0x7FFF000, 0x1FFFFFF, 0x7FFFFFF}
	var d uint32
	for i := 0; i < gloDataBits && i < 32; i++ {
		d = (d << 1) | uint32(data[i])
	}
	bits := make([]uint8, gloStringBits)
	copy(bits, data[:])
	for i, mask := range checks {
		bits[gloDataBits+i] = parity(d & mask)
	}
	require.True(gloHammingCheck(bits), "self-check: constructed string must validate")

	pushPriming(t, dec, sc)
	var frame *DecodedFrame
	var ok bool
	for i := 0; i < gloStringBits; i++ {
		sym := int8(-1)
		if bits[i] != 0 {
			sym = 1
		}
		frame, ok = dec.PushSymbol(sc, float64(sym), 2+i)
	}
	require.True(ok, "expected a decoded frame on the final symbol")
	require.NotNil(frame)
	assert.Equal(gloDataBits, frame.NBits)
	assert.Equal(0, sc.CountErr)
	assert.Equal(1, sc.CountOK)
}
