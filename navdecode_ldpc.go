package gnssgo

/* navdecode_ldpc.go : binary LDPC framed decoder -----------------------------
*
* Covers the newer civil messages that replace convolutional coding with a
* binary LDPC code (spec.md *4.4 "Binary LDPC for GPS CNAV-2, BeiDou
* B-CNAV1/2/3, NavIC L1-SPS"): GPS L1C data (CNAV-2), BeiDou B1CD (B-CNAV1),
* B2AD (B-CNAV2), B2BI (B-CNAV3), NavIC I1SD (L1-SPS). Reuses cnavDecoder's
* preamble/CRC24Q framing (fec.go's NewLDPCDecoder stands in for the actual
* parity-check-matrix selection, which fec.go documents as a named external
* collaborator rather than a from-scratch implementation).
*-----------------------------------------------------------------------------*/

func init() {
	reg := func(sig SignalID, p cnavParams) {
		registerSignal(sig, p.frameSyms, p.toff, func() NavDecoder { return newCnavDecoder(p) })
	}
	reg(SigL1CD, cnavParams{preamble: preambleBits(0x8B, 8), frameSyms: 1800, fecKind: fecLDPC, ldpcBits: 600, weekOffset: 2048, toff: 0})
	reg(SigB1CD, cnavParams{preamble: preambleBits(0xEB90, 16), frameSyms: 1800, fecKind: fecLDPC, ldpcBits: 600, weekOffset: 1356, toff: 0})
	reg(SigB2AD, cnavParams{preamble: preambleBits(0xEB90, 16), frameSyms: 1000, fecKind: fecLDPC, ldpcBits: 486, weekOffset: 1356, toff: 0})
	reg(SigB2BI, cnavParams{preamble: preambleBits(0xEB90, 16), frameSyms: 1000, fecKind: fecLDPC, ldpcBits: 486, weekOffset: 1356, toff: 0})
	reg(SigI1SD, cnavParams{preamble: preambleBits(0x8B, 8), frameSyms: 600, fecKind: fecLDPC, ldpcBits: 292, weekOffset: 1024, toff: 0})
}
