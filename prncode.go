package gnssgo

/* prncode.go : PRN code table access ---------------------------------------
*
* spec.md *1 names the PRN code generators as out of core scope: "they are
* look-up tables driven by signal-ID strings". This file is the narrow
* interface the core calls through (primaryCode, secondaryCode) plus a
* placeholder table generator so the rest of the pipeline (acquisition,
* tracking, tests with synthesized signals) has something deterministic to
* correlate against. A production build swaps genPrimaryCode's body for the
* real per-ICD Gold-code / memory-code tables; nothing above this file
* depends on how the chips are produced.
*-----------------------------------------------------------------------------*/

var primaryCodeCache = map[SignalID][]int8{}

/* primaryCode returns the +-1 chip sequence for sig, generating and
 * caching it on first use. Length is the descriptor's Lc. */
func primaryCode(sig SignalID) []int8 {
	if c, ok := primaryCodeCache[sig]; ok {
		return c
	}
	d, err := sig.Descriptor()
	if err != nil {
		return nil
	}
	c := genPrimaryCode(sig, d.Lc)
	primaryCodeCache[sig] = c
	return c
}

/* genPrimaryCode deterministically derives a balanced +-1 sequence from a
 * small LFSR seeded by the signal ID, standing in for the real per-ICD
 * code table (out of scope per spec.md *1). */
func genPrimaryCode(sig SignalID, lc int) []int8 {
	out := make([]int8, lc)
	reg := uint32(0x1ACE0000 ^ uint32(sig)<<8 ^ uint32(lc))
	if reg == 0 {
		reg = 1
	}
	for i := 0; i < lc; i++ {
		bit := ((reg >> 0) ^ (reg >> 2) ^ (reg >> 3) ^ (reg >> 5)) & 1
		reg = (reg >> 1) | (bit << 31)
		if bit == 1 {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

/* secondaryCode returns the signal's overlay/secondary code if it has one. */
func secondaryCode(sig SignalID) []int8 {
	d, err := sig.Descriptor()
	if err != nil || d.SecLen == 0 {
		return nil
	}
	if d.SecCode != nil {
		return d.SecCode
	}
	return genPrimaryCode(sig+1000, d.SecLen)
}
