package gnssgo

/* correlator.go : carrier mixing and early/prompt/late/noise correlators --
*
* Implements spec.md *4.1. Carrier mixing uses a 256-entry complex table
* indexed by a phase accumulator, the same "precomputed lookup table"
* idiom the teacher uses for its quantization/unpack tables (rcvraw.go)
* and CRC tables (common.go's tbl_CRC24Q/tbl_CRC16).
*-----------------------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"
)

const carrierTableLen = 256

var carrierTable [carrierTableLen]complex128

func init() {
	for i := 0; i < carrierTableLen; i++ {
		theta := -2 * math.Pi * float64(i) / float64(carrierTableLen)
		carrierTable[i] = cmplx.Rect(1, theta)
	}
}

/* Sample is a complex IF/baseband sample. */
type Sample = complex128

/* MixCarrier multiplies samples by exp(-j*2*pi*(fc*t+phi)), t measured in
 * sample periods from index 0, using the 256-entry carrier table indexed
 * by a phase accumulator (spec.md *4.1). fs: sample rate (Hz). fc: mixing
 * frequency (Hz, = fi+fd). phi0: initial phase (cycles). */
func MixCarrier(samples []Sample, fs, fc, phi0 float64) []Sample {
	out := make([]Sample, len(samples))
	dphi := fc / fs /* cycles per sample */
	phi := phi0
	for i, s := range samples {
		idx := int(math.Mod(phi, 1.0) * carrierTableLen)
		if idx < 0 {
			idx += carrierTableLen
		}
		out[i] = s * carrierTable[idx]
		phi += dphi
	}
	return out
}

/* CorrStd computes n complex correlations of mixed against resampled_code
 * at the given integer sample-offset tap positions. Each tap computes
 * (1/M) * sum mixed[k+pos] * code[k] (spec.md *4.1). Tap positions outside
 * [0,N) truncate deterministically to min(N, N-|pos|) samples, matching
 * the "guarantees" clause. The noise tap (conventionally pos == -80) is
 * just another tap from the caller's point of view; semantics are applied
 * by the tracking engine.
 */
func CorrStd(mixed []Sample, code []int8, tapPositions []int) []complex128 {
	n := len(mixed)
	if len(code) < n {
		n = len(code)
	}
	out := make([]complex128, len(tapPositions))
	for ti, pos := range tapPositions {
		m := n
		if pos > 0 {
			m = n - pos
		} else if pos < 0 {
			m = n + pos
		}
		if m <= 0 {
			out[ti] = 0
			continue
		}
		if m > n {
			m = n
		}
		var acc complex128
		for k := 0; k < m; k++ {
			ci := k
			mi := k + pos
			if mi < 0 || mi >= len(mixed) || ci >= len(code) {
				continue
			}
			acc += mixed[mi] * complex(float64(code[ci]), 0)
		}
		out[ti] = acc / complex(float64(m), 0)
	}
	return out
}

/* CorrFFT computes the FFT correlation of mixed against the conjugated
 * code spectrum codeFFTConj (already FFT'd and conjugated, length a power
 * of two >= len(mixed)): element-wise multiply in frequency domain then
 * inverse FFT, normalized by 1/N^2 (spec.md *4.1). Used for CSK-modulated
 * L6D/L6E tracking (spec.md *4.3) and for acquisition (*4.2). */
func CorrFFT(mixed []Sample, codeFFTConj []complex128) []complex128 {
	n := len(codeFFTConj)
	padded := make([]complex128, n)
	copy(padded, mixed)
	spec := FFT(padded)
	for i := range spec {
		spec[i] *= codeFFTConj[i]
	}
	IFFT(spec)
	norm := complex(1/float64(n), 0)
	out := make([]complex128, n)
	for i, v := range spec {
		out[i] = v * norm
	}
	return out
}

/* ConjCodeFFT precomputes the conjugated FFT of a primary PRN code chip
 * sequence, zero-padded to the next power of two at or above 2*len(code),
 * for spec.md *3's acquisition scratch. */
func ConjCodeFFT(code []int8) []complex128 {
	n := nextPow2(2 * len(code))
	padded := make([]complex128, n)
	for i, c := range code {
		padded[i] = complex(float64(c), 0)
	}
	spec := FFT(padded)
	for i := range spec {
		spec[i] = cmplx.Conj(spec[i])
	}
	return spec
}
