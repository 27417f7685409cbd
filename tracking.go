package gnssgo

/* tracking.go : DLL/PLL/FLL tracking loops ----------------------------------
*
* Implements spec.md *4.3. No teacher analogue exists; grounded directly on
* the spec's per-cycle algorithm. Field names mirror the teacher's
* abbreviation style (coff, adr, cn0) used throughout types.go's Raw/Rtk
* structs.
*-----------------------------------------------------------------------------*/

import "math"

const (
	tFPullin  = 1.0  /* T_FPULLIN (s) */
	tNPullin  = 1.5  /* T_NPULLIN (s) */
	bFLLWide  = 10.0 /* B_FLL wide (Hz) */
	bFLLNarrw = 2.0  /* B_FLL narrow (Hz) */
	bPLL      = 10.0 /* B_PLL (Hz) */
	bDLLHz    = 0.5  /* B_DLL (Hz) */
	tDLLDef   = 10e-3
	threshSync = 0.04 /* THRES_SYNC */
	nHist      = 1800
	thresCn0U  = 32.0 /* default upper C/N0 threshold: signal-lost */
	noiseTapOffset = -80 /* samples */
)

/* TrackScratch is the per-channel tracking scratch of spec.md *3. */
type TrackScratch struct {
	Sig  SignalID
	Fc   float64
	Lc   int
	T    float64
	Fs   float64
	Fi   float64

	TapDelta int /* E/L tap half-spacing in samples (sp_corr, default 1) */

	Fd   float64 /* Doppler (Hz) */
	Coff float64 /* code offset (s) */
	Adr  float64 /* accumulated Doppler range (cycles) */
	Lock float64 /* lock time (s) */

	IP, QP         float64 /* current prompt correlation */
	prevI, prevQ   float64
	havePrev       bool
	history        []complex128 /* last Nhist prompt correlations */

	secSync     bool
	secPolarity int8
	secBuf      []complex128 /* accumulated IP over one secondary-code period */

	cn0         float64
	cn0Init     bool
	sumP2, sumN2 float64
	cn0Count    int

	dllSumE, dllSumL float64
	dllCount         int

	errPhasPrev float64
	wFLLWide    bool

	cn0Thresh struct{ lower, upper float64 }
}

/* NewTrackScratch allocates a fresh tracking scratch for a channel
 * entering LOCK (spec.md *4.5 "Entering LOCK: ... zero all tracking
 * scratch"). spCorrChips sets the E/L tap half-spacing in chips
 * (sp_corr option, default 0.5 chip -> clamped to >=1 sample). */
func NewTrackScratch(sig SignalID, fs float64, spCorrChips float64) (*TrackScratch, error) {
	d, err := sig.Descriptor()
	if err != nil {
		return nil, err
	}
	if spCorrChips <= 0 {
		spCorrChips = 0.5
	}
	tapSamples := int(math.Round(spCorrChips * (d.T * fs) / float64(d.Lc)))
	if tapSamples < 1 {
		tapSamples = 1
	}
	ts := &TrackScratch{
		Sig: sig, Fc: d.Fc, Lc: d.Lc, T: d.T, Fs: fs, Fi: 0,
		TapDelta: tapSamples,
		wFLLWide: true,
	}
	ts.cn0Thresh.lower = defaultThresCn0L
	ts.cn0Thresh.upper = thresCn0U
	return ts, nil
}

/* tapPositions returns the P,E,L,N offsets (samples) around the current
 * integer code-phase index i (spec.md *4.1's "at least P,E at -delta, L at
 * +delta, N at -80"). Index 0 is prompt. */
func (ts *TrackScratch) tapPositions(i int) []int {
	return []int{i, i - ts.TapDelta, i + ts.TapDelta, i + noiseTapOffset}
}

/* Update runs one T-second tracking cycle (spec.md *4.3, steps 1-10). ring
 * must supply the samples for this cycle starting at the channel's current
 * read offset; an FFT correlator is used for CSK-modulated signals
 * (L6D/L6E), the standard tap correlator otherwise. Returns true if the
 * channel remains locked. */
func (ts *TrackScratch) Update(ring []Sample) bool {
	/* step 1: advance time/carrier-aided code */
	ts.Adr += ts.Fd * ts.T
	ts.Coff -= (ts.Fd / ts.Fc) * ts.T

	/* step 2: integer sample index + carrier phase */
	nSamp := int(math.Round(ts.T * ts.Fs))
	i := int(math.Round(ts.Coff*ts.Fs)) % nSamp
	if i < 0 {
		i += nSamp
	}
	phi := ts.Fi*ts.T + ts.Adr + (ts.Fi+ts.Fd)*float64(i)/ts.Fs

	/* step 3: correlate */
	mixed := MixCarrier(ring, ts.Fs, ts.Fi+ts.Fd, phi)
	var corr []complex128
	if ts.Sig == SigL6D || ts.Sig == SigL6E {
		code := primaryCode(ts.Sig)
		corr = CorrFFT(mixed, ConjCodeFFT(code))
		taps := ts.tapPositions(i)
		sel := make([]complex128, len(taps))
		for k, p := range taps {
			idx := p
			if idx < 0 {
				idx += len(corr)
			}
			if idx >= 0 && idx < len(corr) {
				sel[k] = corr[idx]
			}
		}
		corr = sel
	} else {
		code := primaryCode(ts.Sig)
		corr = CorrStd(mixed, code, ts.tapPositions(i))
	}
	P, E, L, N := corr[0], corr[1], corr[2], corr[3]
	ts.IP, ts.QP = real(P), imag(P)

	/* step 4: append prompt to circular history */
	ts.history = append(ts.history, P)
	if len(ts.history) > nHist {
		ts.history = ts.history[len(ts.history)-nHist:]
	}

	/* step 5: secondary-code sync */
	d, _ := ts.Sig.Descriptor()
	ipForLoops, qpForLoops := ts.IP, ts.QP
	if d != nil && d.SecLen >= 2 {
		ts.secBuf = append(ts.secBuf, P)
		if len(ts.secBuf) >= d.SecLen {
			sec := secondaryCode(ts.Sig)
			var sum complex128
			for k := 0; k < d.SecLen && k < len(sec); k++ {
				sum += ts.secBuf[len(ts.secBuf)-d.SecLen+k] * complex(float64(sec[k]), 0)
			}
			avg := real(sum) / float64(d.SecLen)
			if math.Abs(avg) >= threshSync {
				ts.secSync = true
				if avg < 0 {
					ts.secPolarity = -1
				} else {
					ts.secPolarity = 1
				}
			}
			ts.secBuf = nil
		}
		if ts.secSync {
			ipForLoops *= float64(ts.secPolarity)
			qpForLoops *= float64(ts.secPolarity)
		}
	}

	pilotOnly := d != nil && d.Mod == ModPilotData

	/* steps 6-7: FLL then PLL discriminator */
	ts.Lock += ts.T
	if ts.havePrev {
		dot := ts.prevI*ipForLoops + ts.prevQ*qpForLoops
		cross := ts.prevI*qpForLoops - ts.prevQ*ipForLoops
		if ts.Lock <= tFPullin {
			var errHz float64
			if pilotOnly {
				errHz = math.Atan2(cross, dot) / (2 * math.Pi)
			} else {
				errHz = math.Atan(safeDiv(cross, dot)) / (2 * math.Pi)
			}
			b := bFLLWide
			if ts.Lock > tFPullin/2 {
				b = bFLLNarrw
			}
			ts.Fd -= (b / 0.25) * errHz
		} else {
			var errCyc float64
			if pilotOnly {
				errCyc = math.Atan2(qpForLoops, ipForLoops) / (2 * math.Pi)
			} else {
				errCyc = math.Atan(safeDiv(qpForLoops, ipForLoops)) / (2 * math.Pi)
			}
			w := bPLL / 0.53
			ts.Fd += 1.4*w*(errCyc-ts.errPhasPrev) + w*w*errCyc*ts.T
			ts.errPhasPrev = errCyc
		}
	}
	ts.prevI, ts.prevQ, ts.havePrev = ipForLoops, qpForLoops, true

	/* step 8: DLL, accumulated non-coherently over N_DLL cycles */
	ts.dllSumE += cmplxAbs(E)
	ts.dllSumL += cmplxAbs(L)
	ts.dllCount++
	nDLL := int(math.Round(tDLLDef / ts.T))
	if nDLL < 1 {
		nDLL = 1
	}
	if ts.dllCount >= nDLL {
		denom := ts.dllSumE + ts.dllSumL
		if denom != 0 {
			errChips := (ts.dllSumE - ts.dllSumL) / denom / 2 * ts.T / float64(ts.Lc)
			ts.Coff -= (bDLLHz / 0.25) * errChips * ts.T * float64(nDLL)
		}
		ts.dllSumE, ts.dllSumL, ts.dllCount = 0, 0, 0
	}

	/* step 9: C/N0 estimate, 1/T cycles window, 0.5 IIR blend */
	ts.sumP2 += ts.IP*ts.IP + ts.QP*ts.QP
	ts.sumN2 += cmplxAbs2(N)
	ts.cn0Count++
	winLen := int(math.Round(1.0 / ts.T))
	if winLen < 1 {
		winLen = 1
	}
	if ts.cn0Count >= winLen {
		var cn0Now float64
		if ts.sumN2 > 0 {
			cn0Now = 10 * math.Log10(ts.sumP2/ts.sumN2/ts.T)
		}
		if !ts.cn0Init {
			ts.cn0, ts.cn0Init = cn0Now, true
		} else {
			ts.cn0 = 0.5*ts.cn0 + 0.5*cn0Now
		}
		ts.sumP2, ts.sumN2, ts.cn0Count = 0, 0, 0
	}

	/* step 10: signal-lost check */
	if ts.cn0Init && ts.cn0 < ts.cn0Thresh.upper {
		return false
	}
	return true
}

/* ErrPhas returns the most recent phase-discriminator error (cycles),
 * used by the PVT aggregator's LLI bit 0 test (spec.md *4.7). */
func (ts *TrackScratch) ErrPhas() float64 { return ts.errPhasPrev }

/* Cn0 returns the current low-pass-filtered C/N0 estimate (dB-Hz). */
func (ts *TrackScratch) Cn0() float64 { return ts.cn0 }

func safeDiv(a, b float64) float64 {
	if b == 0 {
		if a == 0 {
			return 0
		}
		if a > 0 {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	return a / b
}

func cmplxAbs(c complex128) float64  { return math.Hypot(real(c), imag(c)) }
func cmplxAbs2(c complex128) float64 { return real(c)*real(c) + imag(c)*imag(c) }
