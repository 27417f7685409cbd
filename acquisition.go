package gnssgo

/* acquisition.go : parallel FFT-based code/Doppler search -----------------
*
* Implements spec.md *4.2. No teacher analogue exists (RTKLIB never
* touches raw IF); grounded directly on the spec's algorithm description.
*-----------------------------------------------------------------------------*/

import "math"

const (
	defaultTAcq      = 10e-3 /* T_acq default (s) */
	defaultMaxDop    = 5000.0
	defaultMaxDFreq  = 500.0 /* assisted search half-width (Hz) */
	defaultThresCn0L = 35.0  /* dB-Hz */
)

/* AcqScratch holds the per-channel acquisition scratch of spec.md *3:
 * code FFT, Doppler bins, optional external hint, accumulated power grid. */
type AcqScratch struct {
	Sig       SignalID
	CodeFFT   []complex128 /* conjugated FFT of primary code, length 2N */
	N         int          /* samples per code period (= T*fs) */
	Fs        float64
	Fi        float64
	DopBins   []float64 /* candidate Doppler offsets (Hz) */
	ExtHint   *float64  /* external Doppler hint (re-acq / cross-signal assist) */
	PowerGrid [][]float64 /* [bin][code-phase sample] non-coherent accumulated power */
}

/* AcqResult is the decision of one acquisition attempt (spec.md *4.2). */
type AcqResult struct {
	Found bool
	Fd    float64 /* Doppler (Hz) */
	Coff  float64 /* code offset (s) */
	Cn0   float64 /* dB-Hz */
}

/* NewAcqScratch builds the Doppler-bin set and code FFT for one
 * acquisition attempt. refDop is the center Doppler (0 if none); extHint,
 * if non-nil, collapses the search to a single bin at *extHint
 * (re-acquisition / cross-signal assist per spec.md *4.2). */
func NewAcqScratch(sig SignalID, fs, fi, refDop float64, extHint *float64) (*AcqScratch, error) {
	d, err := sig.Descriptor()
	if err != nil {
		return nil, err
	}
	code := primaryCode(sig) /* PRN code table: out-of-scope external per spec.md *1, stubbed lookup below */
	n := int(math.Round(d.T * fs))
	sc := &AcqScratch{
		Sig:     sig,
		CodeFFT: ConjCodeFFT(code),
		N:       n,
		Fs:      fs,
		Fi:      fi,
		ExtHint: extHint,
	}
	if extHint != nil {
		sc.DopBins = []float64{*extHint}
	} else {
		step := 0.5 / d.T
		maxDop := defaultMaxDop
		if refDop != 0 {
			maxDop = defaultMaxDFreq
		}
		for f := refDop - maxDop; f <= refDop+maxDop; f += step {
			sc.DopBins = append(sc.DopBins, f)
		}
	}
	sc.PowerGrid = make([][]float64, len(sc.DopBins))
	for i := range sc.PowerGrid {
		sc.PowerGrid[i] = make([]float64, n)
	}
	return sc, nil
}

/* Search runs the non-coherent Doppler/code-phase grid search over ring
 * (a slice of consecutive 2N-sample blocks spanning >= tAcq seconds of
 * data) and returns the acquisition decision (spec.md *4.2 algorithm).
 * thresCn0L defaults to 35 dB-Hz when 0. */
func (sc *AcqScratch) Search(ring []Sample, tAcq, thresCn0L float64) AcqResult {
	if tAcq <= 0 {
		tAcq = defaultTAcq
	}
	if thresCn0L <= 0 {
		thresCn0L = defaultThresCn0L
	}
	blockLen := len(sc.CodeFFT)
	nBlocks := int(tAcq / sc.Sig.descriptorT())
	if nBlocks < 1 {
		nBlocks = 1
	}
	for bi, fd := range sc.DopBins {
		grid := sc.PowerGrid[bi]
		for seg := 0; seg < nBlocks; seg++ {
			off := seg * sc.N
			if off+blockLen > len(ring) {
				break
			}
			block := ring[off : off+blockLen]
			mixed := MixCarrier(block, sc.Fs, sc.Fi+fd, 0)
			corr := CorrFFT(mixed, sc.CodeFFT)
			for j := 0; j < sc.N && j < len(corr); j++ {
				p := corr[j]
				mag := real(p)*real(p) + imag(p)*imag(p)
				grid[j] += mag
			}
		}
	}

	/* argmax over the (Nbins x N) grid */
	var (
		pMax            = -1.0
		kStar, jStar    int
		sum, count      float64
	)
	for bi, grid := range sc.PowerGrid {
		for j, p := range grid {
			sum += p
			count++
			if p > pMax {
				pMax, kStar, jStar = p, bi, j
			}
		}
	}
	if count == 0 {
		return AcqResult{Found: false}
	}
	pMean := sum / count
	if pMean <= 0 {
		return AcqResult{Found: false}
	}
	cn0 := 10 * math.Log10((pMax-pMean)/pMean/sc.Sig.descriptorT())
	if cn0 < thresCn0L {
		return AcqResult{Found: false}
	}

	fd := sc.DopBins[kStar]
	if kStar > 0 && kStar < len(sc.DopBins)-1 {
		fd = quadraticPeak(
			sc.DopBins[kStar-1], peakPowerAt(sc.PowerGrid, kStar-1, jStar),
			sc.DopBins[kStar], pMax,
			sc.DopBins[kStar+1], peakPowerAt(sc.PowerGrid, kStar+1, jStar),
		)
	}
	return AcqResult{
		Found: true,
		Fd:    fd,
		Coff:  float64(jStar) / sc.Fs,
		Cn0:   cn0,
	}
}

func peakPowerAt(grid [][]float64, bin, j int) float64 {
	if bin < 0 || bin >= len(grid) || j >= len(grid[bin]) {
		return 0
	}
	return grid[bin][j]
}

/* quadraticPeak fits a parabola through three (x,y) points and returns the
 * x of its vertex, falling back to x1 if the fit is degenerate
 * (spec.md *4.2 "refine Doppler by quadratic fit"). */
func quadraticPeak(x0, y0, x1, y1, x2, y2 float64) float64 {
	denom := (x0-x1)*(x0-x2)*(x1-x2)
	if denom == 0 {
		return x1
	}
	a := (x2*(y1-y0) + x1*(y0-y2) + x0*(y2-y1)) / denom
	b := (x2*x2*(y0-y1) + x1*x1*(y2-y0) + x0*x0*(y1-y2)) / denom
	if a == 0 {
		return x1
	}
	vertex := -b / (2 * a)
	/* guard against a wild extrapolation outside the sampled window */
	lo, hi := x0, x2
	if lo > hi {
		lo, hi = hi, lo
	}
	if vertex < lo || vertex > hi {
		return x1
	}
	return vertex
}

func (sig SignalID) descriptorT() float64 {
	if d, err := sig.Descriptor(); err == nil {
		return d.T
	}
	return 1e-3
}
