package gnssgo

/* fft.go : single-precision-equivalent complex FFT with plan caching -------
*
* spec.md *1 names the FFT kernel as an external collaborator ("single-
* precision complex 1-D transforms with wisdom caching"), out of core
* scope. No FFT library appears in the teacher or anywhere else in the
* retrieval pack, so this is a from-scratch iterative radix-2 Cooley-Tukey
* transform on stdlib complex128, cached by length the way the teacher
* caches nothing but the pattern mirrors common.go's single process-wide
* table style (tbl_CRC24Q, carrier table in correlator.go).
*-----------------------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"
	"sync"
)

type fftPlan struct {
	n        int
	revBits  []int
	twiddles []complex128 /* twiddles[k] = exp(-2pi*i*k/n), k in [0,n/2) */
}

var (
	fftPlanMu    sync.Mutex
	fftPlanCache = map[int]*fftPlan{}
)

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func getFFTPlan(n int) *fftPlan {
	fftPlanMu.Lock()
	defer fftPlanMu.Unlock()
	if p, ok := fftPlanCache[n]; ok {
		return p
	}
	bits := 0
	for 1<<bits < n {
		bits++
	}
	rev := make([]int, n)
	for i := 0; i < n; i++ {
		r := 0
		x := i
		for b := 0; b < bits; b++ {
			r = (r << 1) | (x & 1)
			x >>= 1
		}
		rev[i] = r
	}
	tw := make([]complex128, n/2)
	for k := 0; k < n/2; k++ {
		theta := -2 * math.Pi * float64(k) / float64(n)
		tw[k] = cmplx.Rect(1, theta)
	}
	p := &fftPlan{n: n, revBits: rev, twiddles: tw}
	fftPlanCache[n] = p
	return p
}

/* fftInPlace performs forward (inverse=false) or inverse (inverse=true) FFT
 * on data, whose length must be a power of two matching an existing or
 * freshly cached plan. Inverse is NOT normalized by 1/n (callers normalize
 * per spec.md *4.1's 1/N^2 convention for the correlator). */
func fftInPlace(data []complex128, inverse bool) {
	n := len(data)
	plan := getFFTPlan(n)
	for i, r := range plan.revBits {
		if r > i {
			data[i], data[r] = data[r], data[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		step := n / size
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				tw := plan.twiddles[k*step]
				if inverse {
					tw = cmplx.Conj(tw)
				}
				u := data[start+k]
				v := data[start+k+half] * tw
				data[start+k] = u + v
				data[start+k+half] = u - v
			}
		}
	}
}

/* FFT computes the forward transform of x, zero-padded to the next power
 * of two, returning a freshly allocated slice of that padded length. */
func FFT(x []complex128) []complex128 {
	n := nextPow2(len(x))
	out := make([]complex128, n)
	copy(out, x)
	fftInPlace(out, false)
	return out
}

/* IFFT computes the inverse transform (normalized by 1/n) in place on a
 * power-of-two-length slice. */
func IFFT(x []complex128) {
	fftInPlace(x, true)
	n := float64(len(x))
	for i := range x {
		x[i] /= complex(n, 0)
	}
}
