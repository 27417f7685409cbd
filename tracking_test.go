package gnssgo

/* tracking_test.go : PLL pull-in convergence -------------------------------
*
* spec.md *8 property 2: after T_NPULLIN seconds of continuous lock on a
* clean signal, |err_phas| must fall under half a cycle. Builds a
* synthetic SigL1CA baseband ring (code chips rotated by a small constant
* Doppler offset the channel wasn't initialized with) and drives
* TrackScratch.Update across ~T_NPULLIN/T cycles, the way the channel
* state machine itself would once LOCK is entered (spec.md *4.3/4.5).
*-----------------------------------------------------------------------------*/

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_TrackScratch_pullInConverges(t *testing.T) {
	require := require.New(t)

	sig := SigL1CA
	desc, err := sig.Descriptor()
	require.NoError(err)

	fs := float64(desc.Lc) / desc.T
	ts, err := NewTrackScratch(sig, fs, 0.5)
	require.NoError(err)

	code := primaryCode(sig)
	require.NotEmpty(code)

	const trueDopplerHz = 5.0 /* small offset relative to ts.Fd's zero initial estimate */
	nSamp := int(math.Round(desc.T * fs))

	nCycles := int(math.Round(tNPullin / desc.T))
	for c := 0; c < nCycles; c++ {
		ring := make([]Sample, nSamp)
		for k := 0; k < nSamp; k++ {
			tGlobal := float64(c)*desc.T + float64(k)/fs
			rot := complex(math.Cos(2*math.Pi*trueDopplerHz*tGlobal), math.Sin(2*math.Pi*trueDopplerHz*tGlobal))
			ring[k] = complex(float64(code[k%len(code)]), 0) * rot
		}
		ts.Update(ring) /* per-cycle bool reflects the noise-tap cn0 estimate, not phase convergence */
	}

	require.Less(math.Abs(ts.ErrPhas()), 0.5)
}
