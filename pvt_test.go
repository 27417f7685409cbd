package gnssgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_resolveMsAmbiguity_foldsOntoReference(t *testing.T) {
	assert := assert.New(t)
	pending := []pendingObs{
		{sat: 3, ambig: false, tau: 0.0731},
		{sat: 3, ambig: true, ambSec: 20e-3, tau: 0.0131}, /* same sub-ms offset, different period count */
	}
	out := resolveMsAmbiguity(pending)
	assert.Len(out, 2)
	var resolved *resolvedObs
	for i := range out {
		if out[i].ambig {
			resolved = &out[i]
		}
	}
	assert.NotNil(resolved)
	assert.True(resolved.validTau)
	assert.InDelta(0.0731, resolved.tau, 1e-9)
}

func Test_resolveMsAmbiguity_noReferenceInvalidatesTau(t *testing.T) {
	assert := assert.New(t)
	pending := []pendingObs{
		{sat: 7, ambig: true, ambSec: 4e-3, tau: 0.002},
	}
	out := resolveMsAmbiguity(pending)
	assert.Len(out, 1)
	assert.False(out[0].validTau)
}

func Test_resolveMsAmbiguity_noPeriodFoldsToHalfSpan(t *testing.T) {
	assert := assert.New(t)
	pending := []pendingObs{
		{sat: 9, ambig: true, ambSec: 0, tau: 0.2731},
	}
	out := resolveMsAmbiguity(pending)
	assert.Len(out, 1)
	assert.True(out[0].validTau)
	assert.GreaterOrEqual(out[0].tau, 0.05)
	assert.Less(out[0].tau, 0.15)
}

func Test_resolveMsAmbiguity_nonAmbiguousPassesThrough(t *testing.T) {
	assert := assert.New(t)
	pending := []pendingObs{
		{sat: 1, ambig: false, tau: 0.0731991},
	}
	out := resolveMsAmbiguity(pending)
	assert.Len(out, 1)
	assert.True(out[0].validTau)
	assert.Equal(0.0731991, out[0].tau)
}

func Test_msmTypeFor(t *testing.T) {
	assert := assert.New(t)
	cases := map[int]int{
		SYS_GPS: 1077, SYS_GLO: 1087, SYS_GAL: 1097,
		SYS_QZS: 1117, SYS_CMP: 1127, SYS_IRN: 1137, SYS_SBS: 1107,
	}
	for sys, want := range cases {
		got, ok := msmTypeFor(sys)
		assert.True(ok)
		assert.Equal(want, got)
	}
	_, ok := msmTypeFor(-1)
	assert.False(ok)
}

func Test_initEpoch_anchorsToCurrentCycle(t *testing.T) {
	assert := assert.New(t)
	p := &PVTAggregator{}
	ch := &Channel{WN: 2200, TOW: 345599.7}
	p.initEpoch(1000, ch)
	assert.True(p.epochSet)
	/* next whole-second boundary after 345599.7 is 345600.0, 0.3s later */
	var wn int
	tow := Time2GpsT(p.tEp, &wn)
	assert.Equal(2200, wn)
	assert.InDelta(345600.0, tow, 1e-9)
	/* 0.3s rounds to the nearest 20ms multiple -> 300ms -> 300 cycles at 1ms/cycle */
	assert.Equal(int64(1000+300), p.ixEp)
}
