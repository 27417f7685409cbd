package gnssgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReceiver(t *testing.T, specs []ChannelSpec) *Receiver {
	t.Helper()
	require := require.New(t)
	cfg := DefaultReceiverConfig()
	cfg.ChannelSpecs = specs
	rv, err := NewReceiver(cfg, nil)
	require.NoError(err)
	return rv
}

func Test_crossSignalHint_scalesDopplerFromLockedSibling(t *testing.T) {
	assert := assert.New(t)
	rv := newTestReceiver(t, []ChannelSpec{
		{Sig: SigL1CA, Prn: 1, RFChannel: 0},
		{Sig: SigL2CM, Prn: 1, RFChannel: 0},
	})
	rv.Channels[0].State = ChanLock
	rv.Channels[0].track.Fd = 1000

	assist, fd := rv.crossSignalHint(rv.Channels[1])
	assert.True(assist)
	ratio := rv.Channels[1].Descriptor().Fc / rv.Channels[0].Descriptor().Fc
	assert.InDelta(1000*ratio, fd, 1e-9)
}

func Test_crossSignalHint_noLockedSiblingReturnsFalse(t *testing.T) {
	assert := assert.New(t)
	rv := newTestReceiver(t, []ChannelSpec{
		{Sig: SigL1CA, Prn: 1, RFChannel: 0},
		{Sig: SigL1CA, Prn: 2, RFChannel: 0},
	})
	assist, _ := rv.crossSignalHint(rv.Channels[1])
	assert.False(assist)
}

func Test_arbitrateSearchSlot_onlyOneChannelSearchesAtATime(t *testing.T) {
	assert := assert.New(t)
	rv := newTestReceiver(t, []ChannelSpec{
		{Sig: SigL1CA, Prn: 1, RFChannel: 0},
		{Sig: SigL1CA, Prn: 2, RFChannel: 0},
	})
	rv.Channels[0].State = ChanSearch
	rv.arbitrateSearchSlot(0)
	assert.Equal(ChanIdle, rv.Channels[1].State)
}
