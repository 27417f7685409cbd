package gnssgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SetOpt_parsesKnownKeys(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	cfg := DefaultReceiverConfig()
	require.NoError(cfg.SetOpt("el_mask", "10"))
	assert.InDelta(10*D2R, cfg.ElMask, 1e-12)

	require.NoError(cfg.SetOpt("bump_jump", "on"))
	assert.True(cfg.BumpJump)

	require.NoError(cfg.SetOpt("sbas", "off"))
	assert.False(cfg.SbasEnable)

	require.NoError(cfg.SetOpt("t_acq", "0.02"))
	assert.Equal(0.02, cfg.TAcq)
}

func Test_SetOpt_rejectsUnknownKey(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultReceiverConfig()
	err := cfg.SetOpt("not_a_real_option", "1")
	assert.Error(err)
}

func Test_SetOpt_rejectsBadValue(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultReceiverConfig()
	err := cfg.SetOpt("t_dll", "not-a-number")
	assert.Error(err)
}

func Test_setRFCH_pinsChannels(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	cfg := DefaultReceiverConfig()
	require.NoError(cfg.SetOpt("-RFCH", "L1CA:0,1"))
	assert.Equal([]int{0, 1}, cfg.RFChByIDs[SigL1CA])
}

func Test_setRFCH_rejectsUnknownSignal(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultReceiverConfig()
	err := cfg.SetOpt("-RFCH", "NOTASIGNAL:0")
	assert.Error(err)
}
