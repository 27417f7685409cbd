package gnssgo

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func Test_statLabel(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("fix", statLabel(1))
	assert.Equal("float", statLabel(2))
	assert.Equal("single", statLabel(5))
	assert.Equal("none", statLabel(0))
	assert.Equal("none", statLabel(99))
}

func Test_Telemetry_nilSafe(t *testing.T) {
	assert := assert.New(t)
	var tel *Telemetry
	assert.NotPanics(func() {
		tel.ObserveRing(42)
		tel.ObserveChannelStates(nil)
		_, end := tel.StartAcqSpan(context.Background(), SigL1CA, 1)
		end()
		tel.ObserveAcqResult(true)
		tel.ObserveEpoch(&Sol{})
	})
}

func Test_NewTelemetry_registersCollectors(t *testing.T) {
	assert := assert.New(t)
	reg := prometheus.NewRegistry()
	tel := NewTelemetry(reg, nil)
	assert.NotNil(tel)

	tel.ObserveRing(55)
	tel.ObserveChannelStates([]*Channel{{State: ChanLock}, {State: ChanSearch}, {State: ChanIdle}})

	mfs, err := reg.Gather()
	assert.NoError(err)
	assert.NotEmpty(mfs)
}
