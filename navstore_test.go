package gnssgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ephemerisRecord_TableName(t *testing.T) {
	assert.Equal(t, "ephemeris_log", ephemerisRecord{}.TableName())
}

func Test_ClickHouseEphemerisStore_nilSafe(t *testing.T) {
	assert := assert.New(t)
	var s *ClickHouseEphemerisStore
	assert.NotPanics(func() {
		s.SaveEphemeris(SigL1CA, &Eph{Sat: 1})
	})
}

func Test_ConfigStore_nilSafe(t *testing.T) {
	assert := assert.New(t)
	var c *ConfigStore
	assert.NotPanics(func() {
		_ = c.RecordChange("k", "v")
		_ = c.Close()
	})
}
