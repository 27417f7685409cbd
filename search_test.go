package gnssgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_toEpochDoc_mapsFields(t *testing.T) {
	assert := assert.New(t)
	sol := &Sol{
		Time: Gtime{Time: 1700000000, Sec: 0},
		Stat: 1, Ns: 9,
		Rr: [6]float64{100, 200, 300},
	}
	obs := []ObsD{{Sat: 3}, {Sat: 7}}
	doc := toEpochDoc(sol, obs)
	assert.Equal(uint8(1), doc.Stat)
	assert.Equal(uint8(9), doc.NumSat)
	assert.Equal(100.0, doc.X)
	assert.Equal(200.0, doc.Y)
	assert.Equal(300.0, doc.Z)
	assert.Equal([]int{3, 7}, doc.Satellite)
}
