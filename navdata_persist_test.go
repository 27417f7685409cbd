package gnssgo

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_formatFloat_roundTrips(t *testing.T) {
	assert := assert.New(t)
	for _, v := range []float64{0, -1, 1.5, 1.23456789012345e7, -9.999e-12} {
		s := formatFloat(v)
		assert.NotEmpty(s)
		back, err := strconv.ParseFloat(s, 64)
		assert.NoError(err)
		assert.Equal(v, back)
	}
}

func Test_SaveNavData_LoadNavData_roundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	p := NewPVTAggregator(DefaultReceiverConfig())
	want := Eph{
		Sat: 5, Iode: 12, Iodc: 34, Sva: 1, Svh: 0, Week: 2200,
		Toe: Gtime{Time: 1700000000, Sec: 0.25},
		Toc: Gtime{Time: 1700000001, Sec: 0.5},
		A: 2.6e7, E: 0.001, I0: 0.95, OMG0: -1.2, Omg: 0.8, M0: 0.3,
		Deln: 1e-9, OMGd: -8e-9, Idot: 1e-10,
		Crc: 200.1, Crs: -15.4, Cuc: 1e-6, Cus: 2e-6, Cic: 3e-8, Cis: -3e-8,
		Toes: 345600, F0: 1e-4, F1: 1e-11, F2: 0,
	}
	p.nav.Ephs[want.Sat-1] = want

	f, err := os.CreateTemp(t.TempDir(), "navdata-*.csv")
	require.NoError(err)
	path := f.Name()
	require.NoError(f.Close())

	require.NoError(p.SaveNavData(path))

	p2 := NewPVTAggregator(DefaultReceiverConfig())
	require.NoError(p2.LoadNavData(path))

	got := p2.nav.Ephs[want.Sat-1]
	assert.Equal(want.Sat, got.Sat)
	assert.Equal(want.Iode, got.Iode)
	assert.Equal(want.Iodc, got.Iodc)
	assert.Equal(want.Week, got.Week)
	assert.Equal(want.Toe.Time, got.Toe.Time)
	assert.InDelta(want.Toe.Sec, got.Toe.Sec, 1e-9)
	assert.InDelta(want.A, got.A, 1e-3)
	assert.InDelta(want.Cic, got.Cic, 1e-12)
}

func Test_LoadNavData_missingFileIsNotError(t *testing.T) {
	require := require.New(t)
	p := NewPVTAggregator(DefaultReceiverConfig())
	require.NoError(p.LoadNavData("/tmp/does-not-exist-gnssgo-navdata.csv"))
}

func Test_parseNavdataRow_rejectsWrongColumnCount(t *testing.T) {
	assert := assert.New(t)
	_, err := parseNavdataRow([]string{"1", "2"})
	assert.Error(err)
}
