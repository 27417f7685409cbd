package gnssgo

/* navdata_persist.go : .pocket_navdata.csv persistence ------------------------
*
* Implements spec.md §6's "on shutdown, the navigation database is
* serialized to .pocket_navdata.csv; on startup, loaded back". One row
* per GPS/QZS/GAL/BDS/IRN ephemeris record (the families pvt.go's
* ingestLNAV and any future per-family extractor populate); GLONASS/SBAS
* ephemerides are out of scope for this file since no in-core decoder in
* this build produces them yet (see DESIGN.md). When EphStore is wired,
* every save also writes through to the ClickHouse archive (navstore.go),
* giving the CSV file and the columnar store the same content.
*-----------------------------------------------------------------------------*/

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

var navdataCsvHeader = []string{
	"sat", "iode", "iodc", "sva", "svh", "week",
	"toe_time", "toe_sec", "toc_time", "toc_sec",
	"a", "e", "i0", "omg0", "omg", "m0", "deln", "omgd", "idot",
	"crc", "crs", "cuc", "cus", "cic", "cis", "toes", "f0", "f1", "f2",
}

/* SaveNavData writes every non-empty ephemeris slot to path in
 * spec.md §6's shutdown-persistence format. */
func (p *PVTAggregator) SaveNavData(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "gnssgo: create navdata csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(navdataCsvHeader); err != nil {
		return errors.Wrap(err, "gnssgo: write navdata csv header")
	}

	p.mu.Lock()
	ephs := append([]Eph(nil), p.nav.Ephs...)
	p.mu.Unlock()

	for _, e := range ephs {
		if e.Sat == 0 {
			continue
		}
		row := []string{
			strconv.Itoa(e.Sat), strconv.Itoa(e.Iode), strconv.Itoa(e.Iodc),
			strconv.Itoa(e.Sva), strconv.Itoa(e.Svh), strconv.Itoa(e.Week),
			strconv.FormatUint(e.Toe.Time, 10), formatFloat(e.Toe.Sec),
			strconv.FormatUint(e.Toc.Time, 10), formatFloat(e.Toc.Sec),
			formatFloat(e.A), formatFloat(e.E), formatFloat(e.I0),
			formatFloat(e.OMG0), formatFloat(e.Omg), formatFloat(e.M0),
			formatFloat(e.Deln), formatFloat(e.OMGd), formatFloat(e.Idot),
			formatFloat(e.Crc), formatFloat(e.Crs), formatFloat(e.Cuc),
			formatFloat(e.Cus), formatFloat(e.Cic), formatFloat(e.Cis),
			formatFloat(e.Toes), formatFloat(e.F0), formatFloat(e.F1), formatFloat(e.F2),
		}
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "gnssgo: write navdata csv row")
		}
		if p.EphStore != nil {
			p.EphStore.SaveEphemeris(SigNone, &e)
		}
	}
	return errors.Wrap(w.Error(), "gnssgo: flush navdata csv")
}

/* LoadNavData reads back a file written by SaveNavData, populating the
 * in-memory Nav database at startup (spec.md §6). Missing path is not
 * an error: a fresh receiver simply starts with an empty database. */
func (p *PVTAggregator) LoadNavData(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "gnssgo: open navdata csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return errors.Wrap(err, "gnssgo: read navdata csv")
	}
	if len(rows) == 0 {
		return nil
	}
	rows = rows[1:] /* skip header */

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, row := range rows {
		e, err := parseNavdataRow(row)
		if err != nil {
			return err
		}
		if e.Sat < 1 || e.Sat > len(p.nav.Ephs) {
			continue
		}
		p.nav.Ephs[e.Sat-1] = e
	}
	return nil
}

func parseNavdataRow(row []string) (Eph, error) {
	if len(row) != len(navdataCsvHeader) {
		return Eph{}, errors.New("gnssgo: malformed navdata csv row")
	}
	var e Eph
	var err error
	fields := []struct {
		dst *int
	}{{&e.Sat}, {&e.Iode}, {&e.Iodc}, {&e.Sva}, {&e.Svh}, {&e.Week}}
	for i, f := range fields {
		*f.dst, err = strconv.Atoi(row[i])
		if err != nil {
			return Eph{}, errors.Wrapf(err, "gnssgo: navdata csv field %d", i)
		}
	}
	toeTime, err := strconv.ParseUint(row[6], 10, 64)
	if err != nil {
		return Eph{}, errors.Wrap(err, "gnssgo: navdata csv toe_time")
	}
	toeSec, err := strconv.ParseFloat(row[7], 64)
	if err != nil {
		return Eph{}, errors.Wrap(err, "gnssgo: navdata csv toe_sec")
	}
	tocTime, err := strconv.ParseUint(row[8], 10, 64)
	if err != nil {
		return Eph{}, errors.Wrap(err, "gnssgo: navdata csv toc_time")
	}
	tocSec, err := strconv.ParseFloat(row[9], 64)
	if err != nil {
		return Eph{}, errors.Wrap(err, "gnssgo: navdata csv toc_sec")
	}
	e.Toe = Gtime{Time: toeTime, Sec: toeSec}
	e.Toc = Gtime{Time: tocTime, Sec: tocSec}

	floats := []*float64{
		&e.A, &e.E, &e.I0, &e.OMG0, &e.Omg, &e.M0, &e.Deln, &e.OMGd, &e.Idot,
		&e.Crc, &e.Crs, &e.Cuc, &e.Cus, &e.Cic, &e.Cis, &e.Toes, &e.F0, &e.F1, &e.F2,
	}
	for i, dst := range floats {
		*dst, err = strconv.ParseFloat(row[10+i], 64)
		if err != nil {
			return Eph{}, errors.Wrapf(err, "gnssgo: navdata csv field %d", 10+i)
		}
	}
	return e, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
