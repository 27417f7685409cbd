package gnssgo

/* rinexout.go : live RINEX observation/navigation logging ---------------------
*
* Wires renix.go's RINEX 3 writers (OutRnxObsHeader/Body, OutRnxNavHeader/
* Body - otherwise reachable only from the teacher's batch convrnx.go
* converter) into the running receiver: every PVT epoch is appended to an
* observation file, every freshly decoded ephemeris to a navigation file,
* in the same streaming header-then-body shape app/rnx2rtkp and rtkrcv's
* -out:rnx option give a live rover. Obs-type table is built from the
* SignalID/freqSlot assignment pvt.go already uses, not from opt.Mask's
* broader code-matching machinery (the receiver only ever tracks the
* signals it was configured for).
*-----------------------------------------------------------------------------*/

import "os"

/* rinexSysIndex maps SatSys's bit flags onto RnxOpt's fixed {GPS,GLO,GAL,
 * QZS,SBS,CMP,IRN} 7-slot layout (renix.go's OutObsTypeVer3/OutRnxObsBody). */
func rinexSysIndex(sys int) (int, bool) {
	switch sys {
	case SYS_GPS:
		return 0, true
	case SYS_GLO:
		return 1, true
	case SYS_GAL:
		return 2, true
	case SYS_QZS:
		return 3, true
	case SYS_SBS:
		return 4, true
	case SYS_CMP:
		return 5, true
	case SYS_IRN:
		return 6, true
	}
	return 0, false
}

/* RinexOutput streams the receiver's live epochs and ephemerides to a pair
 * of RINEX 3.04 files. Both files are optional and independent, nil-safe
 * like PVTAggregator's other optional sinks. */
type RinexOutput struct {
	opt RnxOpt

	obsFp      *os.File
	obsHdrDone bool

	navFp      *os.File
	navHdrDone bool
}

/* NewRinexOutput builds the shared RnxOpt (obs-type table, version, run-by
 * tag) from the channel topology the receiver was configured with, then
 * opens whichever of obsPath/navPath is non-empty. */
func NewRinexOutput(cfg *ReceiverConfig, obsPath, navPath string) (*RinexOutput, error) {
	r := &RinexOutput{}
	r.opt.RnxVer = 304
	r.opt.NavSys = SYS_ALL
	r.opt.Prog = "pocket_rcv"
	r.opt.RunBy = "gnssgo"
	r.opt.TStart = Utc2GpsT(TimeGet())
	r.opt.TEnd = r.opt.TStart

	for _, spec := range cfg.ChannelSpecs {
		slot, ok := sigFreqTable[spec.Sig]
		if !ok {
			continue
		}
		idx, ok := rinexSysIndex(slot.sys)
		if !ok {
			continue
		}
		for _, code := range []byte{'C', 'L', 'D', 'S'} {
			tobs := string(code) + slot.obs
			dup := false
			for j := 0; j < r.opt.NObs[idx]; j++ {
				if r.opt.TObs[idx][j] == tobs {
					dup = true
					break
				}
			}
			if dup || r.opt.NObs[idx] >= MAXOBSTYPE {
				continue
			}
			r.opt.TObs[idx][r.opt.NObs[idx]] = tobs
			r.opt.NObs[idx]++
		}
	}

	if obsPath != "" {
		fp, err := os.Create(obsPath)
		if err != nil {
			return nil, err
		}
		r.obsFp = fp
	}
	if navPath != "" {
		fp, err := os.Create(navPath)
		if err != nil {
			if r.obsFp != nil {
				r.obsFp.Close()
			}
			return nil, err
		}
		r.navFp = fp
	}
	return r, nil
}

/* WriteObsEpoch appends one PVT epoch's observation set, writing the
 * RINEX header exactly once on first use (renix.go expects a fixed obs-
 * type table per file, so the header can't be deferred past it). */
func (r *RinexOutput) WriteObsEpoch(obs []ObsD) {
	if r == nil || r.obsFp == nil || len(obs) == 0 {
		return
	}
	if !r.obsHdrDone {
		OutRnxObsHeader(r.obsFp, &r.opt, nil)
		r.obsHdrDone = true
	}
	OutRnxObsBody(r.obsFp, &r.opt, obs, len(obs), 0)
}

/* WriteNavEph appends one freshly decoded/changed ephemeris. */
func (r *RinexOutput) WriteNavEph(eph *Eph) {
	if r == nil || r.navFp == nil || eph == nil {
		return
	}
	if !r.navHdrDone {
		OutRnxNavHeader(r.navFp, &r.opt, &Nav{})
		r.navHdrDone = true
	}
	OutRnxNavBody(r.navFp, &r.opt, eph)
}

/* Close flushes and closes whichever output files are open. */
func (r *RinexOutput) Close() {
	if r == nil {
		return
	}
	if r.obsFp != nil {
		r.obsFp.Close()
	}
	if r.navFp != nil {
		r.navFp.Close()
	}
}
