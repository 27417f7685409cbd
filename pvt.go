package gnssgo

/* pvt.go : PVT epoch aggregator ----------------------------------------------
*
* Implements spec.md §4.7: an epoch clock (t_ep/ix_ep), an observation
* deposit gate fed by every channel worker's publish, ms-ambiguity
* resolution for secondary-only signals, the external point-positioning
* solver call (pntpos.go's PntPos, unchanged from the teacher), NMEA/RTCM3
* emission (solution.go/rtcm3e.go, unchanged), and navigation-frame ingest
* into the shared Nav database. Grounded on rtksvrthread's per-cycle
* "decode obs -> pntpos -> output" pipeline (rtksvr.go), generalized from
* one combined rover/base stream pair to N independent tracking channels.
*-----------------------------------------------------------------------------*/

import (
	"math"
	"sync"
)

const (
	msecPerCycle = 1 /* T_cyc in ms, matches scheduler.go's tCycMs */
	epochMs20    = 20
)

/* freqSlot maps a SignalID onto one of PrcOpt's NFREQ frequency slots and a
 * RINEX 3.04 observation-code string (spec.md *4.7 builds one ObsD per
 * satellite from possibly several channels, each owning one slot). */
type freqSlot struct {
	idx    int
	obs    string
	sys    int
	ambSec float64 /* secondary-code period (s) for ms-ambiguity resolution, 0 if n/a */
}

var sigFreqTable = map[SignalID]freqSlot{
	SigL1CA:  {0, "1C", SYS_GPS, 0},
	SigL1CD:  {0, "1S", SYS_GPS, 0},
	SigL1CP:  {0, "1L", SYS_GPS, 0},
	SigL2CM:  {1, "2S", SYS_GPS, 0},
	SigL5I:   {2, "5I", SYS_GPS, 0},
	SigL5Q:   {2, "5Q", SYS_GPS, 20e-3},
	SigL6D:   {2, "6L", SYS_QZS, 0},
	SigL6E:   {2, "6E", SYS_QZS, 0},
	SigE1B:   {0, "1B", SYS_GAL, 0},
	SigE1C:   {0, "1C", SYS_GAL, 4e-3},
	SigE5AI:  {2, "5I", SYS_GAL, 0},
	SigE5BI:  {2, "7I", SYS_GAL, 0},
	SigE6B:   {1, "6B", SYS_GAL, 0},
	SigB1I:   {0, "2I", SYS_CMP, 0},
	SigB1CD:  {0, "1D", SYS_CMP, 0},
	SigB2AD:  {2, "5D", SYS_CMP, 0},
	SigB2BI:  {2, "7D", SYS_CMP, 0},
	SigB3I:   {1, "6I", SYS_CMP, 0},
	SigG1CA:  {0, "1C", SYS_GLO, 0},
	SigG1OCD: {0, "4A", SYS_GLO, 0},
	SigG3OCD: {1, "3A", SYS_GLO, 0},
	SigI1SD:  {0, "1D", SYS_IRN, 0},
	SigI5S:   {2, "5A", SYS_IRN, 0},
	SigSBSL1: {0, "1C", SYS_SBS, 0},
	SigSBSL5: {2, "5X", SYS_SBS, 2e-3},
}

/* pendingObs is one channel's raw contribution to the current epoch,
 * before ms-ambiguity resolution and sort (spec.md *4.7). */
type pendingObs struct {
	sat      int
	sys      int
	freqIdx  int
	code     uint8
	tau      float64
	ambig    bool
	ambSec   float64
	carr     float64
	cn0      float64
	lli      uint8
}

/* PVTAggregator owns the shared navigation database, the current epoch's
 * working observation set, and the NMEA/RTCM3/log output streams (spec.md
 * *4.7, *5's "PVT aggregator holds a single mutex"). */
type PVTAggregator struct {
	cfg *ReceiverConfig

	mu       sync.Mutex
	epochSet bool
	tEp      Gtime
	ixEp     int64
	pending  []pendingObs
	nReports int

	clockOffset float64 /* previous epoch's GPS clock offset estimate (s) */

	nav  Nav
	ssat [MAXSAT]SSat
	sol  Sol

	subFrm [MAXSAT][150]uint8
	haveSf [MAXSAT][5]bool

	rtcm *Rtcm

	NmeaOut *Stream
	RtcmOut *Stream

	Log *LogStream

	/* optional sinks, wired by cmd/pocket_rcv/main.go; nil-safe */
	Telemetry *Telemetry
	EphStore  *ClickHouseEphemerisStore
	Archive   *FrameArchive
	Indexer   epochIndexer
	Rinex     *RinexOutput
}

/* NewPVTAggregator allocates the navigation database at the sizes the
 * teacher's RTCM3 encoders require (rtcm3e.go indexes NavData.Ephs by
 * satellite number, Galileo F/NAV using a second MAXSAT-sized block). */
func NewPVTAggregator(cfg *ReceiverConfig) *PVTAggregator {
	p := &PVTAggregator{cfg: cfg}
	p.nav.Ephs = make([]Eph, 2*MAXSAT)
	for i := range p.nav.Ephs {
		p.nav.Ephs[i] = Eph{Sat: 0, Iode: -1, Iodc: -1}
	}
	p.nav.Geph = make([]GEph, MAXSAT)
	for i := range p.nav.Geph {
		p.nav.Geph[i] = GEph{Sat: 0, Iode: -1}
	}
	p.nav.Seph = make([]SEph, MAXSAT)
	if cfg.IonexFile != "" {
		p.nav.ReadTec(cfg.IonexFile, 1)
		cfg.Prc.IonoOpt = IONOOPT_TEC
	}
	p.rtcm = &Rtcm{}
	p.rtcm.InitRtcm()
	p.rtcm.NavData = p.nav
	return p
}

/* PublishObs implements spec.md *4.7 step 1: a channel deposits one
 * observation into the in-flight epoch if it is locked, carries a known
 * TOW, and has either frame sync or secondary-code sync. */
func (p *PVTAggregator) PublishObs(ixR int64, ch *Channel) {
	if ch.State != ChanLock || ch.TOW < 0 {
		return
	}
	if !ch.FsyncActive() && !ch.SecondaryCodeSynced() {
		/* neither a validated nav frame boundary nor secondary-code sync:
		 * no timing reference to deposit an observation against. */
		return
	}
	slot, ok := sigFreqTable[ch.Sig]
	if !ok {
		return
	}
	sat := SatNo(slot.sys, ch.Prn)
	if sat == 0 {
		return
	}

	p.mu.Lock()
	tEp, epochKnown := p.tEp, p.epochSet
	p.mu.Unlock()

	var tau float64
	ambig := false
	if ch.TOWValid == TowValid && epochKnown {
		var wnRx int
		towRx := Time2GpsT(tEp, &wnRx)
		tau = float64(wnRx-ch.WN)*7*86400 + (towRx - ch.TOW) + ch.Coff()
	} else {
		/* no reliable WN/TOW for this channel (pilot-only signal, or a
		 * data channel whose decoder hasn't produced one yet): coff alone
		 * carries the sub-period timing, folded in resolveMsAmbiguity. */
		ambig = true
		tau = ch.Coff()
	}

	rev := 0.0
	if ch.FsyncRev() {
		rev = 1.0
	}
	pol := 0.0
	if ch.SecondaryPolarity() == 1 {
		pol = 0.5
	}
	desc := ch.Descriptor()
	carr := -ch.Adr() + 0.5*rev + pol + desc.PhaseQrtr

	var lli uint8
	if ch.LockCount <= 2000 || math.Abs(ch.ErrPhas()) > 0.2 {
		lli |= 1
	}
	if !ch.FsyncActive() && !ch.SecondaryCodeSynced() {
		lli |= 2
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, pendingObs{
		sat: sat, sys: slot.sys, freqIdx: slot.idx, code: Obs2Code(slot.obs),
		tau: tau, ambig: ambig, ambSec: slot.ambSec,
		carr: carr, cn0: ch.Cn0, lli: lli,
	})
	p.nReports++
	if p.Log != nil {
		p.Log.WriteObs(ch, tau, CLIGHT*tau, carr, lli)
	}

	if !p.epochSet && ch.TOWValid == TowValid {
		p.initEpoch(ixR, ch)
	}
}

/* initEpoch implements spec.md *4.7's initialization: t_ep is the next
 * whole-second GPS-time boundary after the first channel with a valid
 * TOW, ix_ep the cycle (relative to the producer's sample clock, ixR
 * being the cycle this deposit arrived on) at which that boundary
 * occurs (rounded to 20ms). */
func (p *PVTAggregator) initEpoch(ixR int64, ch *Channel) {
	const tEpoch = 1.0
	tow := math.Floor(ch.TOW/tEpoch)*tEpoch + tEpoch
	p.tEp = GpsT2Time(ch.WN, tow)
	deltaSec := tow - ch.TOW
	deltaCycles := int64(math.Round(deltaSec*1000.0/epochMs20) * epochMs20)
	p.ixEp = ixR + deltaCycles
	p.epochSet = true
}

/* Update implements spec.md *4.7 steps 2-e, invoked once per producer
 * cycle. It is a no-op until the epoch boundary (ix_ep) plus LAG_EPOCH
 * cycles have elapsed, or every active channel has reported. */
func (p *PVTAggregator) Update(ix int64, rv *Receiver) {
	p.mu.Lock()
	if !p.epochSet {
		p.mu.Unlock()
		return
	}
	lagCycles := int64(rv.Cfg.LagEpoch * 1000.0 / msecPerCycle)
	active := 0
	for _, ch := range rv.Channels {
		if ch.State == ChanLock {
			active++
		}
	}
	ready := ix >= p.ixEp+lagCycles || (active > 0 && p.nReports >= active)
	if !ready {
		p.mu.Unlock()
		return
	}
	pending := p.pending
	p.pending = nil
	p.nReports = 0
	tEp := p.tEp
	p.mu.Unlock()

	p.runEpoch(tEp, pending, rv)

	p.mu.Lock()
	p.tEp = TimeAdd(p.tEp, 1.0)
	p.ixEp += 1000 / msecPerCycle
	quant := int64(math.Round(p.clockOffset*1000.0/epochMs20) * epochMs20)
	p.ixEp += quant
	p.mu.Unlock()
}

/* runEpoch implements spec.md *4.7 steps 2a-2e. */
func (p *PVTAggregator) runEpoch(tEp Gtime, pending []pendingObs, rv *Receiver) {
	resolved := resolveMsAmbiguity(pending)

	obsBySat := map[int]*ObsD{}
	var order []int
	for _, o := range resolved {
		d, ok := obsBySat[o.sat]
		if !ok {
			d = &ObsD{Time: tEp, Sat: o.sat}
			obsBySat[o.sat] = d
			order = append(order, o.sat)
		}
		if o.freqIdx >= NFREQ {
			continue
		}
		if !o.validTau {
			continue
		}
		d.P[o.freqIdx] = CLIGHT * o.tau
		d.L[o.freqIdx] = o.carr
		d.D[o.freqIdx] = 0
		d.SNR[o.freqIdx] = uint16(o.cn0 * 1000)
		d.LLI[o.freqIdx] = o.lli
		d.Code[o.freqIdx] = o.code
	}
	obs := make([]ObsD, 0, len(order))
	for _, sat := range order {
		obs = append(obs, *obsBySat[sat])
	}

	p.mu.Lock()
	nav := p.nav
	opt := *p.cfg.Prc
	opt.Elmin = p.cfg.ElMask
	p.mu.Unlock()

	var azel [MAXSAT * 2]float64
	var msg string
	var sol Sol
	stat := PntPos(obs, len(obs), &nav, &opt, &sol, azel[:], p.ssat[:], &msg)
	if stat == 0 {
		if rv.Log != nil {
			rv.Log.WriteLog("PNTPOS ERROR %s", msg)
		}
		return
	}
	if sol.Dtr[0] != 0 {
		p.mu.Lock()
		p.clockOffset = sol.Dtr[0]
		p.mu.Unlock()
	} else {
		for i := 1; i < 6; i++ {
			if sol.Dtr[i] != 0 {
				p.mu.Lock()
				p.clockOffset = sol.Dtr[i]
				p.mu.Unlock()
				break
			}
		}
	}
	p.sol = sol

	p.emitNmea(&sol)
	p.emitMsm(obs, rv)
	if p.Rinex != nil {
		p.Rinex.WriteObsEpoch(obs)
	}

	if rv.Log != nil {
		rv.Log.WritePos(&sol)
	}
	if p.Telemetry != nil {
		p.Telemetry.ObserveEpoch(&sol)
	}
	if p.Indexer != nil {
		p.Indexer.IndexEpoch(&sol, obs)
	}
}

type resolvedObs struct {
	pendingObs
	validTau bool
}

/* resolveMsAmbiguity implements spec.md *4.7 step 2a: for each
 * secondary-only (ambiguous-ms) observation on a satellite that also
 * carries a reference (non-ambiguous) observation, fold its sub-period
 * offset onto the reference's whole-period count. */
func resolveMsAmbiguity(pending []pendingObs) []resolvedObs {
	refBySat := map[int]float64{}
	for _, o := range pending {
		if !o.ambig {
			refBySat[o.sat] = o.tau
		}
	}
	out := make([]resolvedObs, 0, len(pending))
	for _, o := range pending {
		r := resolvedObs{pendingObs: o, validTau: true}
		if o.ambig {
			if o.ambSec <= 0 {
				r.tau = math.Mod(r.tau, 0.1)
				if r.tau < 0.05 {
					r.tau += 0.1
				} else if r.tau >= 0.15 {
					r.tau -= 0.1
				}
			} else if ref, ok := refBySat[o.sat]; ok {
				sec := o.ambSec
				r.tau = math.Floor(ref/sec)*sec + math.Mod(o.tau, sec)
			} else {
				r.validTau = false
			}
		}
		out = append(out, r)
	}
	return out
}

func (p *PVTAggregator) emitNmea(sol *Sol) {
	if p.NmeaOut == nil {
		return
	}
	var buf string
	sol.OutSolNmeaRmc(&buf)
	sol.OutSolNmeaGga(&buf)
	sol.OutSolNmeaGsa(&buf, p.ssat[:])
	sol.OutSolNmeaGsv(&buf, p.ssat[:])
	b := []byte(buf)
	p.NmeaOut.StreamWrite(b, len(b))
}

/* msmTypeFor maps a navigation system to its MSM7 message type (spec.md
 * *4.7: "1077/1087/1097/1117/1127/1137/1107"). */
func msmTypeFor(sys int) (int, bool) {
	switch sys {
	case SYS_GPS:
		return 1077, true
	case SYS_GLO:
		return 1087, true
	case SYS_GAL:
		return 1097, true
	case SYS_QZS:
		return 1117, true
	case SYS_CMP:
		return 1127, true
	case SYS_IRN:
		return 1137, true
	case SYS_SBS:
		return 1107, true
	}
	return 0, false
}

/* emitMsm implements spec.md *4.7 step 2d's MSM output, splitting a
 * constellation's batch if (n_sat+1)*n_sig would exceed 64 signal-slots
 * per message (rtcm3e.go's GenRtcm3 doc comment). */
func (p *PVTAggregator) emitMsm(obs []ObsD, rv *Receiver) {
	if p.RtcmOut == nil || len(obs) == 0 {
		return
	}
	bySys := map[int][]ObsD{}
	for _, o := range obs {
		sys := SatSys(o.Sat, nil)
		bySys[sys] = append(bySys[sys], o)
	}
	for sys, list := range bySys {
		ctype, ok := msmTypeFor(sys)
		if !ok {
			continue
		}
		nSig := 1
		const maxSlots = 64
		batch := maxSlots/nSig - 1
		if batch < 1 {
			batch = 1
		}
		for start := 0; start < len(list); start += batch {
			end := start + batch
			if end > len(list) {
				end = len(list)
			}
			p.rtcm.ObsData = Obs{Data: list[start:end]}
			p.rtcm.Time = list[0].Time
			sync := 0
			if end < len(list) {
				sync = 1
			}
			if p.rtcm.GenRtcm3(ctype, 0, sync) == 0 {
				continue
			}
			p.RtcmOut.StreamWrite(p.rtcm.Buff[:], p.rtcm.Nbyte)
		}
	}
}

/* IngestNavFrame implements spec.md *4.7's navigation-frame ingest:
 * per-signal dispatch, validation, database write, RTCM3 nav emission. */
func (p *PVTAggregator) IngestNavFrame(ch *Channel, frame *DecodedFrame) {
	if p.Archive != nil {
		p.Archive.StoreFrame(ch.Sig, ch.Prn, frame)
	}
	switch ch.Sig {
	case SigL1CA:
		p.ingestLNAV(ch, frame)
	case SigSBSL1, SigSBSL5:
		p.ingestSbas(ch, frame)
	default:
		/* framing/FEC/CRC validated upstream; bit-level ephemeris field
		 * extraction for this signal family is out of this build's scope
		 * (see DESIGN.md's "Implementation-level decisions") */
	}
}

/* ingestLNAV assembles GPS L1CA's 5-subframe buffer (rcvraw.go's
 * DecodeFrame/DecodeFrameEph input format) and publishes a fresh
 * ephemeris once subframes 1-3 are both present and internally
 * consistent. */
func (p *PVTAggregator) ingestLNAV(ch *Channel, frame *DecodedFrame) {
	if len(frame.Payload) < 30 {
		return
	}
	subfrmID := int(GetBitU(frame.Payload, 24+19, 3))
	if subfrmID < 1 || subfrmID > 5 {
		return
	}
	sat := SatNo(SYS_GPS, ch.Prn)
	if sat == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	copy(p.subFrm[sat-1][(subfrmID-1)*30:subfrmID*30], frame.Payload[:30])
	p.haveSf[sat-1][subfrmID-1] = true

	if !(p.haveSf[sat-1][0] && p.haveSf[sat-1][1] && p.haveSf[sat-1][2]) {
		return
	}
	var eph Eph
	if DecodeFrameEph(p.subFrm[sat-1][:], &eph) == 0 {
		return
	}
	eph.Sat = sat
	if eph.Iode == p.nav.Ephs[sat-1].Iode && eph.Iodc == p.nav.Ephs[sat-1].Iodc &&
		TimeDiff(eph.Toe, p.nav.Ephs[sat-1].Toe) == 0.0 {
		return
	}
	p.nav.Ephs[sat-1] = eph
	p.rtcm.NavData.Ephs[sat-1] = eph
	p.rtcm.EphSat = sat
	p.rtcm.EphSet = 0
	if p.rtcm.GenRtcm3(1019, 0, 0) != 0 && p.RtcmOut != nil {
		p.RtcmOut.StreamWrite(p.rtcm.Buff[:], p.rtcm.Nbyte)
	}
	if p.EphStore != nil {
		p.EphStore.SaveEphemeris(ch.Sig, &eph)
	}
	if p.Rinex != nil {
		p.Rinex.WriteNavEph(&eph)
	}
	if p.Log != nil {
		p.Log.WriteEph(ch.Sig, sat)
	}
}

/* ingestSbas repacks a decoded SBAS frame's bit-packed payload into the
 * 24bit x 8 word layout sbas.go's SbsDecodeMsg expects (sbas.go doc
 * comment) and, on a CRC match, folds it into the shared correction state
 * via SbsUpdateCorr so pntpos.go's IonoCorr (IONOOPT_SBAS) and SbsSatCorr
 * can consume it. This decoder's generic CRC24Q/preamble framing isn't the
 * ICD's own SBAS message shape, so most frames will fail the re-packed
 * CRC check here (returning harmlessly) rather than publish a correction;
 * genuinely valid SBAS messages still flow through on a match. */
func (p *PVTAggregator) ingestSbas(ch *Channel, frame *DecodedFrame) {
	const wordBytes = 3
	const nWords = 8
	if len(frame.Payload) < nWords*wordBytes {
		return
	}
	var words [nWords]uint32
	for i := 0; i < nWords; i++ {
		b := frame.Payload[i*wordBytes : i*wordBytes+wordBytes]
		words[i] = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	}

	p.mu.Lock()
	tEp := p.tEp
	p.mu.Unlock()

	var msg SbsMsg
	if SbsDecodeMsg(tEp, ch.Prn, words[:], &msg) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	SbsUpdateCorr(&msg, &p.nav)
	if p.Log != nil {
		p.Log.WriteEph(ch.Sig, SatNo(SYS_SBS, ch.Prn))
	}
}
