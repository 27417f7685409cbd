package gnssgo

/* channel.go : per-(signal,PRN) channel state machine ------------------------
*
* spec.md §4.5: IDLE -> SEARCH -> LOCK -> IDLE. Applies spec.md §9's typed
* FrameSync redesign (frameSyncState in navdecode.go) and owns the
* acquisition/tracking/nav-decoder scratch for one (signal, PRN) pair, per
* spec.md §3's "Channel state" record. Grounded on the teacher's RtkSvr
* per-stream state fields (Format/RawCtrl/RtcmCtrl arrays indexed by role)
* generalized to one struct per channel instead of one struct for the
* whole server.
*-----------------------------------------------------------------------------*/

import "math"

type ChanState int

const (
	ChanIdle ChanState = iota
	ChanSearch
	ChanLock
)

const (
	cyclesPerSec    = 1000 /* T_cyc = 1ms -> 1000 cycles/s */
	toReacqCycles   = 60 * cyclesPerSec
	minLockForReacq = 2 * cyclesPerSec
	tNPullinCycles  = 1500 /* T_NPULLIN = 1.5s in 1ms cycles */
)

/* TowValidity mirrors spec.md §3's tow_v in {invalid, valid, ambiguous}. */
type TowValidity = int

/* Channel is one (signal, PRN) pair's full runtime state (spec.md §3). */
type Channel struct {
	Sig SignalID
	Prn int

	RFChannel int /* index into the Receiver's per-RF-channel SampleRing set */
	Fs, Fi    float64

	State ChanState
	T     float64 /* receiver time (s) */
	Cn0   float64 /* dB-Hz */

	LockCount int
	LostCount int

	TOW      float64
	WN       int
	TOWValid TowValidity

	/* re-acquisition / cross-signal assist */
	FdExt      float64
	HaveFdExt  bool
	lockedAtIx int64 /* cycle at which LOCK was entered, for TO_REACQ bookkeeping */
	lastLockIx int64 /* cycle at which this channel last left LOCK */

	acq   *AcqScratch
	track *TrackScratch
	nav   *NavScratch
	dec   NavDecoder

	desc *SignalDescriptor
}

/* NewChannel constructs an IDLE channel for (sig, prn) bound to rfChannel,
 * sampling at fs with IF fi. Tracking scratch is allocated at channel
 * creation and lives for the channel's lifetime (spec.md §5); acquisition
 * scratch is allocated lazily on entering SEARCH (§5). */
func NewChannel(sig SignalID, prn, rfChannel int, fs, fi float64) (*Channel, error) {
	desc, err := sig.Descriptor()
	if err != nil {
		return nil, err
	}
	track, err := NewTrackScratch(sig, fs, 0.5)
	if err != nil {
		return nil, err
	}
	return &Channel{
		Sig: sig, Prn: prn, RFChannel: rfChannel, Fs: fs, Fi: fi,
		State: ChanIdle, desc: desc, track: track,
	}, nil
}

/* EnterSearch allocates fresh acquisition scratch and transitions to
 * SEARCH (spec.md §4.5, §5). refDop centers the search unless the channel
 * carries a re-acquisition/cross-signal Doppler hint, which collapses the
 * search to a single bin (spec.md §4.2). */
func (ch *Channel) EnterSearch(refDop float64) error {
	var hint *float64
	if ch.HaveFdExt {
		h := ch.FdExt
		hint = &h
	}
	acq, err := NewAcqScratch(ch.Sig, ch.Fs, ch.Fi, refDop, hint)
	if err != nil {
		return err
	}
	ch.acq = acq
	ch.State = ChanSearch
	return nil
}

/* enterLock applies spec.md §4.5's "Entering LOCK" reset: lock=0, adr=0,
 * zeroed tracking/nav-decoder scratch, t set to the acquisition window's
 * end timestamp. */
func (ch *Channel) enterLock(ix int64, fd, coff, cn0, tEnd float64) {
	ch.State = ChanLock
	ch.LockCount = 0
	ch.T = tEnd
	ch.Cn0 = cn0
	track, _ := NewTrackScratch(ch.Sig, ch.Fs, 0.5)
	track.Fi = ch.Fi
	track.Fd = fd
	track.Coff = coff
	ch.track = track
	ch.nav = &NavScratch{}
	ch.dec = ch.Sig.NewDecoder()
	ch.acq = nil
	ch.lockedAtIx = ix
	ch.TOWValid = TowInvalid
}

/* leaveLock applies spec.md §4.5's "Leaving LOCK": records the Doppler
 * hint for re-acquisition if the channel was locked at least 2s, and is
 * within TO_REACQ of now. */
func (ch *Channel) leaveLock(ix int64) {
	heldCycles := ix - ch.lockedAtIx
	if heldCycles >= minLockForReacq {
		ch.FdExt = ch.track.Fd
		ch.HaveFdExt = true
	} else {
		ch.HaveFdExt = false
	}
	ch.lastLockIx = ix
	ch.State = ChanIdle
	ch.LostCount++
	ch.TOWValid = TowInvalid
}

/* EligibleForReacq reports whether ch carries a usable re-acquisition
 * hint within TO_REACQ = 60s of losing lock (spec.md §4.5). */
func (ch *Channel) EligibleForReacq(nowIx int64) bool {
	return ch.HaveFdExt && nowIx-ch.lastLockIx <= toReacqCycles
}

/* TrySearchSlot runs one acquisition attempt (spec.md §4.2) against ring,
 * which must span at least tAcq seconds of IF data, returning true if the
 * channel entered LOCK. */
func (ch *Channel) TrySearchSlot(ix int64, ring []Sample, tAcq, thresCn0L float64) bool {
	res := ch.acq.Search(ring, tAcq, thresCn0L)
	if !res.Found {
		ch.State = ChanIdle
		ch.HaveFdExt = false
		ch.acq = nil
		return false
	}
	tEnd := ch.T + float64(len(ring))/ch.Fs
	ch.enterLock(ix, res.Fd, res.Coff, res.Cn0, tEnd)
	return true
}

/* Update runs one T-second tracking cycle (spec.md §4.3) for a LOCK-state
 * channel, or does nothing for IDLE/SEARCH (those are driven by the
 * scheduler's arbitration + TrySearchSlot instead). ring must supply the
 * samples for this cycle. Returns the decoded nav frame, if the decoder
 * validated one this cycle. */
func (ch *Channel) Update(ix int64, ring []Sample) *DecodedFrame {
	if ch.State != ChanLock {
		return nil
	}
	locked := ch.track.Update(ring)
	ch.T += ch.desc.T
	ch.Cn0 = ch.track.Cn0()
	ch.LockCount++
	if !locked {
		ch.leaveLock(ix)
		return nil
	}

	if ch.LockCount < tNPullinCycles || ch.dec == nil {
		return nil
	}
	frame, ok := ch.dec.PushSymbol(ch.nav, ch.track.IP, ch.LockCount)
	if !ok || frame == nil {
		return nil
	}
	frame.TOW -= ch.Sig.TimeOffset()
	if frame.TOWValid == TowValid {
		ch.TOW = frame.TOW
		ch.WN = frame.WN
	}
	ch.TOWValid = frame.TOWValid
	return frame
}

/* Fd/Coff/Adr expose the tracking loop's current state, read-only, for
 * the PVT aggregator's pseudorange/carrier-phase construction (spec.md
 * §4.7). */
func (ch *Channel) Fd() float64   { return ch.track.Fd }
func (ch *Channel) Coff() float64 { return ch.track.Coff }
func (ch *Channel) Adr() float64  { return ch.track.Adr }

/* ErrPhas returns the tracking loop's current phase error (cycles), the
 * LLI-bit-0 input of spec.md §4.7 ("bit 0 = PLL unlocked ... |err_phas| >
 * 0.2"). */
func (ch *Channel) ErrPhas() float64 {
	if ch.track == nil {
		return math.Inf(1)
	}
	return ch.track.ErrPhas()
}

/* SecondaryCodeSynced reports whether the tracking engine has achieved
 * secondary-code sync-lock (spec.md §4.3 step 5), input to LLI bit 1 and
 * the PVT aggregator's publish gate. */
func (ch *Channel) SecondaryCodeSynced() bool {
	return ch.track != nil && ch.track.secSync
}

/* SecondaryPolarity returns the secondary-code sync polarity (+-1),
 * meaningful only once SecondaryCodeSynced is true (spec.md §4.7's
 * "0.5*(sec_pol==1)" carrier-phase term). */
func (ch *Channel) SecondaryPolarity() int8 {
	if ch.track == nil {
		return 0
	}
	return ch.track.secPolarity
}

/* FsyncActive reports whether the nav decoder has a validated frame sync
 * (spec.md §3 "fsync > 0"). */
func (ch *Channel) FsyncActive() bool {
	return ch.nav != nil && ch.nav.fsync.synced
}

/* FsyncRev reports the code-polarity reversal flag established at frame
 * sync (spec.md §3's "reversal flag"), used in carrier-phase construction
 * (spec.md §4.7: "L = -adr + 0.5*rev + ..."). */
func (ch *Channel) FsyncRev() bool {
	return ch.nav != nil && ch.nav.fsync.rev
}

/* Descriptor exposes the channel's immutable signal descriptor. */
func (ch *Channel) Descriptor() *SignalDescriptor { return ch.desc }
