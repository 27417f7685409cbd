package gnssgo

/* navdecode.go : navigation-data decoder framework -------------------------
*
* Implements spec.md *4.4's common shape (symbol sync / frame sync /
* decode / validate / extract) and the per-channel scratch of spec.md *3.
* The FrameSync redesign from spec.md *9 ("a typed enum FrameSync =
* NotSynced | Synced{lock_at, rev}") is applied via frameSyncState below,
* while Ssync (a plain int field) and Fsync (a method returning an int)
* are still exposed on NavScratch to satisfy the invariants worded in
* spec.md *3 in terms of
* "ssync > 0" / "fsync > 0".
*-----------------------------------------------------------------------------*/

const (
	nSMax    = 2000 /* max symbol history length */
	maxSubfrmBits = 4096
)

/* frameSyncState is the redesigned typed replacement for the raw
 * fsync/rev field pair (spec.md *9). */
type frameSyncState struct {
	synced bool
	lockAt int
	rev    bool
}

/* NavScratch is the per-channel navigation-decoder scratch of spec.md *3. */
type NavScratch struct {
	Symbols []int8 /* soft/hard symbol decisions, ring of length <= NSmax */

	Ssync int /* lock-count at which symbol sync was achieved, 0 = not synced */
	fsync frameSyncState
	Rev   int /* code polarity 0/1; only cleared on frame-sync reset, the decoders keep polarity in fsync.rev (read via Channel.FsyncRev) */

	LastPayload []uint8 /* last subframe/message payload, packed bits */
	CountOK     int
	CountErr    int
	CorrectedErrors int

	lockCycles int /* running lock counter (code cycles since entering LOCK) */
}

/* Fsync mirrors spec.md *3's "fsync > 0 implies a validated preamble" as a
 * plain int for callers that match the spec's invariant wording directly. */
func (ns *NavScratch) Fsync() int {
	if ns.fsync.synced {
		return ns.fsync.lockAt
	}
	return 0
}

func (ns *NavScratch) resetFrameSync() {
	ns.fsync = frameSyncState{}
	ns.Rev = 0
}

/* NavDecoder is the per-signal-family decoder driven by the channel state
 * machine once a channel has held LOCK for T_NPULLIN (spec.md *4.3 step
 * 11). FrameLenCycles/TimeOffset are read from the SignalID method table. */
type NavDecoder interface {
	/* PushSymbol appends one new symbol-sync input (soft decision, +-1
	 * scale) at the given lock-cycle count and runs the decoder's state
	 * machine one step. It returns (frame, true) when a new validated
	 * frame/subframe is available this cycle. */
	PushSymbol(scratch *NavScratch, symbol float64, lockCycle int) (*DecodedFrame, bool)
}

/* DecodedFrame is the result of one successful frame decode (spec.md
 * *4.4 "Extract"). */
type DecodedFrame struct {
	Sig      SignalID
	Sat      int
	TOW      float64 /* s, -1 if unknown */
	WN       int     /* week number, -1 if unknown */
	TOWValid int     /* 0:invalid,1:valid,2:ambiguous-unresolved */
	Payload  []uint8 /* subframe/message bit payload */
	NBits    int
}

const (
	TowInvalid = 0
	TowValid   = 1
	TowAmbig   = 2
)

/* symbolSyncDetect implements spec.md *4.4's symbol-sync detector: it
 * correlates the last 2n symbols against the bit-transition pattern
 * -1^n 1^n and reports sync if |corr| >= THRES_SYNC. n is the nav-symbol
 * repetition factor (1 for a 1:1 symbol:bit mapping). */
func symbolSyncDetect(history []int8, n int) (bool, int8) {
	if len(history) < 2*n {
		return false, 0
	}
	tail := history[len(history)-2*n:]
	var sum float64
	for i := 0; i < n; i++ {
		sum -= float64(tail[i])
	}
	for i := n; i < 2*n; i++ {
		sum += float64(tail[i])
	}
	avg := sum / float64(2*n)
	if avg >= threshSync {
		return true, 1
	}
	if avg <= -threshSync {
		return true, -1
	}
	return false, 0
}

/* matchPreamble reports whether bits[pos:pos+len(preamble)] equals
 * preamble, or its bit-complement when rev is true (de-scrambling via
 * XOR with the reversal flag, spec.md *4.4 "Decode"). */
func matchPreamble(bits []uint8, pos int, preamble []uint8, rev bool) bool {
	if pos+len(preamble) > len(bits) {
		return false
	}
	for i, p := range preamble {
		b := bits[pos+i]
		if rev {
			b ^= 1
		}
		if b != p {
			return false
		}
	}
	return true
}

/* softToBit converts a soft +-1 decision (possibly scaled) into a hard
 * bit, applying polarity rev. */
func softToBit(symbol float64, rev bool) uint8 {
	bit := uint8(0)
	if symbol > 0 {
		bit = 1
	}
	if rev {
		bit ^= 1
	}
	return bit
}
