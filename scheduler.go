package gnssgo

/* scheduler.go : receiver, producer thread, channel workers -----------------
*
* Implements spec.md *4.6's topology: one producer goroutine, one worker
* goroutine per channel, and an aggregator step invoked inline by the
* producer after each cycle. Grounded on rtksvrthread's for-cycle shape
* (rtksvr.go) and RtkSvr's Lock/Wg fields (types.go), generalized from a
* fixed 3-stream RTK server to an arbitrary channel count. Each Receiver
* gets a UUID in Receiver.ID (google/uuid, the same dependency the
* teacher's app/rtkrcv names for document IDs); the $LOG lines written
* here do not include it.
*-----------------------------------------------------------------------------*/

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

const (
	tCycMs  = 1  /* T_cyc, producer cycle (ms) */
	thCycMs = 50 /* TH_CYC, channel worker sleep (ms) */
)

/* Receiver is the top-level runtime object: one IF producer, N channel
 * workers, a shared ring-buffer set, and the PVT aggregator (spec.md
 * *4.6, *5). Cyclic references (channel <-> receiver <-> aggregator) are
 * avoided per spec.md *9 by workers holding only a channel index into
 * Receiver.Channels plus a pointer back to the Receiver. */
type Receiver struct {
	ID uuid.UUID

	Cfg *ReceiverConfig

	Source IFSource
	Rings  []*SampleRing /* one per RF channel */
	Cursor WriteCursor

	mu       sync.Mutex /* guards Channels/searchRR, per spec.md *5 */
	Channels []*Channel
	searchRR int /* round-robin index for search-slot arbitration */

	PVT *PVTAggregator
	Log *LogStream

	wg    sync.WaitGroup
	state int /* 0:stopped,1:running, guarded by mu */

	ifLog *Stream /* optional raw IF-log stream, producer-thread-only */
}

/* NewReceiver constructs a stopped Receiver. cfg.ChannelSpecs describes
 * each (signal, PRN, RF-channel) triple to create; cfg.RFChByIDs (the
 * -RFCH pinning) is not consulted. */
func NewReceiver(cfg *ReceiverConfig, source IFSource) (*Receiver, error) {
	rv := &Receiver{ID: uuid.New(), Cfg: cfg, Source: source}
	rv.Rings = make([]*SampleRing, cfg.NumRFChannels)
	for i := range rv.Rings {
		n := int(cfg.Fs * tCycMs / 1000.0)
		rv.Rings[i] = NewSampleRing(n, cfg.Nbuf)
	}
	rv.PVT = NewPVTAggregator(cfg)
	rv.Log = NewLogStream(nil)

	for _, spec := range cfg.ChannelSpecs {
		ch, err := NewChannel(spec.Sig, spec.Prn, spec.RFChannel, cfg.Fs, cfg.Fi)
		if err != nil {
			return nil, err
		}
		rv.Channels = append(rv.Channels, ch)
	}
	return rv, nil
}

/* Start launches the producer goroutine and one worker goroutine per
 * channel (spec.md *4.6's topology). */
func (rv *Receiver) Start() {
	rv.mu.Lock()
	rv.state = 1
	rv.mu.Unlock()

	rv.wg.Add(1)
	go rv.producerLoop()

	for i := range rv.Channels {
		rv.wg.Add(1)
		go rv.workerLoop(i)
	}
}

/* Stop implements spec.md *5's rcv.stop(): each worker returns after its
 * current sleep; the producer returns after its in-flight read. Stop
 * blocks until both have exited. */
func (rv *Receiver) Stop() {
	rv.mu.Lock()
	rv.state = 0
	rv.mu.Unlock()
	rv.wg.Wait()
}

func (rv *Receiver) running() bool {
	rv.mu.Lock()
	defer rv.mu.Unlock()
	return rv.state > 0
}

/* producerLoop implements spec.md *4.6's producer cycle. */
func (rv *Receiver) producerLoop() {
	defer rv.wg.Done()
	bytesPerCycle := int(rv.Cfg.Fmt.BytesPerSample() * rv.Cfg.Fs * tCycMs / 1000.0)
	raw := make([]uint8, bytesPerCycle)
	nch := rv.Cfg.Fmt.NumRFChannels()

	var ix int64
	for rv.running() {
		/* 1: read raw bytes (USB or file); file sources self-pace to tscale */
		n := rv.Source.Read(raw)
		if n <= 0 {
			continue
		}
		/* 2: unpack into per-RF-channel complex samples via the 256-entry LUT */
		perChan := make([][]Sample, nch)
		for c := range perChan {
			perChan[c] = make([]Sample, 0, n)
		}
		for _, b := range raw[:n] {
			quad := UnpackByteRAW(b, nch)
			for c, s := range quad {
				perChan[c] = append(perChan[c], s)
			}
		}
		for c := 0; c < nch && c < len(rv.Rings); c++ {
			rv.Rings[c].WriteCycle(ix, perChan[c])
		}
		/* 3: advance ix_w atomically */
		ix = rv.Cursor.Advance()
		/* 4: optional IF-log stream */
		if rv.ifLog != nil {
			rv.ifLog.StreamWrite(raw[:n], n)
		}
		/* 5: search-slot arbitration */
		rv.arbitrateSearchSlot(ix)
		/* 6: PVT aggregator */
		rv.PVT.Update(ix, rv)
	}
}

/* arbitrateSearchSlot implements spec.md *4.6's search-slot policy: at
 * most one channel in SEARCH at a time, round-robin over IDLE channels
 * with a re-acquisition hint, a cross-signal assist hint, or a cheap
 * (T <= 4ms) blind-search code period. */
func (rv *Receiver) arbitrateSearchSlot(ix int64) {
	rv.mu.Lock()
	defer rv.mu.Unlock()

	for _, ch := range rv.Channels {
		if ch.State == ChanSearch {
			return /* already one channel searching */
		}
	}
	usage := rv.Cursor.BufferUsagePct(ix-int64(rv.Cfg.Nbuf), rv.Cfg.Nbuf)
	if usage >= 90 {
		return
	}
	n := len(rv.Channels)
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		rv.searchRR = (rv.searchRR + 1) % n
		ch := rv.Channels[rv.searchRR]
		if ch.State != ChanIdle {
			continue
		}
		assist, refDop := rv.crossSignalHint(ch)
		switch {
		case ch.EligibleForReacq(ix):
			ch.EnterSearch(ch.FdExt)
			return
		case assist:
			ch.EnterSearch(refDop)
			return
		case ch.Descriptor().T <= 4e-3:
			ch.EnterSearch(0)
			return
		}
	}
}

/* crossSignalHint implements spec.md S4's cross-signal assist: a LOCKed
 * sibling channel on the same PRN gives a scaled Doppler hint to a
 * same-satellite channel still searching (e.g. L1CA locked -> L5I
 * search uses fd*f_L5/f_L1). */
func (rv *Receiver) crossSignalHint(ch *Channel) (bool, float64) {
	for _, sib := range rv.Channels {
		if sib == ch || sib.Prn != ch.Prn || sib.State != ChanLock {
			continue
		}
		ratio := ch.Descriptor().Fc / sib.Descriptor().Fc
		return true, sib.Fd() * ratio
	}
	return false, 0
}

/* workerLoop implements spec.md *4.6's channel worker loop. */
func (rv *Receiver) workerLoop(idx int) {
	defer rv.wg.Done()
	var ixR int64
	for rv.running() {
		ch := rv.Channels[idx]
		ixWSnap := rv.Cursor.Snapshot()
		ring := rv.Rings[ch.RFChannel]
		rv.PVT.Telemetry.ObserveRing(rv.Cursor.BufferUsagePct(ixR, rv.Cfg.Nbuf))
		rv.mu.Lock()
		rv.PVT.Telemetry.ObserveChannelStates(rv.Channels)
		rv.mu.Unlock()

		for ixR+2 <= ixWSnap {
			if rv.Cursor.Snapshot()-ixR > int64(rv.Cfg.Nbuf) {
				/* back-pressure: producer has overwritten unread data
				 * (spec.md *4.6, *7's "Buffer overrun" condition). */
				rv.mu.Lock()
				ch.State = ChanIdle
				rv.mu.Unlock()
				rv.Log.WriteLog("OVERRUN ch=%d sig=%s prn=%d", idx, ch.Sig, ch.Prn)
				ixR = ixWSnap
				break
			}
			samples := ring.ReadCycle(ixR)
			rv.mu.Lock()
			state := ch.State
			rv.mu.Unlock()

			switch state {
			case ChanSearch:
				_, endSpan := rv.PVT.Telemetry.StartAcqSpan(context.Background(), ch.Sig, ch.Prn)
				acqSamples := rv.acqWindowSamples(ch, ixR)
				rv.mu.Lock()
				locked := ch.TrySearchSlot(ixR, acqSamples, 0, 0)
				rv.mu.Unlock()
				endSpan()
				rv.PVT.Telemetry.ObserveAcqResult(locked)
				if locked {
					rv.Log.WriteLog("LOCK ch=%d sig=%s prn=%d cn0=%.1f", idx, ch.Sig, ch.Prn, ch.Cn0)
				}
			case ChanLock:
				frame := ch.Update(ixR, samples)
				rv.PVT.PublishObs(ixR, ch)
				if frame != nil {
					rv.PVT.IngestNavFrame(ch, frame)
				}
			}
			ixR++
		}
		Sleepms(thCycMs)
	}
}

/* acqWindowSamples collects the ring-buffer samples needed for one
 * acquisition attempt (T_acq's worth of data, spec.md *4.2's contract),
 * starting at ixR. */
func (rv *Receiver) acqWindowSamples(ch *Channel, ixR int64) []Sample {
	ring := rv.Rings[ch.RFChannel]
	nBlocks := int(defaultTAcq/ch.Descriptor().T) + 1
	var out []Sample
	for i := 0; i < nBlocks; i++ {
		out = append(out, ring.ReadCycle(ixR+int64(i))...)
	}
	return out
}
