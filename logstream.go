package gnssgo

/* logstream.go : structured $CH/$OBS/$POS/$SAT/$EPH/$LOG records ----------
*
* Implements spec.md *6's log stream: one comma-separated record per line,
* keyed by tag. Wraps a *Stream the way StreamSvr wraps its log streams
* (streamsvr.go), writing through stream.StreamWrite when a Stream is
* attached; every record is also mirrored into the teacher's Trace sink at
* level 4, with or without a Stream.
*-----------------------------------------------------------------------------*/

import "fmt"

type LogStream struct {
	out *Stream
}

func NewLogStream(out *Stream) *LogStream {
	return &LogStream{out: out}
}

func (l *LogStream) writeLine(line string) {
	if l.out != nil {
		b := []byte(line + "\r\n")
		l.out.StreamWrite(b, len(b))
	}
	Tracet(4, "%s\n", line)
}

/* WriteLog emits a free-form $LOG record (spec.md *7's "$LOG,...,<DECODER>
 * FRAME ERROR" / "$LOG PNTPOS ERROR" style diagnostics). */
func (l *LogStream) WriteLog(format string, v ...interface{}) {
	l.writeLine("$LOG," + fmt.Sprintf(format, v...))
}

/* WriteChan emits a $CH record: one line per channel state transition. */
func (l *LogStream) WriteChan(ch *Channel) {
	l.writeLine(fmt.Sprintf("$CH,%s,%d,%d,%.1f,%.9f,%.1f",
		ch.Sig, ch.Prn, ch.State, ch.Fd(), ch.Coff(), ch.Cn0))
}

/* WriteObs emits a $OBS record: one line per published per-channel
 * observation (spec.md *4.7's observation-epoch deposit). */
func (l *LogStream) WriteObs(ch *Channel, tau, p, carr float64, lli uint8) {
	l.writeLine(fmt.Sprintf("$OBS,%s,%d,%.12f,%.4f,%.4f,%d,%.1f",
		ch.Sig, ch.Prn, tau, p, carr, lli, ch.Cn0))
}

/* WritePos emits a $POS record: one line per emitted epoch solution
 * (spec.md *8 property 6 relies on this being byte-stable given the same
 * input and options). */
func (l *LogStream) WritePos(sol *Sol) {
	l.writeLine(fmt.Sprintf("$POS,%d,%.3f,%.4f,%.4f,%.4f,%d",
		sol.Time.Time, sol.Time.Sec, sol.Rr[0], sol.Rr[1], sol.Rr[2], sol.Ns))
}

/* WriteSat emits a $SAT record: per-satellite elevation/azimuth/SNR
 * summary alongside a $POS emission. */
func (l *LogStream) WriteSat(sat int, az, el float64, snr uint16) {
	l.writeLine(fmt.Sprintf("$SAT,%d,%.2f,%.2f,%d", sat, az, el, snr))
}

/* WriteEph emits a $EPH record: one line per freshly decoded/published
 * ephemeris/almanac record. */
func (l *LogStream) WriteEph(sig SignalID, sat int) {
	l.writeLine(fmt.Sprintf("$EPH,%s,%d", sig, sat))
}
