package gnssgo

/* signal.go : signal-ID table and per-signal method dispatch ----------------
*
* Replaces the function-pointer-on-string-compare dispatch named in the
* design notes (spec.md *9) with a tagged variant constructed once from a
* signal-ID string, plus a read-only method table. Zero string comparisons
* remain on the acquisition/tracking/decode hot paths; SignalID is an
* integer everywhere except at configuration-parse time.
*-----------------------------------------------------------------------------*/

import "fmt"

type SignalID int

const (
	SigNone SignalID = iota
	SigL1CA          /* GPS/QZSS L1 C/A */
	SigL1CD          /* GPS/QZSS L1C data */
	SigL1CP          /* GPS/QZSS L1C pilot */
	SigL2CM          /* GPS/QZSS L2C-M */
	SigL5I           /* GPS/QZSS L5 data (I) */
	SigL5Q           /* GPS/QZSS L5 pilot (Q) */
	SigL6D           /* QZSS L6D (CSK) */
	SigL6E           /* QZSS L6E (CSK) */
	SigE1B           /* Galileo E1 data (I/NAV) */
	SigE1C           /* Galileo E1 pilot */
	SigE5AI          /* Galileo E5a data (F/NAV) */
	SigE5BI          /* Galileo E5b data (I/NAV) */
	SigE6B           /* Galileo E6 data */
	SigB1I           /* BeiDou B1I (D1/D2) */
	SigB1CD          /* BeiDou B1C data */
	SigB2AD          /* BeiDou B2a data */
	SigB2BI          /* BeiDou B2b */
	SigB3I           /* BeiDou B3I */
	SigG1CA          /* GLONASS L1 C/A (FDMA) */
	SigG1OCD         /* GLONASS L1OCd (CDMA) */
	SigG3OCD         /* GLONASS L3OCd (CDMA) */
	SigI1SD          /* NavIC L1-SPS data */
	SigI5S           /* NavIC L5 SPS */
	SigSBSL1         /* SBAS L1 */
	SigSBSL5         /* SBAS L5 */
)

/* modulation types ------------------------------------------------------- */
const (
	ModBPSK int = iota
	ModBOC
	ModPilotData
	ModCSK
)

/* SignalDescriptor is immutable once constructed from the table below.
 * fc: carrier frequency (Hz). Lc: primary code chip count. T: code period (s).
 * SecLen: secondary (overlay) code length in primary-code periods (0: none). */
type SignalDescriptor struct {
	ID        SignalID
	Name      string
	Fc        float64
	Lc        int
	T         float64
	SecLen    int
	SecCode   []int8 /* +-1 chips, len==SecLen when set; nil in every table entry below (secondaryCode then generates a placeholder) */
	Mod       int
	PhaseQrtr float64 /* carrier-phase quarter-cycle alignment constant added in pvt.go */
}

/* per-variant method table, filled in by navdecode_*.go init()s */
type signalMethods struct {
	newDecoder func() NavDecoder
	frameCyc   int     /* nav frame length in code cycles, 0 if n/a */
	timeOffset float64 /* TOFF_<sig> (s), modulation delay frame-start -> current sample */
}

var sigTable = map[SignalID]*SignalDescriptor{
	SigL1CA:  {SigL1CA, "L1CA", FREQ1, 1023, 1e-3, 0, nil, ModBPSK, 0.25},
	SigL1CD:  {SigL1CD, "L1CD", FREQ1, 10230, 10e-3, 0, nil, ModBPSK, 0.25},
	SigL1CP:  {SigL1CP, "L1CP", FREQ1, 10230, 10e-3, 1800, nil, ModPilotData, 0.25},
	SigL2CM:  {SigL2CM, "L2CM", FREQ2, 10230, 20e-3, 0, nil, ModBPSK, 0},
	SigL5I:   {SigL5I, "L5I", FREQ5, 10230, 1e-3, 10, nil, ModBPSK, 0},
	SigL5Q:   {SigL5Q, "L5Q", FREQ5, 10230, 1e-3, 20, nil, ModPilotData, -0.25},
	SigL6D:   {SigL6D, "L6D", FREQ6, 255, 1e-3, 0, nil, ModCSK, 0},
	SigL6E:   {SigL6E, "L6E", FREQ6, 255, 1e-3, 0, nil, ModCSK, 0},
	SigE1B:   {SigE1B, "E1B", FREQ1, 4092, 4e-3, 0, nil, ModBPSK, 0},
	SigE1C:   {SigE1C, "E1C", FREQ1, 4092, 4e-3, 25, nil, ModPilotData, 0.5},
	SigE5AI:  {SigE5AI, "E5AI", FREQ5, 10230, 1e-3, 20, nil, ModBPSK, 0},
	SigE5BI:  {SigE5BI, "E5BI", FREQ7, 10230, 1e-3, 4, nil, ModBPSK, 0},
	SigE6B:   {SigE6B, "E6B", FREQ6, 5115, 1e-3, 0, nil, ModBPSK, 0},
	SigB1I:   {SigB1I, "B1I", FREQ1_CMP, 2046, 1e-3, 0, nil, ModBPSK, 0},
	SigB1CD:  {SigB1CD, "B1CD", FREQ1, 10230, 10e-3, 0, nil, ModBPSK, 0.25},
	SigB2AD:  {SigB2AD, "B2AD", FREQ5, 10230, 1e-3, 0, nil, ModBPSK, -0.25},
	SigB2BI:  {SigB2BI, "B2BI", FREQ7, 10230, 1e-3, 0, nil, ModBPSK, 0},
	SigB3I:   {SigB3I, "B3I", FREQ3_CMP, 2046, 1e-3, 0, nil, ModBPSK, 0},
	SigG1CA:  {SigG1CA, "G1CA", FREQ1_GLO, 511, 1e-3, 0, nil, ModBPSK, 0.25},
	SigG1OCD: {SigG1OCD, "G1OCD", FREQ1_GLO, 10230, 10e-3, 0, nil, ModBPSK, 0},
	SigG3OCD: {SigG3OCD, "G3OCD", FREQ3_GLO, 10230, 10e-3, 0, nil, ModBPSK, 0},
	SigI1SD:  {SigI1SD, "I1SD", FREQ1, 1023, 1e-3, 0, nil, ModBPSK, 0.25},
	SigI5S:   {SigI5S, "I5S", FREQ5, 1023, 1e-3, 0, nil, ModBPSK, 0.25},
	SigSBSL1: {SigSBSL1, "SBASL1", FREQ1, 1023, 1e-3, 0, nil, ModBPSK, 0.25},
	SigSBSL5: {SigSBSL5, "SBASL5", FREQ5, 1023, 1e-3, 0, nil, ModBPSK, -0.25},
}

var sigMethods = map[SignalID]*signalMethods{}

/* ParseSignalID maps a signal-ID string (as used in -sig options, tag files,
 * RINEX obs-code mapping) to its SignalID. Returns SigNone, false if unknown. */
func ParseSignalID(s string) (SignalID, bool) {
	for id, d := range sigTable {
		if d.Name == s {
			return id, true
		}
	}
	return SigNone, false
}

func (id SignalID) String() string {
	if d, ok := sigTable[id]; ok {
		return d.Name
	}
	return "?"
}

/* Descriptor returns the immutable signal descriptor, or an error if the
 * signal-ID is not in the startup table (invalid-input / fatal-at-startup
 * per spec.md *7). */
func (id SignalID) Descriptor() (*SignalDescriptor, error) {
	d, ok := sigTable[id]
	if !ok {
		return nil, fmt.Errorf("gnssgo: unknown signal id %d", int(id))
	}
	return d, nil
}

func (id SignalID) methods() *signalMethods {
	if m, ok := sigMethods[id]; ok {
		return m
	}
	return nil
}

/* FrameLenCycles returns the nav-frame length in code cycles for this
 * signal, or 0 if the signal carries no navigation-data decoder. */
func (id SignalID) FrameLenCycles() int {
	if m := id.methods(); m != nil {
		return m.frameCyc
	}
	return 0
}

/* TimeOffset returns TOFF_<sig>, the modulation delay (s) from frame-start
 * to the current sample, subtracted from t when attributing a decoded
 * frame's timestamp (spec.md *4.4 "Timing"). */
func (id SignalID) TimeOffset() float64 {
	if m := id.methods(); m != nil {
		return m.timeOffset
	}
	return 0
}

/* NewDecoder constructs a fresh navigation-data decoder for this signal,
 * or nil if the signal carries no nav-data channel (e.g. pilot-only). */
func (id SignalID) NewDecoder() NavDecoder {
	if m := id.methods(); m != nil && m.newDecoder != nil {
		return m.newDecoder()
	}
	return nil
}

/* registerSignal is called from each navdecode_*.go init() to populate the
 * per-variant method table without creating an import cycle or a giant
 * switch statement living in one file. */
func registerSignal(id SignalID, frameCyc int, timeOffset float64, newDecoder func() NavDecoder) {
	sigMethods[id] = &signalMethods{newDecoder: newDecoder, frameCyc: frameCyc, timeOffset: timeOffset}
}
