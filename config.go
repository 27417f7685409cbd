package gnssgo

/* config.go : receiver configuration, rcv.setopt table ----------------------
*
* Mirrors options.go's Opt/DefaultProcOpt pattern (name/type/pointer-into-
* struct table, driven by a string key) extended with the receiver-
* specific keys of spec.md *6. Startup configuration errors are returned
* as Go errors from SetOpt, matching SPEC_FULL.md *2's
* promotion of the teacher's int-status-return idiom only where the
* teacher itself would surface a caller-visible failure.
*-----------------------------------------------------------------------------*/

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

/* ChannelSpec names one (signal, PRN, RF-channel) triple to instantiate at
 * startup. The -RFCH option fills RFChByIDs, which is not used when
 * ChannelSpecs is built or read. */
type ChannelSpec struct {
	Sig       SignalID
	Prn       int
	RFChannel int
}

/* ReceiverConfig holds every `rcv.setopt` key plus the front-end/channel
 * topology a Receiver is built from (spec.md *6). */
type ReceiverConfig struct {
	Fmt           IFFormat
	Fs            float64 /* sample rate (Hz) */
	Fi            float64 /* IF center frequency (Hz) */
	NumRFChannels int
	Nbuf          int /* ring depth, cycles */
	ChannelSpecs  []ChannelSpec

	Epoch      float64 /* epoch period (s), default 1 */
	LagEpoch   float64 /* LAG_EPOCH (s), default 0.25 */
	ElMask     float64 /* elevation mask (rad; el_mask is given in deg), default 15 deg */
	SpCorr     float64 /* E/L tap spacing (chips), default 0.5 */
	TAcq       float64 /* T_acq (s), default 0.01 */
	TDll       float64 /* T_DLL (s), default 0.01 */
	BDll       float64 /* B_DLL (Hz), default 0.5 */
	BPll       float64 /* B_PLL (Hz), default 10 */
	BFllWide   float64 /* B_FLL wide (Hz), default 10 */
	BFllNarrow float64 /* B_FLL narrow (Hz), default 2 */
	MaxDop     float64 /* max Doppler search half-width (Hz), default 5000 */
	ThresCn0L  float64 /* acquisition threshold (dB-Hz), default 35 */
	ThresCn0U  float64 /* tracking-lost threshold (dB-Hz), default 32 */
	BumpJump   bool    /* bump-jump DLL half-chip correction, default false */
	SbasEnable bool    /* SPEC_FULL.md *7: SBAS output default is enabled */

	IonexFile string /* optional IONEX TEC grid file, empty disables IONOOPT_TEC */

	RFChByIDs map[SignalID][]int /* -RFCH pinning */

	Prc *PrcOpt /* external point-positioning solver options, from options.go */

	History *ConfigStore /* optional rcv.setopt audit trail, nil disables it */
}

/* DefaultReceiverConfig returns the spec's documented defaults (spec.md
 * *4.2/4.3/4.6/4.7), mirroring options.go's DefaultProcOpt. */
func DefaultReceiverConfig() *ReceiverConfig {
	opt := DefaultProcOpt()
	opt.IonoOpt = IONOOPT_BRDC /* spec.md *4.7's ionospheric correction is on by default */
	return &ReceiverConfig{
		Fmt: FmtINT8x2, Fs: 6e6, Fi: 0, NumRFChannels: 1, Nbuf: 4096,
		Epoch: 1.0, LagEpoch: 0.25, ElMask: 15 * D2R, SpCorr: 0.5,
		TAcq: defaultTAcq, TDll: tDLLDef, BDll: bDLLHz, BPll: bPLL,
		BFllWide: bFLLWide, BFllNarrow: bFLLNarrw, MaxDop: defaultMaxDop,
		ThresCn0L: defaultThresCn0L, ThresCn0U: thresCn0U,
		SbasEnable: true,
		RFChByIDs:  map[SignalID][]int{},
		Prc:        &opt,
	}
}

/* SetOpt parses one `rcv.setopt(key, value)` pair (spec.md *6). Invalid
 * keys/values are a startup error (spec.md *7 "Invalid input (fatal at
 * startup)"), wrapped with github.com/pkg/errors the way the teacher's
 * app/rtkrcv wraps its own startup errors. */
func (cfg *ReceiverConfig) SetOpt(key, value string) error {
	if err := cfg.setOpt(key, value); err != nil {
		return err
	}
	if cfg.History != nil {
		if err := cfg.History.RecordChange(key, value); err != nil {
			Tracet(2, "gnssgo: config history write failed: %v\n", err)
		}
	}
	return nil
}

/* setOpt applies one key/value pair without touching the audit trail. */
func (cfg *ReceiverConfig) setOpt(key, value string) error {
	switch key {
	case "epoch":
		return cfg.setFloat(&cfg.Epoch, key, value)
	case "lag_epoch":
		return cfg.setFloat(&cfg.LagEpoch, key, value)
	case "el_mask":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrapf(err, "gnssgo: bad value for %s", key)
		}
		cfg.ElMask = v * D2R
		return nil
	case "sp_corr":
		return cfg.setFloat(&cfg.SpCorr, key, value)
	case "t_acq":
		return cfg.setFloat(&cfg.TAcq, key, value)
	case "t_dll":
		return cfg.setFloat(&cfg.TDll, key, value)
	case "b_dll":
		return cfg.setFloat(&cfg.BDll, key, value)
	case "b_pll":
		return cfg.setFloat(&cfg.BPll, key, value)
	case "b_fll_w":
		return cfg.setFloat(&cfg.BFllWide, key, value)
	case "b_fll_n":
		return cfg.setFloat(&cfg.BFllNarrow, key, value)
	case "max_dop":
		return cfg.setFloat(&cfg.MaxDop, key, value)
	case "thres_cn0_l":
		return cfg.setFloat(&cfg.ThresCn0L, key, value)
	case "thres_cn0_u":
		return cfg.setFloat(&cfg.ThresCn0U, key, value)
	case "bump_jump":
		cfg.BumpJump = value == "1" || strings.EqualFold(value, "on")
		return nil
	case "sbas":
		cfg.SbasEnable = !strings.EqualFold(value, "off")
		return nil
	case "iono_model":
		switch strings.ToLower(value) {
		case "off":
			cfg.Prc.IonoOpt = IONOOPT_OFF
		case "brdc":
			cfg.Prc.IonoOpt = IONOOPT_BRDC
		case "sbas":
			cfg.Prc.IonoOpt = IONOOPT_SBAS
		case "tec":
			cfg.Prc.IonoOpt = IONOOPT_TEC
		default:
			return errors.Errorf("gnssgo: unknown iono_model %q", value)
		}
		return nil
	case "ionex_file":
		cfg.IonexFile = value
		return nil
	default:
		if strings.HasPrefix(key, "-RFCH") {
			return cfg.setRFCH(value)
		}
		return errors.Errorf("gnssgo: unknown receiver option %q", key)
	}
}

func (cfg *ReceiverConfig) setFloat(dst *float64, key, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.Wrapf(err, "gnssgo: bad value for %s", key)
	}
	*dst = v
	return nil
}

/* setRFCH parses `-RFCH <sig>:<ch>[,<ch>...]` (spec.md *6), pinning a
 * signal to one or more RF channels. */
func (cfg *ReceiverConfig) setRFCH(value string) error {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return errors.Errorf("gnssgo: malformed -RFCH value %q", value)
	}
	sig, ok := ParseSignalID(parts[0])
	if !ok {
		return errors.Errorf("gnssgo: -RFCH unknown signal-id %q", parts[0])
	}
	var chans []int
	for _, s := range strings.Split(parts[1], ",") {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.Wrapf(err, "gnssgo: -RFCH bad channel index in %q", value)
		}
		chans = append(chans, n)
	}
	cfg.RFChByIDs[sig] = chans
	return nil
}
