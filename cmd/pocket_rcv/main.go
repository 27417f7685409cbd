/* pocket_rcv : software-defined GNSS receiver ---------------------------------
*
* Flag parsing and wiring shape grounded on app/rtkrcv/rtkrcv.go's main():
* flag.*Var into package-level option holders, ResetSysOpts-style defaults,
* then NavData.ReadNav/RtkOpenStat-equivalent load/open calls before
* starting the server loop. Generalized from rtksvr's fixed rover/base/
* correction triple to gnssgo.Receiver's N-channel tracking topology.
*-----------------------------------------------------------------------------*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gnssgo"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var navFile = "pocket_rcv.nav" /* navigation save file, spec.md §6's .pocket_navdata.csv */

func main() {
	var (
		ifPath      string
		tscale      float64
		fs, fi      float64
		fmtName     string
		numRF       int
		chanSpec    string
		nmeaOut     string
		rtcmOut     string
		rinexObsOut string
		rinexNavOut string
		ionexFile   string
		metricsAddr string
		clickhouse  string
		mongoURI    string
		elasticURL  string
		influxURL   string
		influxToken string
		traceLevel  int
		confHistDSN string
		searchCli   string
	)

	flag.StringVar(&ifPath, "if", "", "raw IF sample file to replay")
	flag.Float64Var(&tscale, "tscale", 1.0, "replay time scale (1.0 = real time)")
	flag.Float64Var(&fs, "fs", 6e6, "sample rate (Hz)")
	flag.Float64Var(&fi, "fi", 0, "IF center frequency (Hz)")
	flag.StringVar(&fmtName, "fmt", "int8x2", "IF sample format: int8|int8x2|raw8|raw16|raw16i|raw32")
	flag.IntVar(&numRF, "nrf", 1, "number of RF channels in the IF stream")
	flag.StringVar(&chanSpec, "ch", "", "comma-separated sig:prn:rfch triples, e.g. L1CA:1:0,L1CA:3:0")
	flag.StringVar(&nmeaOut, "nmea", "", "NMEA output file path, empty to disable")
	flag.StringVar(&rtcmOut, "rtcm", "", "RTCM3 output file path, empty to disable")
	flag.StringVar(&rinexObsOut, "rinex-obs", "", "RINEX 3.04 observation output file path, empty to disable")
	flag.StringVar(&rinexNavOut, "rinex-nav", "", "RINEX 3.04 navigation output file path, empty to disable")
	flag.StringVar(&ionexFile, "ionex", "", "IONEX TEC grid file for IONOOPT_TEC, empty to disable")
	flag.StringVar(&metricsAddr, "metrics", "", "Prometheus /metrics listen address, empty to disable")
	flag.StringVar(&clickhouse, "clickhouse", "", "ClickHouse DSN for the ephemeris archive, empty to disable")
	flag.StringVar(&mongoURI, "mongo", "", "MongoDB URI for the raw-frame archive, empty to disable")
	flag.StringVar(&elasticURL, "elastic", "", "Elasticsearch URL for the epoch indexer, empty to disable")
	flag.StringVar(&searchCli, "search-client", "v7", "elasticsearch client to use for -elastic: v7|v5")
	flag.StringVar(&influxURL, "influx", "", "InfluxDB URL for the PVT-solution sink, empty to disable")
	flag.StringVar(&influxToken, "influx-token", "", "InfluxDB auth token")
	flag.IntVar(&traceLevel, "trace", 0, "teacher Trace sink verbosity, 0 disables")
	flag.StringVar(&navFile, "navfile", navFile, "navigation database persistence file")
	flag.StringVar(&confHistDSN, "confighist", "", "driver://DSN (driver defaults to sqlite3) for the rcv.setopt audit trail, empty to disable; no database/sql driver is linked into this binary")
	flag.Parse()

	if traceLevel > 0 {
		gnssgo.TraceOpen("pocket_rcv.trace")
		gnssgo.TraceLevel(traceLevel)
	}

	cfg := gnssgo.DefaultReceiverConfig()
	cfg.Fs, cfg.Fi, cfg.NumRFChannels = fs, fi, numRF
	ifFmt, err := parseIFFormat(fmtName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pocket_rcv:", err)
		os.Exit(1)
	}
	cfg.Fmt = ifFmt
	specs, err := parseChannelSpecs(chanSpec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pocket_rcv:", err)
		os.Exit(1)
	}
	cfg.ChannelSpecs = specs
	cfg.IonexFile = ionexFile
	if confHistDSN != "" {
		parts := strings.SplitN(confHistDSN, "://", 2)
		driver := "sqlite3"
		dsn := confHistDSN
		if len(parts) == 2 {
			driver, dsn = parts[0], parts[1]
		}
		store, err := gnssgo.NewConfigStore(driver, dsn)
		if err != nil {
			fmt.Fprintln(os.Stderr, "pocket_rcv: confighist:", err)
		} else {
			cfg.History = store
			defer store.Close()
		}
	}

	if ifPath == "" {
		fmt.Fprintln(os.Stderr, "pocket_rcv: -if is required")
		os.Exit(1)
	}
	nBlock := int(cfg.Fs * 1e-3) /* T_cyc worth of samples */
	source, err := gnssgo.NewFileSource(ifPath, tscale, nBlock, time.Millisecond)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pocket_rcv: open IF source:", err)
		os.Exit(1)
	}

	rv, err := gnssgo.NewReceiver(cfg, source)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pocket_rcv: build receiver:", err)
		os.Exit(1)
	}

	if err := rv.PVT.LoadNavData(navFile); err != nil {
		fmt.Fprintln(os.Stderr, "pocket_rcv: load navdata:", err)
	}

	if nmeaOut != "" {
		rv.PVT.NmeaOut = openOutStream(nmeaOut)
	}
	if rtcmOut != "" {
		rv.PVT.RtcmOut = openOutStream(rtcmOut)
	}
	if rinexObsOut != "" || rinexNavOut != "" {
		rinex, err := gnssgo.NewRinexOutput(cfg, rinexObsOut, rinexNavOut)
		if err != nil {
			fmt.Fprintln(os.Stderr, "pocket_rcv: rinex output:", err)
		} else {
			rv.PVT.Rinex = rinex
			defer rinex.Close()
		}
	}

	ctx := context.Background()
	if clickhouse != "" {
		store, err := gnssgo.NewClickHouseEphemerisStore(clickhouse)
		if err != nil {
			fmt.Fprintln(os.Stderr, "pocket_rcv: clickhouse:", err)
		} else {
			rv.PVT.EphStore = store
		}
	}
	if mongoURI != "" {
		archive, err := gnssgo.NewFrameArchive(ctx, mongoURI, "gnssgo")
		if err != nil {
			fmt.Fprintln(os.Stderr, "pocket_rcv: mongo:", err)
		} else {
			rv.PVT.Archive = archive
		}
	}
	if elasticURL != "" {
		if strings.EqualFold(searchCli, "v5") {
			indexer, err := gnssgo.NewLegacyEpochIndexer(elasticURL)
			if err != nil {
				fmt.Fprintln(os.Stderr, "pocket_rcv: elasticsearch(v5):", err)
			} else {
				rv.PVT.Indexer = indexer
			}
		} else {
			indexer, err := gnssgo.NewEpochIndexer(ctx, elasticURL)
			if err != nil {
				fmt.Fprintln(os.Stderr, "pocket_rcv: elasticsearch:", err)
			} else {
				rv.PVT.Indexer = indexer
			}
		}
	}
	var influx *gnssgo.InfluxSink
	if influxURL != "" {
		influx = gnssgo.NewInfluxSink(influxURL, influxToken, "gnssgo", "pvt")
		defer influx.Close()
	}
	reg := prometheus.NewRegistry()
	rv.PVT.Telemetry = gnssgo.NewTelemetry(reg, influx)
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go http.ListenAndServe(metricsAddr, mux)
	}

	rv.Start()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	rv.Stop()
	if err := rv.PVT.SaveNavData(navFile); err != nil {
		fmt.Fprintln(os.Stderr, "pocket_rcv: save navdata:", err)
	}
}

func parseIFFormat(name string) (gnssgo.IFFormat, error) {
	switch strings.ToLower(name) {
	case "int8":
		return gnssgo.FmtINT8, nil
	case "int8x2":
		return gnssgo.FmtINT8x2, nil
	case "raw8":
		return gnssgo.FmtRAW8, nil
	case "raw16":
		return gnssgo.FmtRAW16, nil
	case "raw16i":
		return gnssgo.FmtRAW16I, nil
	case "raw32":
		return gnssgo.FmtRAW32, nil
	default:
		return 0, fmt.Errorf("unknown -fmt %q", name)
	}
}

func parseChannelSpecs(spec string) ([]gnssgo.ChannelSpec, error) {
	if spec == "" {
		return nil, nil
	}
	var out []gnssgo.ChannelSpec
	for _, triple := range strings.Split(spec, ",") {
		parts := strings.Split(triple, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed -ch triple %q", triple)
		}
		sig, ok := gnssgo.ParseSignalID(parts[0])
		if !ok {
			return nil, fmt.Errorf("-ch unknown signal-id %q", parts[0])
		}
		prn, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("-ch bad prn in %q: %w", triple, err)
		}
		rfch, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("-ch bad rfch in %q: %w", triple, err)
		}
		out = append(out, gnssgo.ChannelSpec{Sig: sig, Prn: prn, RFChannel: rfch})
	}
	return out, nil
}

func openOutStream(path string) *gnssgo.Stream {
	str := &gnssgo.Stream{}
	if str.OpenStream(gnssgo.STR_FILE, gnssgo.STR_MODE_W, path) == 0 {
		fmt.Fprintf(os.Stderr, "pocket_rcv: open output stream %s: %s\n", path, str.Msg)
	}
	return str
}
