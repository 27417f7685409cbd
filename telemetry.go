package gnssgo

/* telemetry.go : metrics and tracing sinks -----------------------------------
*
* Implements SPEC_FULL.md §3's observability row: Prometheus gauges/
* counters for the liveness metrics spec.md §4.6 names (ring usage,
* channel state counts, acquisition/lock counters), one OpenTelemetry
* span per PVT epoch and per acquisition attempt, and an optional
* InfluxDB line-protocol sink for long-horizon PVT dashboards. Grounded
* on the teacher's app/rtkrcv and app/plot go.mod, which carry all three
* client libraries without a dedicated in-repo consumer of their own;
* here they have one.
*-----------------------------------------------------------------------------*/

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

/* Telemetry bundles the Prometheus registry, an OpenTelemetry tracer,
 * and an optional InfluxDB sink. A Receiver's PVTAggregator and channel
 * workers hold a pointer to one; nil-safe throughout. */
type Telemetry struct {
	tracer trace.Tracer

	ringUsage    prometheus.Gauge
	chanStates   *prometheus.GaugeVec
	acqAttempts  prometheus.Counter
	acqSuccesses prometheus.Counter
	epochsSolved prometheus.Counter
	epochNs      prometheus.Histogram

	influx *InfluxSink
}

/* NewTelemetry registers the Prometheus collectors with reg (pass
 * prometheus.NewRegistry() or prometheus.DefaultRegisterer's registry)
 * and returns a Telemetry ready for use. influx may be nil. */
func NewTelemetry(reg prometheus.Registerer, influx *InfluxSink) *Telemetry {
	t := &Telemetry{
		tracer: otel.Tracer("gnssgo/pvt"),
		ringUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gnssgo_ring_usage_ratio",
			Help: "fraction of the IF sample ring between the write cursor and the slowest reader",
		}),
		chanStates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gnssgo_channel_state",
			Help: "number of channels in the given state",
		}, []string{"state"}),
		acqAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnssgo_acquisition_attempts_total",
			Help: "acquisition slots attempted",
		}),
		acqSuccesses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnssgo_acquisition_locks_total",
			Help: "acquisition slots that produced a lock",
		}),
		epochsSolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnssgo_epochs_solved_total",
			Help: "PVT epochs with a successful PntPos solution",
		}),
		epochNs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gnssgo_epoch_satellites",
			Help:    "number of satellites used in the PVT solution",
			Buckets: prometheus.LinearBuckets(0, 2, 16),
		}),
		influx: influx,
	}
	reg.MustRegister(t.ringUsage, t.chanStates, t.acqAttempts, t.acqSuccesses, t.epochsSolved, t.epochNs)
	return t
}

/* ObserveRing records the producer's ring-buffer fill ratio, as
 * returned by ifbuffer.go's WriteCursor.BufferUsagePct (0-100, spec.md
 * §4.6's overrun condition watches the same quantity). */
func (t *Telemetry) ObserveRing(usagePct float64) {
	if t == nil {
		return
	}
	t.ringUsage.Set(usagePct / 100)
}

/* ObserveChannelStates sweeps a receiver's channel set once per producer
 * cycle and republishes the per-state gauge. */
func (t *Telemetry) ObserveChannelStates(channels []*Channel) {
	if t == nil {
		return
	}
	counts := map[ChanState]int{}
	for _, ch := range channels {
		counts[ch.State]++
	}
	t.chanStates.WithLabelValues("idle").Set(float64(counts[ChanIdle]))
	t.chanStates.WithLabelValues("search").Set(float64(counts[ChanSearch]))
	t.chanStates.WithLabelValues("lock").Set(float64(counts[ChanLock]))
}

/* StartAcqSpan opens an "acq.search" span for one acquisition attempt
 * (spec.md §4.2). The caller must call the returned func to end it. */
func (t *Telemetry) StartAcqSpan(ctx context.Context, sig SignalID, prn int) (context.Context, func()) {
	if t == nil {
		return ctx, func() {}
	}
	t.acqAttempts.Inc()
	ctx, span := t.tracer.Start(ctx, "acq.search",
		trace.WithAttributes(attribute.String("sig", string(sig)), attribute.Int("prn", prn)))
	return ctx, func() { span.End() }
}

/* ObserveAcqResult records whether an acquisition attempt ended in lock. */
func (t *Telemetry) ObserveAcqResult(locked bool) {
	if t == nil || !locked {
		return
	}
	t.acqSuccesses.Inc()
}

/* ObserveEpoch records one PVT epoch's outcome: a "pvt.epoch" span, the
 * solved-satellite histogram, the solved-epoch counter, and (if an
 * InfluxSink is attached) one line-protocol point. */
func (t *Telemetry) ObserveEpoch(sol *Sol) {
	if t == nil {
		return
	}
	_, span := t.tracer.Start(context.Background(), "pvt.epoch",
		trace.WithAttributes(attribute.Int("ns", int(sol.Ns))))
	defer span.End()
	t.epochsSolved.Inc()
	t.epochNs.Observe(float64(sol.Ns))
	if t.influx != nil {
		t.influx.WriteSolution(sol)
	}
}

/* InfluxSink writes one point per emitted PVT solution to an InfluxDB
 * 2.x bucket, for the long-horizon dashboards SPEC_FULL.md §3 names. */
type InfluxSink struct {
	client influxdb2.Client
	write  api.WriteAPI
	org    string
	bucket string
}

func NewInfluxSink(serverURL, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClient(serverURL, token)
	return &InfluxSink{
		client: client,
		write:  client.WriteAPI(org, bucket),
		org:    org,
		bucket: bucket,
	}
}

func (s *InfluxSink) WriteSolution(sol *Sol) {
	if s == nil {
		return
	}
	p := influxdb2.NewPointWithMeasurement("pvt_solution").
		AddTag("stat", statLabel(sol.Stat)).
		AddField("x", sol.Rr[0]).
		AddField("y", sol.Rr[1]).
		AddField("z", sol.Rr[2]).
		AddField("ns", int(sol.Ns)).
		AddField("age", float64(sol.Age)).
		SetTime(time.Now())
	s.write.WritePoint(p)
}

func (s *InfluxSink) Close() {
	if s == nil {
		return
	}
	s.write.Flush()
	s.client.Close()
}

func statLabel(stat uint8) string {
	switch stat {
	case 1:
		return "fix"
	case 2:
		return "float"
	case 5:
		return "single"
	default:
		return "none"
	}
}
