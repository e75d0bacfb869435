package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/Sun-Lab-NBB/ataraxis-transport-layer-pc-sub000/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus counters
var (
	PacketsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transport_packets_sent_total",
		Help: "Total packets successfully framed and written to the device.",
	})
	PacketsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transport_packets_received_total",
		Help: "Total packets successfully parsed, validated, and decoded.",
	})
	CRCMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transport_crc_mismatches_total",
		Help: "Total packets rejected due to a CRC mismatch.",
	})
	ParserTimeouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transport_parser_timeouts_total",
		Help: "Total inter-byte timeouts, by the parser stage that stalled.",
	}, []string{"stage"})
	DelimiterErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transport_delimiter_errors_total",
		Help: "Total COBS delimiter corruption events, by kind (early, missing).",
	}, []string{"kind"})
	NoiseBytesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transport_noise_bytes_discarded_total",
		Help: "Total bytes scanned and discarded while searching for a start byte.",
	})
	LeftoverBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transport_leftover_bytes",
		Help: "Bytes currently buffered between ReceiveData calls, not yet forming a full packet.",
	})
	DeviceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transport_device_errors_total",
		Help: "Total device-level read/write errors, by direction.",
	}, []string{"direction"})
	BridgeSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_active_subscribers",
		Help: "Current number of in-process decoded-payload subscribers.",
	})
	BridgeDroppedPayloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_dropped_payloads_total",
		Help: "Total decoded payloads dropped because a subscriber's channel was full.",
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Error counters by subsystem.",
	}, []string{"where"})

	readinessMu sync.RWMutex
	readinessFn func() bool
)

// Error label constants (stable label values to bound cardinality)
const (
	ErrWhereDeviceRead  = "device_read"
	ErrWhereDeviceWrite = "device_write"
	ErrWhereFraming     = "framing"
	ErrWhereParse       = "parse"
	ErrWhereBridge      = "bridge"
	ErrWhereEventlog    = "eventlog"
	ErrWhereRegistry    = "registry"
)

// ClassifyError increments the Errors counter for where, and its local
// mirror; it does not inspect err or touch any more specific counter. It is
// the transport-layer analogue of a package-wide "where did this fail" sink.
func ClassifyError(where string, err error) {
	if err == nil {
		return
	}
	Errors.WithLabelValues(where).Inc()
	atomic.AddUint64(&localErrors, 1)
}

// StartHTTP serves Prometheus metrics at /metrics, plus a /ready endpoint
// driven by the registered readiness function.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		logging.Component("metrics").Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Component("metrics").Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}

// Local mirrored counters for easy logging (avoid Prometheus scraping in-process)
var (
	localPacketsSent     uint64
	localPacketsReceived uint64
	localCRCMismatches   uint64
	localTimeouts        uint64
	localNoiseBytes      uint64
	localErrors          uint64
)

// Snapshot is a cheap copy of local counters.
type Snapshot struct {
	PacketsSent     uint64
	PacketsReceived uint64
	CRCMismatches   uint64
	ParserTimeouts  uint64
	NoiseBytes      uint64
	Errors          uint64
}

func Snap() Snapshot {
	return Snapshot{
		PacketsSent:     atomic.LoadUint64(&localPacketsSent),
		PacketsReceived: atomic.LoadUint64(&localPacketsReceived),
		CRCMismatches:   atomic.LoadUint64(&localCRCMismatches),
		ParserTimeouts:  atomic.LoadUint64(&localTimeouts),
		NoiseBytes:      atomic.LoadUint64(&localNoiseBytes),
		Errors:          atomic.LoadUint64(&localErrors),
	}
}

func IncPacketsSent() {
	PacketsSent.Inc()
	atomic.AddUint64(&localPacketsSent, 1)
}

func IncPacketsReceived() {
	PacketsReceived.Inc()
	atomic.AddUint64(&localPacketsReceived, 1)
}

func IncCRCMismatch() {
	CRCMismatches.Inc()
	atomic.AddUint64(&localCRCMismatches, 1)
}

func IncParserTimeout(stage string) {
	ParserTimeouts.WithLabelValues(stage).Inc()
	atomic.AddUint64(&localTimeouts, 1)
}

func IncDelimiterError(kind string) {
	DelimiterErrors.WithLabelValues(kind).Inc()
}

func AddNoiseBytes(n int) {
	if n <= 0 {
		return
	}
	NoiseBytesDiscarded.Add(float64(n))
	atomic.AddUint64(&localNoiseBytes, uint64(n))
}

func SetLeftoverBytes(n int) {
	LeftoverBytes.Set(float64(n))
}

func IncDeviceError(direction string) {
	DeviceErrors.WithLabelValues(direction).Inc()
}

func SetBridgeSubscribers(n int) {
	BridgeSubscribers.Set(float64(n))
}

func IncBridgeDropped() {
	BridgeDroppedPayloads.Inc()
}

// InitBuildInfo sets the build info gauge (should be called once at startup).
func InitBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
	for _, lbl := range []string{
		ErrWhereDeviceRead, ErrWhereDeviceWrite, ErrWhereFraming,
		ErrWhereParse, ErrWhereBridge, ErrWhereEventlog, ErrWhereRegistry,
	} {
		Errors.WithLabelValues(lbl).Add(0)
	}
}

// SetReadinessFunc registers a function used by /ready and IsReady.
func SetReadinessFunc(fn func() bool) { readinessMu.Lock(); readinessFn = fn; readinessMu.Unlock() }

// IsReady invokes the registered readiness function if present.
func IsReady() bool {
	readinessMu.RLock()
	fn := readinessFn
	readinessMu.RUnlock()
	if fn == nil {
		return true
	}
	return fn()
}

// Ready is a concise alias used at call sites.
func Ready() bool { return IsReady() }
