// Package metrics exposes the process-wide Prometheus collectors used
// across the codec, resolver and dissector packages as package-level
// promauto collectors rather than a passed-around registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TruncatedRecords counts every record a Session's ReadPacket found
	// to have a zero or oversize declared length.
	TruncatedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pcapkit_truncated_records_total",
		Help: "Number of packet records whose declared length was zero or exceeded the read buffer.",
	})

	// BytesRead counts payload bytes a Session's ReadPacket delivered;
	// BytesWritten counts record header plus payload bytes WritePacket
	// wrote.
	BytesRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pcapkit_bytes_read_total",
		Help: "Payload bytes read from capture files.",
	})
	BytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pcapkit_bytes_written_total",
		Help: "Payload and header bytes written to capture files.",
	})

	// ResolverQueueDepth reports how many addresses are queued for
	// reverse lookup at any moment.
	ResolverQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pcapkit_resolver_queue_depth",
		Help: "Number of hostname-resolution requests currently queued.",
	})

	// DissectDuration measures wall time spent driving one packet
	// through a protocol chain.
	DissectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pcapkit_dissect_duration_seconds",
		Help:    "Time spent dissecting a single packet through its protocol chain.",
		Buckets: prometheus.DefBuckets,
	})
)
