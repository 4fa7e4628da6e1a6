// Package promadapters provides a Prometheus implementation of librarystore.MetricsCollector.
//
// Instruments are created on first use and registered with the given prometheus.Registerer:
//   - RecordDuration -> HistogramVec (seconds)
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
//
// The label names of an instrument are fixed by the first observation of that metric.
package promadapters
