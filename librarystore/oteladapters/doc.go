// Package oteladapters connects the library store's observability interfaces to OpenTelemetry.
//
//   - MetricsCollector records durations as histograms, counts as counters and values as gauges.
//   - TracingCollector opens one span per query and per write plan.
//   - SlogBridgeLogger and OTelLogger implement librarystore.ContextualLogger, so log records
//     carry the trace and span IDs of the active span.
package oteladapters
