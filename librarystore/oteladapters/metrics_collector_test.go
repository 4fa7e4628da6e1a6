package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/relational-library-store-go/librarystore/oteladapters"
)

func newMeteredCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not found", "metric %s was not recorded", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration_RecordsSecondsWithAttributes(t *testing.T) {
	// setup
	collector, reader := newMeteredCollector()

	// act
	collector.RecordDuration("librarystore_query_duration_seconds", 150*time.Millisecond,
		map[string]string{"operation": "read books", "status": "success"})

	// assert
	histogram, ok := collect(t, reader, "librarystore_query_duration_seconds").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)

	dataPoint := histogram.DataPoints[0]
	assert.Equal(t, uint64(1), dataPoint.Count)
	assert.InDelta(t, 0.15, dataPoint.Sum, 0.001)

	expected := attribute.NewSet(attribute.String("operation", "read books"), attribute.String("status", "success"))
	assert.True(t, dataPoint.Attributes.Equals(&expected))
}

func Test_MetricsCollector_IncrementCounter_SumsPerAttributeSet(t *testing.T) {
	// setup
	collector, reader := newMeteredCollector()
	committed := map[string]string{"operation": "create loan", "status": "committed"}

	// act
	collector.IncrementCounter("librarystore_write_plans_total", committed)
	collector.IncrementCounterContext(context.Background(), "librarystore_write_plans_total", committed)
	collector.IncrementCounter("librarystore_write_plans_total", map[string]string{"operation": "create loan", "status": "aborted"})

	// assert
	sum, ok := collect(t, reader, "librarystore_write_plans_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2)

	totals := map[string]int64{}
	for _, dataPoint := range sum.DataPoints {
		status, _ := dataPoint.Attributes.Value("status")
		totals[status.AsString()] = dataPoint.Value
	}

	assert.Equal(t, map[string]int64{"committed": 2, "aborted": 1}, totals)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	// setup
	collector, reader := newMeteredCollector()
	labels := map[string]string{"operation": "read loans", "status": "success"}

	// act
	collector.RecordValue("librarystore_aggregates_materialized", 12, labels)
	collector.RecordValueContext(context.Background(), "librarystore_aggregates_materialized", 4, labels)

	// assert
	gauge, ok := collect(t, reader, "librarystore_aggregates_materialized").Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 4.0, gauge.DataPoints[0].Value, 0.0001)
}
