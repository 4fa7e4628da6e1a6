package sqlengine

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

const (
	logMsgAcquireFailed      = "failed to acquire database connection"
	logMsgReleaseFailed      = "failed to release database connection"
	logMsgBuildQueryFailed   = "failed to build sql statement"
	logMsgQueryFailed        = "database query execution failed"
	logMsgExecFailed         = "database statement execution failed"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgMaterializeFailed  = "failed to materialize aggregates from rows"
	logMsgBeginFailed        = "failed to begin transaction"
	logMsgCommitFailed       = "failed to commit transaction"
	logMsgRollbackFailed     = "failed to roll back transaction"
	logMsgPlanFailed         = "write plan failed"
	logMsgPlanAborted        = "write plan aborted"
	logMsgPlanCommitted      = "write plan committed"
	logMsgStepSkipped        = "write plan step skipped"
	logMsgSQLExecuted        = "executed sql for: "
	logMsgOperation          = "library store operation: "

	logAttrError          = "error"
	logAttrQuery          = "query"
	logAttrOperation      = "operation"
	logAttrDurationMS     = "duration_ms"
	logAttrRowsAffected   = "rows_affected"
	logAttrAggregateCount = "aggregate_count"
	logAttrID             = "id"
	logAttrPlan           = "plan"
	logAttrPlanID         = "plan_id"
	logAttrStep           = "step"
	logAttrReason         = "reason"

	metricQueryDuration          = "librarystore_query_duration_seconds"
	metricAggregatesMaterialized = "librarystore_aggregates_materialized"
	metricPlanDuration           = "librarystore_write_plan_duration_seconds"
	metricPlans                  = "librarystore_write_plans_total"
	metricDatabaseErrors         = "librarystore_database_errors_total"

	labelOperation = "operation"
	labelStatus    = "status"
	labelErrorType = "error_type"

	statusSuccess   = "success"
	statusError     = "error"
	statusCommitted = "committed"
	statusAborted   = "aborted"
	statusFailed    = "failed"

	errorTypeConnection = "connection"
	errorTypeQuery      = "query"
	errorTypeExec       = "exec"
	errorTypeMapping    = "mapping"
	errorTypeBegin      = "begin"
	errorTypeCommit     = "commit"
	errorTypeStep       = "step"

	operationAcquire = "acquire"

	spanNameQuery     = "librarystore.query"
	spanNameExec      = "librarystore.exec"
	spanNameWritePlan = "librarystore.write_plan"

	spanAttrOperation      = "operation"
	spanAttrPlanID         = "plan_id"
	spanAttrErrorType      = "error_type"
	spanAttrAggregateCount = "aggregate_count"
	spanAttrRowsAffected   = "rows_affected"
)

var (
	errStoreClosed   = errors.New("store is closed")
	errNoGeneratedID = errors.New("insert returned no generated id")
)

// logQueryWithDuration logs SQL statements with execution time at debug level if a logger is configured.
func (s *Store) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	case s.logger != nil:
		s.logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (s *Store) logOperation(ctx context.Context, action string, args ...any) {
	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	case s.logger != nil:
		s.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues at warn level if a logger is configured.
func (s *Store) logWarn(ctx context.Context, message string, args ...any) {
	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.WarnContext(ctx, message, args...)
	case s.logger != nil:
		s.logger.Warn(message, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (s *Store) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
	case s.logger != nil:
		s.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordErrorMetrics counts a database error if a metrics collector is configured.
func (s *Store) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    statusError,
		labelErrorType: errorType,
	}

	if contextualCollector, ok := s.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
}

// recordDurationMetrics records a duration if a metrics collector is configured.
func (s *Store) recordDurationMetrics(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    status,
	}

	if contextualCollector, ok := s.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metricName, duration, labels)
}

// recordValueMetrics records a value if a metrics collector is configured.
func (s *Store) recordValueMetrics(ctx context.Context, metricName string, value float64, operation, status string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    status,
	}

	if contextualCollector, ok := s.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		return
	}

	s.metricsCollector.RecordValue(metricName, value, labels)
}

// recordPlanOutcome counts a finished write plan and records its duration.
func (s *Store) recordPlanOutcome(ctx context.Context, plan string, status string, duration time.Duration) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: plan,
		labelStatus:    status,
	}

	if contextualCollector, ok := s.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricPlans, labels)
	} else {
		s.metricsCollector.IncrementCounter(metricPlans, labels)
	}

	s.recordDurationMetrics(ctx, metricPlanDuration, duration, plan, status)
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (s *Store) startTraceSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, librarystore.SpanContext) {
	if s.tracingCollector == nil {
		return ctx, nil
	}

	return s.tracingCollector.StartSpan(ctx, name, attrs)
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (s *Store) finishTraceSpan(span librarystore.SpanContext, status string, attrs map[string]string) {
	if s.tracingCollector != nil && span != nil {
		s.tracingCollector.FinishSpan(span, status, attrs)
	}
}

// finishTraceSpanError finishes a span of a failed operation.
func (s *Store) finishTraceSpanError(span librarystore.SpanContext, errorType string) {
	s.finishTraceSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}
