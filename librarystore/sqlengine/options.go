package sqlengine

import (
	"fmt"

	"github.com/AntonStoeckl/relational-library-store-go/librarystore"
)

// Option defines a functional option for configuring a Store.
type Option func(*Store) error

// WithDialect sets the goqu dialect used to render statements (DialectPostgres or DialectSQLite).
func WithDialect(name string) Option {
	return func(s *Store) error {
		switch name {
		case "":
			return librarystore.ErrEmptyDialect
		case DialectPostgres, DialectSQLite:
			s.useDialect(name)
			return nil
		default:
			return fmt.Errorf("unsupported sql dialect %q", name)
		}
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: aggregate counts, committed and aborted write plans (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger librarystore.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// It takes precedence over the plain logger and receives the operation's context with every record.
func WithContextualLogger(logger librarystore.ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// The collector will receive query and write plan durations, plan outcomes and database errors.
// Collectors that implement librarystore.ContextualMetricsCollector receive the operation's context.
func WithMetrics(collector librarystore.MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
// Every query and every write plan runs inside a span; the span's context is passed on to
// loggers and metrics collectors so that their records can be correlated.
func WithTracing(collector librarystore.TracingCollector) Option {
	return func(s *Store) error {
		s.tracingCollector = collector
		return nil
	}
}
