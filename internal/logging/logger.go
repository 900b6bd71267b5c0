// Package logging provides a logging abstraction that decouples the
// application from the underlying logging framework.
package logging

import "sync"

// Logger is the structured logging interface used throughout the application.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log message.
type Field struct {
	Key   string
	Value interface{}
}

// Standardized field names, so log output stays filterable.
const (
	FieldStrategy  = "strategy"
	FieldCount     = "count"
	FieldMerchant  = "merchant"
	FieldAmount    = "amount"
	FieldTxID      = "transaction_id"
	FieldGroupID   = "group_id"
	FieldCategory  = "category"
	FieldFile      = "file_path"
	FieldReason    = "reason"
	FieldLine      = "line"
	FieldYear      = "statement_year"
)

var (
	defaultLogger Logger = NewLogrusAdapter("info", "text")
	defaultMu     sync.RWMutex
)

// GetLogger returns the process-wide default logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process-wide default logger.
func SetLogger(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}
