package model

// Logger receives solver traces. Solvers default to a no-op logger.
type Logger interface {
	Print(v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Print(v ...interface{}) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return noopLogger{} }
