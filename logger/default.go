package logger

// defaultLogger backs the package-level logging functions. Library code
// reaches it through GetLogger, so an application keeps one shared
// logger across the go-cec packages unless it installs its own.
var defaultLogger = NewSlog(InfoLevel, false)

// Debug logs a message to the default logger at DebugLevel.
func Debug(msg string, keysAndValues ...any) {
	defaultLogger.Debug(msg, keysAndValues...)
}

// Info logs a message to the default logger at InfoLevel.
func Info(msg string, keysAndValues ...any) {
	defaultLogger.Info(msg, keysAndValues...)
}

// Warn logs a message to the default logger at WarnLevel.
func Warn(msg string, keysAndValues ...any) {
	defaultLogger.Warn(msg, keysAndValues...)
}

// Error logs a message to the default logger at ErrorLevel.
func Error(msg string, keysAndValues ...any) {
	defaultLogger.Error(msg, keysAndValues...)
}

// Fatal logs a message to the default logger, then exits the process.
func Fatal(msg string, keysAndValues ...any) {
	defaultLogger.Fatal(msg, keysAndValues...)
}

// SetLevel adjusts the default logger's minimum enabled level.
func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// GetLogger returns the default logger.
func GetLogger() Logger {
	return defaultLogger
}

// With returns a child of the default logger carrying the extra
// key-value context.
func With(keyValues ...any) Logger {
	return defaultLogger.With(keyValues...)
}
