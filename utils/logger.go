package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// InfoLogger logs informational messages
	InfoLogger *zap.SugaredLogger
	// ErrorLogger logs error messages
	ErrorLogger *zap.SugaredLogger
	// DebugLogger logs debug messages
	DebugLogger *zap.SugaredLogger
)

// InitLogger initializes the loggers, one daily file per level under dir.
// Errors are mirrored to stderr.
func InitLogger(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	open := func(level string) (zapcore.WriteSyncer, error) {
		f, err := os.OpenFile(
			filepath.Join(dir, fmt.Sprintf("%s-%s.log", level, timestamp)),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0644,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s log file: %v", level, err)
		}
		return zapcore.AddSync(f), nil
	}

	infoFile, err := open("info")
	if err != nil {
		return err
	}
	errorFile, err := open("error")
	if err != nil {
		return err
	}
	debugFile, err := open("debug")
	if err != nil {
		return err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderCfg)

	build := func(ws zapcore.WriteSyncer, level zapcore.Level) *zap.SugaredLogger {
		core := zapcore.NewCore(encoder, ws, level)
		return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	}

	InfoLogger = build(infoFile, zapcore.InfoLevel)
	ErrorLogger = build(zapcore.NewMultiWriteSyncer(errorFile, zapcore.Lock(os.Stderr)), zapcore.ErrorLevel)
	DebugLogger = build(debugFile, zapcore.DebugLevel)

	return nil
}

// SyncLogger flushes buffered log entries
func SyncLogger() {
	for _, l := range []*zap.SugaredLogger{InfoLogger, ErrorLogger, DebugLogger} {
		if l != nil {
			_ = l.Sync()
		}
	}
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Infof(format, v...)
	}
}

// LogWarn logs a warning to the info log
func LogWarn(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Warnf(format, v...)
	}
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Errorf(format, v...)
	}
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	if DebugLogger != nil {
		DebugLogger.Debugf(format, v...)
	}
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip string, status int, duration time.Duration) {
	LogInfo("Request: %s %s from %s - Status: %d - Duration: %v", method, path, ip, status, duration)
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	if ErrorLogger != nil {
		ErrorLogger.Errorf("Error: %v\nStack Trace:\n%s", err, stack)
	}
}
