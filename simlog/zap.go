package simlog

import "go.uber.org/zap"

// ZapLogger adapts *zap.SugaredLogger to Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(z *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: z.Sugar()}
}

// NewProductionLogger builds a ZapLogger using zap's production config
// (JSON output, info level).
func NewProductionLogger() (*ZapLogger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(z), nil
}

// NewDevelopmentLogger builds a ZapLogger using zap's development config
// (console output, debug level, caller info).
func NewDevelopmentLogger() (*ZapLogger, error) {
	z, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(z), nil
}

func (l *ZapLogger) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *ZapLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }
func (l *ZapLogger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *ZapLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }

// Sync flushes any buffered log entries; callers should defer this at
// process shutdown.
func (l *ZapLogger) Sync() error { return l.sugar.Sync() }
