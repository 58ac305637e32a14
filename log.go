package corevk

import "go.uber.org/zap"

// newLogger builds the per-Device logger. The teacher opens three os.File
// loggers on BaseCore (info/error/warn); this module keeps one structured
// logger instead and lets zap's levels stand in for the three files.
func newLogger() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar()
}

// destroyLogf is used on destruction paths, which per the error-handling
// policy never return an error but may log an impossible state.
func destroyLogf(log *zap.SugaredLogger, format string, args ...interface{}) {
	if log == nil {
		return
	}
	log.Warnf(format, args...)
}
