package stripe

import (
	"fmt"

	"go.uber.org/zap"
)

// leveledLogger adapts zap to stripe.LeveledLoggerInterface and scrubs the
// secret key from every line the client library emits.
type leveledLogger struct {
	sugar *zap.SugaredLogger
	scrub func(string) string
}

func newLeveledLogger(logger *zap.Logger, scrub func(string) string) *leveledLogger {
	return &leveledLogger{
		sugar: logger.Named("stripe").WithOptions(zap.AddCallerSkip(1)).Sugar(),
		scrub: scrub,
	}
}

func (l *leveledLogger) Debugf(format string, v ...interface{}) {
	l.sugar.Debug(l.scrub(fmt.Sprintf(format, v...)))
}

func (l *leveledLogger) Infof(format string, v ...interface{}) {
	l.sugar.Info(l.scrub(fmt.Sprintf(format, v...)))
}

func (l *leveledLogger) Warnf(format string, v ...interface{}) {
	l.sugar.Warn(l.scrub(fmt.Sprintf(format, v...)))
}

func (l *leveledLogger) Errorf(format string, v ...interface{}) {
	l.sugar.Error(l.scrub(fmt.Sprintf(format, v...)))
}
