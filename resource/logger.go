package resource

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the resource package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the resource package's logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

type logObserver struct {
	log *zap.Logger
}

// LogObserver returns an Observer that writes every event to l at debug level.
func LogObserver(l *zap.Logger) Observer {
	return &logObserver{log: l}
}

func (o *logObserver) OnResourceEvent(e Event) {
	o.log.Debug("resource "+e.Type.String(),
		zap.Uint32("handle", uint32(e.Handle)),
		zap.Uint32("type_id", e.TypeID),
		zap.Uint32("refs", e.Refs))
}
