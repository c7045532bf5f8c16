package resource

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	leaked   []any
	leakedMu sync.Mutex
)

// Leak keeps v reachable until the process exits. Nothing removes it and its
// destructor never runs.
func Leak(v any) {
	leakedMu.Lock()
	defer leakedMu.Unlock()

	leaked = append(leaked, v)
	Logger().Debug("value leaked",
		zap.String("type", fmt.Sprintf("%T", v)),
		zap.Int("leaked", len(leaked)))
}

// Leaked returns the number of values passed to Leak.
func Leaked() int {
	leakedMu.Lock()
	defer leakedMu.Unlock()
	return len(leaked)
}
