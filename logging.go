package archprobe

import (
	"sync"

	"go.uber.org/zap"
)

// Package-level logger for sweep diagnostics ("step skipped", engine
// summaries). Defaults to a nop logger so the library is silent unless a
// host installs one.
var (
	logMu       sync.RWMutex
	probeLogger = zap.NewNop()
)

// SetLogger installs the logger used for sweep diagnostics. Passing nil
// restores the nop logger.
func SetLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	probeLogger = l
}

func logger() *zap.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return probeLogger
}
