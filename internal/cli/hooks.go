package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks forwards pipeline, cache, and HTTP events to a logger at debug
// level. It is installed by SetLogLevel when --verbose is given.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnSettleStart(_ context.Context, brickCount int) {
	h.logger.Debug("settle started", "bricks", brickCount)
}

func (h *logHooks) OnSettleComplete(_ context.Context, moved int, d time.Duration, err error) {
	h.logger.Debug("settle finished", "moved", moved, "duration", d, "err", err)
}

func (h *logHooks) OnBuildStart(_ context.Context, brickCount int) {
	h.logger.Debug("support build started", "bricks", brickCount)
}

func (h *logHooks) OnBuildComplete(_ context.Context, edgeCount int, d time.Duration, err error) {
	h.logger.Debug("support build finished", "edges", edgeCount, "duration", d, "err", err)
}

func (h *logHooks) OnAnalyzeStart(_ context.Context, brickCount, workers int) {
	h.logger.Debug("cascade analysis started", "bricks", brickCount, "workers", workers)
}

func (h *logHooks) OnAnalyzeComplete(_ context.Context, safe, total int, d time.Duration, err error) {
	h.logger.Debug("cascade analysis finished", "safe", safe, "total", total, "duration", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache write", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *logHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Debug("handler error", "method", method, "path", path, "err", err)
}
