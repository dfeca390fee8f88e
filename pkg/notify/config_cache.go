package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/ecosense/notifsync/pkg/common"
)

// loadConfigIfNeeded fetches the user's preference matrix unless it was
// already loaded for this exact credential. A re-login produces a new
// credential and invalidates the memo. On fetch failure the previous config
// (or none, meaning allow-all) stays in effect and the memo is not advanced,
// so the next start retries.
func (e *Engine) loadConfigIfNeeded(ctx context.Context, credential string) {
	e.mu.Lock()
	loaded := credential == e.configCredential
	e.mu.Unlock()
	if loaded || e.configSource == nil {
		return
	}

	logger := common.GetLoggerWith(
		common.LoggerNameNotifyEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryUserConfig),
	)

	config, err := e.configSource.FetchConfig(ctx, credential)
	if err != nil {
		logger.Warn("Config fetch failed, allowing all until it succeeds", zap.Error(err))
		return
	}

	e.mu.Lock()
	e.config = config
	e.configCredential = credential
	e.mu.Unlock()

	logger.Info("User notification config loaded", zap.Int("keys", len(config)))
}
