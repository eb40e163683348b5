// sijil-crm/internal/handlers/cache.go
package handlers

import (
	"log/slog"
	"time"

	"sijil-crm/config"
)

const recordsCacheKey = "records:all"

const recordsCacheTTL = 5 * time.Minute

// cachedRecordsJSON returns the cached serialized record list, or nil when
// Redis is disabled or the key is cold.
func cachedRecordsJSON() []byte {
	if config.RDB == nil {
		return nil
	}
	data, err := config.RDB.Get(config.Ctx, recordsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	slog.Debug("record list served from cache")
	return data
}

func storeRecordsCache(data []byte) {
	if config.RDB == nil {
		return
	}
	if err := config.RDB.Set(config.Ctx, recordsCacheKey, data, recordsCacheTTL).Err(); err != nil {
		slog.Warn("failed to cache record list", "error", err)
	}
}

// invalidateRecordsCache drops the cached list. Called after every mutation
// so readers never observe stale colors or balances.
func invalidateRecordsCache() {
	if config.RDB == nil {
		return
	}
	if err := config.RDB.Del(config.Ctx, recordsCacheKey).Err(); err != nil {
		slog.Warn("failed to invalidate record list cache", "error", err)
	}
}
