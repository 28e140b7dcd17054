package common

import (
	"tyrehub/catalog/internal/config"
	"tyrehub/catalog/internal/logging"
)

const redisKeyPrefix = "tyrehub:"

// NewBackends picks the shared cache and the import run lock. With redis
// configured both live in redis so several processes see the same state;
// otherwise they are process-local.
func NewBackends(cfg config.RedisConfig) (CacheInterface, RunLock) {
	if !cfg.Enabled() {
		logging.Info("Redis not configured, using in-memory cache and local run lock")
		return NewCacheService(0, 600), NewLocalRunLock()
	}

	client := NewRedisClient(cfg)
	return NewRedisCacheService(client, redisKeyPrefix+"cache:"), NewRedisRunLock(client, redisKeyPrefix+"lock:")
}
