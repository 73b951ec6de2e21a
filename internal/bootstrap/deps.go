package bootstrap

import (
	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/service/stats"
	"github.com/Domenick1991/flightdesk/internal/store"
)

// WatermarkStore picks the configured watermark backend. The returned close
// func is always non-nil.
func WatermarkStore(cfg config.StatsConfig, redisCache *cache.RedisCache) (stats.WatermarkStore, func() error, error) {
	if cfg.WatermarkBackend == config.WatermarkBackendBolt {
		s, err := store.Open(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return redisCache, func() error { return nil }, nil
}
