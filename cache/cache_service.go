package cache

import (
	"github.com/permaweb/permaweb-go/config"
	"github.com/permaweb/permaweb-go/types"
)

const (
	BackendLru       = "lru"
	BackendRedis     = "redis"
	BackendMemcached = "memcached"
)

// NewCacheSvc builds the backend selected by cfg, or returns nil when caching
// is disabled.
func NewCacheSvc(cfg config.Cache) (CacheSvcApi, error) {
	if !cfg.EnableCache {
		return nil, nil
	}

	switch cfg.Backend {
	case "", BackendLru:
		return NewLruCacheSvc(), nil
	case BackendRedis:
		if cfg.RedisConn == "" {
			return nil, types.Wrapf(types.ErrInvalidConfig, "redis cache requires RedisConn")
		}
		return NewRedisCacheSvc(cfg.RedisConn, cfg.RedisPassword, cfg.RedisPoolSize), nil
	case BackendMemcached:
		if cfg.MemcachedConn == "" {
			return nil, types.Wrapf(types.ErrInvalidConfig, "memcached cache requires MemcachedConn")
		}
		return NewMemcachedCacheSvc(cfg.MemcachedConn), nil
	}
	return nil, types.Wrapf(types.ErrInvalidConfig, "unknown cache backend %q", cfg.Backend)
}
