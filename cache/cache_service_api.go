package cache

import (
	logging "github.com/ipfs/go-log/v2"
)

// CacheSvcApi is a set of named caches holding encoded values. Get answers a
// missing key with types.ErrCacheMiss.
type CacheSvcApi interface {
	CreateCache(name string, capacity int) error
	Get(name string, key string) ([]byte, error)
	Put(name string, key string, value []byte)
	Evict(name string, key string)
	GetSize(name string) int
	ReSize(name string, capacity int) error
}

var log = logging.Logger("cache")
