package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/permaweb/permaweb-go/types"
)

type LruCacheSvc struct {
	mu     sync.RWMutex
	Caches map[string]*lru.Cache[string, []byte]
}

func NewLruCacheSvc() *LruCacheSvc {
	return &LruCacheSvc{
		Caches: make(map[string]*lru.Cache[string, []byte]),
	}
}

func (svc *LruCacheSvc) cache(name string) *lru.Cache[string, []byte] {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.Caches[name]
}

func (svc *LruCacheSvc) CreateCache(name string, capacity int) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.Caches[name] != nil {
		return types.Wrapf(types.ErrInvalidArgs, "the cache [%s] is existing already", name)
	}

	c, err := lru.New[string, []byte](capacity)
	if err != nil {
		return types.Wrap(types.ErrInvalidArgs, err)
	}
	svc.Caches[name] = c

	return nil
}

func (svc *LruCacheSvc) Get(name string, key string) ([]byte, error) {
	cache := svc.cache(name)
	if cache == nil {
		return nil, types.Wrapf(types.ErrNotFound, "the cache [%s] not found", name)
	}

	value, ok := cache.Get(key)
	if !ok {
		return nil, types.ErrCacheMiss
	}
	return value, nil
}

func (svc *LruCacheSvc) Put(name string, key string, value []byte) {
	cache := svc.cache(name)
	if cache == nil {
		log.Errorf("the cache [%s] not found", name)
		return
	}

	cache.Add(key, value)
}

func (svc *LruCacheSvc) Evict(name string, key string) {
	cache := svc.cache(name)
	if cache == nil {
		log.Errorf("the cache [%s] not found", name)
		return
	}

	cache.Remove(key)
}

func (svc *LruCacheSvc) GetSize(name string) int {
	cache := svc.cache(name)
	if cache == nil {
		log.Errorf("the cache [%s] not found", name)

		return 0
	}
	return cache.Len()
}

func (svc *LruCacheSvc) ReSize(name string, capacity int) error {
	cache := svc.cache(name)
	if cache == nil {
		return types.Wrapf(types.ErrNotFound, "the cache [%s] not found", name)
	}
	if capacity < 1 {
		return types.Wrapf(types.ErrInvalidArgs, "invalid capacity %d", capacity)
	}

	if evicted := cache.Resize(capacity); evicted > 0 {
		log.Debugf("cache [%s] resized to %d, %d entries evicted", name, capacity, evicted)
	}

	return nil
}
