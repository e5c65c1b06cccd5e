package cache

import (
	"github.com/bradfitz/gomemcache/memcache"

	"github.com/permaweb/permaweb-go/types"
)

type MemcachedCacheSvc struct {
	Client     *memcache.Client
	Expiration int32
}

func NewMemcachedCacheSvc(conn string) *MemcachedCacheSvc {
	log.Infof("init memcache client: %v", conn)

	return &MemcachedCacheSvc{
		Client: memcache.New(conn),
	}
}

func (svc *MemcachedCacheSvc) CreateCache(name string, capacity int) error {
	return nil
}

func (svc *MemcachedCacheSvc) Get(name string, key string) ([]byte, error) {
	item, err := svc.Client.Get(cacheKey(name, key))
	if err == memcache.ErrCacheMiss {
		return nil, types.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

func (svc *MemcachedCacheSvc) Put(name string, key string, value []byte) {
	err := svc.Client.Set(&memcache.Item{
		Key:        cacheKey(name, key),
		Value:      value,
		Expiration: svc.Expiration,
	})
	if err != nil {
		log.Error(err.Error())
	}
}

func (svc *MemcachedCacheSvc) Evict(name string, key string) {
	err := svc.Client.Delete(cacheKey(name, key))
	if err != nil && err != memcache.ErrCacheMiss {
		log.Error(err.Error())
	}
}

func (svc *MemcachedCacheSvc) GetSize(name string) int {
	log.Warn("depends on memcache capacity")

	return -1
}

func (svc *MemcachedCacheSvc) ReSize(name string, capacity int) error {
	log.Warn("unsupport operation, depends on memcache capacity")

	return nil
}
