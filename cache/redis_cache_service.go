package cache

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/permaweb/permaweb-go/types"
)

type RedisCacheSvc struct {
	Ctx    context.Context
	Client redis.Cmdable
	TTL    time.Duration
}

func NewRedisCacheSvc(conn string, password string, poolSize int) *RedisCacheSvc {
	log.Infof("init redis client: %v", conn)

	if poolSize < 1 {
		poolSize = 4 * runtime.NumCPU()
	}
	var cli redis.Cmdable
	if strings.Contains(conn, ",") {
		cli = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    strings.Split(conn, ","),
			Password: password,
			PoolSize: poolSize,
		})
	} else {
		cli = redis.NewClient(&redis.Options{
			Addr:     conn,
			Password: password,
			PoolSize: poolSize,
		})
	}

	return &RedisCacheSvc{
		Client: cli,
		Ctx:    context.Background(),
	}
}

func cacheKey(name string, key string) string {
	return name + "_" + key
}

func (svc *RedisCacheSvc) CreateCache(name string, capacity int) error {
	return nil
}

func (svc *RedisCacheSvc) Get(name string, key string) ([]byte, error) {
	value, err := svc.Client.Get(svc.Ctx, cacheKey(name, key)).Bytes()
	if err == redis.Nil {
		return nil, types.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (svc *RedisCacheSvc) Put(name string, key string, value []byte) {
	_, err := svc.Client.Set(svc.Ctx, cacheKey(name, key), value, svc.TTL).Result()
	if err != nil {
		log.Error(err.Error())
	}
}

func (svc *RedisCacheSvc) Evict(name string, key string) {
	_, err := svc.Client.Del(svc.Ctx, cacheKey(name, key)).Result()
	if err != nil {
		log.Error(err.Error())
	}
}

func (svc *RedisCacheSvc) GetSize(name string) int {
	log.Warn("depends on redis capacity")

	return -1
}

func (svc *RedisCacheSvc) ReSize(name string, capacity int) error {
	log.Warn("unsupport operation, depends on redis capacity")

	return nil
}
