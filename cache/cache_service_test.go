package cache

import (
	"testing"

	"github.com/permaweb/permaweb-go/config"
	"github.com/permaweb/permaweb-go/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestLruCache(t *testing.T) {
	svc := NewLruCacheSvc()

	require.NoError(t, svc.CreateCache("test1", 3))
	require.NoError(t, svc.CreateCache("test2", 2))
	require.Error(t, svc.CreateCache("test1", 3))

	svc.Put("test1", "aaa", []byte("100"))
	svc.Put("test1", "bbb", []byte("200"))
	svc.Put("test1", "ccc", []byte("300"))

	data, err := svc.Get("test1", "aaa")
	require.NoError(t, err)
	require.Equal(t, "100", string(data))

	data, err = svc.Get("test1", "ccc")
	require.NoError(t, err)
	require.Equal(t, "300", string(data))

	svc.Put("test1", "ddd", []byte("400"))

	data, err = svc.Get("test1", "ddd")
	require.NoError(t, err)
	require.Equal(t, "400", string(data))
	require.Equal(t, 3, svc.GetSize("test1"))

	_, err = svc.Get("test1", "bbb")
	require.True(t, xerrors.Is(err, types.ErrCacheMiss))

	svc.Put("test2", "eee", []byte("e"))
	svc.Put("test2", "fff", []byte("f"))
	svc.Put("test2", "ggg", []byte("g"))
	require.Equal(t, 2, svc.GetSize("test2"))

	svc.Evict("test2", "ggg")
	require.Equal(t, 1, svc.GetSize("test2"))

	require.NoError(t, svc.ReSize("test1", 1))
	require.Equal(t, 1, svc.GetSize("test1"))
	data, err = svc.Get("test1", "ddd")
	require.NoError(t, err)
	require.Equal(t, "400", string(data))

	_, err = svc.Get("missing", "aaa")
	require.True(t, xerrors.Is(err, types.ErrNotFound))
	require.Equal(t, 0, svc.GetSize("missing"))
}

func TestNewCacheSvc(t *testing.T) {
	svc, err := NewCacheSvc(config.Cache{EnableCache: false})
	require.NoError(t, err)
	require.Nil(t, svc)

	svc, err = NewCacheSvc(config.Cache{EnableCache: true, Backend: BackendLru})
	require.NoError(t, err)
	require.IsType(t, &LruCacheSvc{}, svc)

	_, err = NewCacheSvc(config.Cache{EnableCache: true, Backend: BackendRedis})
	require.True(t, xerrors.Is(err, types.ErrInvalidConfig))

	_, err = NewCacheSvc(config.Cache{EnableCache: true, Backend: "disk"})
	require.True(t, xerrors.Is(err, types.ErrInvalidConfig))
}
