package client_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/client"
	"github.com/permaweb/permaweb-go/config"
	"github.com/permaweb/permaweb-go/testnet"
	"github.com/permaweb/permaweb-go/types"
)

func newClient(t *testing.T, deps client.Deps) (*testnet.Network, *client.PermawebClient) {
	net := testnet.NewNetwork()
	t.Cleanup(net.Close)

	cfg := net.Config()
	cfg.Cache.EnableCache = true
	if deps.Runtime == nil {
		deps.Runtime = net.Runtime
	}
	pc, err := client.NewPermawebClient(cfg, deps)
	require.NoError(t, err)
	return net, pc
}

func TestClientProfileAndZone(t *testing.T) {
	net := testnet.NewNetwork()
	t.Cleanup(net.Close)
	pc, err := client.NewPermawebClient(net.Config(), client.Deps{Runtime: net.Runtime, Signer: net.Signer, Ledger: net.Ledger})
	require.NoError(t, err)
	ctx := context.Background()

	profileId, err := pc.CreateProfile(ctx, types.ProfileArgs{
		Username:    "alice",
		DisplayName: "Alice",
		Description: "hello",
	}, nil)
	require.NoError(t, err)

	p, err := pc.GetProfileById(ctx, profileId)
	require.NoError(t, err)
	require.Equal(t, "alice", p.Username)
	require.Equal(t, "Alice", p.DisplayName)

	_, err = pc.UpdateZone(ctx, map[string]interface{}{"theme": "dark"}, profileId)
	require.NoError(t, err)
	z, err := pc.GetZone(ctx, profileId)
	require.NoError(t, err)
	require.Equal(t, "dark", z.Store["theme"])
	require.Equal(t, "alice", z.Store["username"])
}

func TestClientReadOnly(t *testing.T) {
	net, pc := newClient(t, client.Deps{})
	ctx := context.Background()

	_, err := pc.CreateZone(ctx, types.ZoneCreateArgs{}, nil)
	require.True(t, xerrors.Is(err, types.ErrNoSigner))
	_, err = pc.ResolveTransaction(ctx, "data:text/plain;base64,aGk=")
	require.True(t, xerrors.Is(err, types.ErrNoLedger))

	zoneId := testnet.RandomId()
	net.Runtime.AddProcess(zoneId, testnet.RandomId(), []types.Tag{{Name: types.TagDataProtocol, Value: types.ProtocolZone}})
	z, err := pc.GetZone(ctx, zoneId)
	require.NoError(t, err)
	require.Equal(t, zoneId, z.Id)
	require.Empty(t, z.Store)
}

func TestClientAssetWithComments(t *testing.T) {
	net := testnet.NewNetwork()
	t.Cleanup(net.Close)
	cfg := net.Config()
	cfg.Cache.EnableCache = true
	pc, err := client.NewPermawebClient(cfg, client.Deps{Runtime: net.Runtime, Signer: net.Signer, Ledger: net.Ledger})
	require.NoError(t, err)
	ctx := context.Background()

	creator := net.Signer.Address()
	assetId, err := pc.CreateAtomicAsset(ctx, types.AssetCreateArgs{
		Name:          "Song",
		Topics:        []string{"music"},
		Creator:       creator,
		Data:          "la la la",
		ContentType:   "text/plain",
		AssetType:     types.TypeDocument,
		SpawnComments: true,
		Users:         []string{creator},
	}, nil)
	require.NoError(t, err)

	a, err := pc.GetAtomicAsset(ctx, assetId)
	require.NoError(t, err)
	require.Equal(t, "Song", a.Title)
	commentsId, ok := a.Metadata["comments"].(string)
	require.True(t, ok)

	commentId, err := pc.AddComment(ctx, types.ProcessCommentArgs{CommentsId: commentsId, Content: "nice"})
	require.NoError(t, err)
	_, err = pc.PinComment(ctx, commentsId, commentId)
	require.NoError(t, err)

	comments, err := pc.GetComments(ctx, types.CommentFilter{CommentsId: commentsId})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "nice", comments[0].Content)
	require.True(t, comments[0].Pinned)
}

func TestClientCacheCapacity(t *testing.T) {
	net := testnet.NewNetwork()
	t.Cleanup(net.Close)
	cfg := net.Config()
	cfg.Cache.EnableCache = true
	cfg.Cache.CacheCapacity = 1
	pc, err := client.NewPermawebClient(cfg, client.Deps{Runtime: net.Runtime, Signer: net.Signer, Ledger: net.Ledger})
	require.NoError(t, err)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"First", "Second"} {
		id, err := pc.CreateAtomicAsset(ctx, types.AssetCreateArgs{
			Name:        name,
			Topics:      []string{"music"},
			Creator:     net.Signer.Address(),
			Data:        name,
			ContentType: "text/plain",
			AssetType:   types.TypeDocument,
		}, nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	for _, id := range ids {
		_, err = pc.GetAtomicAsset(ctx, id)
		require.NoError(t, err)
	}
	requests := net.Indexer.Requests()
	_, err = pc.GetAtomicAsset(ctx, ids[1])
	require.NoError(t, err)
	require.Equal(t, requests, net.Indexer.Requests())

	_, err = pc.GetAtomicAsset(ctx, ids[0])
	require.NoError(t, err)
	require.Greater(t, net.Indexer.Requests(), requests)

	for _, content := range []string{"aGk=", "eW8=", "aGk="} {
		_, err = pc.ResolveTransaction(ctx, "data:text/plain;base64,"+content)
		require.NoError(t, err)
	}
	require.Len(t, net.Ledger.Uploads(), 3)
}

func TestClientFromRepo(t *testing.T) {
	net := testnet.NewNetwork()
	t.Cleanup(net.Close)

	repo := filepath.Join(t.TempDir(), "repo")
	pc, err := client.NewPermawebClientFromRepo(repo, client.Deps{Runtime: net.Runtime})
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), pc.Cfg)
	_, err = os.Stat(filepath.Join(repo, "config.toml"))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.AO.CollectionsRegistry = testnet.RandomId()
	cfg.Poll.RequestsPerSecond = 5
	require.NoError(t, pc.SaveConfig(cfg))

	reloaded, err := client.NewPermawebClientFromRepo(repo, client.Deps{Runtime: net.Runtime})
	require.NoError(t, err)
	require.Equal(t, cfg, reloaded.Cfg)
}

func TestClientRequiresConnectEndpoints(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Connect.CU = ""
	_, err := client.NewPermawebClient(cfg, client.Deps{})
	require.Error(t, err)

	cfg = config.DefaultConfig()
	cfg.Cache = config.Cache{EnableCache: true, Backend: "disk"}
	_, err = client.NewPermawebClient(cfg, client.Deps{})
	require.True(t, xerrors.Is(err, types.ErrInvalidConfig))
}

func TestCurrentZoneVersion(t *testing.T) {
	require.Equal(t, config.DefaultZoneVersion, client.CurrentZoneVersion)
}
