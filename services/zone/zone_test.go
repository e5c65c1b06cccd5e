package zone_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/config"
	"github.com/permaweb/permaweb-go/services/zone"
	"github.com/permaweb/permaweb-go/testnet"
	"github.com/permaweb/permaweb-go/types"
)

func newZoneSvc(t *testing.T) (*testnet.Network, *zone.ZoneSvc) {
	net := testnet.NewNetwork()
	t.Cleanup(net.Close)
	return net, zone.NewZoneSvc(net.Gateway(), zone.ZoneConfig{Src: config.DefaultZoneSrc, Version: "0.0.2"})
}

func TestZoneCreateUpdateGet(t *testing.T) {
	net, zs := newZoneSvc(t)
	ctx := context.Background()

	var statuses []string
	zoneId, err := zs.Create(ctx, types.ZoneCreateArgs{}, func(s string) { statuses = append(statuses, s) })
	require.NoError(t, err)
	require.Equal(t, []string{"Spawning process..."}, statuses)

	p, ok := net.Runtime.Process(zoneId)
	require.True(t, ok)
	onBoot, _ := types.GetTagValue(p.Tags, types.TagOnBoot)
	require.Equal(t, config.DefaultZoneSrc, onBoot)

	updateId, err := zs.Update(ctx, map[string]interface{}{"name": "Sample Zone"}, zoneId)
	require.NoError(t, err)
	require.NotEmpty(t, updateId)

	z, err := zs.Get(ctx, zoneId)
	require.NoError(t, err)
	require.Equal(t, zoneId, z.Id)
	require.Equal(t, map[string]interface{}{"name": "Sample Zone"}, z.Store)
	require.Empty(t, z.Assets)
	require.NotNil(t, z.Assets)
	require.Equal(t, 1, net.NodeReads())
}

func TestZoneGetFallsBackToInfo(t *testing.T) {
	net, zs := newZoneSvc(t)
	ctx := context.Background()

	zoneId, err := zs.Create(ctx, types.ZoneCreateArgs{}, nil)
	require.NoError(t, err)
	_, err = zs.Update(ctx, map[string]interface{}{"name": "Offline"}, zoneId)
	require.NoError(t, err)

	net.SetNodeOffline(true)
	dryRuns := net.Runtime.Calls(testnet.OpDryRun)

	z, err := zs.Get(ctx, zoneId)
	require.NoError(t, err)
	require.Equal(t, "Offline", z.Store["name"])
	require.Equal(t, dryRuns+1, net.Runtime.Calls(testnet.OpDryRun))
	require.Equal(t, 0, net.NodeReads())
}

func TestZoneUpdateMergesTopLevelKeys(t *testing.T) {
	_, zs := newZoneSvc(t)
	ctx := context.Background()

	zoneId, err := zs.Create(ctx, types.ZoneCreateArgs{}, nil)
	require.NoError(t, err)

	_, err = zs.Update(ctx, map[string]interface{}{
		"name":    "a",
		"profile": map[string]interface{}{"bio": "x", "links": []interface{}{"l1"}},
	}, zoneId)
	require.NoError(t, err)
	_, err = zs.Update(ctx, map[string]interface{}{"profile": map[string]interface{}{"bio": "y"}}, zoneId)
	require.NoError(t, err)

	z, err := zs.Get(ctx, zoneId)
	require.NoError(t, err)
	require.Equal(t, "a", z.Store["name"])
	require.Equal(t, map[string]interface{}{"bio": "y"}, z.Store["profile"])
}

func TestZoneCreateWithBootTags(t *testing.T) {
	_, zs := newZoneSvc(t)
	ctx := context.Background()

	zoneId, err := zs.Create(ctx, types.ZoneCreateArgs{
		Tags: []types.Tag{{Name: "Bootloader-Username", Value: "alice"}},
	}, nil)
	require.NoError(t, err)

	z, err := zs.Get(ctx, zoneId)
	require.NoError(t, err)
	require.Equal(t, "alice", z.Store["username"])
}

func TestZoneAppend(t *testing.T) {
	net, zs := newZoneSvc(t)
	ctx := context.Background()

	zoneId, err := zs.Create(ctx, types.ZoneCreateArgs{}, nil)
	require.NoError(t, err)

	_, err = zs.Append(ctx, "", map[string]interface{}{}, zoneId)
	require.True(t, xerrors.Is(err, types.ErrInvalidArgs))

	for _, id := range []string{"one", "two"} {
		_, err = zs.Append(ctx, "Log", map[string]interface{}{"id": id}, zoneId)
		require.NoError(t, err)
	}

	p, _ := net.Runtime.Process(zoneId)
	require.Len(t, p.Store["Log"], 2)
}

func TestZoneSetRolesValidation(t *testing.T) {
	net, zs := newZoneSvc(t)
	ctx := context.Background()
	zoneId := testnet.RandomId()
	grantee := testnet.RandomId()

	cases := []struct {
		name   string
		zoneId string
		roles  []types.ZoneRole
	}{
		{"bad zone", "zone", []types.ZoneRole{{GranteeId: grantee, Roles: []string{"Admin"}, Type: types.RoleTypeWallet}}},
		{"no roles", zoneId, nil},
		{"bad grantee", zoneId, []types.ZoneRole{{GranteeId: "someone", Roles: []string{"Admin"}, Type: types.RoleTypeWallet}}},
		{"bad type", zoneId, []types.ZoneRole{{GranteeId: grantee, Roles: []string{"Admin"}, Type: "user"}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := zs.SetRoles(ctx, c.roles, c.zoneId)
			require.Error(t, err)
			require.True(t, xerrors.Is(err, types.ErrInvalidArgs))
		})
	}
	require.Equal(t, 0, net.Runtime.TotalCalls())
}

func TestZoneSetRoles(t *testing.T) {
	_, zs := newZoneSvc(t)
	ctx := context.Background()

	zoneId, err := zs.Create(ctx, types.ZoneCreateArgs{}, nil)
	require.NoError(t, err)

	grantee := testnet.RandomId()
	_, err = zs.SetRoles(ctx, []types.ZoneRole{
		{GranteeId: grantee, Roles: []string{"Admin", "Moderator"}, Type: types.RoleTypeProcess},
	}, zoneId)
	require.NoError(t, err)

	z, err := zs.Get(ctx, zoneId)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{
		"roles": []interface{}{"Admin", "Moderator"},
		"type":  types.RoleTypeProcess,
	}, z.Roles[grantee])
}

func TestZoneUpdateVersion(t *testing.T) {
	net, zs := newZoneSvc(t)
	ctx := context.Background()
	net.Indexer.SetData(config.DefaultZoneSrc, []byte("-- zone source"))

	zoneId, err := zs.Create(ctx, types.ZoneCreateArgs{}, nil)
	require.NoError(t, err)

	_, err = zs.UpdateVersion(ctx, zoneId, nil)
	require.NoError(t, err)

	p, _ := net.Runtime.Process(zoneId)
	require.Equal(t, []string{"-- zone source"}, p.Evals)
	require.Equal(t, "0.0.2", p.Version)
	require.Equal(t, 1, p.PatchMapUpdates)

	z, err := zs.Get(ctx, zoneId)
	require.NoError(t, err)
	require.Equal(t, "0.0.2", z.Version)
}

func TestZoneSync(t *testing.T) {
	net, zs := newZoneSvc(t)
	ctx := context.Background()

	zoneId, err := zs.Create(ctx, types.ZoneCreateArgs{}, nil)
	require.NoError(t, err)
	_, err = zs.Update(ctx, map[string]interface{}{"name": "a", "stale": true, "same": "x"}, zoneId)
	require.NoError(t, err)

	messages := net.Runtime.Calls(testnet.OpMessage)
	_, err = zs.Sync(ctx, map[string]interface{}{"name": "b", "same": "x", "new": 1.0}, zoneId)
	require.NoError(t, err)
	require.Equal(t, messages+1, net.Runtime.Calls(testnet.OpMessage))

	z, err := zs.Get(ctx, zoneId)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"name": "b", "same": "x", "new": 1.0}, z.Store)

	id, err := zs.Sync(ctx, map[string]interface{}{"name": "b", "same": "x", "new": 1.0}, zoneId)
	require.NoError(t, err)
	require.Empty(t, id)
	require.Equal(t, messages+1, net.Runtime.Calls(testnet.OpMessage))
}
