package comment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/config"
	"github.com/permaweb/permaweb-go/services/asset"
	"github.com/permaweb/permaweb-go/services/comment"
	"github.com/permaweb/permaweb-go/services/zone"
	"github.com/permaweb/permaweb-go/testnet"
	"github.com/permaweb/permaweb-go/types"
)

func newCommentSvc(t *testing.T) (*testnet.Network, *asset.AssetSvc, *comment.CommentSvc) {
	net := testnet.NewNetwork()
	t.Cleanup(net.Close)

	gateway := net.Gateway()
	assets := asset.NewAssetSvc(gateway, config.DefaultAssetSrc, nil, 0)
	zones := zone.NewZoneSvc(gateway, zone.ZoneConfig{Src: config.DefaultZoneSrc})
	comments := comment.NewCommentSvc(assets, zones, "")
	assets.SetCommentsCreator(comments)
	return net, assets, comments
}

func TestCommentThreading(t *testing.T) {
	_, assets, cs := newCommentSvc(t)
	ctx := context.Background()
	creator := testnet.RandomId()

	assetId, err := assets.Create(ctx, types.AssetCreateArgs{
		Name:        "Root",
		Topics:      []string{"art"},
		Creator:     creator,
		Data:        "root content",
		ContentType: "text/plain",
		AssetType:   types.TypeDocument,
	}, nil)
	require.NoError(t, err)

	c1, err := cs.Create(ctx, types.CommentCreateArgs{Content: "first", Creator: creator, ParentId: assetId, RootId: assetId}, nil)
	require.NoError(t, err)
	c2, err := cs.Create(ctx, types.CommentCreateArgs{Content: "reply", Creator: creator, ParentId: c1, RootId: assetId}, nil)
	require.NoError(t, err)

	thread, err := cs.GetComments(ctx, types.CommentFilter{RootId: assetId})
	require.NoError(t, err)
	require.Len(t, thread, 2)
	require.Equal(t, c1, thread[0].Id)
	require.Equal(t, "first", thread[0].Content)
	require.Equal(t, assetId, thread[0].ParentId)
	require.Equal(t, c2, thread[1].Id)
	require.Equal(t, "reply", thread[1].Content)
	require.Equal(t, c1, thread[1].ParentId)
	require.Equal(t, assetId, thread[1].RootId)
	require.Equal(t, creator, thread[1].Creator)

	direct, err := cs.GetComments(ctx, types.CommentFilter{ParentId: assetId})
	require.NoError(t, err)
	require.Len(t, direct, 1)
	require.Equal(t, c1, direct[0].Id)

	_, err = cs.GetComments(ctx, types.CommentFilter{})
	require.True(t, xerrors.Is(err, types.ErrInvalidArgs))
}

func TestCommentRootDefaultsToParent(t *testing.T) {
	net, _, cs := newCommentSvc(t)
	ctx := context.Background()
	parent := testnet.RandomId()

	id, err := cs.Create(ctx, types.CommentCreateArgs{Content: "hi", Creator: testnet.RandomId(), ParentId: parent}, nil)
	require.NoError(t, err)

	p, _ := net.Runtime.Process(id)
	root, _ := types.GetTagValue(p.Tags, types.TagRootSource)
	require.Equal(t, parent, root)
}

func TestCommentValidation(t *testing.T) {
	net, _, cs := newCommentSvc(t)
	ctx := context.Background()

	_, err := cs.Create(ctx, types.CommentCreateArgs{Content: "", ParentId: testnet.RandomId()}, nil)
	require.True(t, xerrors.Is(err, types.ErrInvalidArgs))
	_, err = cs.Create(ctx, types.CommentCreateArgs{Content: "x", ParentId: "parent"}, nil)
	require.True(t, xerrors.Is(err, types.ErrInvalidArgs))
	_, err = cs.Create(ctx, types.CommentCreateArgs{Content: "x", ParentId: testnet.RandomId()}, nil)
	require.Contains(t, err.Error(), "Missing field 'creator'")

	_, err = cs.AddComment(ctx, types.ProcessCommentArgs{CommentsId: "bad", Content: "x"})
	require.True(t, xerrors.Is(err, types.ErrInvalidArgs))
	_, err = cs.UpdateStatus(ctx, testnet.RandomId(), "c", "hidden")
	require.True(t, xerrors.Is(err, types.ErrInvalidArgs))
	_, err = cs.Pin(ctx, testnet.RandomId(), "")
	require.True(t, xerrors.Is(err, types.ErrInvalidArgs))
	_, err = cs.CreateCommentsProcess(ctx, types.CommentsProcessArgs{Users: []string{"nobody"}}, nil)
	require.True(t, xerrors.Is(err, types.ErrInvalidArgs))

	require.Equal(t, 0, net.Runtime.TotalCalls())
}

func TestProcessComments(t *testing.T) {
	net, _, cs := newCommentSvc(t)
	ctx := context.Background()
	assetId := testnet.RandomId()
	moderator := testnet.RandomId()

	commentsId, err := cs.CreateCommentsProcess(ctx, types.CommentsProcessArgs{
		AssetId: assetId,
		Creator: net.Signer.Address(),
		Users:   []string{moderator},
	}, nil)
	require.NoError(t, err)

	p, _ := net.Runtime.Process(commentsId)
	tagged, _ := types.GetTagValue(p.Tags, types.TagAssetId)
	require.Equal(t, assetId, tagged)
	require.Contains(t, p.Roles, moderator)

	c1, err := cs.AddComment(ctx, types.ProcessCommentArgs{CommentsId: commentsId, Content: "first", ParentId: assetId, RootId: assetId})
	require.NoError(t, err)
	c2, err := cs.AddComment(ctx, types.ProcessCommentArgs{CommentsId: commentsId, Content: "reply", ParentId: c1, RootId: assetId})
	require.NoError(t, err)
	require.NotEqual(t, c1, c2)

	all, err := cs.GetComments(ctx, types.CommentFilter{CommentsId: commentsId, RootId: assetId})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, c1, all[0].Id)
	require.Equal(t, 0, all[0].Depth)
	require.Equal(t, c2, all[1].Id)
	require.Equal(t, 1, all[1].Depth)
	require.Equal(t, types.CommentStatusActive, all[1].Status)
	require.Equal(t, net.Signer.Address(), all[1].Creator)

	replies, err := cs.GetComments(ctx, types.CommentFilter{CommentsId: commentsId, ParentId: c1})
	require.NoError(t, err)
	require.Len(t, replies, 1)
	require.Equal(t, "reply", replies[0].Content)

	_, err = cs.UpdateContent(ctx, commentsId, c2, "edited")
	require.NoError(t, err)
	_, err = cs.UpdateStatus(ctx, commentsId, c2, types.CommentStatusInactive)
	require.NoError(t, err)
	_, err = cs.Pin(ctx, commentsId, c1)
	require.NoError(t, err)

	all, err = cs.GetProcessComments(ctx, types.CommentFilter{CommentsId: commentsId})
	require.NoError(t, err)
	require.True(t, all[0].Pinned)
	require.Equal(t, "edited", all[1].Content)
	require.Equal(t, types.CommentStatusInactive, all[1].Status)

	_, err = cs.Unpin(ctx, commentsId, c1)
	require.NoError(t, err)
	_, err = cs.RemoveOwn(ctx, commentsId, c2)
	require.NoError(t, err)
	_, err = cs.Remove(ctx, commentsId, c1)
	require.NoError(t, err)

	all, err = cs.GetProcessComments(ctx, types.CommentFilter{CommentsId: commentsId})
	require.NoError(t, err)
	require.Empty(t, all)

	_, err = cs.Remove(ctx, commentsId, c1)
	require.True(t, xerrors.Is(err, types.ErrSendFailed))
}

func TestAssetWithCommentsProcess(t *testing.T) {
	net, assets, _ := newCommentSvc(t)
	ctx := context.Background()

	assetId, err := assets.Create(ctx, types.AssetCreateArgs{
		Name:          "With comments",
		Topics:        []string{"art"},
		Creator:       testnet.RandomId(),
		Data:          "content",
		ContentType:   "text/plain",
		AssetType:     types.TypeDocument,
		SpawnComments: true,
	}, nil)
	require.NoError(t, err)

	detail, err := assets.Get(ctx, assetId)
	require.NoError(t, err)
	commentsId, ok := detail.Metadata["comments"].(string)
	require.True(t, ok)
	_, ok = net.Runtime.Process(commentsId)
	require.True(t, ok)
}
