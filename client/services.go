package client

import (
	"context"

	"github.com/permaweb/permaweb-go/types"
)

func (pc *PermawebClient) CreateZone(ctx context.Context, args types.ZoneCreateArgs, status types.StatusFunc) (string, error) {
	return pc.zones.Create(ctx, args, status)
}

func (pc *PermawebClient) UpdateZone(ctx context.Context, state map[string]interface{}, zoneId string) (string, error) {
	return pc.zones.Update(ctx, state, zoneId)
}

func (pc *PermawebClient) AddToZone(ctx context.Context, path string, data interface{}, zoneId string) (string, error) {
	return pc.zones.Append(ctx, path, data, zoneId)
}

func (pc *PermawebClient) SetZoneRoles(ctx context.Context, roles []types.ZoneRole, zoneId string) (string, error) {
	return pc.zones.SetRoles(ctx, roles, zoneId)
}

func (pc *PermawebClient) GetZone(ctx context.Context, zoneId string) (*types.Zone, error) {
	return pc.zones.Get(ctx, zoneId)
}

func (pc *PermawebClient) UpdateZoneVersion(ctx context.Context, zoneId string, status types.StatusFunc) (string, error) {
	return pc.zones.UpdateVersion(ctx, zoneId, status)
}

func (pc *PermawebClient) SyncZone(ctx context.Context, desired map[string]interface{}, zoneId string) (string, error) {
	return pc.zones.Sync(ctx, desired, zoneId)
}

func (pc *PermawebClient) CreateProfile(ctx context.Context, args types.ProfileArgs, status types.StatusFunc) (string, error) {
	return pc.profiles.Create(ctx, args, status)
}

func (pc *PermawebClient) UpdateProfile(ctx context.Context, args types.ProfileArgs, profileId string, status types.StatusFunc) (string, error) {
	return pc.profiles.Update(ctx, args, profileId, status)
}

func (pc *PermawebClient) GetProfileById(ctx context.Context, profileId string) (*types.Profile, error) {
	return pc.profiles.GetById(ctx, profileId)
}

func (pc *PermawebClient) GetProfileByWalletAddress(ctx context.Context, walletAddress string) (*types.Profile, error) {
	return pc.profiles.GetByWallet(ctx, walletAddress)
}

func (pc *PermawebClient) UpdateProfileVersion(ctx context.Context, profileId string, status types.StatusFunc) (string, error) {
	return pc.profiles.UpdateVersion(ctx, profileId, status)
}

func (pc *PermawebClient) CreateAtomicAsset(ctx context.Context, args types.AssetCreateArgs, status types.StatusFunc) (string, error) {
	return pc.assets.Create(ctx, args, status)
}

func (pc *PermawebClient) GetAtomicAsset(ctx context.Context, id string) (*types.AssetDetail, error) {
	return pc.assets.Get(ctx, id)
}

func (pc *PermawebClient) GetAtomicAssets(ctx context.Context, ids []string) ([]types.AssetHeader, error) {
	return pc.assets.GetAtomicAssets(ctx, ids)
}

func (pc *PermawebClient) CreateComment(ctx context.Context, args types.CommentCreateArgs, status types.StatusFunc) (string, error) {
	return pc.comments.Create(ctx, args, status)
}

func (pc *PermawebClient) GetComments(ctx context.Context, filter types.CommentFilter) ([]types.Comment, error) {
	return pc.comments.GetComments(ctx, filter)
}

func (pc *PermawebClient) CreateCommentsProcess(ctx context.Context, args types.CommentsProcessArgs, status types.StatusFunc) (string, error) {
	return pc.comments.CreateCommentsProcess(ctx, args, status)
}

func (pc *PermawebClient) AddComment(ctx context.Context, args types.ProcessCommentArgs) (string, error) {
	return pc.comments.AddComment(ctx, args)
}

func (pc *PermawebClient) UpdateCommentStatus(ctx context.Context, commentsId string, commentId string, status string) (string, error) {
	return pc.comments.UpdateStatus(ctx, commentsId, commentId, status)
}

func (pc *PermawebClient) UpdateCommentContent(ctx context.Context, commentsId string, commentId string, content string) (string, error) {
	return pc.comments.UpdateContent(ctx, commentsId, commentId, content)
}

func (pc *PermawebClient) RemoveComment(ctx context.Context, commentsId string, commentId string) (string, error) {
	return pc.comments.Remove(ctx, commentsId, commentId)
}

func (pc *PermawebClient) RemoveOwnComment(ctx context.Context, commentsId string, commentId string) (string, error) {
	return pc.comments.RemoveOwn(ctx, commentsId, commentId)
}

func (pc *PermawebClient) PinComment(ctx context.Context, commentsId string, commentId string) (string, error) {
	return pc.comments.Pin(ctx, commentsId, commentId)
}

func (pc *PermawebClient) UnpinComment(ctx context.Context, commentsId string, commentId string) (string, error) {
	return pc.comments.Unpin(ctx, commentsId, commentId)
}

func (pc *PermawebClient) CreateCollection(ctx context.Context, args types.CollectionArgs, status types.StatusFunc) (string, error) {
	return pc.collections.Create(ctx, args, status)
}

func (pc *PermawebClient) UpdateCollectionAssets(ctx context.Context, args types.CollectionUpdateArgs) (string, error) {
	return pc.collections.UpdateAssets(ctx, args)
}

func (pc *PermawebClient) GetCollection(ctx context.Context, collectionId string) (*types.Collection, error) {
	return pc.collections.Get(ctx, collectionId)
}

func (pc *PermawebClient) GetCollections(ctx context.Context, creator string) ([]types.Collection, error) {
	return pc.collections.GetCollections(ctx, creator)
}

func (pc *PermawebClient) AddModerationEntry(ctx context.Context, zoneId string, entry types.ModerationEntry) (string, error) {
	return pc.moderation.AddZoneEntry(ctx, zoneId, entry)
}

func (pc *PermawebClient) GetModerationEntries(ctx context.Context, zoneId string) ([]types.ModerationEntry, error) {
	return pc.moderation.GetZoneEntries(ctx, zoneId)
}

func (pc *PermawebClient) AddProcessModerationEntry(ctx context.Context, moderationId string, entry types.ModerationEntry) (string, error) {
	return pc.moderation.AddEntry(ctx, moderationId, entry)
}

func (pc *PermawebClient) GetProcessModerationEntries(ctx context.Context, moderationId string, filter types.ModerationFilter) ([]types.ModerationEntry, error) {
	return pc.moderation.GetEntries(ctx, moderationId, filter)
}

func (pc *PermawebClient) UpdateModerationEntry(ctx context.Context, moderationId string, targetType string, targetId string, status string, reason string) (string, error) {
	return pc.moderation.UpdateEntry(ctx, moderationId, targetType, targetId, status, reason)
}

func (pc *PermawebClient) RemoveModerationEntry(ctx context.Context, moderationId string, targetType string, targetId string) (string, error) {
	return pc.moderation.RemoveEntry(ctx, moderationId, targetType, targetId)
}

func (pc *PermawebClient) AddModerationSubscription(ctx context.Context, moderationId string, subscriptionId string, subscriptionType string) (string, error) {
	return pc.moderation.AddSubscription(ctx, moderationId, subscriptionId, subscriptionType)
}

func (pc *PermawebClient) RemoveModerationSubscription(ctx context.Context, moderationId string, subscriptionId string) (string, error) {
	return pc.moderation.RemoveSubscription(ctx, moderationId, subscriptionId)
}

func (pc *PermawebClient) GetModerationSubscriptions(ctx context.Context, moderationId string) ([]types.ModerationSubscription, error) {
	return pc.moderation.GetSubscriptions(ctx, moderationId)
}
