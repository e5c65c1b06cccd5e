package api

import (
	"context"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/gql"
	"github.com/permaweb/permaweb-go/types"
)

// ProcessApi is the raw process and indexer surface.
type ProcessApi interface {
	Spawn(ctx context.Context, req ao.SpawnRequest) (string, error)
	Send(ctx context.Context, req ao.SendRequest) (string, error)
	DryRun(ctx context.Context, req ao.DryRunRequest) (interface{}, error)
	Read(ctx context.Context, req ao.ReadRequest) (interface{}, error)
	MessageResult(ctx context.Context, req ao.ResultRequest) (map[string]ao.ActionResult, error)
	MessageResults(ctx context.Context, req ao.ResultsRequest) (map[string]ao.ActionResult, error)
	Eval(ctx context.Context, req ao.EvalRequest) (map[string]ao.ActionResult, error)
	CreateProcess(ctx context.Context, req ao.CreateProcessRequest, status types.StatusFunc) (string, error)
	WaitForProcess(ctx context.Context, processId string, noRetryLimit bool) (string, error)

	GetGQLData(ctx context.Context, args gql.QueryArgs) *types.GQLResponse
	GetAggregatedGQLData(ctx context.Context, args gql.QueryArgs, callback func(message string)) []types.GQLEdge
	ResolveTransaction(ctx context.Context, data string) (string, error)
}

type ZoneApi interface {
	CreateZone(ctx context.Context, args types.ZoneCreateArgs, status types.StatusFunc) (string, error)
	UpdateZone(ctx context.Context, state map[string]interface{}, zoneId string) (string, error)
	AddToZone(ctx context.Context, path string, data interface{}, zoneId string) (string, error)
	SetZoneRoles(ctx context.Context, roles []types.ZoneRole, zoneId string) (string, error)
	GetZone(ctx context.Context, zoneId string) (*types.Zone, error)
	UpdateZoneVersion(ctx context.Context, zoneId string, status types.StatusFunc) (string, error)
	SyncZone(ctx context.Context, desired map[string]interface{}, zoneId string) (string, error)
}

type ProfileApi interface {
	CreateProfile(ctx context.Context, args types.ProfileArgs, status types.StatusFunc) (string, error)
	UpdateProfile(ctx context.Context, args types.ProfileArgs, profileId string, status types.StatusFunc) (string, error)
	GetProfileById(ctx context.Context, profileId string) (*types.Profile, error)
	GetProfileByWalletAddress(ctx context.Context, walletAddress string) (*types.Profile, error)
	UpdateProfileVersion(ctx context.Context, profileId string, status types.StatusFunc) (string, error)
}

type AssetApi interface {
	CreateAtomicAsset(ctx context.Context, args types.AssetCreateArgs, status types.StatusFunc) (string, error)
	GetAtomicAsset(ctx context.Context, id string) (*types.AssetDetail, error)
	GetAtomicAssets(ctx context.Context, ids []string) ([]types.AssetHeader, error)
}

type CommentApi interface {
	CreateComment(ctx context.Context, args types.CommentCreateArgs, status types.StatusFunc) (string, error)
	GetComments(ctx context.Context, filter types.CommentFilter) ([]types.Comment, error)
	CreateCommentsProcess(ctx context.Context, args types.CommentsProcessArgs, status types.StatusFunc) (string, error)
	AddComment(ctx context.Context, args types.ProcessCommentArgs) (string, error)
	UpdateCommentStatus(ctx context.Context, commentsId string, commentId string, status string) (string, error)
	UpdateCommentContent(ctx context.Context, commentsId string, commentId string, content string) (string, error)
	RemoveComment(ctx context.Context, commentsId string, commentId string) (string, error)
	RemoveOwnComment(ctx context.Context, commentsId string, commentId string) (string, error)
	PinComment(ctx context.Context, commentsId string, commentId string) (string, error)
	UnpinComment(ctx context.Context, commentsId string, commentId string) (string, error)
}

type CollectionApi interface {
	CreateCollection(ctx context.Context, args types.CollectionArgs, status types.StatusFunc) (string, error)
	UpdateCollectionAssets(ctx context.Context, args types.CollectionUpdateArgs) (string, error)
	GetCollection(ctx context.Context, collectionId string) (*types.Collection, error)
	GetCollections(ctx context.Context, creator string) ([]types.Collection, error)
}

type ModerationApi interface {
	AddModerationEntry(ctx context.Context, zoneId string, entry types.ModerationEntry) (string, error)
	GetModerationEntries(ctx context.Context, zoneId string) ([]types.ModerationEntry, error)
	AddProcessModerationEntry(ctx context.Context, moderationId string, entry types.ModerationEntry) (string, error)
	GetProcessModerationEntries(ctx context.Context, moderationId string, filter types.ModerationFilter) ([]types.ModerationEntry, error)
	UpdateModerationEntry(ctx context.Context, moderationId string, targetType string, targetId string, status string, reason string) (string, error)
	RemoveModerationEntry(ctx context.Context, moderationId string, targetType string, targetId string) (string, error)
	AddModerationSubscription(ctx context.Context, moderationId string, subscriptionId string, subscriptionType string) (string, error)
	RemoveModerationSubscription(ctx context.Context, moderationId string, subscriptionId string) (string, error)
	GetModerationSubscriptions(ctx context.Context, moderationId string) ([]types.ModerationSubscription, error)
}

// PermawebApi is everything a client offers: raw process access plus the
// zone, profile, asset, comment, collection and moderation services.
type PermawebApi interface {
	ProcessApi
	ZoneApi
	ProfileApi
	AssetApi
	CommentApi
	CollectionApi
	ModerationApi
}
