package comment

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/gql"
	"github.com/permaweb/permaweb-go/services/asset"
	"github.com/permaweb/permaweb-go/services/zone"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

var log = logging.Logger("comment")

const (
	CommentType  = "comment"
	CommentTopic = "comment"

	RoleModerator = "Moderator"
)

// CommentSvc stores comments either as atomic assets linked to their parent
// with Data-Source and Root-Source, or as rows of a comments process.
type CommentSvc struct {
	assets  *asset.AssetSvc
	zones   *zone.ZoneSvc
	gateway *ao.Gateway
	indexer *gql.Client
	src     string
	now     func() time.Time
}

// NewCommentSvc returns a comment service. src is the source comments
// processes boot from, it may be empty.
func NewCommentSvc(assets *asset.AssetSvc, zones *zone.ZoneSvc, src string) *CommentSvc {
	gateway := zones.Gateway()
	return &CommentSvc{
		assets:  assets,
		zones:   zones,
		gateway: gateway,
		indexer: gateway.Indexer(),
		src:     src,
		now:     time.Now,
	}
}

// Create publishes a comment as an atomic asset. RootId defaults to
// ParentId.
func (cs *CommentSvc) Create(ctx context.Context, args types.CommentCreateArgs, status types.StatusFunc) (string, error) {
	if strings.TrimSpace(args.Content) == "" {
		return "", types.Missing("content")
	}
	if !utils.CheckValidAddress(args.ParentId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "parent id must be a valid address")
	}
	rootId := args.RootId
	if rootId == "" {
		rootId = args.ParentId
	}
	if !utils.CheckValidAddress(rootId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "root id must be a valid address")
	}

	tags := append([]types.Tag{}, args.Tags...)
	tags = append(tags,
		types.Tag{Name: types.TagDataSource, Value: args.ParentId},
		types.Tag{Name: types.TagRootSource, Value: rootId},
	)

	return cs.assets.Create(ctx, types.AssetCreateArgs{
		Name:        "Comment on " + utils.FormatAddress(args.ParentId, false),
		Description: args.Content,
		Topics:      []string{CommentTopic},
		Creator:     args.Creator,
		Data:        args.Content,
		ContentType: "text/plain",
		AssetType:   CommentType,
		Tags:        tags,
	}, status)
}

func (cs *CommentSvc) fromEdge(ctx context.Context, edge types.GQLEdge) types.Comment {
	header := asset.BuildHeader(edge.Node)
	c := types.Comment{
		Id:          header.Id,
		Creator:     header.Creator,
		ParentId:    header.DataSource,
		RootId:      header.RootSource,
		Status:      types.CommentStatusActive,
		DateCreated: header.DateCreated,
	}
	if c.RootId != "" && c.ParentId != c.RootId {
		c.Depth = 1
	}

	content, err := cs.gateway.FetchProcessSrc(ctx, header.Id)
	if err != nil {
		log.Warnf("failed to fetch content of comment %s: %v", header.Id, err)
		c.Content = header.Description
	} else {
		c.Content = content
	}
	return c
}

// GetComments lists comments by root or parent. With CommentsId the rows of
// that comments process are returned, otherwise comment assets are looked
// up in the indexer.
func (cs *CommentSvc) GetComments(ctx context.Context, filter types.CommentFilter) ([]types.Comment, error) {
	if filter.CommentsId != "" {
		return cs.GetProcessComments(ctx, filter)
	}

	var tags []types.TagFilter
	if filter.RootId != "" {
		tags = append(tags, types.TagFilter{Name: types.TagRootSource, Values: []string{filter.RootId}})
	}
	if filter.ParentId != "" {
		tags = append(tags, types.TagFilter{Name: types.TagDataSource, Values: []string{filter.ParentId}})
	}
	if len(tags) == 0 {
		return nil, types.Wrapf(types.ErrInvalidArgs, "a root id or parent id is required")
	}

	edges := cs.indexer.GetAggregatedGQLData(ctx, gql.QueryArgs{Tags: tags}, nil)
	comments := make([]types.Comment, 0, len(edges))
	for _, edge := range edges {
		comments = append(comments, cs.fromEdge(ctx, edge))
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].DateCreated < comments[j].DateCreated
	})
	return comments, nil
}

// CreateCommentsProcess spawns a comments process for an asset. Users are
// granted the moderator role.
func (cs *CommentSvc) CreateCommentsProcess(ctx context.Context, args types.CommentsProcessArgs, status types.StatusFunc) (string, error) {
	for _, user := range args.Users {
		if !utils.CheckValidAddress(user) {
			return "", types.Wrapf(types.ErrInvalidArgs, "invalid user %q", user)
		}
	}

	var tags []types.Tag
	if cs.src != "" {
		tags = append(tags, types.Tag{Name: types.TagOnBoot, Value: cs.src})
	}
	if args.AssetId != "" {
		tags = append(tags, types.Tag{Name: types.TagAssetId, Value: args.AssetId})
	}
	if args.Creator != "" {
		tags = append(tags, types.Tag{Name: types.TagCreator, Value: args.Creator})
	}
	tags = append(tags, types.Tag{Name: types.TagDateCreated, Value: strconv.FormatInt(cs.now().UnixMilli(), 10)})

	commentsId, err := cs.gateway.CreateProcess(ctx, ao.CreateProcessRequest{Tags: tags}, status)
	if err != nil {
		return commentsId, err
	}
	log.Infof("comments process created: %s", commentsId)

	if len(args.Users) > 0 {
		roles := make([]types.ZoneRole, 0, len(args.Users))
		for _, user := range args.Users {
			roles = append(roles, types.ZoneRole{GranteeId: user, Roles: []string{RoleModerator}, Type: types.RoleTypeWallet})
		}
		status.Report("Setting comment moderators...")
		if _, err := cs.zones.SetRoles(ctx, roles, commentsId); err != nil {
			return commentsId, err
		}
	}
	return commentsId, nil
}
