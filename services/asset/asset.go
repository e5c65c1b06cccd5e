package asset

import (
	"context"
	"strconv"
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/cache"
	"github.com/permaweb/permaweb-go/codec"
	"github.com/permaweb/permaweb-go/gql"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

var log = logging.Logger("asset")

const (
	ContentTypeJSON = "application/json"

	headerCacheName     = "asset-headers"
	headerCacheCapacity = 1000

	metadataComments = "Comments"
)

// CommentsCreator spawns the comments process of a new asset.
type CommentsCreator interface {
	CreateCommentsProcess(ctx context.Context, args types.CommentsProcessArgs, status types.StatusFunc) (string, error)
}

type AssetSvc struct {
	gateway  *ao.Gateway
	indexer  *gql.Client
	src      string
	headers  cache.CacheSvcApi
	comments CommentsCreator
	now      func() time.Time
}

// NewAssetSvc returns an asset service spawning assets from src. Asset
// headers are immutable and kept in headers when it is not nil, at most
// capacity of them.
func NewAssetSvc(gateway *ao.Gateway, src string, headers cache.CacheSvcApi, capacity int) *AssetSvc {
	as := &AssetSvc{
		gateway: gateway,
		indexer: gateway.Indexer(),
		src:     src,
		headers: headers,
		now:     time.Now,
	}
	if capacity < 1 {
		capacity = headerCacheCapacity
	}
	if headers != nil {
		if err := headers.CreateCache(headerCacheName, capacity); err != nil {
			log.Debugf("asset header cache: %v", err)
		}
	}
	return as
}

func (as *AssetSvc) SetCommentsCreator(comments CommentsCreator) {
	as.comments = comments
}

func validateCreateArgs(args types.AssetCreateArgs) error {
	switch {
	case strings.TrimSpace(args.Name) == "":
		return types.Missing("name")
	case args.Creator == "":
		return types.Missing("creator")
	case strings.TrimSpace(args.AssetType) == "":
		return types.Missing("assetType")
	case len(args.Topics) == 0:
		return types.Missing("topics")
	case strings.TrimSpace(args.ContentType) == "":
		return types.Missing("contentType")
	case args.Data == nil:
		return types.Missing("data")
	}

	if !utils.CheckValidAddress(args.Creator) {
		return types.Wrapf(types.ErrInvalidArgs, "creator must be a valid address")
	}
	if args.CollectionId != "" && !utils.CheckValidAddress(args.CollectionId) {
		return types.Wrapf(types.ErrInvalidArgs, "collection id must be a valid address")
	}
	if args.Src != "" && !utils.CheckValidAddress(args.Src) {
		return types.Wrapf(types.ErrInvalidArgs, "source must be a valid address")
	}
	for name, value := range map[string]string{"supply": args.Supply, "denomination": args.Denomination} {
		if value == "" {
			continue
		}
		if n, err := strconv.ParseInt(value, 10, 64); err != nil || n <= 0 {
			return types.Wrapf(types.ErrInvalidArgs, "%s must be a positive number", name)
		}
	}
	for _, tag := range args.Tags {
		if tag.Name == "" {
			return types.Wrapf(types.ErrInvalidArgs, "tags must have a name")
		}
	}
	return nil
}

// serializeData renders the spawn payload. JSON content accepts any value,
// other content types need text or bytes.
func serializeData(data interface{}, contentType string) (string, error) {
	switch d := data.(type) {
	case string:
		return d, nil
	case []byte:
		return string(d), nil
	}
	if contentType != ContentTypeJSON {
		return "", types.Wrapf(types.ErrInvalidArgs, "data of type %s must be a string or bytes", contentType)
	}
	encoded, err := utils.MarshalString(data)
	if err != nil {
		return "", types.Wrap(types.ErrInvalidArgs, err)
	}
	return encoded, nil
}

func orDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

func licenseTags(license *types.License) []types.Tag {
	if license == nil || license.Value == "" {
		return nil
	}
	tags := []types.Tag{{Name: types.TagLicense, Value: license.Value}}
	for _, t := range []types.Tag{
		{Name: types.TagAccessFee, Value: license.AccessFee},
		{Name: types.TagDerivations, Value: license.Derivations},
		{Name: types.TagCommercialUse, Value: license.CommercialUse},
		{Name: types.TagDataModel, Value: license.DataModelTraining},
		{Name: types.TagPaymentMode, Value: license.PaymentMode},
		{Name: types.TagPaymentAddress, Value: license.PaymentAddress},
		{Name: types.TagCurrency, Value: license.Currency},
	} {
		if t.Value != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// BuildAssetTags returns the ANS-110 tags describing an asset.
func BuildAssetTags(args types.AssetCreateArgs, dateCreated time.Time) []types.Tag {
	tags := []types.Tag{
		{Name: types.TagTitle, Value: args.Name},
		{Name: types.TagDescription, Value: args.Description},
		{Name: types.TagType, Value: args.AssetType},
		{Name: types.TagContentType, Value: args.ContentType},
		{Name: types.TagImplements, Value: types.ImplementsANS},
		{Name: types.TagDateCreated, Value: strconv.FormatInt(dateCreated.UnixMilli(), 10)},
	}
	for _, topic := range args.Topics {
		tags = append(tags, types.Tag{Name: types.TagTopic, Value: topic})
	}
	if args.Creator != "" {
		tags = append(tags, types.Tag{Name: types.TagCreator, Value: args.Creator})
	}
	if args.CollectionId != "" {
		tags = append(tags, types.Tag{Name: types.TagCollectionId, Value: args.CollectionId})
	}
	if args.RenderWith != "" {
		tags = append(tags, types.Tag{Name: types.TagRenderWith, Value: args.RenderWith})
	}
	if args.Thumbnail != "" && utils.CheckValidAddress(args.Thumbnail) {
		tags = append(tags, types.Tag{Name: types.TagThumbnail, Value: args.Thumbnail})
	}
	tags = append(tags, licenseTags(args.License)...)
	return append(tags, args.Tags...)
}

func bootTags(args types.AssetCreateArgs, metadata map[string]interface{}) ([]types.Tag, error) {
	tags := []types.Tag{
		codec.BootTag("Name", args.Name),
		codec.BootTag("Ticker", types.AssetTicker),
		codec.BootTag("Denomination", orDefault(args.Denomination, types.AssetDenomination)),
		codec.BootTag("TotalSupply", orDefault(args.Supply, types.AssetTotalSupply)),
	}
	if args.Creator != "" {
		tags = append(tags, codec.BootTag("Creator", args.Creator))
	}
	if args.CollectionId != "" {
		tags = append(tags, codec.BootTag("Collection", args.CollectionId))
	}
	if !args.Transferable {
		tags = append(tags, codec.BootTag("Transferable", "false"))
	}
	if len(metadata) > 0 {
		encoded, err := utils.MarshalString(codec.ToProcessCase(metadata))
		if err != nil {
			return nil, types.Wrap(types.ErrInvalidArgs, err)
		}
		tags = append(tags, codec.BootTag("Metadata", encoded))
	}
	return tags, nil
}

// Create spawns an atomic asset. Arguments are validated before anything is
// sent. With SpawnComments a comments process is created first and recorded
// in the asset metadata.
func (as *AssetSvc) Create(ctx context.Context, args types.AssetCreateArgs, status types.StatusFunc) (string, error) {
	if err := validateCreateArgs(args); err != nil {
		return "", err
	}
	data, err := serializeData(args.Data, args.ContentType)
	if err != nil {
		return "", err
	}

	metadata := make(map[string]interface{}, len(args.Metadata)+1)
	for key, value := range args.Metadata {
		metadata[key] = value
	}
	if args.SpawnComments {
		if as.comments == nil {
			return "", types.Wrapf(types.ErrInvalidConfig, "no comments service configured")
		}
		status.Report("Creating comments...")
		commentsId, err := as.comments.CreateCommentsProcess(ctx, types.CommentsProcessArgs{
			Creator: args.Creator,
			Users:   args.Users,
		}, status)
		if err != nil {
			return "", err
		}
		metadata[metadataComments] = commentsId
	}

	tags := []types.Tag{{Name: types.TagOnBoot, Value: orDefault(args.Src, as.src)}}
	tags = append(tags, BuildAssetTags(args, as.now())...)
	boot, err := bootTags(args, metadata)
	if err != nil {
		return "", err
	}
	tags = append(tags, boot...)

	assetId, err := as.gateway.CreateProcess(ctx, ao.CreateProcessRequest{Tags: tags, Data: data}, status)
	if err != nil {
		return assetId, err
	}
	log.Infof("asset created: %s", assetId)
	return assetId, nil
}
