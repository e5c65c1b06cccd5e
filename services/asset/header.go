package asset

import (
	"context"
	"strconv"
	"strings"

	"github.com/permaweb/permaweb-go/config"
	"github.com/permaweb/permaweb-go/gql"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

var mappedTags = map[string]bool{
	types.TagCreator:        true,
	types.TagTitle:          true,
	types.TagName:           true,
	types.TagDescription:    true,
	types.TagType:           true,
	types.TagTopic:          true,
	types.TagImplements:     true,
	types.TagContentType:    true,
	types.TagRenderWith:     true,
	types.TagThumbnail:      true,
	types.TagLicense:        true,
	types.TagAccessFee:      true,
	types.TagDerivations:    true,
	types.TagCommercialUse:  true,
	types.TagDataModel:      true,
	types.TagPaymentMode:    true,
	types.TagPaymentAddress: true,
	types.TagCurrency:       true,
	types.TagCollectionId:   true,
	types.TagCollectionName: true,
	types.TagDateCreated:    true,
	types.TagDataSource:     true,
	types.TagRootSource:     true,
}

func tagValue(tags []types.Tag, name string) string {
	v, _ := types.GetTagValue(tags, name)
	return v
}

func isTopicTag(name string) bool {
	return name == types.TagTopic || strings.HasPrefix(name, types.TagTopic+":")
}

// BuildHeader derives the immutable asset fields from its spawn
// transaction.
func BuildHeader(node types.GQLNode) types.AssetHeader {
	header := types.AssetHeader{
		Id:             node.Id,
		Owner:          node.Owner.Address,
		Creator:        tagValue(node.Tags, types.TagCreator),
		Title:          tagValue(node.Tags, types.TagTitle),
		Description:    tagValue(node.Tags, types.TagDescription),
		Type:           tagValue(node.Tags, types.TagType),
		Topics:         []string{},
		Implementation: tagValue(node.Tags, types.TagImplements),
		ContentType:    tagValue(node.Tags, types.TagContentType),
		RenderWith:     tagValue(node.Tags, types.TagRenderWith),
		Thumbnail:      tagValue(node.Tags, types.TagThumbnail),
		CollectionId:   tagValue(node.Tags, types.TagCollectionId),
		CollectionName: tagValue(node.Tags, types.TagCollectionName),
		DataSource:     tagValue(node.Tags, types.TagDataSource),
		RootSource:     tagValue(node.Tags, types.TagRootSource),
		License:        license(node.Tags),
		Tags:           []types.Tag{},
	}
	if header.Title == "" {
		header.Title = tagValue(node.Tags, types.TagName)
	}
	if header.Title == "" {
		header.Title = utils.FormatAddress(node.Id, false)
	}

	if node.Block != nil {
		header.BlockHeight = node.Block.Height
		header.DateCreated = node.Block.Timestamp * 1000
	} else if created, err := strconv.ParseInt(tagValue(node.Tags, types.TagDateCreated), 10, 64); err == nil {
		header.DateCreated = created
	}

	for _, tag := range node.Tags {
		switch {
		case isTopicTag(tag.Name):
			header.Topics = append(header.Topics, tag.Value)
		case !mappedTags[tag.Name]:
			header.Tags = append(header.Tags, tag)
		}
	}
	return header
}

func license(tags []types.Tag) *types.License {
	value := tagValue(tags, types.TagLicense)
	if value != config.UDLLicense {
		return nil
	}
	return &types.License{
		Value:             value,
		AccessFee:         tagValue(tags, types.TagAccessFee),
		Derivations:       tagValue(tags, types.TagDerivations),
		CommercialUse:     tagValue(tags, types.TagCommercialUse),
		DataModelTraining: tagValue(tags, types.TagDataModel),
		PaymentMode:       tagValue(tags, types.TagPaymentMode),
		PaymentAddress:    tagValue(tags, types.TagPaymentAddress),
		Currency:          tagValue(tags, types.TagCurrency),
	}
}

func (as *AssetSvc) cachedHeader(id string) (*types.AssetHeader, bool) {
	if as.headers == nil {
		return nil, false
	}
	raw, err := as.headers.Get(headerCacheName, id)
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	header := &types.AssetHeader{}
	if err := utils.Unmarshal(raw, header); err != nil {
		log.Warnf("dropping cached header of %s: %v", id, err)
		as.headers.Evict(headerCacheName, id)
		return nil, false
	}
	return header, true
}

func (as *AssetSvc) cacheHeader(header types.AssetHeader) {
	if as.headers == nil || header.BlockHeight == 0 {
		return
	}
	raw, err := utils.Marshal(header)
	if err != nil {
		return
	}
	as.headers.Put(headerCacheName, header.Id, raw)
}

// GetHeader returns the asset header, or an ErrNotFound error when the
// spawn transaction is not indexed yet.
func (as *AssetSvc) GetHeader(ctx context.Context, id string) (*types.AssetHeader, error) {
	if !utils.CheckValidAddress(id) {
		return nil, types.Wrapf(types.ErrInvalidArgs, "invalid asset id %q", id)
	}
	if header, ok := as.cachedHeader(id); ok {
		return header, nil
	}

	page := as.indexer.GetGQLData(ctx, gql.QueryArgs{Ids: []string{id}})
	if len(page.Data) == 0 {
		return nil, types.Wrapf(types.ErrNotFound, "asset %s not found", id)
	}
	header := BuildHeader(page.Data[0].Node)
	as.cacheHeader(header)
	return &header, nil
}

// GetAtomicAssets returns the headers of every indexed asset in ids.
func (as *AssetSvc) GetAtomicAssets(ctx context.Context, ids []string) ([]types.AssetHeader, error) {
	headers := make([]types.AssetHeader, 0, len(ids))
	missing := make([]string, 0, len(ids))
	found := make(map[string]types.AssetHeader, len(ids))
	for _, id := range ids {
		if !utils.CheckValidAddress(id) {
			return nil, types.Wrapf(types.ErrInvalidArgs, "invalid asset id %q", id)
		}
		if header, ok := as.cachedHeader(id); ok {
			found[id] = *header
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		edges := as.indexer.GetAggregatedGQLData(ctx, gql.QueryArgs{Ids: missing}, nil)
		for _, edge := range edges {
			header := BuildHeader(edge.Node)
			as.cacheHeader(header)
			found[header.Id] = header
		}
	}

	for _, id := range ids {
		if header, ok := found[id]; ok {
			headers = append(headers, header)
		}
	}
	return headers, nil
}
