package profile

import (
	"context"
	"sort"

	logging "github.com/ipfs/go-log/v2"

	"github.com/permaweb/permaweb-go/arweave"
	"github.com/permaweb/permaweb-go/codec"
	"github.com/permaweb/permaweb-go/gql"
	"github.com/permaweb/permaweb-go/services/zone"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

var log = logging.Logger("profile")

// ProfileSvc manages user profiles, which are zones tagged Zone-Type User.
type ProfileSvc struct {
	zones    *zone.ZoneSvc
	resolver *arweave.Resolver
	indexer  *gql.Client
}

func NewProfileSvc(zones *zone.ZoneSvc, resolver *arweave.Resolver, indexer *gql.Client) *ProfileSvc {
	return &ProfileSvc{
		zones:    zones,
		resolver: resolver,
		indexer:  indexer,
	}
}

// resolveImage uploads image when needed. Failures are reported through
// status and leave the image unset.
func (ps *ProfileSvc) resolveImage(ctx context.Context, name string, image string, status types.StatusFunc) (string, bool) {
	if image == "" {
		return "", false
	}
	if !utils.IsValidMediaData(image) {
		log.Warnf("skipping %s, not a transaction id or data url", name)
		status.Report("Invalid " + name + ", expected a transaction id or data url")
		return "", false
	}
	id, err := ps.resolver.ResolveTransaction(ctx, image)
	if err != nil {
		log.Errorf("failed to resolve %s: %v", name, err)
		status.Report("Failed to resolve " + name + ": " + err.Error())
		return "", false
	}
	return id, true
}

// Create spawns a profile zone with the profile fields as boot tags.
func (ps *ProfileSvc) Create(ctx context.Context, args types.ProfileArgs, status types.StatusFunc) (string, error) {
	tags := []types.Tag{
		{Name: types.TagDataProtocol, Value: types.ProtocolZone},
		{Name: types.TagZoneType, Value: types.ZoneTypeUser},
		codec.BootTag("Username", args.Username),
		codec.BootTag("DisplayName", args.DisplayName),
		codec.BootTag("Description", args.Description),
	}
	if id, ok := ps.resolveImage(ctx, types.TagThumbnail, args.Thumbnail, status); ok {
		tags = append(tags, codec.BootTag(types.TagThumbnail, id))
	}
	if id, ok := ps.resolveImage(ctx, types.TagBanner, args.Banner, status); ok {
		tags = append(tags, codec.BootTag(types.TagBanner, id))
	}

	profileId, err := ps.zones.Create(ctx, types.ZoneCreateArgs{Tags: tags}, status)
	if err != nil {
		return profileId, err
	}
	log.Infof("profile created: %s", profileId)
	return profileId, nil
}

// Update writes the profile fields into the profile store.
func (ps *ProfileSvc) Update(ctx context.Context, args types.ProfileArgs, profileId string, status types.StatusFunc) (string, error) {
	if profileId == "" {
		return "", types.Wrapf(types.ErrInvalidArgs, "no profile provided")
	}

	data := map[string]interface{}{
		"username":    args.Username,
		"displayName": args.DisplayName,
		"description": args.Description,
	}
	if id, ok := ps.resolveImage(ctx, types.TagThumbnail, args.Thumbnail, status); ok {
		data["thumbnail"] = id
	}
	if id, ok := ps.resolveImage(ctx, types.TagBanner, args.Banner, status); ok {
		data["banner"] = id
	}

	status.Report("Updating profile...")
	return ps.zones.Update(ctx, codec.AsObject(codec.ToProcessCase(data)), profileId)
}

func (ps *ProfileSvc) GetById(ctx context.Context, profileId string) (*types.Profile, error) {
	z, err := ps.zones.Get(ctx, profileId)
	if err != nil {
		return nil, err
	}

	p := &types.Profile{
		Id:          profileId,
		Owner:       z.Owner,
		Version:     z.Version,
		Username:    codec.StringField(z.Store, "username"),
		DisplayName: codec.StringField(z.Store, "displayName"),
		Description: codec.StringField(z.Store, "description"),
		Thumbnail:   codec.StringField(z.Store, "thumbnail"),
		Banner:      codec.StringField(z.Store, "banner"),
		Assets:      z.Assets,
		Store:       z.Store,
	}
	return p, nil
}

// GetByWallet returns the most recent profile owned by walletAddress.
func (ps *ProfileSvc) GetByWallet(ctx context.Context, walletAddress string) (*types.Profile, error) {
	if !utils.CheckValidAddress(walletAddress) {
		return nil, types.Wrapf(types.ErrInvalidArgs, "invalid wallet address %q", walletAddress)
	}

	page := ps.indexer.GetGQLData(ctx, gql.QueryArgs{
		Tags: []types.TagFilter{
			{Name: types.TagDataProtocol, Values: []string{types.ProtocolZone}},
			{Name: types.TagZoneType, Values: []string{types.ZoneTypeUser}},
		},
		Owners: []string{walletAddress},
	})
	if len(page.Data) == 0 {
		return nil, types.Wrapf(types.ErrNotFound, "no profile found for %s", walletAddress)
	}

	edges := append([]types.GQLEdge{}, page.Data...)
	sort.SliceStable(edges, func(i, j int) bool {
		return blockTimestamp(edges[i]) > blockTimestamp(edges[j])
	})
	return ps.GetById(ctx, edges[0].Node.Id)
}

func blockTimestamp(edge types.GQLEdge) int64 {
	if edge.Node.Block == nil {
		return 0
	}
	return edge.Node.Block.Timestamp
}

// UpdateVersion upgrades the profile zone to the current zone source.
func (ps *ProfileSvc) UpdateVersion(ctx context.Context, profileId string, status types.StatusFunc) (string, error) {
	return ps.zones.UpdateVersion(ctx, profileId, status)
}
