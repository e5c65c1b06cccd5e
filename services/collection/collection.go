package collection

import (
	"context"
	"strconv"
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/arweave"
	"github.com/permaweb/permaweb-go/codec"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

var log = logging.Logger("collection")

type CollectionConfig struct {
	// template the collection source is rendered from
	Src string
	// source of the optional activity process
	ActivitySrc string
	Registry    string
}

type CollectionSvc struct {
	gateway  *ao.Gateway
	resolver *arweave.Resolver
	cfg      CollectionConfig
	now      func() time.Time
}

func NewCollectionSvc(gateway *ao.Gateway, resolver *arweave.Resolver, cfg CollectionConfig) *CollectionSvc {
	return &CollectionSvc{
		gateway:  gateway,
		resolver: resolver,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (cs *CollectionSvc) resolveImage(ctx context.Context, image string, def string) string {
	if image == "" {
		return def
	}
	if !utils.IsValidMediaData(image) {
		log.Warnf("collection image is not a transaction id or data url, using default")
		return def
	}
	id, err := cs.resolver.ResolveTransaction(ctx, image)
	if err != nil {
		log.Errorf("failed to resolve collection image: %v", err)
		return def
	}
	return id
}

// renderSrc fills the placeholders of the collection source template.
func renderSrc(src string, args types.CollectionArgs, thumbnail, banner, dateCreated, activity string) string {
	return strings.NewReplacer(
		"'<NAME>'", utils.CleanProcessField(args.Title),
		"'<DESCRIPTION>'", utils.CleanProcessField(args.Description),
		"<CREATOR>", args.Creator,
		"<THUMBNAIL>", thumbnail,
		"<BANNER>", banner,
		"<DATECREATED>", dateCreated,
		"<LASTUPDATE>", dateCreated,
		"<ACTIVITY_PROCESS>", activity,
	).Replace(src)
}

// Create spawns a collection owned by the creator profile, evaluates the
// rendered collection source on it, registers it and links it to the
// profile.
func (cs *CollectionSvc) Create(ctx context.Context, args types.CollectionArgs, status types.StatusFunc) (string, error) {
	if !cs.gateway.HasSigner() {
		return "", types.Wrapf(types.ErrNoSigner, "must provide a signer to create collections")
	}
	if strings.TrimSpace(args.Title) == "" {
		return "", types.Missing("title")
	}
	if args.Creator == "" {
		return "", types.Missing("creator")
	}
	if !utils.CheckValidAddress(args.Creator) {
		return "", types.Wrapf(types.ErrInvalidArgs, "creator must be a valid address")
	}
	if !args.SkipRegistry && cs.cfg.Registry == "" {
		return "", types.Wrapf(types.ErrInvalidConfig, "no collections registry configured")
	}

	dateCreated := strconv.FormatInt(cs.now().UnixMilli(), 10)
	title := utils.CleanTagValue(args.Title)
	tags := []types.Tag{
		{Name: types.TagContentType, Value: "application/json"},
		{Name: types.TagCreator, Value: args.Creator},
		{Name: types.TagTitle, Value: title},
		{Name: types.TagDescription, Value: utils.CleanTagValue(args.Description)},
		{Name: types.TagType, Value: types.TypeDocument},
		{Name: types.TagDateCreated, Value: dateCreated},
		{Name: types.TagName, Value: title},
		{Name: types.TagAction, Value: types.ActionAddCollection},
	}

	thumbnail := cs.resolveImage(ctx, args.Thumbnail, types.DefaultCollectionThumbnail)
	banner := cs.resolveImage(ctx, args.Banner, types.DefaultCollectionBanner)
	if args.Thumbnail != "" {
		tags = append(tags, types.Tag{Name: types.TagThumbnail, Value: thumbnail})
	}
	if args.Banner != "" {
		tags = append(tags, types.Tag{Name: types.TagBanner, Value: banner})
	}

	src, err := cs.gateway.FetchProcessSrc(ctx, cs.cfg.Src)
	if err != nil {
		return "", xerrors.Errorf("unable to fetch process src: %w", err)
	}

	activity := ""
	if args.CreateActivity {
		status.Report("Creating collection activity...")
		if activity, err = cs.createActivity(ctx, args.Creator, dateCreated, status); err != nil {
			return "", err
		}
		tags = append(tags, types.Tag{Name: types.TagActivityProcess, Value: activity})
	}

	collectionId, err := cs.gateway.CreateProcess(ctx, ao.CreateProcessRequest{
		Tags:    tags,
		EvalSrc: renderSrc(src, args, thumbnail, banner, dateCreated, activity),
	}, status)
	if err != nil {
		return collectionId, err
	}
	log.Infof("collection created: %s", collectionId)

	if !args.SkipRegistry {
		status.Report("Adding collection to registry...")
		if _, err := cs.gateway.Send(ctx, ao.SendRequest{
			ProcessId: cs.cfg.Registry,
			Action:    types.ActionAddCollection,
			Tags: []types.Tag{
				{Name: types.TagRegistryCollectionId, Value: collectionId},
				{Name: types.TagName, Value: title},
				{Name: types.TagCreator, Value: args.Creator},
				{Name: types.TagRegistryDateCreated, Value: dateCreated},
				{Name: types.TagBanner, Value: banner},
				{Name: types.TagThumbnail, Value: thumbnail},
			},
		}); err != nil {
			return collectionId, err
		}
	}

	status.Report("Adding collection to profile...")
	if _, err := cs.gateway.Send(ctx, ao.SendRequest{
		ProcessId: collectionId,
		Action:    types.ActionAddCollectionToProfile,
		Tags:      []types.Tag{{Name: types.TagProfileProcess, Value: args.Creator}},
	}); err != nil {
		return collectionId, err
	}
	return collectionId, nil
}

func (cs *CollectionSvc) createActivity(ctx context.Context, creator string, dateCreated string, status types.StatusFunc) (string, error) {
	if cs.cfg.ActivitySrc == "" {
		return "", types.Wrapf(types.ErrInvalidConfig, "no collection activity source configured")
	}
	return cs.gateway.CreateProcess(ctx, ao.CreateProcessRequest{
		Tags: []types.Tag{
			{Name: types.TagCreator, Value: creator},
			{Name: types.TagDateCreated, Value: dateCreated},
		},
		EvalTxId: cs.cfg.ActivitySrc,
	}, status)
}

type updateInput struct {
	AssetIds   []string
	UpdateType string
}

type runAction struct {
	Target string
	Action string
	Input  string
}

// UpdateAssets adds or removes assets of a collection. The update is
// forwarded by the creator profile, which owns the collection.
func (cs *CollectionSvc) UpdateAssets(ctx context.Context, args types.CollectionUpdateArgs) (string, error) {
	if !utils.CheckValidAddress(args.CollectionId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "invalid collection id %q", args.CollectionId)
	}
	if !utils.CheckValidAddress(args.Creator) {
		return "", types.Wrapf(types.ErrInvalidArgs, "invalid creator %q", args.Creator)
	}
	if args.UpdateType != types.CollectionUpdateAdd && args.UpdateType != types.CollectionUpdateRemove {
		return "", types.Wrapf(types.ErrInvalidArgs, "update type must be %s or %s", types.CollectionUpdateAdd, types.CollectionUpdateRemove)
	}
	if len(args.AssetIds) == 0 {
		return "", types.Missing("assetIds")
	}

	input, err := utils.MarshalString(updateInput{AssetIds: args.AssetIds, UpdateType: args.UpdateType})
	if err != nil {
		return "", err
	}
	return cs.gateway.Send(ctx, ao.SendRequest{
		ProcessId: args.Creator,
		Action:    types.ActionRunAction,
		Tags: []types.Tag{
			{Name: types.TagForwardTo, Value: args.CollectionId},
			{Name: types.TagForwardAction, Value: types.ActionUpdateAssets},
		},
		Data: runAction{Target: args.CollectionId, Action: types.ActionUpdateAssets, Input: input},
	})
}

func (cs *CollectionSvc) Get(ctx context.Context, collectionId string) (*types.Collection, error) {
	if !utils.CheckValidAddress(collectionId) {
		return nil, types.Wrapf(types.ErrInvalidArgs, "invalid collection id %q", collectionId)
	}

	result, err := cs.gateway.DryRun(ctx, ao.DryRunRequest{ProcessId: collectionId, Action: ao.ActionInfo})
	if err != nil {
		return nil, err
	}
	info := codec.AsObject(result)

	c := &types.Collection{
		Id:              collectionId,
		Title:           utils.CleanTagValue(codec.StringField(info, "Name")),
		Description:     codec.StringField(info, "Description"),
		Creator:         codec.StringField(info, "Creator"),
		Thumbnail:       codec.StringField(info, "Thumbnail"),
		Banner:          codec.StringField(info, "Banner"),
		ActivityProcess: codec.StringField(info, "ActivityProcess"),
		Assets:          []string{},
	}
	if err := codec.Decode(info["DateCreated"], &c.DateCreated); err != nil {
		log.Debugf("collection %s has no creation date: %v", collectionId, err)
	}
	if assets, ok := info["Assets"]; ok && assets != nil {
		if err := codec.Decode(assets, &c.Assets); err != nil {
			return nil, err
		}
	}
	if c.Thumbnail == "" {
		c.Thumbnail = types.DefaultCollectionThumbnail
	}
	if c.Banner == "" {
		c.Banner = types.DefaultCollectionBanner
	}
	return c, nil
}

// GetCollections lists the registered collections, only those of creator
// when it is set.
func (cs *CollectionSvc) GetCollections(ctx context.Context, creator string) ([]types.Collection, error) {
	if cs.cfg.Registry == "" {
		return nil, types.Wrapf(types.ErrInvalidConfig, "no collections registry configured")
	}

	req := ao.DryRunRequest{ProcessId: cs.cfg.Registry, Action: types.ActionGetCollections}
	if creator != "" {
		req.Action = types.ActionGetCollectionsByUser
		req.Tags = []types.Tag{{Name: types.TagCreator, Value: creator}}
	}
	result, err := cs.gateway.DryRun(ctx, req)
	if err != nil {
		return nil, err
	}

	var response struct {
		Collections []struct {
			Id          string
			Name        string
			Description string
			Creator     string
			DateCreated types.Quantity
			Banner      string
			Thumbnail   string
		}
	}
	if err := codec.Decode(result, &response); err != nil {
		return nil, err
	}

	collections := make([]types.Collection, 0, len(response.Collections))
	for _, c := range response.Collections {
		collections = append(collections, types.Collection{
			Id:          c.Id,
			Title:       utils.CleanTagValue(c.Name),
			Description: c.Description,
			Creator:     c.Creator,
			DateCreated: c.DateCreated,
			Banner:      c.Banner,
			Thumbnail:   c.Thumbnail,
		})
	}
	return collections, nil
}
