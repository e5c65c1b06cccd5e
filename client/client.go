package client

import (
	"net/http"
	"os"
	"path/filepath"

	logging "github.com/ipfs/go-log/v2"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/api"
	"github.com/permaweb/permaweb-go/arweave"
	"github.com/permaweb/permaweb-go/cache"
	"github.com/permaweb/permaweb-go/config"
	"github.com/permaweb/permaweb-go/gql"
	"github.com/permaweb/permaweb-go/services/asset"
	"github.com/permaweb/permaweb-go/services/collection"
	"github.com/permaweb/permaweb-go/services/comment"
	"github.com/permaweb/permaweb-go/services/moderation"
	"github.com/permaweb/permaweb-go/services/profile"
	"github.com/permaweb/permaweb-go/services/zone"
)

var log = logging.Logger("client")

// CurrentZoneVersion is the zone version new zones and profiles are
// upgraded to.
const CurrentZoneVersion = config.DefaultZoneVersion

const configFile = "config.toml"

// Deps are the capabilities a client is built from. Without a Runtime the
// client talks to the configured compute and messenger units. Without a
// Signer only reads work, without a Ledger data urls can not be uploaded.
type Deps struct {
	Runtime    ao.Runtime
	Signer     ao.Signer
	Ledger     arweave.LedgerClient
	HttpClient *http.Client
}

type PermawebClient struct {
	Cfg *config.Config

	gateway  *ao.Gateway
	indexer  *gql.Client
	resolver *arweave.Resolver
	cache    cache.CacheSvcApi

	zones       *zone.ZoneSvc
	profiles    *profile.ProfileSvc
	assets      *asset.AssetSvc
	comments    *comment.CommentSvc
	collections *collection.CollectionSvc
	moderation  *moderation.ModerationSvc

	repo string
}

var _ api.PermawebApi = (*PermawebClient)(nil)

func NewPermawebClient(cfg *config.Config, deps Deps) (*PermawebClient, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	httpClient := deps.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Poll.HttpTimeout}
	}

	runtime := deps.Runtime
	if runtime == nil {
		if cfg.Connect.CU == "" || cfg.Connect.MU == "" {
			return nil, xerrors.Errorf("invalid connect config: cu %q, mu %q", cfg.Connect.CU, cfg.Connect.MU)
		}
		runtime = ao.NewConnect(cfg.Connect.CU, cfg.Connect.MU, httpClient)
	}

	cacheSvc, err := cache.NewCacheSvc(cfg.Cache)
	if err != nil {
		return nil, err
	}

	indexer := gql.NewClient(cfg.Gateways.Indexer,
		gql.WithHttpClient(httpClient),
		gql.WithRateLimit(cfg.Poll.RequestsPerSecond, 1),
	)
	opts := []ao.GatewayOption{
		ao.WithIndexer(indexer),
		ao.WithHttpClient(httpClient),
	}
	if deps.Signer != nil {
		opts = append(opts, ao.WithSigner(deps.Signer))
	}
	gateway := ao.NewGateway(runtime, ao.GatewayConfigFrom(cfg), opts...)
	resolver := arweave.NewResolver(deps.Ledger, cacheSvc, cfg.Cache.CacheCapacity)

	zones := zone.NewZoneSvc(gateway, zone.ZoneConfig{Src: cfg.AO.Src.Zone, Version: cfg.AO.Src.ZoneVersion})
	assets := asset.NewAssetSvc(gateway, cfg.AO.Src.Asset, cacheSvc, cfg.Cache.CacheCapacity)
	comments := comment.NewCommentSvc(assets, zones, cfg.AO.Src.Comments)
	assets.SetCommentsCreator(comments)

	pc := &PermawebClient{
		Cfg:      cfg,
		gateway:  gateway,
		indexer:  indexer,
		resolver: resolver,
		cache:    cacheSvc,
		zones:    zones,
		profiles: profile.NewProfileSvc(zones, resolver, indexer),
		assets:   assets,
		comments: comments,
		collections: collection.NewCollectionSvc(gateway, resolver, collection.CollectionConfig{
			Src:         cfg.AO.Src.Collection,
			ActivitySrc: cfg.AO.Src.CollectionActivity,
			Registry:    cfg.AO.CollectionsRegistry,
		}),
		moderation: moderation.NewModerationSvc(zones),
	}
	log.Debugf("permaweb client ready: indexer %s, signer %v, ledger %v", cfg.Gateways.Indexer, deps.Signer != nil, deps.Ledger != nil)
	return pc, nil
}

// NewPermawebClientFromRepo loads repo/config.toml, writing the default
// config first when the repo has none.
func NewPermawebClientFromRepo(repo string, deps Deps) (*PermawebClient, error) {
	repoPath, err := homedir.Expand(repo)
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(repoPath, configFile)
	_, err = os.Stat(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}

		err = os.MkdirAll(repoPath, 0755) //nolint: gosec
		if err != nil && !os.IsExist(err) {
			return nil, err
		}
		if err := writeConfig(configPath, config.DefaultConfig()); err != nil {
			return nil, err
		}
		log.Infof("initialized repo %s", repoPath)
	}

	cfg, err := config.FromFile(configPath, config.DefaultConfig())
	if err != nil {
		return nil, err
	}

	pc, err := NewPermawebClient(cfg, deps)
	if err != nil {
		return nil, err
	}
	pc.repo = repo
	return pc, nil
}

func writeConfig(path string, cfg *config.Config) error {
	c, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	dc, err := config.ConfigBytes(cfg)
	if err != nil {
		return err
	}
	_, err = c.Write(dc)
	if err != nil {
		return err
	}

	if err := c.Close(); err != nil {
		return err
	}
	return nil
}

func (pc *PermawebClient) SaveConfig(cfg *config.Config) error {
	if pc.repo == "" {
		return xerrors.New("client was not loaded from a repo")
	}
	repoPath, err := homedir.Expand(pc.repo)
	if err != nil {
		return err
	}
	if err := writeConfig(filepath.Join(repoPath, configFile), cfg); err != nil {
		return err
	}
	pc.Cfg = cfg
	return nil
}

func (pc *PermawebClient) Gateway() *ao.Gateway {
	return pc.gateway
}

func (pc *PermawebClient) Indexer() *gql.Client {
	return pc.indexer
}

func (pc *PermawebClient) Resolver() *arweave.Resolver {
	return pc.resolver
}
