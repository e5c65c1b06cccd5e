package config

import (
	"bytes"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/xerrors"
)

const (
	DefaultModule              = "Do_Uc2Sju_ffp6Ev0AnLVdPtot15rvMjP-a9VVaA5fM"
	DefaultScheduler           = "_GQ33BkPtZrqxA84vM8Zk-N2aO0toNNu_C-l-rawrBA"
	DefaultMU                  = "fcoN_xJeisVsPXA-trzVAuIiqO3ydLQxM-L4XbrQKzY"
	DefaultAssetSrc            = "NmblR8TOskNxUiNdmjrVftdsed5RsxYo004ONtCuHTk"
	DefaultZoneSrc             = "M9G2B9Uvk8VK1pxloESeT4XScguRKSzLyd4as1HFOJ8"
	DefaultZoneVersion         = "0.0.1"
	DefaultCollectionSrc       = "2ZDuM2VUCN8WHoAKOOjiH4_7Apq0ZHKnTWdLppxCdGY"
	DefaultCollectionsRegistry = "TFWDmf8a3_nw43GCm_CuYlYoylHAjCcFGbgHfDaGcsg"

	DefaultNodeURL        = "https://forward.computer"
	DefaultArweaveGateway = "arweave.net"
	DefaultIndexer        = "arweave-search.goldsky.com"
	DefaultCU             = "https://cu.ao-testnet.xyz"
	DefaultMUURL          = "https://mu.ao-testnet.xyz"

	UDLLicense = "dE0rmDfl9_OWjkDznNEXHaSO_JohJkRolvMzaCroUdw"
)

func DefaultConfig() *Config {
	return &Config{
		AO: AO{
			Module:    DefaultModule,
			Scheduler: DefaultScheduler,
			MU:        DefaultMU,
			Src: Src{
				Asset:       DefaultAssetSrc,
				Zone:        DefaultZoneSrc,
				ZoneVersion: DefaultZoneVersion,
				Collection:  DefaultCollectionSrc,
			},
			CollectionsRegistry: DefaultCollectionsRegistry,
		},
		Node: Node{
			URL: DefaultNodeURL,
		},
		Gateways: Gateways{
			Arweave: DefaultArweaveGateway,
			Indexer: DefaultIndexer,
		},
		Connect: Connect{
			CU: DefaultCU,
			MU: DefaultMUURL,
		},
		Poll: Poll{
			GatewayRetryCount: 100,
			PollInterval:      2 * time.Second,
			SpawnRetryCount:   25,
			SpawnRetryDelay:   time.Second,
			ResultsRetryCount: 10,
			ResultsRetryDelay: time.Second,
			HttpTimeout:       30 * time.Second,
		},
		Cache: Cache{
			EnableCache:   false,
			Backend:       "lru",
			CacheCapacity: 1000,
		},
	}
}

func ConfigBytes(cfg interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	e := toml.NewEncoder(buf)
	if err := e.Encode(cfg); err != nil {
		return nil, xerrors.Errorf("encoding config: %w", err)
	}

	return buf.Bytes(), nil
}
