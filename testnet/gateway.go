package testnet

import (
	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/config"
	"github.com/permaweb/permaweb-go/gql"
)

// Config returns a client config pointing every endpoint at the network,
// with polling delays disabled.
func (n *Network) Config() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Node.URL = n.URL()
	cfg.Gateways.Arweave = n.URL()
	cfg.Gateways.Indexer = n.URL()
	cfg.Connect.CU = n.URL()
	cfg.Connect.MU = n.URL()
	cfg.Poll.GatewayRetryCount = 5
	cfg.Poll.PollInterval = 0
	cfg.Poll.SpawnRetryCount = 3
	cfg.Poll.SpawnRetryDelay = 0
	cfg.Poll.ResultsRetryCount = 3
	cfg.Poll.ResultsRetryDelay = 0
	return cfg
}

// Gateway returns a gateway signing with the network signer and indexing
// through the network indexer.
func (n *Network) Gateway(opts ...ao.GatewayOption) *ao.Gateway {
	cfg := ao.GatewayConfigFrom(n.Config())
	opts = append([]ao.GatewayOption{
		ao.WithSigner(n.Signer),
		ao.WithIndexer(gql.NewClient(n.URL())),
	}, opts...)
	return ao.NewGateway(n.Runtime, cfg, opts...)
}
