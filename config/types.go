package config

import "time"

type Config struct {
	AO       AO
	Node     Node
	Gateways Gateways
	Connect  Connect
	Poll     Poll
	Cache    Cache
}

// AO contains the process ids the client spawns from and talks to
type AO struct {
	// module every process is spawned from
	Module string
	// scheduler unit assigned to spawned processes
	Scheduler string
	// messenger unit used as Authority when no node scheduler is set
	MU string

	Src Src

	// registry process holding every collection
	CollectionsRegistry string
}

// Src contains the source ids processes boot or evaluate
type Src struct {
	Asset              string
	Zone               string
	ZoneVersion        string
	Collection         string
	CollectionActivity string
	Comments           string
}

// Node contains configs for direct state reads
type Node struct {
	// HyperBEAM node url, empty disables direct reads
	URL string
	// overrides AO.MU as the Authority of spawned processes
	Scheduler string
}

type Gateways struct {
	// gateway serving transaction data
	Arweave string
	// GraphQL indexer
	Indexer string
}

// Connect contains the compute and messenger unit endpoints
type Connect struct {
	CU string
	MU string
}

type Poll struct {
	GatewayRetryCount int
	PollInterval      time.Duration
	SpawnRetryCount   int
	SpawnRetryDelay   time.Duration
	ResultsRetryCount int
	ResultsRetryDelay time.Duration

	// indexer requests per second, 0 disables pacing
	RequestsPerSecond float64
	HttpTimeout       time.Duration
}

type Cache struct {
	EnableCache bool
	// lru, redis or memcached
	Backend       string
	CacheCapacity int

	RedisConn     string
	RedisPassword string
	RedisPoolSize int

	MemcachedConn string
}
