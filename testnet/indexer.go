package testnet

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/permaweb/permaweb-go/types"
)

const indexerSchema = `
	schema {
		query: Query
	}

	type Query {
		transactions(
			ids: [String!]
			tags: [TagFilter!]
			first: Int
			owners: [String!]
			recipients: [String!]
			block: BlockFilter
			after: String
			sort: SortOrder
		): TransactionConnection!
	}

	input TagFilter {
		name: String!
		values: [String!]!
		match: TagMatch
	}

	enum TagMatch {
		EXACT
		WILDCARD
		FUZZY_AND
		FUZZY_OR
	}

	input BlockFilter {
		min: Int
		max: Int
	}

	enum SortOrder {
		HEIGHT_ASC
		HEIGHT_DESC
	}

	type TransactionConnection {
		count: Int!
		pageInfo: PageInfo!
		edges: [TransactionEdge!]!
	}

	type PageInfo {
		hasNextPage: Boolean!
	}

	type TransactionEdge {
		cursor: String!
		node: Transaction!
	}

	type Transaction {
		id: ID!
		tags: [Tag!]!
		recipient: String!
		data: MetaData!
		owner: Owner!
		block: Block
	}

	type Tag {
		name: String!
		value: String!
	}

	type MetaData {
		size: String!
		type: String
	}

	type Owner {
		address: String!
	}

	type Block {
		height: Int!
		timestamp: Int!
	}
`

const genesisTimestamp = 1700000000

type tagInput struct {
	Name   string
	Values []string
	Match  *string
}

type blockInput struct {
	Min *int32
	Max *int32
}

type transactionsArgs struct {
	Ids        *[]string
	Tags       *[]tagInput
	First      *int32
	Owners     *[]string
	Recipients *[]string
	Block      *blockInput
	After      *string
	Sort       *string
}

type connection struct {
	Count    int32
	PageInfo *pageInfo
	Edges    []*edge
}

type pageInfo struct {
	HasNextPage bool
}

type edge struct {
	Cursor string
	Node   *transaction
}

type transaction struct {
	Id        graphql.ID
	Tags      []*tag
	Recipient string
	Data      *metaData
	Owner     *owner
	Block     *block
}

type tag struct {
	Name  string
	Value string
}

type metaData struct {
	Size string
	Type *string
}

type owner struct {
	Address string
}

type block struct {
	Height    int32
	Timestamp int32
}

type indexedTx struct {
	node types.GQLNode
	// request count from which the transaction is visible
	visibleFrom int
}

// Indexer serves a GraphQL transactions index over the transactions it has
// been told about.
type Indexer struct {
	lk       sync.Mutex
	txs      []*indexedTx
	height   int64
	requests int
	data     map[string][]byte

	handler http.Handler
}

func NewIndexer() *Indexer {
	idx := &Indexer{data: make(map[string][]byte)}
	schema := graphql.MustParseSchema(indexerSchema, &indexerResolver{idx: idx}, graphql.UseFieldResolvers())
	idx.handler = &relay.Handler{Schema: schema}
	return idx
}

// Add indexes node in a new block and returns the stored node.
func (idx *Indexer) Add(node types.GQLNode) types.GQLNode {
	idx.lk.Lock()
	defer idx.lk.Unlock()
	return idx.addLocked(node, 0)
}

// AddDelayed indexes node so that it only shows up once the indexer has
// served the given number of further requests.
func (idx *Indexer) AddDelayed(node types.GQLNode, requests int) types.GQLNode {
	idx.lk.Lock()
	defer idx.lk.Unlock()
	return idx.addLocked(node, idx.requests+requests)
}

func (idx *Indexer) addLocked(node types.GQLNode, visibleFrom int) types.GQLNode {
	if node.Id == "" {
		node.Id = RandomId()
	}
	if node.Block == nil {
		idx.height++
		node.Block = &types.GQLBlock{Height: idx.height, Timestamp: genesisTimestamp + idx.height}
	} else if node.Block.Height > idx.height {
		idx.height = node.Block.Height
	}
	idx.txs = append(idx.txs, &indexedTx{node: node, visibleFrom: visibleFrom})
	return node
}

// SetData stores the data served for a transaction id.
func (idx *Indexer) SetData(id string, data []byte) {
	idx.lk.Lock()
	defer idx.lk.Unlock()
	idx.data[id] = data
}

func (idx *Indexer) Data(id string) ([]byte, bool) {
	idx.lk.Lock()
	defer idx.lk.Unlock()
	data, ok := idx.data[id]
	return data, ok
}

// Requests is the number of GraphQL requests served.
func (idx *Indexer) Requests() int {
	idx.lk.Lock()
	defer idx.lk.Unlock()
	return idx.requests
}

func (idx *Indexer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	idx.lk.Lock()
	idx.requests++
	idx.lk.Unlock()
	idx.handler.ServeHTTP(w, r)
}

type indexerResolver struct {
	idx *Indexer
}

func (r *indexerResolver) Transactions(_ context.Context, args transactionsArgs) (*connection, error) {
	return r.idx.query(args), nil
}

func (idx *Indexer) query(args transactionsArgs) *connection {
	idx.lk.Lock()
	defer idx.lk.Unlock()

	var matched []types.GQLNode
	for _, tx := range idx.txs {
		if tx.visibleFrom > idx.requests {
			continue
		}
		if matches(tx.node, args) {
			matched = append(matched, tx.node)
		}
	}

	desc := args.Sort == nil || *args.Sort != "HEIGHT_ASC"
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return matched[i].Block.Height > matched[j].Block.Height
		}
		return matched[i].Block.Height < matched[j].Block.Height
	})

	start := 0
	if args.After != nil {
		if n, err := strconv.Atoi(*args.After); err == nil {
			start = n
		}
	}
	first := types.DefaultPageSize
	if args.First != nil && *args.First > 0 {
		first = int(*args.First)
	}

	conn := &connection{Count: int32(len(matched)), PageInfo: &pageInfo{}, Edges: []*edge{}}
	if start > len(matched) {
		return conn
	}
	end := start + first
	if end < len(matched) {
		conn.PageInfo.HasNextPage = true
	} else {
		end = len(matched)
	}
	for i := start; i < end; i++ {
		conn.Edges = append(conn.Edges, &edge{Cursor: strconv.Itoa(i + 1), Node: toTransaction(matched[i])})
	}
	return conn
}

func toTransaction(node types.GQLNode) *transaction {
	tx := &transaction{
		Id:        graphql.ID(node.Id),
		Tags:      make([]*tag, 0, len(node.Tags)),
		Recipient: node.Recipient,
		Data:      &metaData{Size: node.Data.Size},
		Owner:     &owner{Address: node.Owner.Address},
	}
	if tx.Data.Size == "" {
		tx.Data.Size = "0"
	}
	if node.Data.Type != "" {
		dataType := node.Data.Type
		tx.Data.Type = &dataType
	}
	for _, t := range node.Tags {
		tx.Tags = append(tx.Tags, &tag{Name: t.Name, Value: t.Value})
	}
	if node.Block != nil {
		tx.Block = &block{Height: int32(node.Block.Height), Timestamp: int32(node.Block.Timestamp)}
	}
	return tx
}

func matches(node types.GQLNode, args transactionsArgs) bool {
	if args.Ids != nil && !contains(*args.Ids, node.Id) {
		return false
	}
	if args.Owners != nil && !contains(*args.Owners, node.Owner.Address) {
		return false
	}
	if args.Recipients != nil && !contains(*args.Recipients, node.Recipient) {
		return false
	}
	if args.Block != nil {
		if args.Block.Min != nil && node.Block.Height < int64(*args.Block.Min) {
			return false
		}
		if args.Block.Max != nil && node.Block.Height > int64(*args.Block.Max) {
			return false
		}
	}
	if args.Tags != nil {
		for _, filter := range *args.Tags {
			if !matchesTag(node.Tags, filter) {
				return false
			}
		}
	}
	return true
}

func matchesTag(tags []types.Tag, filter tagInput) bool {
	match := string(types.TagMatchExact)
	if filter.Match != nil {
		match = *filter.Match
	}

	values := types.GetTagValues(tags, filter.Name)
	switch match {
	case string(types.TagMatchFuzzyAnd):
		for _, want := range filter.Values {
			if !anyValue(values, func(v string) bool { return strings.Contains(strings.ToLower(v), strings.ToLower(want)) }) {
				return false
			}
		}
		return true
	case string(types.TagMatchFuzzyOr):
		for _, want := range filter.Values {
			if anyValue(values, func(v string) bool { return strings.Contains(strings.ToLower(v), strings.ToLower(want)) }) {
				return true
			}
		}
		return false
	case string(types.TagMatchWildcard):
		for _, want := range filter.Values {
			prefix := strings.TrimSuffix(want, "*")
			if anyValue(values, func(v string) bool { return strings.HasPrefix(v, prefix) }) {
				return true
			}
		}
		return false
	}

	for _, want := range filter.Values {
		if contains(values, want) {
			return true
		}
	}
	return false
}

func anyValue(values []string, fn func(string) bool) bool {
	for _, v := range values {
		if fn(v) {
			return true
		}
	}
	return false
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
