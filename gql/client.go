package gql

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/permaweb/permaweb-go/metrics"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

var (
	log = logging.Logger("gql")

	queryKeyRegex = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)
)

type Client struct {
	gateway    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type ClientOption func(*Client)

func WithHttpClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit paces requests to rps per second. A non-positive rps
// disables pacing.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient returns a client querying gateway unless a query names its own.
// The gateway is a host ("arweave.net") or a full base URL.
func NewClient(gateway string, opts ...ClientOption) *Client {
	c := &Client{
		gateway:    gateway,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Gateway() string {
	return c.gateway
}

func (c *Client) endpoint(gateway string) string {
	if strings.HasPrefix(gateway, "http://") || strings.HasPrefix(gateway, "https://") {
		return strings.TrimSuffix(gateway, "/") + "/graphql"
	}
	return "https://" + gateway + "/graphql"
}

func (c *Client) resolveGateway(gateway string) string {
	if gateway != "" {
		return gateway
	}
	if c.gateway != "" {
		return c.gateway
	}
	return GatewayGoldsky
}

func (c *Client) post(ctx context.Context, gateway string, query []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(gateway), bytes.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.Wrapf(types.ErrQueryFailed, "gateway %s responded %d: %s", gateway, resp.StatusCode, string(body))
	}
	return body, nil
}

func parsePage(result gjson.Result, pageSize int) (*types.GQLResponse, error) {
	page := types.EmptyGQLResponse()

	edges := result.Get("edges")
	if !edges.Exists() || len(edges.Array()) == 0 {
		return page, nil
	}

	var data []types.GQLEdge
	if err := utils.Unmarshal([]byte(edges.Raw), &data); err != nil {
		return page, types.Wrap(types.ErrQueryFailed, err)
	}

	page.Data = data
	page.Count = result.Get("count").Int()
	if len(data) < pageSize || !result.Get("pageInfo.hasNextPage").Bool() {
		page.NextCursor = types.CursorEnd
	} else {
		page.NextCursor = data[len(data)-1].Cursor
	}
	return page, nil
}

func queryErrors(body []byte) error {
	errs := gjson.GetBytes(body, "errors")
	if !errs.Exists() || len(errs.Array()) == 0 {
		return nil
	}
	messages := make([]string, 0)
	for _, e := range errs.Array() {
		messages = append(messages, e.Get("message").String())
	}
	return types.Wrapf(types.ErrQueryFailed, "%s", strings.Join(messages, "; "))
}

// Query runs one transactions query and reports failures to the caller.
func (c *Client) Query(ctx context.Context, args QueryArgs) (page *types.GQLResponse, err error) {
	if args.Ids != nil && len(args.Ids) == 0 {
		return types.EmptyGQLResponse(), nil
	}

	start := time.Now()
	defer func() {
		metrics.ObserveGQL("single", start, err)
	}()

	args.Gateway = c.resolveGateway(args.Gateway)
	query, err := BuildQuery(BuildQueryBody(args, ""))
	if err != nil {
		return nil, types.Wrap(types.ErrQueryFailed, err)
	}

	body, err := c.post(ctx, args.Gateway, query)
	if err != nil {
		return nil, types.Wrap(types.ErrQueryFailed, err)
	}

	result := gjson.GetBytes(body, "data.transactions")
	if !result.Exists() {
		if err := queryErrors(body); err != nil {
			return nil, err
		}
	}
	return parsePage(result, args.pageSize())
}

// GetGQLData runs one transactions query. Failures are logged and answered
// with an empty page whose NextCursor is empty.
func (c *Client) GetGQLData(ctx context.Context, args QueryArgs) *types.GQLResponse {
	page, err := c.Query(ctx, args)
	if err != nil {
		log.Errorf("gql query failed: %v", err)
		return types.EmptyGQLResponse()
	}
	return page
}

type BatchArgs struct {
	Gateway string
	Entries map[string]QueryArgs
}

// GetBatchGQLData sends every entry in one request, each aliased by its key.
// Every key is present in the result; failures leave the entry empty.
func (c *Client) GetBatchGQLData(ctx context.Context, args BatchArgs) map[string]*types.GQLResponse {
	result := make(map[string]*types.GQLResponse, len(args.Entries))
	gateway := c.resolveGateway(args.Gateway)

	keys := make([]string, 0, len(args.Entries))
	for key, entry := range args.Entries {
		result[key] = types.EmptyGQLResponse()
		if !queryKeyRegex.MatchString(key) {
			log.Warnf("skipping batch entry with invalid key %q", key)
			continue
		}
		if entry.Ids != nil && len(entry.Ids) == 0 {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return result
	}
	sort.Strings(keys)

	var body strings.Builder
	for _, key := range keys {
		entry := args.Entries[key]
		entry.Gateway = gateway
		body.WriteString(BuildQueryBody(entry, key))
	}

	start := time.Now()
	query, err := BuildQuery(body.String())
	if err == nil {
		var raw []byte
		raw, err = c.post(ctx, gateway, query)
		if err == nil {
			for _, key := range keys {
				page, perr := parsePage(gjson.GetBytes(raw, "data."+key), args.Entries[key].pageSize())
				if perr != nil {
					log.Errorf("gql batch entry %s: %v", key, perr)
					continue
				}
				result[key] = page
			}
		}
	}
	metrics.ObserveGQL("batch", start, err)
	if err != nil {
		log.Errorf("gql batch query failed: %v", err)
	}
	return result
}

// GetAggregatedGQLData follows cursors until the result set is exhausted and
// returns every edge, or nil when the first page is empty.
func (c *Client) GetAggregatedGQLData(ctx context.Context, args QueryArgs, callback func(message string)) []types.GQLEdge {
	report := types.StatusFunc(callback)

	index := 1
	page := c.GetGQLData(ctx, args)
	if len(page.Data) == 0 {
		report.Report("No data found")
		return nil
	}

	aggregated := page.Data
	report.Report("Count: " + itoa(page.Count))
	report.Report("Pages to fetch: " + itoa(int64(math.Ceil(float64(page.Count)/float64(args.pageSize())))))
	report.Report("Page " + itoa(int64(index)) + " fetched")

	for page.NextCursor != "" && page.NextCursor != types.CursorEnd {
		if ctx.Err() != nil {
			log.Warnf("aggregated query cancelled after %d pages", index)
			break
		}
		index++
		report.Report("Fetching page " + itoa(int64(index)) + "...")

		next := args
		next.Cursor = page.NextCursor
		page = c.GetGQLData(ctx, next)
		aggregated = append(aggregated, page.Data...)
	}

	report.Report("All pages fetched!")
	return aggregated
}
