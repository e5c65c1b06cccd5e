package ao

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/config"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

const (
	ProtocolAO   = "ao"
	VariantAO    = "ao.TN.1"
	TypeProcess  = "Process"
	TypeMessage  = "Message"
	SDKName      = "permaweb-go"
	dryRunCaller = "1234"
)

// Connect is a Runtime speaking HTTP to a compute unit (reads) and a
// messenger unit (signed writes).
type Connect struct {
	cuURL      string
	muURL      string
	httpClient *http.Client
}

func NewConnect(cuURL string, muURL string, httpClient *http.Client) *Connect {
	if cuURL == "" {
		cuURL = config.DefaultCU
	}
	if muURL == "" {
		muURL = config.DefaultMUURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Connect{
		cuURL:      strings.TrimSuffix(cuURL, "/"),
		muURL:      strings.TrimSuffix(muURL, "/"),
		httpClient: httpClient,
	}
}

func protocolTags(kind string) []types.Tag {
	return []types.Tag{
		{Name: types.TagDataProtocol, Value: ProtocolAO},
		{Name: "Variant", Value: VariantAO},
		{Name: types.TagType, Value: kind},
		{Name: "SDK", Value: SDKName},
	}
}

func (c *Connect) Spawn(ctx context.Context, args SpawnArgs) (string, error) {
	if args.Signer == nil {
		return "", types.ErrNoSigner
	}
	if args.Module == "" {
		return "", types.Missing("module")
	}
	if args.Scheduler == "" {
		return "", types.Missing("scheduler")
	}

	// caller tags precede the protocol tags
	tags := append([]types.Tag{}, args.Tags...)
	tags = append(tags, protocolTags(TypeProcess)...)
	tags = append(tags,
		types.Tag{Name: "Module", Value: args.Module},
		types.Tag{Name: "Scheduler", Value: args.Scheduler},
	)

	data := args.Data
	if data == "" {
		// processes can not be spawned without data
		data = dryRunCaller
	}
	return c.post(ctx, args.Signer, &DataItem{Tags: tags, Data: []byte(data)})
}

func (c *Connect) Message(ctx context.Context, args MessageArgs) (string, error) {
	if args.Signer == nil {
		return "", types.ErrNoSigner
	}
	if args.Process == "" {
		return "", types.Missing("process")
	}

	tags := append(append([]types.Tag{}, args.Tags...), protocolTags(TypeMessage)...)
	return c.post(ctx, args.Signer, &DataItem{
		Target: args.Process,
		Anchor: args.Anchor,
		Tags:   tags,
		Data:   []byte(args.Data),
	})
}

type muResponse struct {
	Id string `json:"id"`
}

func (c *Connect) post(ctx context.Context, signer Signer, item *DataItem) (string, error) {
	signed, err := signer.Sign(ctx, item)
	if err != nil {
		return "", xerrors.Errorf("signing data item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.muURL, bytes.NewReader(signed.Raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var resp muResponse
	if len(body) > 0 {
		if err := utils.Unmarshal(body, &resp); err != nil {
			return "", types.Wrap(types.ErrInvalidJSON, err)
		}
	}
	if resp.Id != "" {
		return resp.Id, nil
	}
	return signed.Id, nil
}

type dryRunMessage struct {
	Id     string      `json:"Id"`
	Target string      `json:"Target"`
	Owner  string      `json:"Owner"`
	Anchor string      `json:"Anchor"`
	Data   string      `json:"Data"`
	Tags   []types.Tag `json:"Tags"`
}

func (c *Connect) DryRun(ctx context.Context, args DryRunArgs) (*Output, error) {
	if args.Process == "" {
		return nil, types.Missing("process")
	}

	payload, err := utils.Marshal(dryRunMessage{
		Id:     dryRunCaller,
		Target: args.Process,
		Owner:  dryRunCaller,
		Anchor: "0",
		Data:   args.Data,
		Tags:   append(append([]types.Tag{}, args.Tags...), protocolTags(TypeMessage)...),
	})
	if err != nil {
		return nil, err
	}

	endpoint := c.cuURL + "/dry-run?process-target=" + url.QueryEscape(args.Process)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out Output
	if err := c.getJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Connect) Result(ctx context.Context, args ResultArgs) (*Output, error) {
	endpoint := c.cuURL + "/result/" + url.PathEscape(args.Message) + "?process-id=" + url.QueryEscape(args.Process)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var out Output
	if err := c.getJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Connect) Results(ctx context.Context, args ResultsArgs) (*ResultsPage, error) {
	query := url.Values{}
	if args.Sort != "" {
		query.Set("sort", args.Sort)
	}
	if args.Limit > 0 {
		query.Set("limit", strconv.Itoa(args.Limit))
	}

	endpoint := c.cuURL + "/results/" + url.PathEscape(args.Process)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var page ResultsPage
	if err := c.getJSON(req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Connect) getJSON(req *http.Request, out interface{}) error {
	body, err := c.do(req)
	if err != nil {
		return err
	}
	if err := utils.Unmarshal(body, out); err != nil {
		return types.Wrap(types.ErrInvalidJSON, err)
	}
	return nil
}

func (c *Connect) do(req *http.Request) ([]byte, error) {
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
		return nil, xerrors.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

var _ Runtime = (*Connect)(nil)
