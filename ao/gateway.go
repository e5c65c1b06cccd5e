package ao

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/arweave"
	"github.com/permaweb/permaweb-go/codec"
	"github.com/permaweb/permaweb-go/config"
	"github.com/permaweb/permaweb-go/gql"
	"github.com/permaweb/permaweb-go/metrics"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

var log = logging.Logger("ao")

const (
	ActionInit     = "Init"
	ActionEval     = "Eval"
	ActionInfo     = "Info"
	ActionResponse = "Action-Response"

	StatusSuccess = "Success"
	StatusError   = "Error"
)

var errNotIndexed = xerrors.New("process not indexed yet")
var errIncomplete = xerrors.New("results incomplete")

type GatewayConfig struct {
	Module    string
	Scheduler string
	// Authority tag of spawned processes unless NodeScheduler is set
	Authority     string
	NodeURL       string
	NodeScheduler string
	// gateway serving process sources for Eval
	ArweaveGateway string

	GatewayRetryCount int
	PollInterval      time.Duration
	SpawnRetryCount   int
	SpawnRetryDelay   time.Duration
	ResultsRetryCount int
	ResultsRetryDelay time.Duration
}

func GatewayConfigFrom(cfg *config.Config) GatewayConfig {
	return GatewayConfig{
		Module:            cfg.AO.Module,
		Scheduler:         cfg.AO.Scheduler,
		Authority:         cfg.AO.MU,
		NodeURL:           cfg.Node.URL,
		NodeScheduler:     cfg.Node.Scheduler,
		ArweaveGateway:    cfg.Gateways.Arweave,
		GatewayRetryCount: cfg.Poll.GatewayRetryCount,
		PollInterval:      cfg.Poll.PollInterval,
		SpawnRetryCount:   cfg.Poll.SpawnRetryCount,
		SpawnRetryDelay:   cfg.Poll.SpawnRetryDelay,
		ResultsRetryCount: cfg.Poll.ResultsRetryCount,
		ResultsRetryDelay: cfg.Poll.ResultsRetryDelay,
	}
}

// Gateway wraps a Runtime with the conventions every process write and
// read follows.
type Gateway struct {
	runtime    Runtime
	signer     Signer
	indexer    *gql.Client
	httpClient *http.Client
	cfg        GatewayConfig
	now        func() time.Time
}

type GatewayOption func(*Gateway)

func WithSigner(signer Signer) GatewayOption {
	return func(g *Gateway) {
		g.signer = signer
	}
}

func WithIndexer(indexer *gql.Client) GatewayOption {
	return func(g *Gateway) {
		g.indexer = indexer
	}
}

func WithHttpClient(httpClient *http.Client) GatewayOption {
	return func(g *Gateway) {
		g.httpClient = httpClient
	}
}

func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		g.now = now
	}
}

func NewGateway(runtime Runtime, cfg GatewayConfig, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		runtime:    runtime,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.cfg.Module == "" {
		g.cfg.Module = config.DefaultModule
	}
	if g.cfg.Scheduler == "" {
		g.cfg.Scheduler = config.DefaultScheduler
	}
	if g.cfg.Authority == "" {
		g.cfg.Authority = config.DefaultMU
	}
	if g.cfg.GatewayRetryCount < 1 {
		g.cfg.GatewayRetryCount = 1
	}
	if g.cfg.SpawnRetryCount < 1 {
		g.cfg.SpawnRetryCount = 1
	}
	if g.cfg.ResultsRetryCount < 1 {
		g.cfg.ResultsRetryCount = 1
	}
	return g
}

func (g *Gateway) Indexer() *gql.Client {
	return g.indexer
}

func (g *Gateway) HasSigner() bool {
	return g.signer != nil
}

func (g *Gateway) authority() string {
	if g.cfg.NodeScheduler != "" {
		return g.cfg.NodeScheduler
	}
	return g.cfg.Authority
}

type SpawnRequest struct {
	Module    string
	Scheduler string
	Tags      []types.Tag
	Data      string
}

// Spawn creates a process and sends it the Init message. When only the Init
// message fails, the new process id is returned along with ErrInitFailed.
func (g *Gateway) Spawn(ctx context.Context, req SpawnRequest) (processId string, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveGateway("spawn", start, err)
	}()

	if g.signer == nil {
		return "", types.ErrNoSigner
	}

	args := SpawnArgs{
		Module:    req.Module,
		Scheduler: req.Scheduler,
		Signer:    g.signer,
		Tags:      append([]types.Tag{{Name: types.TagAuthority, Value: g.authority()}}, req.Tags...),
		Data:      req.Data,
	}
	if args.Module == "" {
		args.Module = g.cfg.Module
	}
	if args.Scheduler == "" {
		args.Scheduler = g.cfg.Scheduler
	}

	processId, err = retry.DoWithData(
		func() (string, error) {
			return g.runtime.Spawn(ctx, args)
		},
		retry.Attempts(uint(g.cfg.SpawnRetryCount)),
		retry.Delay(g.cfg.SpawnRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("spawn attempt %d failed: %v", n+1, err)
		}),
	)
	if err != nil {
		return "", types.Wrap(types.ErrSpawnFailed, err)
	}

	log.Infof("Process ID: %s", processId)
	log.Info("Sending initial message...")

	if _, err = g.Send(ctx, SendRequest{ProcessId: processId, Action: ActionInit}); err != nil {
		return processId, types.Wrap(types.ErrInitFailed, err)
	}

	return processId, nil
}

type SendRequest struct {
	ProcessId string
	Action    string
	Tags      []types.Tag
	// Data is JSON encoded unless UseRawData is set, in which case it must
	// be a string or []byte.
	Data       interface{}
	UseRawData bool
}

func encodeData(data interface{}, raw bool) (string, error) {
	if data == nil {
		return "", nil
	}
	if raw {
		switch d := data.(type) {
		case string:
			return d, nil
		case []byte:
			return string(d), nil
		}
		return "", types.Wrapf(types.ErrInvalidArgs, "raw data must be a string, got %T", data)
	}
	return utils.MarshalString(data)
}

// Send delivers a message with Action and Message-Timestamp tags and returns
// the message id.
func (g *Gateway) Send(ctx context.Context, req SendRequest) (messageId string, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveGateway("send", start, err)
	}()

	if g.signer == nil {
		return "", types.ErrNoSigner
	}

	tags := []types.Tag{
		{Name: types.TagAction, Value: req.Action},
		{Name: types.TagMessageTime, Value: strconv.FormatInt(g.now().UnixMilli(), 10)},
	}
	tags = append(tags, req.Tags...)

	data, err := encodeData(req.Data, req.UseRawData)
	if err != nil {
		return "", err
	}

	messageId, err = g.runtime.Message(ctx, MessageArgs{
		Process: req.ProcessId,
		Signer:  g.signer,
		Tags:    tags,
		Data:    data,
	})
	if err != nil {
		return "", types.Wrap(types.ErrSendFailed, err)
	}
	return messageId, nil
}

type DryRunRequest struct {
	ProcessId string
	Action    string
	Tags      []types.Tag
	// Data may be a JSON string, raw JSON bytes or any value to encode.
	Data interface{}
}

func dryRunPayload(data interface{}) (string, error) {
	switch d := data.(type) {
	case nil:
		return "", nil
	case string:
		if !utils.IsJSON(d) {
			return "", types.Wrapf(types.ErrInvalidJSON, "dry run data is not valid JSON")
		}
		return d, nil
	case []byte:
		if !utils.IsJSON(string(d)) {
			return "", types.Wrapf(types.ErrInvalidJSON, "dry run data is not valid JSON")
		}
		return string(d), nil
	}
	return utils.MarshalString(data)
}

// DryRun evaluates a message without committing it. The first outbox
// message's Data is decoded as JSON; without Data its tags are folded into an
// object. An empty outbox yields nil.
func (g *Gateway) DryRun(ctx context.Context, req DryRunRequest) (result interface{}, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveGateway("dryrun", start, err)
	}()

	payload, err := dryRunPayload(req.Data)
	if err != nil {
		return nil, err
	}

	tags := append([]types.Tag{{Name: types.TagAction, Value: req.Action}}, req.Tags...)
	out, err := g.runtime.DryRun(ctx, DryRunArgs{
		Process: req.ProcessId,
		Tags:    tags,
		Data:    payload,
	})
	if err != nil {
		return nil, types.Wrap(types.ErrDryRunFailed, err)
	}

	return decodeOutput(out)
}

func decodeOutput(out *Output) (interface{}, error) {
	if out == nil || len(out.Messages) == 0 {
		return nil, nil
	}

	first := out.Messages[0]
	if first.Data != "" {
		var v interface{}
		if err := utils.Unmarshal([]byte(first.Data), &v); err != nil {
			return nil, types.Wrap(types.ErrInvalidJSON, err)
		}
		return v, nil
	}
	if len(first.Tags) > 0 {
		return codec.TagsToObject(first.Tags), nil
	}
	return nil, nil
}

// DryRunInto runs DryRun and decodes the result into out.
func (g *Gateway) DryRunInto(ctx context.Context, req DryRunRequest, out interface{}) error {
	result, err := g.DryRun(ctx, req)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return codec.Decode(result, out)
}

type ReadRequest struct {
	ProcessId string
	Path      string
	// dry run action used when the node cannot serve the state
	FallbackAction string
	Serialize      bool
}

// Read fetches process state from the node, falling back to a dry run of
// FallbackAction when the node is unreachable, answers non-2xx or is not
// configured.
func (g *Gateway) Read(ctx context.Context, req ReadRequest) (result interface{}, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveGateway("read", start, err)
	}()

	if g.cfg.NodeURL != "" {
		result, err = g.readNode(ctx, req)
		if err == nil {
			return result, nil
		}
		log.Debugf("node read of %s failed: %v", req.ProcessId, err)
		if req.FallbackAction == "" {
			return nil, types.Wrap(types.ErrReadFailed, err)
		}
	} else if req.FallbackAction == "" {
		return nil, types.Wrapf(types.ErrReadFailed, "no node configured and no fallback action for %s", req.ProcessId)
	}

	return g.DryRun(ctx, DryRunRequest{ProcessId: req.ProcessId, Action: req.FallbackAction})
}

func (g *Gateway) nodeStateURL(req ReadRequest) string {
	url := strings.TrimSuffix(g.cfg.NodeURL, "/") + "/" + req.ProcessId + "~process@1.0/now/" + strings.TrimPrefix(req.Path, "/")
	if req.Serialize {
		url += "/serialize~json@1.0"
	}
	return url
}

func (g *Gateway) readNode(ctx context.Context, req ReadRequest) (interface{}, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.nodeStateURL(req), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, xerrors.Errorf("error getting state from HyperBEAM: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var v interface{}
	if err := utils.Unmarshal(body, &v); err != nil {
		return nil, types.Wrap(types.ErrInvalidJSON, err)
	}
	return v, nil
}

// ActionResult is the outcome a process reported for one action.
type ActionResult struct {
	Id      string      `json:"id,omitempty"`
	Status  string      `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

func toActionResult(id string, msg Message) ActionResult {
	status, _ := types.GetTagValue(msg.Tags, types.TagStatus)
	message, _ := types.GetTagValue(msg.Tags, types.TagMessage)

	var data interface{}
	if msg.Data != "" {
		if err := utils.Unmarshal([]byte(msg.Data), &data); err != nil {
			data = string(msg.Data)
		}
	}
	return ActionResult{Id: id, Status: status, Message: message, Data: data}
}

type ResultRequest struct {
	ProcessId string
	MessageId string
	// reported for messages without an Action tag
	Action string
}

// MessageResult maps every outbox message of a processed message to its
// action. A result without messages yields nil.
func (g *Gateway) MessageResult(ctx context.Context, req ResultRequest) (results map[string]ActionResult, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveGateway("result", start, err)
	}()

	out, err := g.runtime.Result(ctx, ResultArgs{Process: req.ProcessId, Message: req.MessageId})
	if err != nil {
		return nil, types.Wrap(types.ErrResultFailed, err)
	}
	if out == nil || len(out.Messages) == 0 {
		return nil, nil
	}

	results = make(map[string]ActionResult, len(out.Messages))
	for _, msg := range out.Messages {
		action, ok := types.GetTagValue(msg.Tags, types.TagAction)
		if !ok || action == "" {
			action = req.Action
		}
		results[action] = toActionResult(req.MessageId, msg)
	}
	return results, nil
}

// SendAndConfirm sends a message and reads its result back, failing when
// the process answered with an Error status.
func (g *Gateway) SendAndConfirm(ctx context.Context, req SendRequest) (string, error) {
	messageId, err := g.Send(ctx, req)
	if err != nil {
		return "", err
	}

	results, err := g.MessageResult(ctx, ResultRequest{ProcessId: req.ProcessId, MessageId: messageId, Action: req.Action})
	if err != nil {
		return messageId, err
	}
	for _, result := range results {
		if result.Status == StatusError {
			return messageId, types.Wrapf(types.ErrSendFailed, "%s rejected by %s: %s", req.Action, req.ProcessId, result.Message)
		}
	}
	return messageId, nil
}

type ResultsRequest struct {
	ProcessId string
	Action    string
	Tags      []types.Tag
	Data      interface{}
	// further actions expected back besides Action
	Responses []string
	// Action-Response messages only count when their Handler tag matches
	Handler string
}

// MessageResults sends a message, then polls the latest results of the
// process until every expected action was seen or the polling budget is spent.
// Whatever was collected is returned in the latter case.
func (g *Gateway) MessageResults(ctx context.Context, req ResultsRequest) (results map[string]ActionResult, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveGateway("results", start, err)
	}()

	if _, err = g.Send(ctx, SendRequest{
		ProcessId: req.ProcessId,
		Action:    req.Action,
		Tags:      req.Tags,
		Data:      req.Data,
	}); err != nil {
		return nil, err
	}

	expected := append([]string{req.Action}, req.Responses...)
	results = make(map[string]ActionResult)
	var lastErr error

	err = retry.Do(
		func() error {
			metrics.PollAttempts.WithLabelValues("results").Inc()

			page, err := g.runtime.Results(ctx, ResultsArgs{Process: req.ProcessId, Sort: "DESC", Limit: 100})
			if err != nil {
				lastErr = err
				return err
			}
			if collectResults(page, expected, req.Handler, results) {
				return nil
			}
			return errIncomplete
		},
		retry.Attempts(uint(g.cfg.ResultsRetryCount)),
		retry.Delay(g.cfg.ResultsRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results, ctxErr
		}
		if len(results) == 0 && lastErr != nil {
			return nil, types.Wrap(types.ErrResultFailed, lastErr)
		}
		log.Warnf("results of %s on %s incomplete: got %d of %d", req.Action, req.ProcessId, len(results), len(expected))
	}
	return results, nil
}

// collectResults records matching messages of page into results and reports
// whether all expected actions were seen.
func collectResults(page *ResultsPage, expected []string, handler string, results map[string]ActionResult) bool {
	if page == nil {
		return false
	}
	for _, edge := range page.Edges {
		for _, msg := range edge.Node.Messages {
			action, ok := types.GetTagValue(msg.Tags, types.TagAction)
			if !ok || action == "" {
				continue
			}

			if action == ActionResponse {
				if h, _ := types.GetTagValue(msg.Tags, types.TagHandler); handler == "" || h != handler {
					continue
				}
			} else if !contains(expected, action) {
				continue
			}
			if _, seen := results[action]; !seen {
				results[action] = toActionResult("", msg)
			}
			if len(results) >= len(expected) {
				return true
			}
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

type EvalRequest struct {
	ProcessId string
	// source text, takes precedence over SrcTxId
	Src     string
	SrcTxId string
	Tags    []types.Tag
}

// FetchProcessSrc downloads process source text stored on the ledger.
func (g *Gateway) FetchProcessSrc(ctx context.Context, txId string) (string, error) {
	data, err := arweave.FetchTransactionData(ctx, g.httpClient, g.cfg.ArweaveGateway, txId)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Eval sends source text to a process with the Eval action and returns the
// evaluation result. Without any source it does nothing.
func (g *Gateway) Eval(ctx context.Context, req EvalRequest) (map[string]ActionResult, error) {
	src := req.Src
	if src == "" && req.SrcTxId != "" {
		var err error
		if src, err = g.FetchProcessSrc(ctx, req.SrcTxId); err != nil {
			return nil, types.Wrap(types.ErrEvalFailed, err)
		}
	}
	if src == "" {
		return nil, nil
	}

	messageId, err := g.Send(ctx, SendRequest{
		ProcessId:  req.ProcessId,
		Action:     ActionEval,
		Tags:       req.Tags,
		Data:       src,
		UseRawData: true,
	})
	if err != nil {
		return nil, types.Wrap(types.ErrEvalFailed, err)
	}
	log.Infof("Eval: %s", messageId)

	result, err := g.MessageResult(ctx, ResultRequest{ProcessId: req.ProcessId, MessageId: messageId, Action: ActionEval})
	if err != nil {
		return nil, types.Wrap(types.ErrEvalFailed, err)
	}
	return result, nil
}

type CreateProcessRequest struct {
	Module    string
	Scheduler string
	Data      string
	Tags      []types.Tag

	EvalTags []types.Tag
	EvalTxId string
	EvalSrc  string
}

// CreateProcess spawns a process and evaluates the optional source on it.
// Like Spawn, a failed evaluation still returns the process id.
func (g *Gateway) CreateProcess(ctx context.Context, req CreateProcessRequest, status types.StatusFunc) (string, error) {
	status.Report("Spawning process...")
	processId, err := g.Spawn(ctx, SpawnRequest{
		Module:    req.Module,
		Scheduler: req.Scheduler,
		Tags:      req.Tags,
		Data:      req.Data,
	})
	if err != nil {
		return processId, err
	}

	if req.EvalTxId == "" && req.EvalSrc == "" {
		return processId, nil
	}

	status.Report("Process retrieved!")
	status.Report("Sending eval...")
	result, err := g.Eval(ctx, EvalRequest{
		ProcessId: processId,
		Src:       req.EvalSrc,
		SrcTxId:   req.EvalTxId,
		Tags:      req.EvalTags,
	})
	if err != nil {
		return processId, err
	}
	if result != nil {
		status.Report("Eval complete")
	}
	return processId, nil
}

// WaitForProcess polls the indexer every PollInterval until processId is
// indexed. With noRetryLimit it polls until ctx is done, otherwise it gives up
// after GatewayRetryCount attempts.
func (g *Gateway) WaitForProcess(ctx context.Context, processId string, noRetryLimit bool) (string, error) {
	if g.indexer == nil {
		return "", types.Wrapf(types.ErrInvalidConfig, "no indexer configured")
	}

	attempts := uint(g.cfg.GatewayRetryCount)
	if noRetryLimit {
		attempts = 0
	}

	var tries uint
	found, err := retry.DoWithData(
		func() (string, error) {
			tries++
			metrics.PollAttempts.WithLabelValues("wait_for_process").Inc()

			page := g.indexer.GetGQLData(ctx, gql.QueryArgs{Ids: []string{processId}})
			if len(page.Data) > 0 {
				log.Infof("Process found: %s (Try %d)", page.Data[0].Node.Id, tries)
				return page.Data[0].Node.Id, nil
			}
			log.Debugf("Process not found: %s (Try %d)", processId, tries)
			return "", errNotIndexed
		},
		retry.Attempts(attempts),
		retry.Delay(g.cfg.PollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", types.Wrapf(types.ErrProcessNotFound, "process %s not found after %d attempts, please try again", processId, tries)
	}
	return found, nil
}
