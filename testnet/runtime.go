package testnet

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

const (
	OpSpawn   = "spawn"
	OpMessage = "message"
	OpDryRun  = "dryrun"
	OpResult  = "result"
	OpResults = "results"
)

var ErrUnknownProcess = xerrors.New("unknown process")

type ProcessKind int

const (
	KindGeneric ProcessKind = iota
	KindZone
	KindAsset
	KindCollection
)

type output struct {
	messageId string
	out       *ao.Output
}

type commentRow struct {
	Id          string
	Content     string
	Creator     string
	ParentId    string
	RootId      string
	Status      string
	Pinned      bool
	DateCreated int64
	Depth       int
	removed     bool
}

// Process is the state the fake runtime keeps for one spawned process.
type Process struct {
	Id        string
	Owner     string
	Module    string
	Scheduler string
	Kind      ProcessKind
	Tags      []types.Tag
	Data      string

	Version         string
	Store           map[string]interface{}
	Assets          []map[string]interface{}
	Roles           map[string]interface{}
	Balances        map[string]interface{}
	AssetIds        []string
	Evals           []string
	Inbox           []ao.Message
	PatchMapUpdates int

	outputs       []output
	comments      []*commentRow
	moderation    []map[string]interface{}
	subscriptions []map[string]interface{}
	collections   []map[string]interface{}
}

func (p *Process) tag(name string) string {
	v, _ := types.GetTagValue(p.Tags, name)
	return v
}

// Runtime is an in-memory ao.Runtime. Processes understand the zone,
// asset, collection, registry, comments and moderation actions the services
// send.
type Runtime struct {
	lk        sync.Mutex
	processes map[string]*Process
	calls     map[string]int
	indexer   *Indexer
	now       func() time.Time

	failSpawns  int
	failActions map[string]error
}

func NewRuntime(indexer *Indexer) *Runtime {
	return &Runtime{
		processes:   make(map[string]*Process),
		calls:       make(map[string]int),
		indexer:     indexer,
		now:         time.Now,
		failActions: make(map[string]error),
	}
}

// Calls returns how often op was invoked.
func (r *Runtime) Calls(op string) int {
	r.lk.Lock()
	defer r.lk.Unlock()
	return r.calls[op]
}

func (r *Runtime) TotalCalls() int {
	r.lk.Lock()
	defer r.lk.Unlock()
	total := 0
	for _, n := range r.calls {
		total += n
	}
	return total
}

// FailSpawns makes the next n spawn calls fail.
func (r *Runtime) FailSpawns(n int) {
	r.lk.Lock()
	defer r.lk.Unlock()
	r.failSpawns = n
}

// FailAction makes every message carrying the given action fail with err.
func (r *Runtime) FailAction(action string, err error) {
	r.lk.Lock()
	defer r.lk.Unlock()
	r.failActions[action] = err
}

// AddProcess registers a process that already exists on the network, such
// as a shared registry.
func (r *Runtime) AddProcess(id string, owner string, tags []types.Tag) *Process {
	r.lk.Lock()
	defer r.lk.Unlock()
	p := r.newProcess(id, owner, tags, "")
	r.processes[id] = p
	return p
}

func (r *Runtime) Process(id string) (*Process, bool) {
	r.lk.Lock()
	defer r.lk.Unlock()
	p, ok := r.processes[id]
	return p, ok
}

// Processes returns every process id in spawn order.
func (r *Runtime) Processes() []string {
	r.lk.Lock()
	defer r.lk.Unlock()
	ids := make([]string, 0, len(r.processes))
	for id := range r.processes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func kindOf(tags []types.Tag) ProcessKind {
	if _, ok := types.GetTagValue(tags, types.TagBootloader+"-Ticker"); ok {
		return KindAsset
	}
	if action, _ := types.GetTagValue(tags, types.TagAction); action == "Add-Collection" {
		return KindCollection
	}
	if protocol, _ := types.GetTagValue(tags, types.TagDataProtocol); protocol == types.ProtocolZone {
		return KindZone
	}
	if _, ok := types.GetTagValue(tags, types.TagOnBoot); ok {
		return KindZone
	}
	return KindGeneric
}

func (r *Runtime) newProcess(id string, owner string, tags []types.Tag, data string) *Process {
	p := &Process{
		Id:       id,
		Owner:    owner,
		Kind:     kindOf(tags),
		Tags:     tags,
		Data:     data,
		Store:    make(map[string]interface{}),
		Assets:   []map[string]interface{}{},
		Roles:    make(map[string]interface{}),
		Balances: make(map[string]interface{}),
	}

	prefix := types.TagBootloader + "-"
	for _, t := range tags {
		if len(t.Name) > len(prefix) && t.Name[:len(prefix)] == prefix {
			key := t.Name[len(prefix):]
			if p.Kind == KindZone {
				p.Store[key] = t.Value
			}
		}
	}

	if p.Kind == KindAsset {
		holder := p.tag(prefix + "Creator")
		if holder == "" {
			holder = owner
		}
		p.Balances[holder] = p.tag(prefix + "TotalSupply")
	}
	return p
}

func (r *Runtime) Spawn(_ context.Context, args ao.SpawnArgs) (string, error) {
	r.lk.Lock()
	defer r.lk.Unlock()
	r.calls[OpSpawn]++

	if r.failSpawns > 0 {
		r.failSpawns--
		return "", xerrors.New("spawn rejected by the scheduler")
	}
	if args.Signer == nil {
		return "", types.ErrNoSigner
	}
	if args.Module == "" || args.Scheduler == "" {
		return "", xerrors.New("module and scheduler are required")
	}

	owner := ownerOf(args.Signer)
	id := RandomId()
	p := r.newProcess(id, owner, args.Tags, args.Data)
	p.Module = args.Module
	p.Scheduler = args.Scheduler
	r.processes[id] = p

	if r.indexer != nil {
		tags := append([]types.Tag{}, args.Tags...)
		tags = append(tags,
			types.Tag{Name: types.TagDataProtocol, Value: ao.ProtocolAO},
			types.Tag{Name: types.TagType, Value: ao.TypeProcess},
			types.Tag{Name: "Module", Value: args.Module},
			types.Tag{Name: "Scheduler", Value: args.Scheduler},
		)
		r.indexer.Add(types.GQLNode{
			Id:    id,
			Tags:  tags,
			Data:  types.GQLData{Size: strconv.Itoa(len(args.Data)), Type: p.tag(types.TagContentType)},
			Owner: types.GQLOwner{Address: owner},
		})
		r.indexer.SetData(id, []byte(args.Data))
	}
	return id, nil
}

func (r *Runtime) Message(_ context.Context, args ao.MessageArgs) (string, error) {
	r.lk.Lock()
	defer r.lk.Unlock()
	r.calls[OpMessage]++

	if args.Signer == nil {
		return "", types.ErrNoSigner
	}
	action, _ := types.GetTagValue(args.Tags, types.TagAction)
	if err, ok := r.failActions[action]; ok {
		return "", err
	}
	p, ok := r.processes[args.Process]
	if !ok {
		return "", xerrors.Errorf("%s: %w", args.Process, ErrUnknownProcess)
	}

	msg := ao.Message{Target: args.Process, Anchor: args.Anchor, Tags: args.Tags, Data: ao.MessageData(args.Data)}
	id := RandomId()
	out := r.deliver(p, ownerOf(args.Signer), msg)
	p.outputs = append(p.outputs, output{messageId: id, out: out})
	return id, nil
}

// deliver applies msg to p and returns the evaluation output.
func (r *Runtime) deliver(p *Process, from string, msg ao.Message) *ao.Output {
	p.Inbox = append(p.Inbox, msg)
	action, _ := types.GetTagValue(msg.Tags, types.TagAction)

	if reply, ok := r.read(p, from, msg); ok {
		return &ao.Output{Messages: []ao.Message{reply}}
	}

	status, message := ao.StatusSuccess, ""
	if err := r.write(p, from, action, msg); err != nil {
		status, message = ao.StatusError, err.Error()
	}

	reply := ao.Message{
		Target: from,
		Tags: []types.Tag{
			{Name: types.TagAction, Value: ao.ActionResponse},
			{Name: types.TagHandler, Value: action},
			{Name: types.TagStatus, Value: status},
		},
	}
	if message != "" {
		reply.Tags = append(reply.Tags, types.Tag{Name: types.TagMessage, Value: message})
	}
	return &ao.Output{Messages: []ao.Message{reply}}
}

func (r *Runtime) DryRun(_ context.Context, args ao.DryRunArgs) (*ao.Output, error) {
	r.lk.Lock()
	defer r.lk.Unlock()
	r.calls[OpDryRun]++

	p, ok := r.processes[args.Process]
	if !ok {
		return nil, xerrors.Errorf("%s: %w", args.Process, ErrUnknownProcess)
	}

	msg := ao.Message{Target: args.Process, Tags: args.Tags, Data: ao.MessageData(args.Data)}
	if reply, ok := r.read(p, "", msg); ok {
		return &ao.Output{Messages: []ao.Message{reply}}, nil
	}
	return &ao.Output{Messages: []ao.Message{}}, nil
}

func (r *Runtime) Result(_ context.Context, args ao.ResultArgs) (*ao.Output, error) {
	r.lk.Lock()
	defer r.lk.Unlock()
	r.calls[OpResult]++

	p, ok := r.processes[args.Process]
	if !ok {
		return nil, xerrors.Errorf("%s: %w", args.Process, ErrUnknownProcess)
	}
	for _, o := range p.outputs {
		if o.messageId == args.Message {
			return o.out, nil
		}
	}
	return nil, xerrors.Errorf("message %s not found", args.Message)
}

func (r *Runtime) Results(_ context.Context, args ao.ResultsArgs) (*ao.ResultsPage, error) {
	r.lk.Lock()
	defer r.lk.Unlock()
	r.calls[OpResults]++

	p, ok := r.processes[args.Process]
	if !ok {
		return nil, xerrors.Errorf("%s: %w", args.Process, ErrUnknownProcess)
	}

	page := &ao.ResultsPage{Edges: []ao.ResultsEdge{}}
	n := len(p.outputs)
	for i := 0; i < n; i++ {
		idx := i
		if args.Sort != "ASC" {
			idx = n - 1 - i
		}
		page.Edges = append(page.Edges, ao.ResultsEdge{Cursor: strconv.Itoa(idx), Node: *p.outputs[idx].out})
		if args.Limit > 0 && len(page.Edges) == args.Limit {
			break
		}
	}
	return page, nil
}

func (r *Runtime) millis() int64 {
	return r.now().UnixMilli()
}

func jsonReply(target string, v interface{}) ao.Message {
	data, err := utils.MarshalString(v)
	if err != nil {
		data = "null"
	}
	return ao.Message{Target: target, Tags: []types.Tag{}, Data: ao.MessageData(data)}
}

var _ ao.Runtime = (*Runtime)(nil)
