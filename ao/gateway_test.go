package ao_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/config"
	"github.com/permaweb/permaweb-go/gql"
	"github.com/permaweb/permaweb-go/metrics"
	"github.com/permaweb/permaweb-go/testnet"
	"github.com/permaweb/permaweb-go/types"
)

func testConfig(net *testnet.Network) ao.GatewayConfig {
	return ao.GatewayConfig{
		NodeURL:           net.URL(),
		ArweaveGateway:    net.URL(),
		GatewayRetryCount: 100,
		SpawnRetryCount:   25,
		ResultsRetryCount: 3,
	}
}

func newGateway(t *testing.T) (*testnet.Network, *ao.Gateway) {
	net := testnet.NewNetwork()
	t.Cleanup(net.Close)
	gw := ao.NewGateway(net.Runtime, testConfig(net),
		ao.WithSigner(net.Signer),
		ao.WithIndexer(gql.NewClient(net.URL())),
	)
	return net, gw
}

func TestSpawn(t *testing.T) {
	net, gw := newGateway(t)
	ctx := context.Background()

	pid, err := gw.Spawn(ctx, ao.SpawnRequest{Tags: []types.Tag{{Name: "Name", Value: "test"}}})
	require.NoError(t, err)

	p, ok := net.Runtime.Process(pid)
	require.True(t, ok)
	require.Equal(t, types.Tag{Name: types.TagAuthority, Value: config.DefaultMU}, p.Tags[0])
	require.Equal(t, types.Tag{Name: "Name", Value: "test"}, p.Tags[1])
	require.Equal(t, config.DefaultModule, p.Module)
	require.Equal(t, config.DefaultScheduler, p.Scheduler)
	require.Equal(t, net.Signer.Address(), p.Owner)

	require.Len(t, p.Inbox, 1)
	action, _ := types.GetTagValue(p.Inbox[0].Tags, types.TagAction)
	require.Equal(t, ao.ActionInit, action)
}

func TestSpawnNodeSchedulerAuthority(t *testing.T) {
	net := testnet.NewNetwork()
	defer net.Close()

	cfg := testConfig(net)
	cfg.NodeScheduler = testnet.RandomId()
	gw := ao.NewGateway(net.Runtime, cfg, ao.WithSigner(net.Signer))

	pid, err := gw.Spawn(context.Background(), ao.SpawnRequest{})
	require.NoError(t, err)
	p, _ := net.Runtime.Process(pid)
	require.Equal(t, cfg.NodeScheduler, p.Tags[0].Value)
}

func TestSpawnRetries(t *testing.T) {
	net, gw := newGateway(t)
	ctx := context.Background()

	net.Runtime.FailSpawns(3)
	_, err := gw.Spawn(ctx, ao.SpawnRequest{})
	require.NoError(t, err)
	require.Equal(t, 4, net.Runtime.Calls(testnet.OpSpawn))

	net.Runtime.FailSpawns(30)
	_, err = gw.Spawn(ctx, ao.SpawnRequest{})
	require.True(t, xerrors.Is(err, types.ErrSpawnFailed))
	require.Equal(t, 29, net.Runtime.Calls(testnet.OpSpawn))
}

func TestSpawnInitFailureKeepsProcess(t *testing.T) {
	net, gw := newGateway(t)
	net.Runtime.FailAction(ao.ActionInit, xerrors.New("mu unavailable"))

	pid, err := gw.Spawn(context.Background(), ao.SpawnRequest{})
	require.True(t, xerrors.Is(err, types.ErrInitFailed))
	require.NotEmpty(t, pid)

	_, ok := net.Runtime.Process(pid)
	require.True(t, ok)
}

func TestWritesRequireSigner(t *testing.T) {
	net := testnet.NewNetwork()
	defer net.Close()
	gw := ao.NewGateway(net.Runtime, testConfig(net))

	_, err := gw.Spawn(context.Background(), ao.SpawnRequest{})
	require.True(t, xerrors.Is(err, types.ErrNoSigner))
	_, err = gw.Send(context.Background(), ao.SendRequest{ProcessId: testnet.RandomId(), Action: "Ping"})
	require.True(t, xerrors.Is(err, types.ErrNoSigner))
	require.Zero(t, net.Runtime.TotalCalls())
}

func TestSend(t *testing.T) {
	net := testnet.NewNetwork()
	defer net.Close()

	stamp := time.UnixMilli(1700000000123)
	gw := ao.NewGateway(net.Runtime, testConfig(net),
		ao.WithSigner(net.Signer),
		ao.WithClock(func() time.Time { return stamp }),
	)
	ctx := context.Background()

	pid, err := gw.Spawn(ctx, ao.SpawnRequest{})
	require.NoError(t, err)

	_, err = gw.Send(ctx, ao.SendRequest{
		ProcessId: pid,
		Action:    "Update",
		Tags:      []types.Tag{{Name: "Extra", Value: "1"}},
		Data:      map[string]interface{}{"a": 1},
	})
	require.NoError(t, err)

	_, err = gw.Send(ctx, ao.SendRequest{ProcessId: pid, Action: "Raw", Data: "print(1)", UseRawData: true})
	require.NoError(t, err)

	p, _ := net.Runtime.Process(pid)
	require.Len(t, p.Inbox, 3)

	update := p.Inbox[1]
	require.Equal(t, []types.Tag{
		{Name: types.TagAction, Value: "Update"},
		{Name: types.TagMessageTime, Value: strconv.FormatInt(stamp.UnixMilli(), 10)},
		{Name: "Extra", Value: "1"},
	}, update.Tags)
	require.Equal(t, `{"a":1}`, string(update.Data))
	require.Equal(t, "print(1)", string(p.Inbox[2].Data))

	_, err = gw.Send(ctx, ao.SendRequest{ProcessId: pid, Action: "Raw", Data: 42, UseRawData: true})
	require.True(t, xerrors.Is(err, types.ErrInvalidArgs))
}

func TestDryRun(t *testing.T) {
	net, gw := newGateway(t)
	ctx := context.Background()

	pid, err := gw.Spawn(ctx, ao.SpawnRequest{Tags: []types.Tag{{Name: types.TagDataProtocol, Value: types.ProtocolZone}}})
	require.NoError(t, err)

	result, err := gw.DryRun(ctx, ao.DryRunRequest{ProcessId: pid, Action: types.ActionInfo})
	require.NoError(t, err)
	info := result.(map[string]interface{})
	require.Equal(t, map[string]interface{}{}, info["Store"])

	var zone struct {
		Owner string
	}
	require.NoError(t, gw.DryRunInto(ctx, ao.DryRunRequest{ProcessId: pid, Action: types.ActionInfo}, &zone))
	require.Equal(t, net.Signer.Address(), zone.Owner)

	calls := net.Runtime.Calls(testnet.OpDryRun)
	_, err = gw.DryRun(ctx, ao.DryRunRequest{ProcessId: pid, Action: types.ActionInfo, Data: "{not json"})
	require.True(t, xerrors.Is(err, types.ErrInvalidJSON))
	require.Equal(t, calls, net.Runtime.Calls(testnet.OpDryRun))

	result, err = gw.DryRun(ctx, ao.DryRunRequest{ProcessId: pid, Action: "Unknown"})
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestDryRunFoldsTags(t *testing.T) {
	rt := &stubRuntime{
		dryRun: func(args ao.DryRunArgs) (*ao.Output, error) {
			return &ao.Output{Messages: []ao.Message{{Tags: []types.Tag{
				{Name: "Ticker", Value: "ATOMIC"},
				{Name: "Balance", Value: "1"},
			}}}}, nil
		},
	}
	gw := ao.NewGateway(rt, ao.GatewayConfig{})

	result, err := gw.DryRun(context.Background(), ao.DryRunRequest{ProcessId: "p", Action: "Info"})
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"Ticker": "ATOMIC", "Balance": "1"}, result)

	rt.dryRun = func(args ao.DryRunArgs) (*ao.Output, error) {
		return &ao.Output{Messages: []ao.Message{{Data: "not json"}}}, nil
	}
	_, err = gw.DryRun(context.Background(), ao.DryRunRequest{ProcessId: "p", Action: "Info"})
	require.True(t, xerrors.Is(err, types.ErrInvalidJSON))
}

func TestRead(t *testing.T) {
	net, gw := newGateway(t)
	ctx := context.Background()

	pid, err := gw.Spawn(ctx, ao.SpawnRequest{Tags: []types.Tag{{Name: types.TagDataProtocol, Value: types.ProtocolZone}}})
	require.NoError(t, err)

	req := ao.ReadRequest{ProcessId: pid, Path: "zone", FallbackAction: types.ActionInfo, Serialize: true}
	result, err := gw.Read(ctx, req)
	require.NoError(t, err)
	require.Contains(t, result, "Store")
	require.Equal(t, 1, net.NodeReads())
	require.Zero(t, net.Runtime.Calls(testnet.OpDryRun))

	net.SetNodeOffline(true)
	result, err = gw.Read(ctx, req)
	require.NoError(t, err)
	require.Contains(t, result, "Store")
	require.Equal(t, 1, net.NodeReads())
	require.Equal(t, 1, net.Runtime.Calls(testnet.OpDryRun))

	_, err = gw.Read(ctx, ao.ReadRequest{ProcessId: pid, Path: "zone"})
	require.True(t, xerrors.Is(err, types.ErrReadFailed))
}

func TestReadWithoutNode(t *testing.T) {
	net := testnet.NewNetwork()
	defer net.Close()

	cfg := testConfig(net)
	cfg.NodeURL = ""
	gw := ao.NewGateway(net.Runtime, cfg, ao.WithSigner(net.Signer))

	pid, err := gw.Spawn(context.Background(), ao.SpawnRequest{Tags: []types.Tag{{Name: types.TagOnBoot, Value: config.DefaultZoneSrc}}})
	require.NoError(t, err)

	_, err = gw.Read(context.Background(), ao.ReadRequest{ProcessId: pid, Path: "zone", FallbackAction: types.ActionInfo})
	require.NoError(t, err)
	require.Zero(t, net.NodeReads())
	require.Equal(t, 1, net.Runtime.Calls(testnet.OpDryRun))
}

func TestMessageResults(t *testing.T) {
	net, gw := newGateway(t)
	ctx := context.Background()

	pid, err := gw.Spawn(ctx, ao.SpawnRequest{Tags: []types.Tag{{Name: types.TagDataProtocol, Value: types.ProtocolZone}}})
	require.NoError(t, err)

	messageId, err := gw.Send(ctx, ao.SendRequest{ProcessId: pid, Action: types.ActionZoneUpdatePatchMap})
	require.NoError(t, err)
	result, err := gw.MessageResult(ctx, ao.ResultRequest{ProcessId: pid, MessageId: messageId, Action: "Fallback"})
	require.NoError(t, err)
	require.Equal(t, ao.ActionResult{Id: messageId, Status: "Success"}, result[ao.ActionResponse])

	results, err := gw.MessageResults(ctx, ao.ResultsRequest{
		ProcessId: pid,
		Action:    types.ActionZoneUpdate,
		Data:      []map[string]interface{}{{"key": "name", "value": "x"}},
		Handler:   types.ActionZoneUpdate,
	})
	require.NoError(t, err)
	require.Equal(t, "Success", results[ao.ActionResponse].Status)
	require.Equal(t, 1, net.Runtime.Calls(testnet.OpResults))

	results, err = gw.MessageResults(ctx, ao.ResultsRequest{
		ProcessId: pid,
		Action:    types.ActionZoneUpdatePatchMap,
		Responses: []string{"Never-Sent"},
		Handler:   types.ActionZoneUpdatePatchMap,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 4, net.Runtime.Calls(testnet.OpResults))
}

func TestCreateProcessWithEval(t *testing.T) {
	net, gw := newGateway(t)
	ctx := context.Background()

	srcId := testnet.RandomId()
	net.Indexer.SetData(srcId, []byte("Handlers.add('ping')"))

	var statuses []string
	pid, err := gw.CreateProcess(ctx, ao.CreateProcessRequest{
		Tags:     []types.Tag{{Name: "Name", Value: "evaluated"}},
		EvalTxId: srcId,
	}, func(status string) { statuses = append(statuses, status) })
	require.NoError(t, err)
	require.Equal(t, []string{"Spawning process...", "Process retrieved!", "Sending eval...", "Eval complete"}, statuses)

	p, _ := net.Runtime.Process(pid)
	require.Equal(t, []string{"Handlers.add('ping')"}, p.Evals)

	statuses = nil
	_, err = gw.CreateProcess(ctx, ao.CreateProcessRequest{}, func(status string) { statuses = append(statuses, status) })
	require.NoError(t, err)
	require.Equal(t, []string{"Spawning process..."}, statuses)
}

func TestCreateProcessEvalFailure(t *testing.T) {
	net, gw := newGateway(t)

	pid, err := gw.CreateProcess(context.Background(), ao.CreateProcessRequest{EvalTxId: testnet.RandomId()}, nil)
	require.True(t, xerrors.Is(err, types.ErrEvalFailed))
	require.NotEmpty(t, pid)
	_, ok := net.Runtime.Process(pid)
	require.True(t, ok)
}

func TestWaitForProcess(t *testing.T) {
	net, gw := newGateway(t)
	ctx := context.Background()

	pid, err := gw.Spawn(ctx, ao.SpawnRequest{})
	require.NoError(t, err)

	found, err := gw.WaitForProcess(ctx, pid, false)
	require.NoError(t, err)
	require.Equal(t, pid, found)

	delayed := net.Indexer.AddDelayed(types.GQLNode{}, 5)
	before := net.Indexer.Requests()
	found, err = gw.WaitForProcess(ctx, delayed.Id, false)
	require.NoError(t, err)
	require.Equal(t, delayed.Id, found)
	require.Equal(t, 5, net.Indexer.Requests()-before)
}

func TestWaitForProcessExhausts(t *testing.T) {
	net, gw := newGateway(t)

	attempts := testutil.ToFloat64(metrics.PollAttempts.WithLabelValues("wait_for_process"))
	before := net.Indexer.Requests()

	_, err := gw.WaitForProcess(context.Background(), "X", false)
	require.True(t, xerrors.Is(err, types.ErrProcessNotFound))
	require.Contains(t, err.Error(), "not found after 100 attempts")
	require.Equal(t, 100, net.Indexer.Requests()-before)
	require.Equal(t, attempts+100, testutil.ToFloat64(metrics.PollAttempts.WithLabelValues("wait_for_process")))
}

func TestWaitForProcessNegativeRetryCount(t *testing.T) {
	net := testnet.NewNetwork()
	defer net.Close()

	cfg := testConfig(net)
	cfg.GatewayRetryCount = -1
	gw := ao.NewGateway(net.Runtime, cfg, ao.WithIndexer(gql.NewClient(net.URL())))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	before := net.Indexer.Requests()

	_, err := gw.WaitForProcess(ctx, "X", false)
	require.True(t, xerrors.Is(err, types.ErrProcessNotFound))
	require.Equal(t, 1, net.Indexer.Requests()-before)
}

func TestWaitForProcessUnbounded(t *testing.T) {
	net := testnet.NewNetwork()
	defer net.Close()

	cfg := testConfig(net)
	cfg.PollInterval = time.Millisecond
	gw := ao.NewGateway(net.Runtime, cfg, ao.WithIndexer(gql.NewClient(net.URL())))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := gw.WaitForProcess(ctx, "X", true)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Greater(t, net.Indexer.Requests(), 1)
}

type stubRuntime struct {
	dryRun func(args ao.DryRunArgs) (*ao.Output, error)
}

func (s *stubRuntime) Spawn(context.Context, ao.SpawnArgs) (string, error) {
	return "", xerrors.New("not supported")
}

func (s *stubRuntime) Message(context.Context, ao.MessageArgs) (string, error) {
	return "", xerrors.New("not supported")
}

func (s *stubRuntime) DryRun(_ context.Context, args ao.DryRunArgs) (*ao.Output, error) {
	return s.dryRun(args)
}

func (s *stubRuntime) Result(context.Context, ao.ResultArgs) (*ao.Output, error) {
	return nil, xerrors.New("not supported")
}

func (s *stubRuntime) Results(context.Context, ao.ResultsArgs) (*ao.ResultsPage, error) {
	return nil, xerrors.New("not supported")
}

func TestSendAndConfirm(t *testing.T) {
	_, gw := newGateway(t)
	ctx := context.Background()

	pid, err := gw.Spawn(ctx, ao.SpawnRequest{})
	require.NoError(t, err)

	_, err = gw.SendAndConfirm(ctx, ao.SendRequest{
		ProcessId:  pid,
		Action:     types.ActionAddComment,
		Tags:       []types.Tag{{Name: types.TagCommentId, Value: "c1"}},
		Data:       "hello",
		UseRawData: true,
	})
	require.NoError(t, err)

	_, err = gw.SendAndConfirm(ctx, ao.SendRequest{
		ProcessId:  pid,
		Action:     types.ActionAddComment,
		Tags:       []types.Tag{{Name: types.TagCommentId, Value: "c1"}},
		Data:       "again",
		UseRawData: true,
	})
	require.True(t, xerrors.Is(err, types.ErrSendFailed))
	require.Contains(t, err.Error(), "comment c1 exists")
}
