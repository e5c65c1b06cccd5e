package client

import (
	"context"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/gql"
	"github.com/permaweb/permaweb-go/types"
)

func (pc *PermawebClient) Spawn(ctx context.Context, req ao.SpawnRequest) (string, error) {
	return pc.gateway.Spawn(ctx, req)
}

func (pc *PermawebClient) Send(ctx context.Context, req ao.SendRequest) (string, error) {
	return pc.gateway.Send(ctx, req)
}

func (pc *PermawebClient) DryRun(ctx context.Context, req ao.DryRunRequest) (interface{}, error) {
	return pc.gateway.DryRun(ctx, req)
}

func (pc *PermawebClient) Read(ctx context.Context, req ao.ReadRequest) (interface{}, error) {
	return pc.gateway.Read(ctx, req)
}

func (pc *PermawebClient) MessageResult(ctx context.Context, req ao.ResultRequest) (map[string]ao.ActionResult, error) {
	return pc.gateway.MessageResult(ctx, req)
}

func (pc *PermawebClient) MessageResults(ctx context.Context, req ao.ResultsRequest) (map[string]ao.ActionResult, error) {
	return pc.gateway.MessageResults(ctx, req)
}

func (pc *PermawebClient) Eval(ctx context.Context, req ao.EvalRequest) (map[string]ao.ActionResult, error) {
	return pc.gateway.Eval(ctx, req)
}

func (pc *PermawebClient) CreateProcess(ctx context.Context, req ao.CreateProcessRequest, status types.StatusFunc) (string, error) {
	return pc.gateway.CreateProcess(ctx, req, status)
}

func (pc *PermawebClient) WaitForProcess(ctx context.Context, processId string, noRetryLimit bool) (string, error) {
	return pc.gateway.WaitForProcess(ctx, processId, noRetryLimit)
}

func (pc *PermawebClient) GetGQLData(ctx context.Context, args gql.QueryArgs) *types.GQLResponse {
	return pc.indexer.GetGQLData(ctx, args)
}

func (pc *PermawebClient) GetAggregatedGQLData(ctx context.Context, args gql.QueryArgs, callback func(message string)) []types.GQLEdge {
	return pc.indexer.GetAggregatedGQLData(ctx, args, callback)
}

func (pc *PermawebClient) ResolveTransaction(ctx context.Context, data string) (string, error) {
	return pc.resolver.ResolveTransaction(ctx, data)
}
