package asset

import (
	"context"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/codec"
	"github.com/permaweb/permaweb-go/types"
)

func firstString(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := codec.StringField(obj, key); s != "" {
			return s
		}
	}
	return ""
}

func quantity(v interface{}) (types.Quantity, bool) {
	if v == nil {
		return "", false
	}
	var q types.Quantity
	if err := codec.Decode(v, &q); err != nil {
		return "", false
	}
	return q, true
}

// nonZeroBalances drops empty holdings.
func nonZeroBalances(v interface{}) map[string]types.Quantity {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	balances := make(map[string]types.Quantity, len(raw))
	for holder, amount := range raw {
		q, ok := quantity(amount)
		if !ok || q.IsZero() {
			continue
		}
		balances[holder] = q
	}
	return balances
}

// GetState reads the live state of an asset process. The returned title is
// the process name, empty when the process reports none.
func (as *AssetSvc) GetState(ctx context.Context, id string) (types.AssetState, map[string]interface{}, error) {
	state := types.AssetState{Transferable: true}
	metadata := map[string]interface{}{}

	result, err := as.gateway.DryRun(ctx, ao.DryRunRequest{ProcessId: id, Action: ao.ActionInfo})
	if err != nil {
		return state, metadata, err
	}

	info := codec.AsObject(result)
	state.Name = firstString(info, "Name", "name")
	state.Ticker = firstString(info, "Ticker", "ticker")
	state.Creator = firstString(info, "Creator", "creator")
	for _, key := range []string{"Denomination", "denomination"} {
		if q, ok := quantity(info[key]); ok {
			state.Denomination = q
			break
		}
	}
	for _, key := range []string{"TotalSupply", "totalSupply"} {
		if q, ok := quantity(info[key]); ok {
			state.TotalSupply = q
			break
		}
	}
	if transferable, ok := info["Transferable"].(bool); ok {
		state.Transferable = transferable
	}
	if logo := firstString(info, "Logo", "logo"); logo != "" {
		metadata["logo"] = logo
	}
	if assetMetadata, ok := info["AssetMetadata"].(map[string]interface{}); ok {
		for key, value := range codec.AsObject(codec.FromProcessCase(assetMetadata)) {
			metadata[key] = value
		}
	}

	if _, ok := info["Balances"]; ok {
		state.Balances = nonZeroBalances(info["Balances"])
	}
	if state.Balances == nil {
		balances, err := as.gateway.DryRun(ctx, ao.DryRunRequest{ProcessId: id, Action: types.ActionBalances})
		if err != nil {
			log.Warnf("failed to fetch balances of %s: %v", id, err)
		} else {
			state.Balances = nonZeroBalances(balances)
		}
	}
	if state.Balances == nil {
		state.Balances = map[string]types.Quantity{}
	}
	return state, metadata, nil
}

// Get returns the asset header merged with its live process state.
func (as *AssetSvc) Get(ctx context.Context, id string) (*types.AssetDetail, error) {
	header, err := as.GetHeader(ctx, id)
	if err != nil {
		return nil, err
	}

	state, metadata, err := as.GetState(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &types.AssetDetail{
		AssetHeader: *header,
		State:       state,
		Metadata:    metadata,
	}
	if state.Name != "" {
		detail.Title = state.Name
	}
	if logo, ok := metadata["logo"].(string); ok {
		detail.Thumbnail = logo
	}
	return detail, nil
}
