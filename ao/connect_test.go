package ao_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/testnet"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

func TestConnect(t *testing.T) {
	var posted []byte
	var dryRun struct {
		Target string
		Data   string
		Tags   []types.Tag
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/mu", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		posted, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"id":"message-id"}`))
	})
	mux.HandleFunc("/cu/dry-run", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pid", r.URL.Query().Get("process-target"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, utils.Unmarshal(body, &dryRun))
		_, _ = w.Write([]byte(`{"Messages":[{"Data":"{\"ok\":true}","Tags":[]}]}`))
	})
	mux.HandleFunc("/cu/result/mid", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pid", r.URL.Query().Get("process-id"))
		_, _ = w.Write([]byte(`{"Messages":[{"Data":{"raw":1},"Tags":[{"name":"Status","value":"Success"}]}],"GasUsed":0}`))
	})
	mux.HandleFunc("/cu/results/pid", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DESC", r.URL.Query().Get("sort"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"edges":[{"cursor":"c1","node":{"Messages":[]}}]}`))
	})
	mux.HandleFunc("/cu/result/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such message", http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	conn := ao.NewConnect(server.URL+"/cu", server.URL+"/mu", nil)
	signer := testnet.NewSigner()

	id, err := conn.Message(ctx, ao.MessageArgs{
		Process: "pid",
		Signer:  signer,
		Tags:    []types.Tag{{Name: types.TagAction, Value: "Ping"}},
		Data:    "hello",
	})
	require.NoError(t, err)
	require.Equal(t, "message-id", id)

	var item ao.DataItem
	require.NoError(t, utils.Unmarshal(posted, &item))
	require.Equal(t, "pid", item.Target)
	require.Equal(t, "hello", string(item.Data))
	require.Equal(t, types.Tag{Name: types.TagAction, Value: "Ping"}, item.Tags[0])
	protocol, _ := types.GetTagValue(item.Tags, types.TagDataProtocol)
	require.Equal(t, ao.ProtocolAO, protocol)
	kind, _ := types.GetTagValue(item.Tags, types.TagType)
	require.Equal(t, ao.TypeMessage, kind)

	_, err = conn.Spawn(ctx, ao.SpawnArgs{Signer: signer, Scheduler: "s"})
	require.Error(t, err)

	out, err := conn.DryRun(ctx, ao.DryRunArgs{Process: "pid", Tags: []types.Tag{{Name: types.TagAction, Value: "Info"}}, Data: "{}"})
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`, string(out.Messages[0].Data))
	require.Equal(t, "pid", dryRun.Target)
	require.Equal(t, "{}", dryRun.Data)
	require.Equal(t, "Info", dryRun.Tags[0].Value)

	out, err = conn.Result(ctx, ao.ResultArgs{Process: "pid", Message: "mid"})
	require.NoError(t, err)
	require.Equal(t, `{"raw":1}`, string(out.Messages[0].Data))

	page, err := conn.Results(ctx, ao.ResultsArgs{Process: "pid", Sort: "DESC", Limit: 100})
	require.NoError(t, err)
	require.Len(t, page.Edges, 1)
	require.Equal(t, "c1", page.Edges[0].Cursor)

	_, err = conn.Result(ctx, ao.ResultArgs{Process: "pid", Message: "missing"})
	require.ErrorContains(t, err, "status 404")
}
