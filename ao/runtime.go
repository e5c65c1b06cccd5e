package ao

import (
	"bytes"
	"context"

	jsoniter "github.com/json-iterator/go"

	"github.com/permaweb/permaweb-go/types"
)

// DataItem is an unsigned message or process envelope.
type DataItem struct {
	Target string
	Anchor string
	Tags   []types.Tag
	Data   []byte
}

type SignedDataItem struct {
	Id  string
	Raw []byte
}

// Signer signs data items on behalf of the caller's wallet. The gateway only
// passes it through to the Runtime.
type Signer interface {
	Sign(ctx context.Context, item *DataItem) (*SignedDataItem, error)
}

type SpawnArgs struct {
	Module    string
	Scheduler string
	Signer    Signer
	Tags      []types.Tag
	Data      string
}

type MessageArgs struct {
	Process string
	Signer  Signer
	Tags    []types.Tag
	Data    string
	Anchor  string
}

type DryRunArgs struct {
	Process string
	Tags    []types.Tag
	Data    string
}

type ResultArgs struct {
	Process string
	Message string
}

type ResultsArgs struct {
	Process string
	Sort    string
	Limit   int
}

// MessageData is the Data field of an outbox message. Compute units send a
// string, occasionally a raw JSON value, which is kept verbatim.
type MessageData string

func (d *MessageData) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*d = ""
	case b[0] == '"':
		var s string
		if err := jsoniter.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = MessageData(s)
	default:
		*d = MessageData(b)
	}
	return nil
}

type Message struct {
	Target string      `json:"Target,omitempty"`
	Anchor string      `json:"Anchor,omitempty"`
	Tags   []types.Tag `json:"Tags"`
	Data   MessageData `json:"Data"`
}

// Output is the evaluation result of one message.
type Output struct {
	Messages []Message      `json:"Messages"`
	Spawns   []Message      `json:"Spawns,omitempty"`
	Output   interface{}    `json:"Output,omitempty"`
	Error    interface{}    `json:"Error,omitempty"`
	GasUsed  types.Quantity `json:"GasUsed,omitempty"`
}

type ResultsEdge struct {
	Cursor string `json:"cursor"`
	Node   Output `json:"node"`
}

type ResultsPage struct {
	Edges []ResultsEdge `json:"edges"`
}

// Runtime is the process runtime the gateway drives.
type Runtime interface {
	Spawn(ctx context.Context, args SpawnArgs) (string, error)
	Message(ctx context.Context, args MessageArgs) (string, error)
	DryRun(ctx context.Context, args DryRunArgs) (*Output, error)
	Result(ctx context.Context, args ResultArgs) (*Output, error)
	Results(ctx context.Context, args ResultsArgs) (*ResultsPage, error)
}
