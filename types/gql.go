package types

const (
	// CursorEnd marks an exhausted pagination.
	CursorEnd = "END"
	CursorP1  = "P1"

	DefaultPageSize = 100
)

type SortOrder string

const (
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

type GQLNode struct {
	Id        string    `json:"id"`
	Tags      []Tag     `json:"tags"`
	Recipient string    `json:"recipient,omitempty"`
	Data      GQLData   `json:"data"`
	Owner     GQLOwner  `json:"owner"`
	Block     *GQLBlock `json:"block"`
}

type GQLData struct {
	Size string `json:"size"`
	Type string `json:"type"`
}

type GQLOwner struct {
	Address string `json:"address"`
}

type GQLBlock struct {
	Height    int64 `json:"height"`
	Timestamp int64 `json:"timestamp"`
}

type GQLEdge struct {
	Cursor string  `json:"cursor"`
	Node   GQLNode `json:"node"`
}

// GQLResponse is one page of indexer results. NextCursor is empty when the
// query failed or no page has been requested yet, and CursorEnd once the
// result set is exhausted.
type GQLResponse struct {
	Data       []GQLEdge `json:"data"`
	Count      int64     `json:"count"`
	NextCursor string    `json:"nextCursor"`
}

func EmptyGQLResponse() *GQLResponse {
	return &GQLResponse{Data: []GQLEdge{}}
}
