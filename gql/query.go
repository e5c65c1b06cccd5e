package gql

import (
	"strconv"
	"strings"

	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

const (
	GatewayArweave = "arweave.net"
	GatewayGoldsky = "arweave-search.goldsky.com"
)

// QueryArgs describes one transactions query. A nil Ids means no id filter;
// an empty non-nil Ids matches nothing and is answered without a request.
type QueryArgs struct {
	Gateway    string
	Ids        []string
	Tags       []types.TagFilter
	Owners     []string
	Recipients []string
	Cursor     string
	PageSize   int
	MinBlock   *int64
	MaxBlock   *int64
	Sort       types.SortOrder
}

func (a QueryArgs) pageSize() int {
	if a.PageSize > 0 {
		return a.PageSize
	}
	return types.DefaultPageSize
}

// indexed reports whether the gateway is a full indexer supporting count and
// recipient filtering, as opposed to the plain arweave.net gateway.
func indexed(gateway string) bool {
	host := strings.TrimPrefix(strings.TrimPrefix(gateway, "https://"), "http://")
	return strings.TrimSuffix(host, "/") != GatewayArweave
}

func jsonList(values []string) string {
	if values == nil {
		return "null"
	}
	s, err := utils.MarshalString(values)
	if err != nil {
		return "null"
	}
	return s
}

func tagsArg(tags []types.TagFilter) string {
	if tags == nil {
		return "null"
	}

	var b strings.Builder
	b.WriteString("[")
	for i, tag := range tags {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("{name:")
		b.WriteString(jsonString(tag.Name))
		b.WriteString(",values:")
		b.WriteString(jsonList(nonNil(tag.Values)))
		if tag.Match != "" {
			if tag.Match.Valid() {
				b.WriteString(",match:")
				b.WriteString(string(tag.Match))
			} else {
				log.Warnf("dropping unknown tag match mode %q", tag.Match)
			}
		}
		b.WriteString("}")
	}
	b.WriteString("]")
	return b.String()
}

func jsonString(s string) string {
	encoded, err := utils.MarshalString(s)
	if err != nil {
		return `""`
	}
	return encoded
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func blockArg(minBlock, maxBlock *int64) string {
	if minBlock == nil && maxBlock == nil {
		return "null"
	}
	parts := make([]string, 0, 2)
	if minBlock != nil {
		parts = append(parts, "min:"+strconv.FormatInt(*minBlock, 10))
	}
	if maxBlock != nil {
		parts = append(parts, "max:"+strconv.FormatInt(*maxBlock, 10))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func cursorArg(cursor string) string {
	if cursor == "" || cursor == types.CursorEnd {
		return "null"
	}
	return jsonString(cursor)
}

func sortArg(sort types.SortOrder) string {
	switch sort {
	case types.SortAscending:
		return "sort: HEIGHT_ASC"
	case types.SortDescending:
		return "sort: HEIGHT_DESC"
	}
	return ""
}

// BuildQueryBody renders the transactions selection for args, aliased as
// queryKey when one is given.
func BuildQueryBody(args QueryArgs, queryKey string) string {
	cursor := cursorArg(args.Cursor)

	txCount := ""
	recipients := ""
	nodeFields := "data { size type } owner { address } block { height timestamp }"
	if indexed(args.Gateway) {
		if cursor == "null" {
			txCount = "count"
		}
		if args.Recipients != nil {
			recipients = "recipients: " + jsonList(args.Recipients)
		}
		nodeFields += " recipient"
	}

	body := `
		transactions(
				ids: ` + jsonList(args.Ids) + `,
				tags: ` + tagsArg(args.Tags) + `,
				first: ` + strconv.Itoa(args.pageSize()) + `
				owners: ` + jsonList(args.Owners) + `,
				` + recipients + `,
				block: ` + blockArg(args.MinBlock, args.MaxBlock) + `,
				after: ` + cursor + `,
				` + sortArg(args.Sort) + `
			){
			` + txCount + `
				pageInfo {
					hasNextPage
				}
				edges {
					cursor
					node {
						id
						tags {
							name
							value
						}
						` + nodeFields + `
					}
				}
		}`

	if queryKey != "" {
		body = queryKey + `: ` + body
	}
	return body
}

// BuildQuery wraps a body into the JSON request document.
func BuildQuery(body string) ([]byte, error) {
	return utils.Marshal(map[string]string{"query": "query { " + body + " }"})
}
