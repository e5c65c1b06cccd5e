package main

import (
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	cliutil "github.com/permaweb/permaweb-go/cmd"
	"github.com/permaweb/permaweb-go/gql"
	"github.com/permaweb/permaweb-go/types"
)

// parseTags reads name=value[,value...] filters.
func parseTags(specs []string) ([]types.TagFilter, error) {
	var filters []types.TagFilter
	for _, spec := range specs {
		name, values, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, xerrors.Errorf("invalid tag filter %q, expected name=value", spec)
		}
		filters = append(filters, types.TagFilter{Name: name, Values: strings.Split(values, ",")})
	}
	return filters, nil
}

func moderationFilter(cctx *cli.Context) types.ModerationFilter {
	return types.ModerationFilter{
		TargetType: cctx.String("target-type"),
		TargetId:   cctx.String("target-id"),
		Status:     cctx.String("status"),
	}
}

var queryCmd = &cli.Command{
	Name:  "query",
	Usage: "query the indexer for transactions",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "tag",
			Usage: "tag filter name=value[,value...], repeatable",
		},
		&cli.StringSliceFlag{
			Name:  "owner",
			Usage: "owner address, repeatable",
		},
		&cli.StringSliceFlag{
			Name:  "id",
			Usage: "transaction id, repeatable",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "walk every page",
		},
	},
	Action: func(cctx *cli.Context) error {
		tags, err := parseTags(cctx.StringSlice("tag"))
		if err != nil {
			return err
		}
		client, err := cliutil.GetPermawebClient(cctx)
		if err != nil {
			return err
		}

		args := gql.QueryArgs{
			Ids:    cctx.StringSlice("id"),
			Tags:   tags,
			Owners: cctx.StringSlice("owner"),
		}
		if len(args.Ids) == 0 {
			args.Ids = nil
		}

		var edges []types.GQLEdge
		if cctx.Bool("all") {
			edges = client.GetAggregatedGQLData(cctx.Context, args, func(message string) {
				log.Info(message)
			})
		} else {
			page := client.GetGQLData(cctx.Context, args)
			cliutil.PrintField(os.Stderr, "Count", page.Count)
			edges = page.Data
		}

		for _, edge := range edges {
			cliutil.PrintField(os.Stdout, edge.Node.Id, edge.Node.Owner.Address)
		}
		return nil
	},
}
