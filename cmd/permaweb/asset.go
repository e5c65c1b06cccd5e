package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	cliutil "github.com/permaweb/permaweb-go/cmd"
	"github.com/permaweb/permaweb-go/types"
)

var assetCmd = &cli.Command{
	Name:      "asset",
	Usage:     "show atomic assets",
	ArgsUsage: "<asset id>...",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "headers",
			Usage: "only fetch the indexed headers, in one batch",
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() == 0 {
			return xerrors.New("expected at least one asset id")
		}
		client, err := cliutil.GetPermawebClient(cctx)
		if err != nil {
			return err
		}

		ctx := cctx.Context
		if cctx.Bool("headers") || cctx.NArg() > 1 {
			headers, err := client.GetAtomicAssets(ctx, cctx.Args().Slice())
			if err != nil {
				return err
			}
			for _, h := range headers {
				cliutil.PrintField(os.Stdout, h.Id, h.Title)
			}
			return nil
		}

		asset, err := client.GetAtomicAsset(ctx, cctx.Args().First())
		if err != nil {
			return err
		}
		cliutil.PrintField(os.Stdout, "Id", asset.Id)
		cliutil.PrintField(os.Stdout, "Title", asset.Title)
		cliutil.PrintField(os.Stdout, "Creator", asset.Creator)
		cliutil.PrintField(os.Stdout, "Topics", strings.Join(asset.Topics, ", "))
		cliutil.PrintField(os.Stdout, "Ticker", asset.State.Ticker)
		cliutil.PrintField(os.Stdout, "Transferable", asset.State.Transferable)
		fmt.Println("  Balances:")
		return cliutil.PrintJSON(os.Stdout, asset.State.Balances)
	},
}

var commentCmd = &cli.Command{
	Name:  "comments",
	Usage: "list the comments of a thread",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "root",
			Usage: "thread root id",
		},
		&cli.StringFlag{
			Name:  "parent",
			Usage: "direct parent id",
		},
		&cli.StringFlag{
			Name:  "process",
			Usage: "comments process to read instead of the indexer",
		},
	},
	Action: func(cctx *cli.Context) error {
		filter := types.CommentFilter{
			RootId:     cctx.String("root"),
			ParentId:   cctx.String("parent"),
			CommentsId: cctx.String("process"),
		}
		if filter == (types.CommentFilter{}) {
			return xerrors.New("one of --root, --parent or --process is required")
		}
		client, err := cliutil.GetPermawebClient(cctx)
		if err != nil {
			return err
		}

		comments, err := client.GetComments(cctx.Context, filter)
		if err != nil {
			return err
		}
		for _, c := range comments {
			fmt.Printf("%s%s ", strings.Repeat("  ", c.Depth), c.Id)
			cliutil.PrintField(os.Stdout, c.Creator, c.Content)
		}
		return nil
	},
}

var collectionCmd = &cli.Command{
	Name:      "collection",
	Usage:     "show a collection, or list registered collections",
	ArgsUsage: "[collection id]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "creator",
			Usage: "only list collections of this profile",
		},
	},
	Action: func(cctx *cli.Context) error {
		client, err := cliutil.GetPermawebClient(cctx)
		if err != nil {
			return err
		}

		ctx := cctx.Context
		if cctx.NArg() == 0 {
			collections, err := client.GetCollections(ctx, cctx.String("creator"))
			if err != nil {
				return err
			}
			for _, c := range collections {
				cliutil.PrintField(os.Stdout, c.Id, c.Title)
			}
			return nil
		}

		collection, err := client.GetCollection(ctx, cctx.Args().First())
		if err != nil {
			return err
		}
		return cliutil.PrintJSON(os.Stdout, collection)
	},
}
