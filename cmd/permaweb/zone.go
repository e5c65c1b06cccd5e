package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	cliutil "github.com/permaweb/permaweb-go/cmd"
)

var zoneCmd = &cli.Command{
	Name:      "zone",
	Usage:     "show a zone",
	ArgsUsage: "<zone id>",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return xerrors.New("expected exactly one zone id")
		}
		client, err := cliutil.GetPermawebClient(cctx)
		if err != nil {
			return err
		}

		zone, err := client.GetZone(cctx.Context, cctx.Args().First())
		if err != nil {
			return err
		}

		cliutil.PrintField(os.Stdout, "Id", zone.Id)
		cliutil.PrintField(os.Stdout, "Owner", zone.Owner)
		cliutil.PrintField(os.Stdout, "Version", zone.Version)
		cliutil.PrintField(os.Stdout, "Assets", len(zone.Assets))
		return cliutil.PrintJSON(os.Stdout, zone.Store)
	},
}

var profileCmd = &cli.Command{
	Name:  "profile",
	Usage: "show a profile by id or by wallet",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "profile zone id",
		},
		&cli.StringFlag{
			Name:  "wallet",
			Usage: "wallet address owning the profile",
		},
	},
	Action: func(cctx *cli.Context) error {
		client, err := cliutil.GetPermawebClient(cctx)
		if err != nil {
			return err
		}

		ctx := cctx.Context
		var profile interface{}
		switch {
		case cctx.String("id") != "":
			profile, err = client.GetProfileById(ctx, cctx.String("id"))
		case cctx.String("wallet") != "":
			profile, err = client.GetProfileByWalletAddress(ctx, cctx.String("wallet"))
		default:
			return xerrors.New("either --id or --wallet is required")
		}
		if err != nil {
			return err
		}
		return cliutil.PrintJSON(os.Stdout, profile)
	},
}

var moderationCmd = &cli.Command{
	Name:  "moderation",
	Usage: "list moderation entries of a zone or a moderation process",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "zone",
			Usage: "zone keeping a moderation log",
		},
		&cli.StringFlag{
			Name:  "process",
			Usage: "moderation process",
		},
		&cli.StringFlag{
			Name:  "target-type",
			Usage: "only entries for this target type, with --process",
		},
		&cli.StringFlag{
			Name:  "target-id",
			Usage: "only entries for this target, with --process",
		},
		&cli.StringFlag{
			Name:  "status",
			Usage: "only entries with this status, with --process",
		},
	},
	Action: func(cctx *cli.Context) error {
		client, err := cliutil.GetPermawebClient(cctx)
		if err != nil {
			return err
		}

		ctx := cctx.Context
		var entries interface{}
		switch {
		case cctx.String("zone") != "":
			entries, err = client.GetModerationEntries(ctx, cctx.String("zone"))
		case cctx.String("process") != "":
			entries, err = client.GetProcessModerationEntries(ctx, cctx.String("process"), moderationFilter(cctx))
		default:
			return xerrors.New("either --zone or --process is required")
		}
		if err != nil {
			return err
		}
		return cliutil.PrintJSON(os.Stdout, entries)
	},
}
