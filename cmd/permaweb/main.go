package main

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	cliutil "github.com/permaweb/permaweb-go/cmd"
)

var log = logging.Logger("permaweb")

var subsystems = []string{"permaweb", "client", "ao", "gql", "arweave", "zone", "profile", "asset", "comment", "collection", "moderation"}

func before(cctx *cli.Context) error {
	level := "WARN"
	if cliutil.IsVeryVerbose {
		level = "DEBUG"
	}
	for _, s := range subsystems {
		_ = logging.SetLogLevel(s, level)
	}
	_ = logging.SetLogLevel("permaweb", "INFO")
	if cliutil.IsVeryVerbose {
		_ = logging.SetLogLevel("permaweb", "DEBUG")
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:                 "permaweb",
		Usage:                "read zones, profiles, assets, comments and collections",
		EnableBashCompletion: true,
		Before:               before,
		Flags: []cli.Flag{
			cliutil.FlagVeryVerbose,
			cliutil.FlagRepo,
		},
		Commands: []*cli.Command{
			configCmd,
			zoneCmd,
			profileCmd,
			assetCmd,
			commentCmd,
			collectionCmd,
			moderationCmd,
			queryCmd,
		},
	}
	app.Setup()

	if err := app.Run(os.Args); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
