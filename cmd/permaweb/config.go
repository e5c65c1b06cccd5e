package main

import (
	"os"

	"github.com/urfave/cli/v2"

	cliutil "github.com/permaweb/permaweb-go/cmd"
	"github.com/permaweb/permaweb-go/config"
)

var configCmd = &cli.Command{
	Name:  "config",
	Usage: "client configuration",
	Subcommands: []*cli.Command{
		{
			Name:  "show",
			Usage: "print the repo config, creating it when missing",
			Action: func(cctx *cli.Context) error {
				client, err := cliutil.GetPermawebClient(cctx)
				if err != nil {
					return err
				}
				b, err := config.ConfigBytes(client.Cfg)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(b)
				return err
			},
		},
		{
			Name:  "set-node",
			Usage: "set the node used for direct state reads, empty disables them",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "url",
					Required: true,
				},
			},
			Action: func(cctx *cli.Context) error {
				client, err := cliutil.GetPermawebClient(cctx)
				if err != nil {
					return err
				}
				cfg := *client.Cfg
				cfg.Node.URL = cctx.String("url")
				if err := client.SaveConfig(&cfg); err != nil {
					return err
				}
				log.Infof("node set to %q", cfg.Node.URL)
				return nil
			},
		},
	},
}
