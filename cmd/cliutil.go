package cliutil

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"

	"github.com/permaweb/permaweb-go/client"
)

var Repo string
var FlagRepo = &cli.StringFlag{
	Name:        "repo",
	Usage:       "client repo directory holding config.toml",
	EnvVars:     []string{"PERMAWEB_REPO"},
	Value:       "~/.permaweb/",
	Destination: &Repo,
}

// IsVeryVerbose is a global var signalling if the CLI is running in very
// verbose mode or not (default: false).
var IsVeryVerbose bool

// FlagVeryVerbose enables very verbose mode, which is useful when debugging
// the CLI itself. It should be included as a flag on the top-level command
// (e.g. permaweb -vv).
var FlagVeryVerbose = &cli.BoolFlag{
	Name:        "vv",
	Usage:       "enables very verbose mode, useful for debugging the CLI",
	Destination: &IsVeryVerbose,
}

// GetPermawebClient returns a read-only client configured from the repo.
func GetPermawebClient(cctx *cli.Context) (*client.PermawebClient, error) {
	return client.NewPermawebClientFromRepo(Repo, client.Deps{})
}

// PrintField prints a label followed by its highlighted value.
func PrintField(w io.Writer, label string, value interface{}) {
	console := color.New(color.FgMagenta, color.Bold)
	fmt.Fprintf(w, "  %-14s: ", label)
	console.Fprintln(w, value)
}

func PrintJSON(w io.Writer, v interface{}) error {
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
