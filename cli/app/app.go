package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli"
	"github.com/weftlabs/weft-go/cli/query"
	"github.com/weftlabs/weft-go/cli/stash"
	"github.com/weftlabs/weft-go/pkg/config"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "WeftGo\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a WeftGo instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "weft-go"
	ctl.Version = config.Version
	ctl.Usage = "Contract state stash tooling"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, stash.NewCommands()...)
	ctl.Commands = append(ctl.Commands, query.NewCommands()...)
	return ctl
}
