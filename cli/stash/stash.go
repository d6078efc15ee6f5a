package stash

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"
	"github.com/weftlabs/weft-go/cli/options"
	"github.com/weftlabs/weft-go/pkg/core/contract"
	"github.com/weftlabs/weft-go/pkg/core/stashdump"
	"github.com/weftlabs/weft-go/pkg/io"
	"github.com/weftlabs/weft-go/pkg/resolver"
	"github.com/weftlabs/weft-go/pkg/util"
	"go.uber.org/zap"
)

// NewCommands returns 'stash' command.
func NewCommands() []cli.Command {
	var cfgFlags = []cli.Flag{
		options.ConfigFile,
		options.Debug,
	}
	var cfgOutFlags = make([]cli.Flag, len(cfgFlags))
	copy(cfgOutFlags, cfgFlags)
	cfgOutFlags = append(cfgOutFlags, cli.StringFlag{
		Name:  "out, o",
		Usage: "file to write the stash dump to",
	})
	var cfgInFlags = make([]cli.Flag, len(cfgFlags))
	copy(cfgInFlags, cfgFlags)
	cfgInFlags = append(cfgInFlags, cli.StringFlag{
		Name:  "in, i",
		Usage: "file to read the stash dump from",
	})
	var cfgOrdFlags = make([]cli.Flag, len(cfgFlags))
	copy(cfgOrdFlags, cfgFlags)
	cfgOrdFlags = append(cfgOrdFlags, cli.StringSliceFlag{
		Name:  "ord",
		Usage: "updated witness ord as <witness>=mempool:<priority> or <witness>=mined:<height>:<index>, can be given multiple times",
	})
	return []cli.Command{{
		Name:  "stash",
		Usage: "stash database manipulations",
		Subcommands: []cli.Command{
			{
				Name:   "init",
				Usage:  "initialize a stash database",
				Action: initDB,
				Flags:  cfgFlags,
			},
			{
				Name:   "dump",
				Usage:  "dump the stash database to a file",
				Action: dumpDB,
				Flags:  cfgOutFlags,
			},
			{
				Name:   "restore",
				Usage:  "restore the stash database from a file",
				Action: restoreDB,
				Flags:  cfgInFlags,
			},
			{
				Name:   "reindex",
				Usage:  "re-key anchored global state after witness ord changes",
				Action: reindexDB,
				Flags:  cfgOrdFlags,
			},
		},
	}}
}

func initDB(ctx *cli.Context) error {
	st, _, exitErr := options.GetStash(ctx)
	if exitErr != nil {
		return exitErr
	}
	if err := st.Close(); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func dumpDB(ctx *cli.Context) error {
	store, log, exitErr := options.GetStore(ctx)
	if exitErr != nil {
		return exitErr
	}
	defer store.Close()

	out := ctx.String("out")
	if len(out) == 0 {
		return cli.NewExitError("output file is not specified", 1)
	}
	outStream, err := os.Create(out)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer outStream.Close()

	writer := io.NewBinWriterFromIO(outStream)
	if err := stashdump.Dump(store, writer); err != nil {
		return cli.NewExitError(err, 1)
	}
	log.Info("stash database dumped", zap.String("file", out))
	return nil
}

func restoreDB(ctx *cli.Context) error {
	store, log, exitErr := options.GetStore(ctx)
	if exitErr != nil {
		return exitErr
	}
	defer store.Close()

	in := ctx.String("in")
	if len(in) == 0 {
		return cli.NewExitError("input file is not specified", 1)
	}
	inStream, err := os.Open(in)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer inStream.Close()

	reader := io.NewBinReaderFromIO(inStream)
	if err := stashdump.Restore(store, reader); err != nil {
		return cli.NewExitError(err, 1)
	}
	log.Info("stash database restored", zap.String("file", in))
	return nil
}

func reindexDB(ctx *cli.Context) error {
	ords := ctx.StringSlice("ord")
	if len(ords) == 0 {
		return cli.NewExitError("no witness ords specified, use the --ord option", 1)
	}
	local := resolver.NewLocal()
	for _, s := range ords {
		witness, ord, err := parseOrd(s)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		local.Put(witness, ord)
	}

	st, _, exitErr := options.GetStash(ctx)
	if exitErr != nil {
		return exitErr
	}
	defer st.Close()

	if err := st.Reindex(local); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

// parseOrd parses an updated witness ord given on the command line as
// <witness>=mempool:<priority> or <witness>=mined:<height>:<index>.
func parseOrd(s string) (util.Uint256, contract.WitnessOrd, error) {
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return util.Uint256{}, contract.WitnessOrd{}, fmt.Errorf("invalid ord format: %s", s)
	}
	witness, err := util.Uint256DecodeStringLE(strings.TrimPrefix(s[:eq], "0x"))
	if err != nil {
		return util.Uint256{}, contract.WitnessOrd{}, fmt.Errorf("invalid witness id: %w", err)
	}
	parts := strings.Split(s[eq+1:], ":")
	switch parts[0] {
	case "mempool":
		if len(parts) != 2 {
			return util.Uint256{}, contract.WitnessOrd{}, fmt.Errorf("invalid mempool ord: %s", s)
		}
		priority, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return util.Uint256{}, contract.WitnessOrd{}, fmt.Errorf("invalid mempool priority: %w", err)
		}
		return witness, contract.MempoolOrd(uint32(priority)), nil
	case "mined":
		if len(parts) != 3 {
			return util.Uint256{}, contract.WitnessOrd{}, fmt.Errorf("invalid mined ord: %s", s)
		}
		height, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return util.Uint256{}, contract.WitnessOrd{}, fmt.Errorf("invalid block height: %w", err)
		}
		index, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			return util.Uint256{}, contract.WitnessOrd{}, fmt.Errorf("invalid transaction index: %w", err)
		}
		pos, err := contract.NewWitnessPos(uint32(height), uint32(index))
		if err != nil {
			return util.Uint256{}, contract.WitnessOrd{}, err
		}
		return witness, contract.MinedOrd(pos), nil
	default:
		return util.Uint256{}, contract.WitnessOrd{}, fmt.Errorf("unknown ord kind: %s", parts[0])
	}
}
