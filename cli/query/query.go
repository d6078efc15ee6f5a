package query

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli"
	"github.com/weftlabs/weft-go/cli/options"
	"github.com/weftlabs/weft-go/pkg/core/contract"
	"github.com/weftlabs/weft-go/pkg/core/state"
	"github.com/weftlabs/weft-go/pkg/encoding/cid"
)

// NewCommands returns 'query' command.
func NewCommands() []cli.Command {
	queryFlags := []cli.Flag{
		options.ConfigFile,
		options.Debug,
	}
	queryGlobalFlags := make([]cli.Flag, len(queryFlags))
	copy(queryGlobalFlags, queryFlags)
	queryGlobalFlags = append(queryGlobalFlags, cli.UintFlag{
		Name:  "count, c",
		Usage: "number of records to display starting from the newest (default or 0: all)",
	})
	return []cli.Command{{
		Name:  "query",
		Usage: "contract state queries",
		Subcommands: []cli.Command{
			{
				Name:      "global",
				Usage:     "display the global state history of a contract",
				ArgsUsage: "<contract> <type>",
				Action:    queryGlobal,
				Flags:     queryGlobalFlags,
			},
			{
				Name:      "owned",
				Usage:     "display state assigned to a transaction output",
				ArgsUsage: "<contract> <txid:index> <type>",
				Action:    queryOwned,
				Flags:     queryFlags,
			},
			{
				Name:      "balance",
				Usage:     "display the total fungible balance of a contract",
				ArgsUsage: "<contract> <type>",
				Action:    queryBalance,
				Flags:     queryFlags,
			},
		},
	}}
}

func queryGlobal(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 2 {
		return cli.NewExitError("contract id and state type expected", 1)
	}
	contractID, err := cid.Decode(args[0])
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid contract id: %w", err), 1)
	}
	typ, err := parseStateType(args[1])
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	st, _, exitErr := options.GetStash(ctx)
	if exitErr != nil {
		return exitErr
	}
	defer st.Close()

	global := st.ContractState(contractID).Global(state.GlobalType(typ))
	size := global.Size()
	count := uint32(ctx.Uint("count"))
	if count == 0 || count > size {
		count = size
	}

	buf := bytes.NewBuffer(nil)

	// Ignore the errors below because `Write` to buffer doesn't return error.
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte(fmt.Sprintf("Size:\t%d\n", size)))
	for depth := uint32(0); depth < count; depth++ {
		data, ok := global.Nth(depth)
		if !ok {
			break
		}
		_, _ = tw.Write([]byte(fmt.Sprintf("%d:\t%s\n", depth, hex.EncodeToString(data))))
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func queryOwned(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 3 {
		return cli.NewExitError("contract id, outpoint and state type expected", 1)
	}
	contractID, err := cid.Decode(args[0])
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid contract id: %w", err), 1)
	}
	op, err := contract.ParseOutpoint(args[1])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	typ, err := parseStateType(args[2])
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	st, _, exitErr := options.GetStash(ctx)
	if exitErr != nil {
		return exitErr
	}
	defer st.Close()

	var (
		view = st.ContractState(contractID)
		aTyp = state.AssignmentType(typ)
	)
	buf := bytes.NewBuffer(nil)

	// Ignore the errors below because `Write` to buffer doesn't return error.
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte(fmt.Sprintf("Rights:\t%d\n", view.Rights(op, aTyp))))
	for i, f := range view.Fungible(op, aTyp) {
		_, _ = tw.Write([]byte(fmt.Sprintf("Fungible %d:\t%d\n", i, uint64(f))))
	}
	for i, d := range view.Data(op, aTyp) {
		_, _ = tw.Write([]byte(fmt.Sprintf("Data %d:\t%s\n", i, hex.EncodeToString(d))))
	}
	for i, a := range view.Attach(op, aTyp) {
		_, _ = tw.Write([]byte(fmt.Sprintf("Attach %d:\t%s (%s)\n", i, a.ID.StringLE(), a.MediaType)))
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func queryBalance(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 2 {
		return cli.NewExitError("contract id and state type expected", 1)
	}
	contractID, err := cid.Decode(args[0])
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid contract id: %w", err), 1)
	}
	typ, err := parseStateType(args[1])
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	st, _, exitErr := options.GetStash(ctx)
	if exitErr != nil {
		return exitErr
	}
	defer st.Close()

	balance := st.FungibleBalance(contractID, state.AssignmentType(typ))
	fmt.Fprintf(ctx.App.Writer, "%s\n", balance.ToBig().String())
	return nil
}

func parseStateType(s string) (uint16, error) {
	typ, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid state type: %w", err)
	}
	return uint16(typ), nil
}
