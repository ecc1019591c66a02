package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/htlc"
	htlcd "github.com/iov-one/htlc/cmd/htlcd/app"
	"github.com/iov-one/htlc/commands/server"
	"github.com/iov-one/htlc/x/aswap"
	"github.com/spf13/cobra"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func main() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".htlcd")
	root, v := server.NewRootCmd("htlcd", "Hash-timelock escrow node", defaultHome)
	root.AddCommand(
		server.InitCmd(genInitOptions(root), v),
		server.StartCmd(generateApp, v),
		server.VersionCmd(htlc.Version()),
		hashCmd(),
	)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

// genInitOptions prints the private key of the genesis account when one
// was generated.
func genInitOptions(root *cobra.Command) server.GenOptions {
	return func(args []string) (json.RawMessage, error) {
		opts, key, err := htlcd.GenInitOptions(args)
		if err != nil {
			return nil, err
		}
		if key != nil {
			fmt.Fprintf(root.OutOrStdout(), "Generated genesis account %s\nPrivate key: %X\n",
				key.PublicKey().Address(), key.Ed25519)
		}
		return opts, nil
	}
}

func generateApp(cfg server.Config, logger log.Logger) (abci.Application, error) {
	dbPath := cfg.DB
	if dbPath == server.MemoryDB {
		dbPath = ""
	}
	return htlcd.Application(dbPath, logger, cfg.Debug)
}

func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <secret>",
		Short: "Print the hex encoded hash of a secret, as used by escrows",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(aswap.HashSecret([]byte(args[0]))))
		},
	}
}
