package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
)

// GenOptions generates the app_state of the genesis file from the init
// command arguments. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisFile returns the genesis path used by a node with given home
// directory. Tendermint uses the same layout.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd writes the genesis file with the generated app_state, a private
// validator if none exists and the config file of the daemon. Files are
// laid out the way tendermint expects them in its home directory. An
// existing genesis file is never overwritten.
func InitCmd(gen GenOptions, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "init [address] [amount]",
		Short: "Initialize genesis and config files",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ReadConfig(v)
			if err != nil {
				return err
			}
			logger, err := NewLogger(cmd.OutOrStdout(), cfg.LogLevel)
			if err != nil {
				return err
			}

			genFile := GenesisFile(cfg.Home)
			if _, err := os.Stat(genFile); err == nil {
				return errors.Wrapf(errors.ErrDuplicate, "genesis file %s exists", genFile)
			}

			appState, err := gen(args)
			if err != nil {
				return errors.Wrap(err, "app state")
			}
			chainID := cfg.ChainID
			if chainID == "" {
				chainID = "htlc-" + cmn.RandStr(6)
			}
			if !htlc.IsValidChainID(chainID) {
				return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
			}
			validator, err := loadOrGenValidator(cfg.Home, logger)
			if err != nil {
				return err
			}
			if err := writeGenesis(genFile, chainID, validator, appState); err != nil {
				return err
			}
			logger.Info("Generated genesis file", "path", genFile, "chain_id", chainID)

			confFile, err := WriteConfig(v)
			if err != nil {
				return err
			}
			logger.Info("Generated config file", "path", confFile)
			return nil
		},
	}
}

func loadOrGenValidator(home string, logger log.Logger) (*privval.FilePV, error) {
	keyFile := filepath.Join(home, "config", "priv_validator_key.json")
	stateFile := filepath.Join(home, "data", "priv_validator_state.json")
	for _, dir := range []string{filepath.Dir(keyFile), filepath.Dir(stateFile)} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	pv := privval.LoadOrGenFilePV(keyFile, stateFile)
	logger.Info("Private validator", "path", keyFile)
	return pv, nil
}

func writeGenesis(path, chainID string, validator *privval.FilePV, appState json.RawMessage) error {
	doc := tmtypes.GenesisDoc{
		GenesisTime: time.Now().UTC(),
		ChainID:     chainID,
		Validators: []tmtypes.GenesisValidator{{
			PubKey: validator.GetPubKey(),
			Power:  10,
		}},
		AppState: appState,
	}
	if err := doc.ValidateAndComplete(); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := doc.SaveAs(path); err != nil {
		return errors.Wrapf(errors.ErrInput, "save genesis: %s", err)
	}
	return nil
}
