package server

import (
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/htlc/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	tmflags "github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

// Flag and configuration keys. Every key can also be set with an
// environment variable, for example HTLCD_LOG_LEVEL.
const (
	FlagHome     = "home"
	FlagBind     = "bind"
	FlagDB       = "db"
	FlagLogLevel = "log_level"
	FlagDebug    = "debug"
	FlagChainID  = "chain_id"

	EnvPrefix  = "HTLCD"
	ConfigFile = "config.toml"

	DefaultBind     = "tcp://localhost:26658"
	DefaultLogLevel = "main:info,state:info,*:error"

	// MemoryDB as the db value keeps the state in memory.
	MemoryDB = ":memory:"
)

const defaultModuleLevel = "error"

// Config holds the daemon settings.
type Config struct {
	Home     string `mapstructure:"home"`
	Bind     string `mapstructure:"bind"`
	DB       string `mapstructure:"db"`
	LogLevel string `mapstructure:"log_level"`
	Debug    bool   `mapstructure:"debug"`
	ChainID  string `mapstructure:"chain_id"`
}

// NewRootCmd returns the root command along with the viper instance all
// subcommands read their configuration from. Values are taken from flags,
// then environment, then the config file found in the home directory.
func NewRootCmd(name, short, defaultHome string) (*cobra.Command, *viper.Viper) {
	v := viper.New()
	root := &cobra.Command{
		Use:           name,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return readConfigFile(v)
		},
	}

	flags := root.PersistentFlags()
	flags.String(FlagHome, defaultHome, "directory for config and data")
	flags.String(FlagBind, DefaultBind, "address the abci server listens on")
	flags.String(FlagDB, "", "database path, defaults to <home>/data/state.db, "+MemoryDB+" for in memory")
	flags.String(FlagLogLevel, DefaultLogLevel, "log level, for example info or main:info,*:error")
	flags.Bool(FlagDebug, false, "return full error information to clients")
	flags.String(FlagChainID, "", "chain id written to the genesis file by init")
	for _, key := range []string{FlagHome, FlagBind, FlagDB, FlagLogLevel, FlagDebug, FlagChainID} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return root, v
}

// readConfigFile loads <home>/config.toml if present.
func readConfigFile(v *viper.Viper) error {
	path := filepath.Join(v.GetString(FlagHome), ConfigFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(errors.ErrInput, "read %s: %s", path, err)
	}
	return nil
}

// ReadConfig returns the resolved daemon configuration.
func ReadConfig(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, errors.Wrap(errors.ErrInput, err.Error())
	}
	if c.Home == "" {
		return c, errors.Wrap(errors.ErrEmpty, "home directory")
	}
	if c.Bind == "" {
		return c, errors.Wrap(errors.ErrEmpty, "bind address")
	}
	if c.DB == "" {
		c.DB = filepath.Join(c.Home, "data", "state.db")
	}
	return c, nil
}

// WriteConfig stores the current settings in <home>/config.toml. The home
// directory itself is not written.
func WriteConfig(v *viper.Viper) (string, error) {
	home := v.GetString(FlagHome)
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	out := viper.New()
	for _, key := range []string{FlagBind, FlagDB, FlagLogLevel, FlagDebug} {
		out.Set(key, v.Get(key))
	}
	path := filepath.Join(home, ConfigFile)
	if err := out.WriteConfigAs(path); err != nil {
		return "", errors.Wrapf(errors.ErrInput, "write %s: %s", path, err)
	}
	return path, nil
}

// NewLogger returns a tendermint logger writing to w, filtered by level.
// Level is a comma separated list of "module:level" pairs, where "*" names
// every other module. Modules not listed log errors only.
func NewLogger(w io.Writer, level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	if level == "" {
		return logger, nil
	}
	filtered, err := tmflags.ParseLogLevel(level, logger, defaultModuleLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return filtered, nil
}
