package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/htlc/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator lets us lazily initialize the app, using the resolved
// configuration and logger
type AppGenerator func(cfg Config, logger log.Logger) (abci.Application, error)

// StartCmd runs the abci server until the process is interrupted.
func StartCmd(gen AppGenerator, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ReadConfig(v)
			if err != nil {
				return err
			}
			logger, err := NewLogger(cmd.OutOrStdout(), cfg.LogLevel)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sig)
			go func() {
				select {
				case s := <-sig:
					logger.Info("Shutting down", "signal", s.String())
					cancel()
				case <-ctx.Done():
				}
			}()

			return Serve(ctx, cfg, gen, logger)
		},
	}
}

// Serve starts the abci socket server and blocks until the context is
// cancelled.
func Serve(ctx context.Context, cfg Config, gen AppGenerator, logger log.Logger) error {
	app, err := gen(cfg, logger.With("module", "main"))
	if err != nil {
		return errors.Wrap(err, "cannot create application")
	}

	srv, err := server.NewServer(cfg.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	srv.SetLogger(logger.With("module", "abci-server"))
	if err := srv.Start(); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot start server on %s: %s", cfg.Bind, err)
	}
	logger.Info("Started ABCI app", "bind", cfg.Bind, "db", cfg.DB)

	<-ctx.Done()
	if err := srv.Stop(); err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	return nil
}

// VersionCmd prints the application version.
func VersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
