package serve_lsp

import (
	"context"
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/spinasm-lsp/pkg/config"
	"github.com/walteh/spinasm-lsp/pkg/debug"
	"github.com/walteh/spinasm-lsp/pkg/lsp"
)

type Handler struct {
	debug      bool
	pretty     bool
	configPath string
	version    string
}

func NewServeLSPCommand(version string) *cobra.Command {
	me := &Handler{version: version}

	cmd := &cobra.Command{
		Use:   "serve-lsp",
		Short: "start the language server on stdio",
	}

	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&me.pretty, "pretty", false, "write human readable logs to stderr")
	cmd.Flags().StringVar(&me.configPath, "config", "", "path to a .spinasm.hcl or .spinasm.yaml file")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	fs := afero.NewOsFs()

	wd, err := os.Getwd()
	if err != nil {
		return errors.Errorf("getting working directory: %w", err)
	}

	// stdout carries the protocol, so logs go to stderr
	level := zerolog.InfoLevel
	cfg, path, cfgErr := config.Resolve(fs, me.configPath, wd)
	if cfgErr == nil {
		level = cfg.LogLevel()
	}
	if me.debug {
		level = zerolog.DebugLevel
	}
	logger := debug.NewLogger(os.Stderr, level, me.pretty)
	ctx = logger.WithContext(ctx)

	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Str("path", path).Msg("using default configuration")
	}

	opts := []lsp.Option{
		lsp.WithFs(fs),
		lsp.WithVersion(me.version),
		lsp.WithConfigPath(me.configPath),
		lsp.WithConfigDirs(wd),
	}

	server := lsp.NewServer(ctx, opts...)

	instance := server.BuildServerInstance(ctx, &jrpc2.ServerOptions{
		RPCLog: lsp.NewRPCLogger(ctx),
	})

	logger.Info().Str("version", me.version).Str("server_id", server.ID()).Msg("starting language server")

	if err := instance.StartAndWait(os.Stdin, os.Stdout); err != nil {
		return errors.Errorf("error running language server: %w", err)
	}

	return nil
}
