// Package cli provides the command-line interface for tinyjwt.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MrEthical07/tinyjwt/metrics/export/prometheus"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app is the state shared by one command invocation.
type app struct {
	v      *viper.Viper
	flags  *GlobalFlags
	cfg    *FileConfig
	logger zerolog.Logger
	closer io.Closer

	// logWriter overrides the stderr/file logger in tests.
	logWriter io.Writer
	// manager is set by the commands that build one, for --metrics.
	manager metricsSource
}

type metricsSource = prometheus.MetricsSource

func newApp() *app {
	v := viper.New()
	setDefaults(v)
	return &app{
		v:      v,
		flags:  &GlobalFlags{},
		logger: zerolog.Nop(),
	}
}

// newRootCmd creates the root command and its subcommands.
func newRootCmd(a *app, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tinyjwt",
		Short: "Encode and verify compact JWTs (HS256, ES256)",
		Long: `tinyjwt encodes payloads into compact JWTs and verifies them.

HS256 uses a shared secret. ES256 uses deterministic signatures, so a token
can be verified with the private key by recomputation, or with the public key
through "tinyjwt verify".`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			a.printMetrics(cmd)
			return a.close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, a.flags)

	addEncodeCommand(cmd, a)
	addDecodeCommand(cmd, a)
	addVerifyCommand(cmd, a)
	addCapacityCommand(cmd, a)
	addPubkeyCommand(cmd, a)
	addDeriveCommand(cmd, a)
	addKeyCommand(cmd, a)
	addConfigCommand(cmd, a)
	addLintCommand(cmd, a)

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	if err := BindGlobalFlags(a.v, cmd); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	cfg, err := loadConfig(a.v, a.flags.Config)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logWriter != nil {
		a.logger = InitLoggerWithWriter(cfg.Verbose, cfg.Quiet, a.logWriter)
		a.closer = nopCloser{}
	} else {
		a.logger, a.closer = InitLogger(cfg.Verbose, cfg.Quiet, cfg.LogFile)
	}
	a.logger.Debug().Str("command", cmd.Name()).Strs("algorithms", cfg.Algorithms).Msg("configuration loaded")
	return nil
}

func (a *app) printMetrics(cmd *cobra.Command) {
	if a.cfg == nil || !a.cfg.Metrics || a.manager == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), prometheus.NewPrometheusExporterFromSource(a.manager).Render())
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	a := newApp()
	cmd := newRootCmd(a, info)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		_ = a.close()
	}
	return err
}
