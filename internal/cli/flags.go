package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MrEthical07/tinyjwt"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitError indicates a general error.
	ExitError = 1
	// ExitInvalidInput indicates a malformed token, bad flags or an unsupported algorithm.
	ExitInvalidInput = 2
	// ExitVerifyFailed indicates a token whose signature did not verify.
	ExitVerifyFailed = 3
)

// EnvPrefix is the prefix of every environment variable the CLI reads.
const EnvPrefix = "TINYJWT"

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Config is an optional YAML config file.
	Config string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses everything below warn level.
	Quiet bool
	// LogFile, when set, also writes logs to a rotating file.
	LogFile string
	// Metrics prints the Prometheus rendering of the manager counters to stderr
	// after the command ran.
	Metrics bool
}

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Config, "config", "c", "", "config file (yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "only log warnings and errors")
	cmd.PersistentFlags().StringVar(&flags.LogFile, "log-file", "", "also write logs to this file, rotated")
	cmd.PersistentFlags().BoolVar(&flags.Metrics, "metrics", false, "print manager metrics to stderr on exit")
	cmd.PersistentFlags().String("redis-addr", "", "load key material from this Redis server")
	cmd.PersistentFlags().StringSlice("algorithms", nil, "accepted algorithms (default HS256,ES256)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper so they can also come from the
// config file or TINYJWT_* environment variables.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	rootFlags := cmd.Root().PersistentFlags()

	if err := v.BindPFlag("verbose", rootFlags.Lookup("verbose")); err != nil {
		return err
	}
	if err := v.BindPFlag("quiet", rootFlags.Lookup("quiet")); err != nil {
		return err
	}
	if err := v.BindPFlag("log_file", rootFlags.Lookup("log-file")); err != nil {
		return err
	}
	if err := v.BindPFlag("metrics", rootFlags.Lookup("metrics")); err != nil {
		return err
	}
	if err := v.BindPFlag("redis.addr", rootFlags.Lookup("redis-addr")); err != nil {
		return err
	}
	if err := v.BindPFlag("algorithms", rootFlags.Lookup("algorithms")); err != nil {
		return err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, tinyjwt.ErrSignatureMismatch):
		return ExitVerifyFailed
	case errors.Is(err, tinyjwt.ErrMalformedToken),
		errors.Is(err, tinyjwt.ErrUnsupportedAlgorithm),
		errors.Is(err, tinyjwt.ErrInvalidPrivateKey),
		errors.Is(err, errInvalidInput):
		return ExitInvalidInput
	default:
		return ExitError
	}
}
