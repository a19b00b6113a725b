package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var errInvalidInput = errors.New("invalid input")

// FileConfig is the configuration read from the config file and TINYJWT_*
// environment variables.
type FileConfig struct {
	// Algorithms lists accepted algorithm names.
	Algorithms []string `yaml:"algorithms" mapstructure:"algorithms"`
	// Secret is the HS256 shared secret.
	Secret string `yaml:"secret,omitempty" mapstructure:"secret"`
	// SecretFile is read when Secret is empty.
	SecretFile string `yaml:"secret_file,omitempty" mapstructure:"secret_file"`
	// PrivateKey is the hex-encoded ES256 private scalar.
	PrivateKey string `yaml:"private_key,omitempty" mapstructure:"private_key"`
	// Redis configures the optional Redis key source.
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
	// LogFile is the rotating log file path.
	LogFile string `yaml:"log_file,omitempty" mapstructure:"log_file"`
	// Metrics prints counters on exit.
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
	Verbose bool `yaml:"-" mapstructure:"verbose"`
	Quiet   bool `yaml:"-" mapstructure:"quiet"`
}

// RedisConfig points the CLI at a keysource store.
type RedisConfig struct {
	Addr        string        `yaml:"addr,omitempty" mapstructure:"addr"`
	Prefix      string        `yaml:"prefix" mapstructure:"prefix"`
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
}

// DefaultFileConfig returns the configuration used when nothing is set.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Algorithms: []string{"HS256", "ES256"},
		Redis: RedisConfig{
			Prefix:      "tinyjwt",
			DialTimeout: 2 * time.Second,
		},
	}
}

// setDefaults registers every key so that environment variables are seen by
// Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultFileConfig()
	v.SetDefault("algorithms", d.Algorithms)
	v.SetDefault("secret", "")
	v.SetDefault("secret_file", "")
	v.SetDefault("private_key", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.prefix", d.Redis.Prefix)
	v.SetDefault("redis.dial_timeout", d.Redis.DialTimeout)
	v.SetDefault("log_file", "")
	v.SetDefault("metrics", false)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
}

func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}

// loadConfig reads path (if any) into v and unmarshals the result.
func loadConfig(v *viper.Viper, path string) (*FileConfig, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg FileConfig
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = DefaultFileConfig().Algorithms
	}
	return &cfg, nil
}

// writeConfig writes cfg as YAML. Existing files are only replaced with force.
func writeConfig(path string, cfg FileConfig, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s already exists (use --force)", errInvalidInput, path)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
