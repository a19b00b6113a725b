package tinyjwt

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Config defines how a Manager is built.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	// Algorithms lists the schemes Encode and Decode accept. RS256 may be listed
	// but always fails with ErrUnsupportedAlgorithm.
	Algorithms []Algorithm
	Metrics    MetricsConfig
	// Logger receives debug events for failed operations. nil disables logging.
	Logger *zerolog.Logger
}

// MetricsConfig toggles the in-process counters and the decode latency histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns a Config that accepts HS256 and ES256 with metrics off.
func DefaultConfig() Config {
	return Config{
		Algorithms: []Algorithm{HS256, ES256},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Algorithms != nil {
		out.Algorithms = append([]Algorithm(nil), cfg.Algorithms...)
	}
	return out
}

// Validate checks the algorithm list.
func (c *Config) Validate() error {
	if len(c.Algorithms) == 0 {
		return errors.New("at least one algorithm must be enabled")
	}
	var seen [algorithmCount]bool
	for _, alg := range c.Algorithms {
		if alg >= algorithmCount {
			return fmt.Errorf("algorithm %d: %w", alg, ErrUnsupportedAlgorithm)
		}
		if seen[alg] {
			return fmt.Errorf("algorithm %s listed twice", alg)
		}
		seen[alg] = true
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("latency histograms require metrics to be enabled")
	}
	return nil
}
