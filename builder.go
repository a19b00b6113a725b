package tinyjwt

import (
	"errors"

	"github.com/rs/zerolog"
)

// Builder assembles a Manager with its key material.
//
// A Builder can be used for a single Build call.
type Builder struct {
	config Config

	secret    []byte
	secretSet bool
	private   []byte

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithAlgorithms sets the accepted algorithms.
func (b *Builder) WithAlgorithms(algs ...Algorithm) *Builder {
	b.config.Algorithms = append([]Algorithm(nil), algs...)
	return b
}

// WithSharedSecret sets the HS256 secret. The slice is borrowed, not copied.
func (b *Builder) WithSharedSecret(secret []byte) *Builder {
	b.secret = secret
	b.secretSet = true
	return b
}

// WithPrivateKey sets the ES256 private scalar. The slice is borrowed, not copied.
func (b *Builder) WithPrivateKey(key []byte) *Builder {
	b.private = key
	return b
}

// WithLogger routes failure events to logger.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.config.Logger = &logger
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the decode latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns the Manager.
//
// Build may return an error when the configuration or the private key is invalid.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	m, err := NewManager(b.config)
	if err != nil {
		return nil, err
	}
	if b.secretSet {
		m.SetSharedSecret(b.secret)
	}
	if b.private != nil {
		if err := m.SetPrivateKey(b.private); err != nil {
			return nil, err
		}
	}

	b.built = true
	return m, nil
}
