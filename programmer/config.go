package programmer

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-hveprom/hw"
	"github.com/arloliu/go-hveprom/logger"
	"github.com/arloliu/go-hveprom/protocol"
)

// Default values.
const (
	DefaultSyncAttempts = protocol.DefaultSyncAttempts
	DefaultSyncDelay    = protocol.DefaultSyncDelay
	DefaultPollInterval = time.Millisecond
)

// Range limits.
const (
	MinSyncAttempts = 1
	MaxSyncAttempts = 1000

	MinSyncDelay = 10 * time.Microsecond
	MaxSyncDelay = 100 * time.Millisecond

	MinPollInterval = 0
	MaxPollInterval = time.Second
)

// Config holds the programmer configuration.
type Config struct {
	// syncAttempts is the number of polls for the complement byte of a frame.
	syncAttempts int
	syncDelay    time.Duration

	// pollInterval is the idle time between empty polls of Run.
	pollInterval time.Duration

	supply hw.SupplyReader
	logger logger.Logger
}

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		syncAttempts: DefaultSyncAttempts,
		syncDelay:    DefaultSyncDelay,
		pollInterval: DefaultPollInterval,
		logger:       logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// SyncAttempts returns the number of polls for a frame complement.
func (cfg *Config) SyncAttempts() int { return cfg.syncAttempts }

// SyncDelay returns the wait between complement polls.
func (cfg *Config) SyncDelay() time.Duration { return cfg.syncDelay }

// PollInterval returns the idle time between empty polls.
func (cfg *Config) PollInterval() time.Duration { return cfg.pollInterval }

// Supply returns the supply reader, nil when MEASURE_SUPPLY is unsupported.
func (cfg *Config) Supply() hw.SupplyReader { return cfg.supply }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Option is a functional option for configuring a Programmer.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithSyncAttempts sets how many times the complement byte of a frame is polled.
func WithSyncAttempts(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < MinSyncAttempts || n > MaxSyncAttempts {
			return fmt.Errorf("programmer: sync attempts %d out of range [%d, %d]", n, MinSyncAttempts, MaxSyncAttempts)
		}
		cfg.syncAttempts = n

		return nil
	})
}

// WithSyncDelay sets the wait between complement polls.
func WithSyncDelay(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinSyncDelay || d > MaxSyncDelay {
			return fmt.Errorf("programmer: sync delay %v out of range [%v, %v]", d, MinSyncDelay, MaxSyncDelay)
		}
		cfg.syncDelay = d

		return nil
	})
}

// WithPollInterval sets the idle time of Run between empty polls.
// Zero polls without pausing.
func WithPollInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinPollInterval || d > MaxPollInterval {
			return fmt.Errorf("programmer: poll interval %v out of range [%v, %v]", d, MinPollInterval, MaxPollInterval)
		}
		cfg.pollInterval = d

		return nil
	})
}

// WithSupply sets the reader used by MEASURE_SUPPLY.
func WithSupply(s hw.SupplyReader) Option {
	return optFunc(func(cfg *Config) error {
		cfg.supply = s
		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("programmer: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
