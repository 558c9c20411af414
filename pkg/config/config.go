// Package config contains the debugger settings read through viper.
package config

import (
	"time"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/utils"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	KeyAdapter       = "adapter"
	KeyTrace         = "trace"
	KeyLogLevel      = "log.level"
	KeyLogFile       = "log.file"
	KeyPollRetries   = "poll.retries"
	KeyPollBackoff   = "poll.backoff"
	KeySrstPullsTrst = "reset.srst_pulls_trst"
	KeyExtraRegs     = "registers.extra"
	KeySimMemory     = "sim.memory"
)

// Prefix of the environment variables overriding configuration keys
const EnvPrefix = "OR1KDBG"

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Poll struct {
	Retries int           `mapstructure:"retries"`
	Backoff time.Duration `mapstructure:"backoff"`
}

type Reset struct {
	SrstPullsTrst bool `mapstructure:"srst_pulls_trst"`
}

type Registers struct {
	// YAML file with registers added to the default catalog
	Extra string `mapstructure:"extra"`
}

type Sim struct {
	// Simulated memory size in bytes
	Memory int `mapstructure:"memory"`
}

type Config struct {
	// Name of the debug unit implementation to open
	Adapter string `mapstructure:"adapter"`

	// Log every debug unit transaction
	Trace bool `mapstructure:"trace"`

	Log       Log       `mapstructure:"log"`
	Poll      Poll      `mapstructure:"poll"`
	Reset     Reset     `mapstructure:"reset"`
	Registers Registers `mapstructure:"registers"`
	Sim       Sim       `mapstructure:"sim"`
}

// Registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAdapter, "sim")
	v.SetDefault(KeyTrace, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyPollRetries, 5)
	v.SetDefault(KeyPollBackoff, time.Second)
	v.SetDefault(KeySrstPullsTrst, false)
	v.SetDefault(KeyExtraRegs, "")
	v.SetDefault(KeySimMemory, 1<<20)
}

// Decodes and validates the configuration
func Load(v *viper.Viper) (Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, utils.WrapError(or1k.ErrInvalidArgument, err, "decoding configuration")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Adapter) == 0 {
		return utils.MakeError(or1k.ErrInvalidArgument, "%v can't be empty", KeyAdapter)
	}

	if c.Poll.Retries < 1 {
		return utils.MakeError(or1k.ErrInvalidArgument, "%v must be at least 1, got %v", KeyPollRetries, c.Poll.Retries)
	}

	if c.Poll.Backoff < 0 {
		return utils.MakeError(or1k.ErrInvalidArgument, "%v can't be negative, got %v", KeyPollBackoff, c.Poll.Backoff)
	}

	if c.Sim.Memory <= 0 {
		return utils.MakeError(or1k.ErrInvalidArgument, "%v must be positive, got %v", KeySimMemory, c.Sim.Memory)
	}

	return nil
}
