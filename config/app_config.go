package config

import (
	"fmt"
	"io/ioutil"
	"math"

	"gopkg.in/yaml.v2"
)

const (
	DEFAULT_DIFFICULTY      = 2
	DEFAULT_MAX_DIFFICULTY  = 8
	DEFAULT_COINBASE_REWARD = 100.0
	// A SHA256 digest only has 64 hex digits.
	DIFFICULTY_CEILING = 64
)

// This is the global app config for the blockchain.
type AppConfig struct {
	// How many leading 0 hex digits to form a valid hash.
	DIFFICULTY int `yaml:"DIFFICULTY"`
	// Largest difficulty an operator may set, keeps mining time bounded.
	MAX_DIFFICULTY int `yaml:"MAX_DIFFICULTY"`
	// The default coinbase reward.
	COINBASE_REWARD float64 `yaml:"COINBASE_REWARD"`
	// Address credited with mining rewards. A random one is picked when empty.
	MINER_ADDRESS string `yaml:"MINER_ADDRESS"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		DIFFICULTY:      DEFAULT_DIFFICULTY,
		MAX_DIFFICULTY:  DEFAULT_MAX_DIFFICULTY,
		COINBASE_REWARD: DEFAULT_COINBASE_REWARD,
	}
}

// Validate checks the config can start a chain.
func (c AppConfig) Validate() error {
	if c.MAX_DIFFICULTY < 1 || c.MAX_DIFFICULTY > DIFFICULTY_CEILING {
		return fmt.Errorf("MAX_DIFFICULTY must be within [1, %d], got %d", DIFFICULTY_CEILING, c.MAX_DIFFICULTY)
	}
	if c.DIFFICULTY < 1 || c.DIFFICULTY > c.MAX_DIFFICULTY {
		return fmt.Errorf("DIFFICULTY must be within [1, %d], got %d", c.MAX_DIFFICULTY, c.DIFFICULTY)
	}
	if math.IsNaN(c.COINBASE_REWARD) || math.IsInf(c.COINBASE_REWARD, 0) || c.COINBASE_REWARD < 0 {
		return fmt.Errorf("COINBASE_REWARD must be non-negative, got %v", c.COINBASE_REWARD)
	}
	return nil
}

// ParseAppConfig reads a yaml config. Keys missing from the file keep their default.
func ParseAppConfig(path string) (AppConfig, error) {
	c := DefaultAppConfig()
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		return AppConfig{}, err
	}
	return c, c.Validate()
}
