package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := ioutil.WriteFile(path, []byte(content), 0644)
	assert.Nil(t, err)
	return path
}

func TestDefaultAppConfig(t *testing.T) {
	c := DefaultAppConfig()
	assert.Nil(t, c.Validate())
	assert.Equal(t, "", c.MINER_ADDRESS)
}

func TestParseAppConfig(t *testing.T) {
	path := writeConfig(t, "DIFFICULTY: 3\nCOINBASE_REWARD: 12.5\nMINER_ADDRESS: alice\n")
	c, err := ParseAppConfig(path)
	assert.Nil(t, err)
	assert.Equal(t, AppConfig{
		DIFFICULTY:      3,
		MAX_DIFFICULTY:  DEFAULT_MAX_DIFFICULTY,
		COINBASE_REWARD: 12.5,
		MINER_ADDRESS:   "alice",
	}, c)
}

func TestParseAppConfigErrors(t *testing.T) {
	_, err := ParseAppConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)

	_, err = ParseAppConfig(writeConfig(t, "DIFFICULTY: [1, 2"))
	assert.NotNil(t, err)

	_, err = ParseAppConfig(writeConfig(t, "DIFFICULTY: 9\n"))
	assert.NotNil(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *AppConfig)
		valid  bool
	}{
		{"default", func(c *AppConfig) {}, true},
		{"zero difficulty", func(c *AppConfig) { c.DIFFICULTY = 0 }, false},
		{"difficulty above max", func(c *AppConfig) { c.DIFFICULTY = c.MAX_DIFFICULTY + 1 }, false},
		{"max above ceiling", func(c *AppConfig) { c.MAX_DIFFICULTY = DIFFICULTY_CEILING + 1 }, false},
		{"max at ceiling", func(c *AppConfig) { c.MAX_DIFFICULTY = DIFFICULTY_CEILING }, true},
		{"negative reward", func(c *AppConfig) { c.COINBASE_REWARD = -1 }, false},
		{"zero reward", func(c *AppConfig) { c.COINBASE_REWARD = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultAppConfig()
			tt.modify(&c)
			if tt.valid {
				assert.Nil(t, c.Validate())
			} else {
				assert.NotNil(t, c.Validate())
			}
		})
	}
}
