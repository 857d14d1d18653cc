package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNetworkPreset(t *testing.T) {
	preset, err := GetNetworkPreset(Network_Polkadot)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), preset.SS58Prefix)
	assert.True(t, strings.HasPrefix(preset.GenesisHash, "0x"))

	_, err = GetNetworkPreset(Network("rococo"))
	require.Error(t, err)
}

func TestNewChainConfig_AppliesPreset(t *testing.T) {
	cfg, err := NewChainConfig(Network_Kusama)
	require.NoError(t, err)
	assert.Equal(t, Network_Kusama, cfg.Network)
	assert.Equal(t, uint16(2), cfg.SS58Prefix)
	assert.NotEmpty(t, cfg.GenesisHash)

	cfg, err = NewChainConfig(Network_Substrate)
	require.NoError(t, err)
	assert.Empty(t, cfg.GenesisHash)
}

func TestChainConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ChainConfig)
		shouldErr bool
	}{
		{"defaults", func(c *ChainConfig) {}, false},
		{"pinned genesis", func(c *ChainConfig) {
			c.GenesisHash = "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3"
		}, false},
		{"genesis not hex", func(c *ChainConfig) { c.GenesisHash = "0xzz" }, true},
		{"genesis wrong length", func(c *ChainConfig) { c.GenesisHash = "0x1234" }, true},
		{"mortal era too short", func(c *ChainConfig) {
			c.EraPeriod = 2
			c.GenesisHash = "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3"
		}, true},
		{"mortal era without genesis", func(c *ChainConfig) { c.EraPeriod = 64 }, true},
		{"mortal era with genesis", func(c *ChainConfig) {
			c.EraPeriod = 64
			c.CurrentBlock = 10_000
			c.GenesisHash = "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewChainConfig(Network_Substrate)
			require.NoError(t, err)
			tt.mutate(&cfg)

			err = cfg.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
