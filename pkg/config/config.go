package config

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/keysmith-labs/substrate-signer-go/pkg/util"
)

// Environment variable names for signer configuration
const (
	EnvSuri               = "SUBSIGNER_SURI"
	EnvScheme             = "SUBSIGNER_SCHEME"
	EnvNetwork            = "SUBSIGNER_NETWORK"
	EnvSpecVersion        = "SUBSIGNER_SPEC_VERSION"
	EnvTransactionVersion = "SUBSIGNER_TRANSACTION_VERSION"
	EnvGenesisHash        = "SUBSIGNER_GENESIS_HASH"
	EnvPassword           = "SUBSIGNER_PASSWORD"
	EnvPasswordFilename   = "SUBSIGNER_PASSWORD_FILENAME"
	EnvVerbose            = "SUBSIGNER_VERBOSE"
)

type Network string

func (n Network) String() string {
	return string(n)
}

const (
	Network_Polkadot  Network = "polkadot"
	Network_Kusama    Network = "kusama"
	Network_Westend   Network = "westend"
	Network_Substrate Network = "substrate" // local dev chains
)

// NetworkPreset pins the values that identify a chain on the wire.
type NetworkPreset struct {
	SS58Prefix  uint16
	GenesisHash string
}

var NetworkPresets = map[Network]*NetworkPreset{
	Network_Polkadot: {
		SS58Prefix:  0,
		GenesisHash: "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3",
	},
	Network_Kusama: {
		SS58Prefix:  2,
		GenesisHash: "0xb0a8d493285c2df73290dfb7e61f870f17b41801197a149ca93654499ea3dafe",
	},
	Network_Westend: {
		SS58Prefix:  42,
		GenesisHash: "0xe143f23803ac50e8f6f8e62695d1ce9e4e1d68aa36c1cd2cfd15340213f3423e",
	},
	// Dev chains mint their own genesis at startup, so no hash is pinned;
	// the prior block hash supplied at signing time is used instead.
	Network_Substrate: {
		SS58Prefix: 42,
	},
}

// GetNetworkPreset returns the preset for a known network.
func GetNetworkPreset(n Network) (*NetworkPreset, error) {
	preset, ok := NetworkPresets[n]
	if !ok {
		return nil, fmt.Errorf("unsupported network %q. Supported: %s", n, GetSupportedNetworksString())
	}
	return preset, nil
}

// GetSupportedNetworksString returns supported networks for CLI help.
func GetSupportedNetworksString() string {
	return fmt.Sprintf("%s, %s, %s, %s (local dev)",
		Network_Polkadot, Network_Kusama, Network_Westend, Network_Substrate)
}

// ChainConfig carries everything the provider needs to assemble signed
// extensions without touching the network.
type ChainConfig struct {
	Network    Network `json:"network" yaml:"network"`
	SS58Prefix uint16  `json:"ss58Prefix" yaml:"ss58Prefix"`

	// Runtime identity, covered by every signature.
	SpecVersion        uint32 `json:"specVersion" yaml:"specVersion"`
	TransactionVersion uint32 `json:"transactionVersion" yaml:"transactionVersion"`
	GenesisHash        string `json:"genesisHash,omitempty" yaml:"genesisHash,omitempty"`

	// Signed extension knobs.
	Tip          uint64 `json:"tip" yaml:"tip"`
	EraPeriod    uint64 `json:"eraPeriod" yaml:"eraPeriod"` // 0 = immortal
	CurrentBlock uint64 `json:"currentBlock" yaml:"currentBlock"`
}

// NewChainConfig returns a config seeded from the preset for network.
func NewChainConfig(network Network) (ChainConfig, error) {
	preset, err := GetNetworkPreset(network)
	if err != nil {
		return ChainConfig{}, err
	}
	return ChainConfig{
		Network:     network,
		SS58Prefix:  preset.SS58Prefix,
		GenesisHash: preset.GenesisHash,
	}, nil
}

// Validate validates the chain configuration.
func (c *ChainConfig) Validate() error {
	var allErrors field.ErrorList

	if c.GenesisHash != "" {
		raw, err := util.DecodeHex(c.GenesisHash)
		if err != nil {
			allErrors = append(allErrors, field.Invalid(field.NewPath("genesisHash"), c.GenesisHash, err.Error()))
		} else if len(raw) != 32 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("genesisHash"), c.GenesisHash,
				fmt.Sprintf("must be 32 bytes, got %d", len(raw))))
		}
	}

	if c.EraPeriod > 0 {
		if c.EraPeriod < 4 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("eraPeriod"), c.EraPeriod,
				"mortal era period must span at least 4 blocks"))
		}
		if c.GenesisHash == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("genesisHash"),
				"mortal eras need the genesis hash alongside the era checkpoint"))
		}
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
