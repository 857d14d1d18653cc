// Package commands holds the CLI-facing orchestration: raw string inputs in,
// printable results out. All heavy lifting lives in pkg/.
package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/keysmith-labs/substrate-signer-go/pkg/chain"
	"github.com/keysmith-labs/substrate-signer-go/pkg/extrinsic"
	"github.com/keysmith-labs/substrate-signer-go/pkg/keys"
	"github.com/keysmith-labs/substrate-signer-go/pkg/keystore"
	"github.com/keysmith-labs/substrate-signer-go/pkg/util"
)

// SignTransactionCmd signs a hex-encoded runtime call offline and renders
// the signed extrinsic as a 0x-prefixed hex string.
type SignTransactionCmd struct {
	// Raw user inputs.
	Suri           string
	Nonce          string
	PriorBlockHash string
	Call           string
	Scheme         keys.Scheme

	// Collaborators.
	Keystore keystore.Params
	Provider chain.Provider
	Deriver  keys.Deriver // nil means standard secret-URI derivation
	Logger   *zap.Logger
}

// Run drives the pipeline: resolve typed values, read the keystore
// password, derive and sign. All input decoding happens before any key
// material is touched, so no cryptographic work ever runs over
// partially-validated input. Any failure aborts the whole command; nothing
// is partially produced.
func (c *SignTransactionCmd) Run() (string, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	nonce, err := c.Provider.ParseIndex(c.Nonce)
	if err != nil {
		return "", err
	}

	hashRaw, err := util.DecodeHex(c.PriorBlockHash)
	if err != nil {
		return "", fmt.Errorf("%w: prior block hash: %s", chain.ErrDecode, err)
	}
	hash, err := c.Provider.DecodeHash(hashRaw)
	if err != nil {
		return "", err
	}

	callRaw, err := util.DecodeHex(c.Call)
	if err != nil {
		return "", fmt.Errorf("%w: call: %s", chain.ErrDecode, err)
	}
	call, err := c.Provider.DecodeCall(callRaw)
	if err != nil {
		return "", err
	}

	password, havePassword, err := c.Keystore.ReadPassword()
	if err != nil {
		return "", err
	}
	logger.Debug("inputs resolved",
		zap.String("scheme", c.Scheme.String()),
		zap.Int("callBytes", len(callRaw)),
		zap.Bool("keystorePassword", havePassword),
	)

	builder := extrinsic.NewBuilder(c.Deriver, c.Provider, logger)
	encoded, err := builder.BuildAndSign(c.Scheme, c.Suri, password, call, nonce, hash)
	if err != nil {
		return "", err
	}

	return util.EncodeHex(encoded), nil
}
