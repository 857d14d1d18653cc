package extrinsic

import (
	"bytes"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/keysmith-labs/substrate-signer-go/pkg/chain"
	"github.com/keysmith-labs/substrate-signer-go/pkg/keys"
)

// Payloads longer than this are signed through their blake2b-256 digest
// instead of verbatim.
const maxRawPayloadLen = 256

// Builder assembles and signs extrinsics for one chain provider. It holds
// no state across calls and performs no I/O.
type Builder struct {
	deriver  keys.Deriver
	provider chain.Provider
	logger   *zap.Logger
}

// NewBuilder returns a builder using deriver for key derivation. A nil
// deriver falls back to standard secret-URI derivation.
func NewBuilder(deriver keys.Deriver, provider chain.Provider, logger *zap.Logger) *Builder {
	if deriver == nil {
		deriver = keys.SuriDeriver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		deriver:  deriver,
		provider: provider,
		logger:   logger,
	}
}

// BuildAndSign derives a key pair for scheme from the secret URI and the
// optional keystore password, resolves the signer's address and the signed
// extensions anchored at priorBlockHash, signs the payload and returns the
// encoded signed extrinsic. Every invocation is independent; the key pair
// is dropped when the call returns.
func (b *Builder) BuildAndSign(
	scheme keys.Scheme,
	suri string,
	password string,
	call chain.Call,
	nonce chain.Index,
	priorBlockHash chain.Hash,
) ([]byte, error) {
	pair, err := b.deriver.Derive(scheme, suri, password)
	if err != nil {
		return nil, err
	}

	address, err := b.provider.AddressOf(pair.AccountID())
	if err != nil {
		return nil, err
	}

	ext, err := b.provider.ExtensionsFor(priorBlockHash, nonce)
	if err != nil {
		return nil, err
	}

	payload, err := SigningPayload(call, ext)
	if err != nil {
		return nil, err
	}

	sig, err := pair.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("sign payload: %w", err)
	}
	signature, err := b.provider.SignatureOf(scheme, sig)
	if err != nil {
		return nil, err
	}

	signed := &SignedExtrinsic{
		Address:   address,
		Signature: signature,
		Extra:     ext.Extra,
		Call:      call,
	}
	encoded, err := signed.Encode()
	if err != nil {
		return nil, err
	}

	b.logger.Debug("signed extrinsic assembled",
		zap.String("scheme", scheme.String()),
		zap.Int("payloadBytes", len(payload)),
		zap.Int("extrinsicBytes", len(encoded)),
	)
	return encoded, nil
}

// SigningPayload produces the canonical byte string covered by an extrinsic
// signature: call ++ extra ++ additional, replaced by its blake2b-256
// digest when oversized.
func SigningPayload(call chain.Call, ext *chain.SignedExtensions) ([]byte, error) {
	var buf bytes.Buffer
	enc := scale.NewEncoder(&buf)
	for _, part := range []chain.Encodable{call, ext.Extra, ext.Additional} {
		if err := part.Encode(enc); err != nil {
			return nil, fmt.Errorf("encode signing payload: %w", err)
		}
	}
	raw := buf.Bytes()
	if len(raw) > maxRawPayloadLen {
		digest := blake2b.Sum256(raw)
		return digest[:], nil
	}
	return raw, nil
}
