package extrinsic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keysmith-labs/substrate-signer-go/pkg/chain"
	"github.com/keysmith-labs/substrate-signer-go/pkg/config"
	"github.com/keysmith-labs/substrate-signer-go/pkg/keys"
)

func newTestProvider(t *testing.T) chain.Provider {
	t.Helper()
	cfg, err := config.NewChainConfig(config.Network_Substrate)
	require.NoError(t, err)
	cfg.SpecVersion = 100
	cfg.TransactionVersion = 1

	p, err := chain.NewSubstrateProvider(cfg, nil)
	require.NoError(t, err)
	return p
}

func buildFixture(t *testing.T, provider chain.Provider, callBytes []byte, nonce uint32) (chain.Call, chain.Index, chain.Hash) {
	t.Helper()
	call, err := provider.DecodeCall(callBytes)
	require.NoError(t, err)
	hash, err := provider.DecodeHash(make([]byte, 32))
	require.NoError(t, err)
	return call, chain.Nonce(nonce), hash
}

func TestBuildAndSign_RoundTrip(t *testing.T) {
	provider := newTestProvider(t)
	callBytes := []byte{0x00, 0x01, 0x02, 0x03}

	for _, scheme := range keys.SupportedSchemes() {
		t.Run(scheme.String(), func(t *testing.T) {
			call, nonce, hash := buildFixture(t, provider, callBytes, 7)
			builder := NewBuilder(nil, provider, nil)

			encoded, err := builder.BuildAndSign(scheme, "//Alice", "", call, nonce, hash)
			require.NoError(t, err)

			decoded, err := DecodeSigned(encoded)
			require.NoError(t, err)

			// The wire form carries back exactly what was signed.
			pair, err := keys.SuriDeriver{}.Derive(scheme, "//Alice", "")
			require.NoError(t, err)
			assert.Equal(t, pair.AccountID(), decoded.Address.AccountID[:])
			assert.Equal(t, chain.OpaqueCall(callBytes), decoded.Call)
			assert.Equal(t, chain.Nonce(7), decoded.Extra.Nonce)
			assert.False(t, decoded.Extra.Era.IsMortal)
			assert.Equal(t, scheme, decoded.Signature.Scheme)

			// The signature verifies over the reconstructed payload.
			ext, err := provider.ExtensionsFor(hash, nonce)
			require.NoError(t, err)
			payload, err := SigningPayload(call, ext)
			require.NoError(t, err)
			assert.True(t, pair.Verify(payload, decoded.Signature.Bytes))
		})
	}
}

func TestBuildAndSign_Deterministic(t *testing.T) {
	provider := newTestProvider(t)

	// sr25519 signing is randomized, so only the deterministic schemes can
	// promise byte-identical output across runs.
	for _, scheme := range []keys.Scheme{keys.SchemeEd25519, keys.SchemeEcdsa} {
		t.Run(scheme.String(), func(t *testing.T) {
			call, nonce, hash := buildFixture(t, provider, nil, 0)
			builder := NewBuilder(nil, provider, nil)

			first, err := builder.BuildAndSign(scheme, "//Alice", "", call, nonce, hash)
			require.NoError(t, err)
			second, err := builder.BuildAndSign(scheme, "//Alice", "", call, nonce, hash)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestBuildAndSign_Sr25519AlwaysVerifies(t *testing.T) {
	provider := newTestProvider(t)
	call, nonce, hash := buildFixture(t, provider, []byte{0x2a}, 3)
	builder := NewBuilder(nil, provider, nil)

	first, err := builder.BuildAndSign(keys.SchemeSr25519, "//Alice", "", call, nonce, hash)
	require.NoError(t, err)
	second, err := builder.BuildAndSign(keys.SchemeSr25519, "//Alice", "", call, nonce, hash)
	require.NoError(t, err)

	// Randomized nonce: the two signatures differ, both verify.
	assert.NotEqual(t, first, second)

	pair, err := keys.SuriDeriver{}.Derive(keys.SchemeSr25519, "//Alice", "")
	require.NoError(t, err)
	ext, err := provider.ExtensionsFor(hash, nonce)
	require.NoError(t, err)
	payload, err := SigningPayload(call, ext)
	require.NoError(t, err)

	for _, encoded := range [][]byte{first, second} {
		decoded, err := DecodeSigned(encoded)
		require.NoError(t, err)
		assert.True(t, pair.Verify(payload, decoded.Signature.Bytes))
	}
}

func TestBuildAndSign_InputSensitivity(t *testing.T) {
	provider := newTestProvider(t)
	builder := NewBuilder(nil, provider, nil)

	sigOf := func(callBytes []byte, nonce uint32, hashByte byte) []byte {
		call, err := provider.DecodeCall(callBytes)
		require.NoError(t, err)
		raw := make([]byte, 32)
		raw[0] = hashByte
		hash, err := provider.DecodeHash(raw)
		require.NoError(t, err)

		encoded, err := builder.BuildAndSign(keys.SchemeEd25519, "//Alice", "", call, chain.Nonce(nonce), hash)
		require.NoError(t, err)
		decoded, err := DecodeSigned(encoded)
		require.NoError(t, err)
		return decoded.Signature.Bytes
	}

	base := sigOf([]byte{0x01, 0x02}, 1, 0x00)
	assert.NotEqual(t, base, sigOf([]byte{0x01, 0x03}, 1, 0x00), "call byte flip")
	assert.NotEqual(t, base, sigOf([]byte{0x01, 0x02}, 2, 0x00), "nonce bump")
	assert.NotEqual(t, base, sigOf([]byte{0x01, 0x02}, 1, 0xff), "hash byte flip")
}

func TestBuildAndSign_LargePayloadSignsDigest(t *testing.T) {
	provider := newTestProvider(t)
	bigCall := bytes.Repeat([]byte{0xab}, 512)
	call, nonce, hash := buildFixture(t, provider, bigCall, 1)

	ext, err := provider.ExtensionsFor(hash, nonce)
	require.NoError(t, err)
	payload, err := SigningPayload(call, ext)
	require.NoError(t, err)
	assert.Len(t, payload, 32, "oversized payloads are signed through their digest")

	builder := NewBuilder(nil, provider, nil)
	encoded, err := builder.BuildAndSign(keys.SchemeEd25519, "//Alice", "", call, nonce, hash)
	require.NoError(t, err)

	decoded, err := DecodeSigned(encoded)
	require.NoError(t, err)
	assert.Equal(t, chain.OpaqueCall(bigCall), decoded.Call)

	pair, err := keys.SuriDeriver{}.Derive(keys.SchemeEd25519, "//Alice", "")
	require.NoError(t, err)
	assert.True(t, pair.Verify(payload, decoded.Signature.Bytes))
}

func TestBuildAndSign_BadSuri(t *testing.T) {
	provider := newTestProvider(t)
	call, nonce, hash := buildFixture(t, provider, nil, 0)
	builder := NewBuilder(nil, provider, nil)

	_, err := builder.BuildAndSign(keys.SchemeSr25519, "0x123", "", call, nonce, hash)
	require.Error(t, err)
	assert.ErrorIs(t, err, keys.ErrDerivation)
}

func TestDecodeSigned_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"length mismatch", []byte{0x20, 0x84}},
		{"unsigned version", []byte{0x04, 0x04}},
		{"bad address variant", []byte{0x08, 0x84, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSigned(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, chain.ErrDecode)
		})
	}
}
