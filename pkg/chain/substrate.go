package chain

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/keysmith-labs/substrate-signer-go/pkg/config"
	"github.com/keysmith-labs/substrate-signer-go/pkg/keys"
	"github.com/keysmith-labs/substrate-signer-go/pkg/util"
)

// H256 is a 32-byte block hash.
type H256 [32]byte

func (h H256) Encode(enc *scale.Encoder) error {
	return enc.Write(h[:])
}

func (h *H256) Decode(dec *scale.Decoder) error {
	return dec.Read(h[:])
}

// Hex returns the canonical 0x hex form.
func (h H256) Hex() string {
	return hexutil.Encode(h[:])
}

// OpaqueCall is a SCALE-encoded runtime call kept in its wire form. The
// signer never interprets it; it round-trips through the codec byte for
// byte.
type OpaqueCall []byte

func (c OpaqueCall) Encode(enc *scale.Encoder) error {
	return enc.Write(c)
}

// Nonce is a u32 account index, compact-encoded inside the signed extra.
type Nonce uint32

func (n Nonce) Encode(enc *scale.Encoder) error {
	return enc.EncodeUintCompact(*new(big.Int).SetUint64(uint64(n)))
}

// MultiAddress is the Id variant of the runtime's address enum.
type MultiAddress struct {
	AccountID [32]byte
}

const multiAddressIDTag byte = 0x00

func (a MultiAddress) Encode(enc *scale.Encoder) error {
	if err := enc.PushByte(multiAddressIDTag); err != nil {
		return err
	}
	return enc.Write(a.AccountID[:])
}

// MultiSignature tags a raw signature with its scheme.
type MultiSignature struct {
	Scheme keys.Scheme
	Bytes  []byte
}

func (s MultiSignature) Encode(enc *scale.Encoder) error {
	tag, err := multiSignatureTag(s.Scheme)
	if err != nil {
		return err
	}
	if err := enc.PushByte(tag); err != nil {
		return err
	}
	return enc.Write(s.Bytes)
}

// MultiSignature variant order is fixed by the runtime.
func multiSignatureTag(scheme keys.Scheme) (byte, error) {
	switch scheme {
	case keys.SchemeEd25519:
		return 0, nil
	case keys.SchemeSr25519:
		return 1, nil
	case keys.SchemeEcdsa:
		return 2, nil
	default:
		return 0, fmt.Errorf("%w: no signature variant for scheme %q", ErrProvider, scheme)
	}
}

func schemeForTag(tag byte) (keys.Scheme, error) {
	switch tag {
	case 0:
		return keys.SchemeEd25519, nil
	case 1:
		return keys.SchemeSr25519, nil
	case 2:
		return keys.SchemeEcdsa, nil
	default:
		return "", fmt.Errorf("%w: unknown signature variant %#x", ErrDecode, tag)
	}
}

func signatureLen(scheme keys.Scheme) int {
	if scheme == keys.SchemeEcdsa {
		return 65 // recoverable
	}
	return 64
}

// SignedExtra is the extension set carried inside the extrinsic and covered
// by the signature.
type SignedExtra struct {
	Era   Era
	Nonce Nonce
	Tip   uint64
}

func (e SignedExtra) Encode(enc *scale.Encoder) error {
	if err := e.Era.Encode(enc); err != nil {
		return err
	}
	if err := e.Nonce.Encode(enc); err != nil {
		return err
	}
	return enc.EncodeUintCompact(*new(big.Int).SetUint64(e.Tip))
}

// AdditionalSigned is covered by the signature but never transmitted; both
// sides reconstruct it from chain state.
type AdditionalSigned struct {
	SpecVersion        uint32
	TransactionVersion uint32
	GenesisHash        H256
	CheckpointHash     H256
}

func (a AdditionalSigned) Encode(enc *scale.Encoder) error {
	if err := enc.Encode(a.SpecVersion); err != nil {
		return err
	}
	if err := enc.Encode(a.TransactionVersion); err != nil {
		return err
	}
	if err := a.GenesisHash.Encode(enc); err != nil {
		return err
	}
	return a.CheckpointHash.Encode(enc)
}

// SubstrateProvider implements Provider for FRAME-based runtimes with the
// standard signed-extension set (era, nonce, tip + spec/transaction version
// and genesis hash).
type SubstrateProvider struct {
	cfg     config.ChainConfig
	genesis *H256 // pinned genesis, nil when the era checkpoint doubles as it
	logger  *zap.Logger
}

// NewSubstrateProvider validates cfg and returns a provider for it.
func NewSubstrateProvider(cfg config.ChainConfig, logger *zap.Logger) (*SubstrateProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid chain config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &SubstrateProvider{cfg: cfg, logger: logger}
	if cfg.GenesisHash != "" {
		raw, err := util.DecodeHex(cfg.GenesisHash)
		if err != nil {
			return nil, errors.Wrap(err, "genesis hash")
		}
		var h H256
		copy(h[:], raw)
		p.genesis = &h
	}
	return p, nil
}

func (p *SubstrateProvider) ParseIndex(s string) (Index, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce %q is not a decimal u32", ErrParse, s)
	}
	return Nonce(v), nil
}

func (p *SubstrateProvider) DecodeHash(b []byte) (Hash, error) {
	r := bytes.NewReader(b)
	var h H256
	if err := h.Decode(scale.NewDecoder(r)); err != nil {
		return nil, fmt.Errorf("%w: block hash: %s", ErrDecode, err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: block hash has %d trailing bytes", ErrDecode, r.Len())
	}
	return h, nil
}

func (p *SubstrateProvider) DecodeCall(b []byte) (Call, error) {
	// Calls are opaque to the signer; decoding only takes ownership of the
	// wire bytes. An empty call is legal.
	return OpaqueCall(append([]byte(nil), b...)), nil
}

func (p *SubstrateProvider) AddressOf(accountID []byte) (Address, error) {
	var addr MultiAddress
	if len(accountID) != len(addr.AccountID) {
		return nil, fmt.Errorf("%w: account id must be %d bytes, got %d",
			ErrProvider, len(addr.AccountID), len(accountID))
	}
	copy(addr.AccountID[:], accountID)
	p.logger.Debug("resolved signer address",
		zap.String("accountId", hexutil.Encode(accountID)),
		zap.String("network", p.cfg.Network.String()),
	)
	return addr, nil
}

func (p *SubstrateProvider) SignatureOf(scheme keys.Scheme, sig []byte) (Signature, error) {
	if _, err := multiSignatureTag(scheme); err != nil {
		return nil, err
	}
	if len(sig) != signatureLen(scheme) {
		return nil, fmt.Errorf("%w: %s signature must be %d bytes, got %d",
			ErrProvider, scheme, signatureLen(scheme), len(sig))
	}
	return MultiSignature{Scheme: scheme, Bytes: sig}, nil
}

func (p *SubstrateProvider) ExtensionsFor(checkpoint Hash, nonce Index) (*SignedExtensions, error) {
	h, ok := checkpoint.(H256)
	if !ok {
		return nil, fmt.Errorf("%w: foreign hash type %T", ErrProvider, checkpoint)
	}
	n, ok := nonce.(Nonce)
	if !ok {
		return nil, fmt.Errorf("%w: foreign nonce type %T", ErrProvider, nonce)
	}

	era := ImmortalEra()
	if p.cfg.EraPeriod > 0 {
		era = NewMortalEra(p.cfg.EraPeriod, p.cfg.CurrentBlock)
	}

	// With no pinned genesis the prior block hash doubles as it, which is
	// exactly right for immortal transactions anchored at genesis.
	genesis := h
	if p.genesis != nil {
		genesis = *p.genesis
	}

	p.logger.Debug("resolved signed extensions",
		zap.Bool("mortal", era.IsMortal),
		zap.Uint32("nonce", uint32(n)),
		zap.Uint64("tip", p.cfg.Tip),
		zap.String("genesisHash", genesis.Hex()),
		zap.String("checkpointHash", h.Hex()),
	)

	return &SignedExtensions{
		Extra: SignedExtra{Era: era, Nonce: n, Tip: p.cfg.Tip},
		Additional: AdditionalSigned{
			SpecVersion:        p.cfg.SpecVersion,
			TransactionVersion: p.cfg.TransactionVersion,
			GenesisHash:        genesis,
			CheckpointHash:     h,
		},
	}, nil
}
