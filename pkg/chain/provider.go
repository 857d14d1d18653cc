package chain

import (
	"errors"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	"github.com/keysmith-labs/substrate-signer-go/pkg/keys"
)

var (
	// ErrParse is wrapped when a numeric input is malformed.
	ErrParse = errors.New("parse failed")
	// ErrDecode is wrapped when hex or SCALE decoding fails.
	ErrDecode = errors.New("decode failed")
	// ErrProvider is wrapped when the provider cannot resolve extension
	// data or an account/address mapping. Always fatal, never retried.
	ErrProvider = errors.New("provider failed")
)

// Encodable is a value with a canonical SCALE wire form.
type Encodable interface {
	Encode(enc *scale.Encoder) error
}

// The chain's semantic types. Providers own the concrete representation
// behind each of these; the signing pipeline only ever encodes them.
type (
	// Index is the chain's account nonce type.
	Index interface{ Encodable }
	// Call is an opaque runtime call in its decoded form.
	Call interface{ Encodable }
	// Hash is the chain's block hash type.
	Hash interface{ Encodable }
	// Address is the chain's transaction address form.
	Address interface{ Encodable }
	// Signature is a raw signature wrapped in the chain's signature form.
	Signature interface{ Encodable }
)

// SignedExtensions carries the extension data covered by an extrinsic
// signature. Extra travels inside the extrinsic; Additional is signed
// but never transmitted.
type SignedExtensions struct {
	Extra      Encodable
	Additional Encodable
}

// Provider supplies a chain's semantic types and signed-extension data.
// It is the boundary between the generic signing pipeline and a concrete
// runtime: every value a provider returns must survive a codec round trip
// unchanged.
type Provider interface {
	// ParseIndex parses an account nonce from its decimal string form.
	ParseIndex(s string) (Index, error)
	// DecodeHash decodes a block hash from raw SCALE bytes.
	DecodeHash(b []byte) (Hash, error)
	// DecodeCall decodes an opaque runtime call from raw SCALE bytes.
	DecodeCall(b []byte) (Call, error)
	// AddressOf maps a canonical account id to the chain's address form.
	// The mapping is total for valid keys; failure means the provider is
	// misconfigured for the chain.
	AddressOf(accountID []byte) (Address, error)
	// SignatureOf wraps a raw signature in the chain's signature form.
	SignatureOf(scheme keys.Scheme, sig []byte) (Signature, error)
	// ExtensionsFor resolves the signed extensions anchored at the given
	// prior block hash.
	ExtensionsFor(checkpoint Hash, nonce Index) (*SignedExtensions, error)
}
