package keys

import (
	"errors"
	"fmt"
	"strings"

	subkey "github.com/vedhavyas/go-subkey/v2"
	subecdsa "github.com/vedhavyas/go-subkey/v2/ecdsa"
	subed25519 "github.com/vedhavyas/go-subkey/v2/ed25519"
	subsr25519 "github.com/vedhavyas/go-subkey/v2/sr25519"
)

// ErrDerivation is wrapped by every key derivation failure: a malformed
// secret URI, an invalid seed or a password the scheme rejects.
var ErrDerivation = errors.New("key derivation failed")

// Scheme identifies one of the supported signature schemes.
type Scheme string

func (s Scheme) String() string {
	return string(s)
}

const (
	SchemeSr25519 Scheme = "sr25519"
	SchemeEd25519 Scheme = "ed25519"
	SchemeEcdsa   Scheme = "ecdsa"
)

// schemes is the closed set of supported schemes. Dispatching a scheme tag
// through this table resolves the concrete key-pair implementation chosen
// at run time from user input.
var schemes = map[Scheme]subkey.Scheme{
	SchemeSr25519: subsr25519.Scheme{},
	SchemeEd25519: subed25519.Scheme{},
	SchemeEcdsa:   subecdsa.Scheme{},
}

// SupportedSchemes returns the closed set of scheme tags.
func SupportedSchemes() []Scheme {
	return []Scheme{SchemeSr25519, SchemeEd25519, SchemeEcdsa}
}

// GetSupportedSchemesString returns the scheme tags for CLI help.
func GetSupportedSchemesString() string {
	tags := make([]string, 0, len(schemes))
	for _, s := range SupportedSchemes() {
		tags = append(tags, s.String())
	}
	return strings.Join(tags, ", ")
}

// ParseScheme validates a user-supplied scheme tag against the closed set.
func ParseScheme(s string) (Scheme, error) {
	scheme := Scheme(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schemes[scheme]; !ok {
		return "", fmt.Errorf("unsupported scheme %q. Supported: %s", s, GetSupportedSchemesString())
	}
	return scheme, nil
}

// KeyPair signs messages and exposes its public identity. Implementations
// own the private key material for the lifetime of the signing call only.
type KeyPair interface {
	// Scheme returns the scheme tag the pair was derived for.
	Scheme() Scheme
	// Sign signs the message with the private key.
	Sign(msg []byte) ([]byte, error)
	// Verify verifies a signature over msg against the public key.
	Verify(msg, sig []byte) bool
	// Public returns the raw public key bytes.
	Public() []byte
	// AccountID returns the chain-canonical 32-byte account identifier.
	AccountID() []byte
	// SS58Address renders the account id for the given network prefix.
	SS58Address(network uint16) string
}

type pair struct {
	scheme Scheme
	kp     subkey.KeyPair
}

func (p *pair) Scheme() Scheme                    { return p.scheme }
func (p *pair) Sign(msg []byte) ([]byte, error)   { return p.kp.Sign(msg) }
func (p *pair) Verify(msg, sig []byte) bool       { return p.kp.Verify(msg, sig) }
func (p *pair) Public() []byte                    { return p.kp.Public() }
func (p *pair) AccountID() []byte                 { return p.kp.AccountID() }
func (p *pair) SS58Address(network uint16) string { return p.kp.SS58Address(network) }

// Deriver derives a key pair from a secret URI.
type Deriver interface {
	Derive(scheme Scheme, suri string, password string) (KeyPair, error)
}

// SuriDeriver derives key pairs from standard secret URIs: a mnemonic
// phrase, a 0x-prefixed seed or a bare derivation path (resolved against
// the well-known development phrase), plus optional junctions.
type SuriDeriver struct{}

func (SuriDeriver) Derive(scheme Scheme, suri string, password string) (KeyPair, error) {
	sk, ok := schemes[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrDerivation, scheme)
	}
	kp, err := subkey.DeriveKeyPair(sk, applySuriPassword(suri, password))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDerivation, err)
	}
	return &pair{scheme: scheme, kp: kp}, nil
}

// applySuriPassword appends the keystore password as the URI's ///password
// segment. A password already present in the URI wins.
func applySuriPassword(suri, password string) string {
	if password == "" || strings.Contains(suri, "///") {
		return suri
	}
	return suri + "///" + password
}
