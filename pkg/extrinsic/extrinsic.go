// Package extrinsic assembles and signs extrinsics: the unsigned payload is
// built from the call and the provider's signed extensions, signed with a
// key pair derived for the selected scheme, and encoded to the wire form.
package extrinsic

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	"github.com/keysmith-labs/substrate-signer-go/pkg/chain"
)

// Transaction format version 4, with the signed bit set.
const signedExtrinsicVersion byte = 0x84

// SignedExtrinsic is an assembled, signed transaction: the signer's address,
// the signature, the signed extra and the call. Immutable once constructed;
// its only destiny is encoding to the wire.
type SignedExtrinsic struct {
	Address   chain.Address
	Signature chain.Signature
	Extra     chain.Encodable
	Call      chain.Call
}

// Encode produces the length-prefixed SCALE wire form.
func (e *SignedExtrinsic) Encode() ([]byte, error) {
	var body bytes.Buffer
	enc := scale.NewEncoder(&body)
	if err := enc.PushByte(signedExtrinsicVersion); err != nil {
		return nil, err
	}
	for _, part := range []chain.Encodable{e.Address, e.Signature, e.Extra, e.Call} {
		if err := part.Encode(enc); err != nil {
			return nil, fmt.Errorf("encode extrinsic: %w", err)
		}
	}

	var out bytes.Buffer
	outEnc := scale.NewEncoder(&out)
	if err := outEnc.EncodeUintCompact(*new(big.Int).SetInt64(int64(body.Len()))); err != nil {
		return nil, err
	}
	if err := outEnc.Write(body.Bytes()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodedExtrinsic is a signed v4 extrinsic split back into its parts,
// with the concrete types the default provider puts on the wire.
type DecodedExtrinsic struct {
	Address   chain.MultiAddress
	Signature chain.MultiSignature
	Extra     chain.SignedExtra
	Call      chain.OpaqueCall
}

// DecodeSigned splits an encoded signed extrinsic back into its parts.
func DecodeSigned(b []byte) (*DecodedExtrinsic, error) {
	r := bytes.NewReader(b)
	dec := scale.NewDecoder(r)

	length, err := dec.DecodeUintCompact()
	if err != nil {
		return nil, fmt.Errorf("%w: extrinsic length: %s", chain.ErrDecode, err)
	}
	if !length.IsUint64() || length.Uint64() != uint64(r.Len()) {
		return nil, fmt.Errorf("%w: extrinsic length %s does not match %d remaining bytes",
			chain.ErrDecode, length, r.Len())
	}

	version, err := dec.ReadOneByte()
	if err != nil {
		return nil, fmt.Errorf("%w: extrinsic version: %s", chain.ErrDecode, err)
	}
	if version != signedExtrinsicVersion {
		return nil, fmt.Errorf("%w: unsupported extrinsic version %#x", chain.ErrDecode, version)
	}

	var out DecodedExtrinsic
	if err := out.Address.Decode(dec); err != nil {
		return nil, fmt.Errorf("%w: address: %s", chain.ErrDecode, err)
	}
	if err := out.Signature.Decode(dec); err != nil {
		return nil, fmt.Errorf("%w: signature: %s", chain.ErrDecode, err)
	}
	if err := out.Extra.Decode(dec); err != nil {
		return nil, fmt.Errorf("%w: signed extra: %s", chain.ErrDecode, err)
	}

	// Whatever remains is the opaque call.
	call := make([]byte, r.Len())
	if len(call) > 0 {
		if err := dec.Read(call); err != nil {
			return nil, fmt.Errorf("%w: call: %s", chain.ErrDecode, err)
		}
	}
	out.Call = chain.OpaqueCall(call)
	return &out, nil
}
