package chain

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Decode reads the Id variant back from the address enum. Other variants
// are never produced by this signer and are rejected.
func (a *MultiAddress) Decode(dec *scale.Decoder) error {
	tag, err := dec.ReadOneByte()
	if err != nil {
		return err
	}
	if tag != multiAddressIDTag {
		return fmt.Errorf("%w: unsupported address variant %#x", ErrDecode, tag)
	}
	return dec.Read(a.AccountID[:])
}

func (s *MultiSignature) Decode(dec *scale.Decoder) error {
	tag, err := dec.ReadOneByte()
	if err != nil {
		return err
	}
	scheme, err := schemeForTag(tag)
	if err != nil {
		return err
	}
	sig := make([]byte, signatureLen(scheme))
	if err := dec.Read(sig); err != nil {
		return err
	}
	s.Scheme = scheme
	s.Bytes = sig
	return nil
}

func (e *SignedExtra) Decode(dec *scale.Decoder) error {
	if err := e.Era.Decode(dec); err != nil {
		return err
	}
	nonce, err := dec.DecodeUintCompact()
	if err != nil {
		return err
	}
	if !nonce.IsUint64() || nonce.Uint64() > 0xffffffff {
		return fmt.Errorf("%w: nonce %s overflows u32", ErrDecode, nonce)
	}
	e.Nonce = Nonce(nonce.Uint64())
	tip, err := dec.DecodeUintCompact()
	if err != nil {
		return err
	}
	if !tip.IsUint64() {
		return fmt.Errorf("%w: tip %s overflows u64", ErrDecode, tip)
	}
	e.Tip = tip.Uint64()
	return nil
}
