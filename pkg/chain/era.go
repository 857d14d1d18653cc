package chain

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Era bounds the validity of an extrinsic to a window of blocks. The zero
// value is the immortal era.
type Era struct {
	IsMortal bool
	Period   uint64
	Phase    uint64
}

// ImmortalEra returns an era valid forever, anchored at the genesis hash.
func ImmortalEra() Era {
	return Era{}
}

// NewMortalEra returns an era covering period blocks around the current
// block height. The period is rounded up to a power of two and clamped to
// [4, 65536]; the phase is quantized the same way the runtime quantizes it
// so both sides agree on the wire form.
func NewMortalEra(period, current uint64) Era {
	period = nextPowerOfTwo(period)
	if period < 4 {
		period = 4
	}
	if period > 1<<16 {
		period = 1 << 16
	}
	phase := current % period
	quantizeFactor := quantizeFactorOf(period)
	phase = phase / quantizeFactor * quantizeFactor
	return Era{IsMortal: true, Period: period, Phase: phase}
}

// Encode writes the era: one zero byte when immortal, otherwise the packed
// two-byte mortal form (low 4 bits period exponent, high 12 bits quantized
// phase).
func (e Era) Encode(enc *scale.Encoder) error {
	if !e.IsMortal {
		return enc.PushByte(0)
	}
	exponent := bits.TrailingZeros64(e.Period) - 1
	if exponent < 1 {
		exponent = 1
	}
	if exponent > 15 {
		exponent = 15
	}
	encoded := uint16(exponent) | uint16(e.Phase/quantizeFactorOf(e.Period))<<4
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], encoded)
	return enc.Write(buf[:])
}

// Decode reads the era back from its wire form.
func (e *Era) Decode(dec *scale.Decoder) error {
	first, err := dec.ReadOneByte()
	if err != nil {
		return err
	}
	if first == 0 {
		*e = Era{}
		return nil
	}
	second, err := dec.ReadOneByte()
	if err != nil {
		return err
	}
	encoded := uint16(first) | uint16(second)<<8
	period := uint64(2) << (encoded & 0x0f)
	phase := uint64(encoded>>4) * quantizeFactorOf(period)
	if period < 4 || phase >= period {
		return fmt.Errorf("%w: invalid mortal era (period=%d phase=%d)", ErrDecode, period, phase)
	}
	*e = Era{IsMortal: true, Period: period, Phase: phase}
	return nil
}

func quantizeFactorOf(period uint64) uint64 {
	if factor := period >> 12; factor > 1 {
		return factor
	}
	return 1
}

func nextPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	if bits.OnesCount64(v) == 1 {
		return v
	}
	if bits.Len64(v) == 64 {
		// The next power of two overflows; saturate to the maximum period.
		return 1 << 16
	}
	return 1 << bits.Len64(v)
}
