package util

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DecodeHex decodes a hex string into bytes. The 0x prefix is optional;
// odd-length strings and non-hex characters are rejected.
func DecodeHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

// EncodeHex returns the canonical 0x-prefixed lowercase hex form of b.
func EncodeHex(b []byte) string {
	return hexutil.Encode(b)
}
