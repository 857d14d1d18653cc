package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      []byte
		shouldErr bool
	}{
		{"prefixed", "0xdeadbeef", []byte{0xde, 0xad, 0xbe, 0xef}, false},
		{"unprefixed", "deadbeef", []byte{0xde, 0xad, 0xbe, 0xef}, false},
		{"uppercase prefix", "0XDEADBEEF", []byte{0xde, 0xad, 0xbe, 0xef}, false},
		{"empty payload", "0x", []byte{}, false},
		{"odd length", "0x123", nil, true},
		{"non-hex characters", "0xzz", nil, true},
		{"whitespace", "0xde ad", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHex(tt.input)
			if tt.shouldErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeHex_Canonical(t *testing.T) {
	require.Equal(t, "0x", EncodeHex(nil))
	require.Equal(t, "0xdeadbeef", EncodeHex([]byte{0xde, 0xad, 0xbe, 0xef}))
}
