package mcroute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccessPoint(t *testing.T) {
	tests := []struct {
		input    string
		host     string
		port     uint16
		protocol Protocol
		str      string
	}{
		{"cache1:11211", "cache1", 11211, ProtocolASCII, "cache1:11211:ascii"},
		{"cache1:11211:meta", "cache1", 11211, ProtocolMeta, "cache1:11211:meta"},
		{"10.0.0.1:5000:ascii", "10.0.0.1", 5000, ProtocolASCII, "10.0.0.1:5000:ascii"},
		{"[::1]:11211:meta", "::1", 11211, ProtocolMeta, "[::1]:11211:meta"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ap, err := ParseAccessPoint(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.host, ap.Host())
			assert.Equal(t, tt.port, ap.Port())
			assert.Equal(t, tt.protocol, ap.Protocol())
			assert.Equal(t, tt.str, ap.String())
		})
	}
}

func TestParseAccessPointInvalid(t *testing.T) {
	for _, input := range []string{"", "cache1", ":11211", "cache1:http", "cache1:70000", "cache1:11211:udp"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseAccessPoint(input)
			assert.ErrorIs(t, err, ErrInvalidAccessPoint)
		})
	}
}

func TestAccessPointHash(t *testing.T) {
	a := NewAccessPoint("cache1", 11211, ProtocolASCII)
	b, err := ParseAccessPoint("cache1:11211")
	require.NoError(t, err)

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), NewAccessPoint("cache1", 11211, ProtocolMeta).Hash())
	assert.NotEqual(t, a.Hash(), NewAccessPoint("cache2", 11211, ProtocolASCII).Hash())
}
