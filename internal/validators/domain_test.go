package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidMallID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"shop-a", true},
		{"abc", true},
		{"a1234567890123456789", true},
		{"ab", false},
		{"a12345678901234567890", false},
		{"Shop-A", false},
		{"shop_a", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidMallID(tt.id))
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare host", raw: "shop.example.com", want: "shop.example.com"},
		{name: "scheme and path", raw: "https://shop.example.com/checkout?x=1", want: "shop.example.com"},
		{name: "www stripped", raw: "http://www.Example.COM", want: "example.com"},
		{name: "port kept", raw: "localhost:3000", want: "localhost:3000"},
		{name: "scheme with port", raw: "https://www.shop.kr:8443/a", want: "shop.kr:8443"},
		{name: "userinfo dropped", raw: "https://user:pw@shop.kr", want: "shop.kr"},
		{name: "fragment", raw: "shop.kr#top", want: "shop.kr"},
		{name: "surrounding spaces", raw: "  shop.kr  ", want: "shop.kr"},
		{name: "empty", raw: "", wantErr: true},
		{name: "empty label", raw: "shop..kr", wantErr: true},
		{name: "invalid char", raw: "sh op.kr", wantErr: true},
		{name: "non numeric port", raw: "shop.kr:http", wantErr: true},
		{name: "only scheme", raw: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDomain(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidDomain)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDomains(t *testing.T) {
	t.Run("deduplicates after normalization", func(t *testing.T) {
		got, err := NormalizeDomains([]string{"https://shop.kr", "www.shop.kr", "m.shop.kr"})
		require.NoError(t, err)
		assert.Equal(t, []string{"shop.kr", "m.shop.kr"}, got)
	})

	t.Run("one bad entry fails the list", func(t *testing.T) {
		_, err := NormalizeDomains([]string{"shop.kr", "bad domain"})
		require.ErrorIs(t, err, ErrInvalidDomain)
	})
}
