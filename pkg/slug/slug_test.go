package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Appliances", "acme-appliances"},
		{"Café Rouge", "cafe-rouge"},
		{"  Multi   Space  ", "multi-space"},
		{"Already-Slugged", "already-slugged"},
		{"Brand #1 (EU)", "brand-1-eu"},
		{"ÜberTech", "ubertech"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, From(tt.in), "From(%q)", tt.in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("acme-appliances"))
	assert.True(t, Valid("brand2"))
	assert.False(t, Valid("Acme"))
	assert.False(t, Valid("-leading"))
	assert.False(t, Valid("trailing-"))
	assert.False(t, Valid("double--hyphen"))
	assert.False(t, Valid(""))
}
