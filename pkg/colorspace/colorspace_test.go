package colorspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	r, g, b, err := ParseHex("#00C853")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x00), r)
	assert.Equal(t, uint8(0xC8), g)
	assert.Equal(t, uint8(0x53), b)

	// Prefix is optional
	r, g, b, err = ParseHex("ffffff")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(255), g)
	assert.Equal(t, uint8(255), b)

	_, _, _, err = ParseHex("#fff")
	assert.Error(t, err)

	_, _, _, err = ParseHex("#zzzzzz")
	assert.Error(t, err)
}

func TestRGBToHSL(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want HSL
	}{
		{"black", "#000000", HSL{0, 0, 0}},
		{"white", "#FFFFFF", HSL{0, 0, 100}},
		{"red", "#FF0000", HSL{0, 100, 50}},
		{"green", "#00FF00", HSL{120, 100, 50}},
		{"blue", "#0000FF", HSL{240, 100, 50}},
		{"gray", "#808080", HSL{0, 0, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexToHSL(tt.hex)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexToHSLBrandGreen(t *testing.T) {
	// The stock console accent color. Components may land one off the
	// nominal values depending on rounding.
	got, err := HexToHSL("#00C853")
	require.NoError(t, err)

	assert.InDelta(t, 146, got.H, 1)
	assert.InDelta(t, 100, got.S, 1)
	assert.InDelta(t, 39, got.L, 1)
}

func TestRGBToHSLPure(t *testing.T) {
	// Same input, same output, no hidden state
	a := RGBToHSL(0x00, 0xC8, 0x53)
	b := RGBToHSL(0x00, 0xC8, 0x53)
	assert.Equal(t, a, b)
}

func TestHSLString(t *testing.T) {
	assert.Equal(t, "145 100% 39%", HSL{145, 100, 39}.String())
}
