package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testEnum string

const (
	testEnumAlpha testEnum = "alpha"
	testEnumBeta  testEnum = "beta"
)

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(map[string]testEnum{
		"Alpha": testEnumAlpha,
		"beta":  testEnumBeta,
	}, testEnumAlpha)

	tests := []struct {
		name  string
		input string
		want  testEnum
		known bool
	}{
		{"exact match", "beta", testEnumBeta, true},
		{"case insensitive", "BETA", testEnumBeta, true},
		{"with spaces", "  alpha  ", testEnumAlpha, true},
		{"unknown falls back", "gamma", testEnumAlpha, false},
		{"empty falls back", "", testEnumAlpha, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
			_, ok := n.Lookup(tt.input)
			assert.Equal(t, tt.known, ok)
		})
	}

	assert.Equal(t, []string{"alpha", "beta"}, n.ValidKeys())
}
