package formatter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonlayer/internal/formatter"
	"github.com/mcncl/jsonlayer/internal/parser"
)

func TestIntegration_PrettyIsIdempotent(t *testing.T) {
	inputs := []string{
		`{"user":{"id":9007199254740993,"tags":["a","b"],"meta":"{\"k\":1}"},"empty":{},"list":[]}`,
		`[1.0, 2.50, -0, 1E3, 0.0000001]`,
		`"just text"`,
	}

	for _, in := range inputs {
		v, err := parser.ParseString(in)
		require.NoError(t, err)

		once, err := formatter.Pretty(v)
		require.NoError(t, err)

		again, err := parser.ParseString(once)
		require.NoError(t, err)
		twice, err := formatter.Pretty(again)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	}
}

func TestIntegration_NumberNormalisation(t *testing.T) {
	v, err := parser.ParseString(`[1.0, 2.50, -0, 1E3, 0.0000001, 12345678901234567890]`)
	require.NoError(t, err)

	got, err := formatter.Compact(v)
	require.NoError(t, err)
	assert.Equal(t, `[1,2.5,0,1000,1e-7,12345678901234567890]`, got)
}
