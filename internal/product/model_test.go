package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	d, err := ParsePrice(" 199.90 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("199.9")))

	d, err = ParsePrice("5.000")
	require.NoError(t, err)
	assert.Equal(t, "5", d.String())

	for _, bad := range []string{"", "abc", "-1.00", "1.005"} {
		_, err := ParsePrice(bad)
		assert.ErrorIs(t, err, ErrInvalidPrice, bad)
	}
}

func TestQueryNormalize(t *testing.T) {
	q := Query{Q: "  mouse ", Limit: 500, Offset: -3}.Normalize()
	assert.Equal(t, Query{Q: "mouse", Limit: 20, Offset: 0}, q)

	q = Query{Limit: 10, Offset: 5}.Normalize()
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 5, q.Offset)
}
