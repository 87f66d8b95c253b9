package planner

import (
	"math"
	"testing"

	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/stretchr/testify/require"
)

// TestComputeFee asserts the fee computation, including amounts whose
// product with the fee rate exceeds 64 bits.
func TestComputeFee(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amt      lnwire.MilliSatoshi
		base     lnwire.MilliSatoshi
		rate     uint64
		expected lnwire.MilliSatoshi
		overflow bool
	}{
		{
			name: "no fee",
			amt:  1_000_000,
		},
		{
			name:     "base only",
			amt:      1_000_000,
			base:     1000,
			expected: 1000,
		},
		{
			name:     "rate only",
			amt:      1_000_000,
			rate:     250,
			expected: 250,
		},
		{
			name:     "rounded down",
			amt:      999_999,
			base:     1,
			rate:     1,
			expected: 1,
		},
		{
			name:     "wide product",
			amt:      math.MaxUint64,
			rate:     1,
			expected: 18_446_744_073_709,
		},
		{
			name:     "full rate",
			amt:      math.MaxUint64,
			rate:     1_000_000,
			expected: math.MaxUint64,
		},
		{
			name:     "full rate plus base",
			amt:      math.MaxUint64,
			base:     1,
			rate:     1_000_000,
			overflow: true,
		},
		{
			name:     "rate overflow",
			amt:      math.MaxUint64,
			rate:     2_000_000,
			overflow: true,
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			hop := &Hop{
				FeeBaseMSat:               test.base,
				FeeProportionalMillionths: test.rate,
			}

			fee, err := ComputeFee(test.amt, hop)
			if test.overflow {
				require.True(
					t, IsError(err, ErrArithmeticOverflow),
				)
				return
			}

			require.NoError(t, err)
			require.Equal(t, test.expected, fee)
		})
	}
}

// TestAddFee asserts that adding a fee to an amount fails instead of
// wrapping around.
func TestAddFee(t *testing.T) {
	t.Parallel()

	sum, err := AddFee(200_000_000, 21_000)
	require.NoError(t, err)
	require.EqualValues(t, 200_021_000, sum)

	sum, err = AddFee(math.MaxUint64-1, 1)
	require.NoError(t, err)
	require.EqualValues(t, uint64(math.MaxUint64), sum)

	_, err = AddFee(math.MaxUint64, 1)
	require.True(t, IsError(err, ErrArithmeticOverflow))
}
